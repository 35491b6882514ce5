package userdb

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedRecord marks a single database line that cannot be parsed.
var ErrMalformedRecord = errors.New("malformed record")

const (
	fieldSep    = ";"
	userFields  = 7
	groupFields = 3
)

// ParseUser parses one line of the user database. The line must split
// into exactly seven fields; uid and gid must be unsigned 32-bit
// integers. Anything else is ErrMalformedRecord.
func ParseUser(line string) (User, error) {
	parts := strings.Split(line, fieldSep)
	if len(parts) != userFields {
		return User{}, fmt.Errorf("%w: user line has %d fields, want %d", ErrMalformedRecord, len(parts), userFields)
	}
	uid, err := parseID(parts[2], "uid")
	if err != nil {
		return User{}, err
	}
	gid, err := parseID(parts[3], "gid")
	if err != nil {
		return User{}, err
	}
	return User{
		Name:  parts[0],
		Hash:  parts[1],
		UID:   uid,
		GID:   gid,
		Gecos: parts[4],
		Home:  parts[5],
		Shell: parts[6],
	}, nil
}

// ParseGroup parses one line of the group database: exactly three
// fields, gid numeric.
func ParseGroup(line string) (Group, error) {
	parts := strings.Split(line, fieldSep)
	if len(parts) != groupFields {
		return Group{}, fmt.Errorf("%w: group line has %d fields, want %d", ErrMalformedRecord, len(parts), groupFields)
	}
	gid, err := parseID(parts[1], "gid")
	if err != nil {
		return Group{}, err
	}
	return Group{Name: parts[0], GID: gid, Members: parts[2]}, nil
}

func parseID(field, what string) (uint32, error) {
	n, err := strconv.ParseUint(field, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s %q", ErrMalformedRecord, what, field)
	}
	return uint32(n), nil
}

// ParseUsers parses a whole user database snapshot. Each line parses
// independently; lines that fail are dropped and counted, so one corrupt
// record never hides the rest of the file. Callers must not expect a
// malformed line to surface an error.
func ParseUsers(data string) (users []User, skipped int) {
	for _, line := range splitLines(data) {
		u, err := ParseUser(line)
		if err != nil {
			skipped++
			continue
		}
		users = append(users, u)
	}
	return users, skipped
}

// ParseGroups is ParseUsers for the group database.
func ParseGroups(data string) (groups []Group, skipped int) {
	for _, line := range splitLines(data) {
		g, err := ParseGroup(line)
		if err != nil {
			skipped++
			continue
		}
		groups = append(groups, g)
	}
	return groups, skipped
}

// splitLines yields the non-empty lines of a snapshot. Blank lines are
// not records and not worth counting as skips.
func splitLines(data string) []string {
	s := bufio.NewScanner(strings.NewReader(data))
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for s.Scan() {
		if s.Text() == "" {
			continue
		}
		lines = append(lines, s.Text())
	}
	return lines
}
