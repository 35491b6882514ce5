package userdb

import (
	"fmt"
	"strings"
)

// User is one parsed line of the user database. An empty Hash marks an
// account with no password requirement; callers must treat it as
// authenticated without ever invoking a verifier on it.
type User struct {
	Name  string
	Hash  string
	UID   uint32
	GID   uint32
	Gecos string
	Home  string
	Shell string
}

// Passwordless reports whether the account carries no stored hash.
func (u User) Passwordless() bool {
	return u.Hash == ""
}

// String re-serializes the record to its on-disk line (no trailing newline).
func (u User) String() string {
	return fmt.Sprintf("%s;%s;%d;%d;%s;%s;%s", u.Name, u.Hash, u.UID, u.GID, u.Gecos, u.Home, u.Shell)
}

// Group is one parsed line of the group database. Members holds the raw
// comma-joined supplementary member list exactly as stored.
type Group struct {
	Name    string
	GID     uint32
	Members string
}

// HasMember reports whether name is one of the group's supplementary
// members. The test is exact equality against one comma-split token.
func (g Group) HasMember(name string) bool {
	if name == "" {
		return false
	}
	for _, m := range strings.Split(g.Members, ",") {
		if m == name {
			return true
		}
	}
	return false
}

// String re-serializes the record to its on-disk line (no trailing newline).
func (g Group) String() string {
	return fmt.Sprintf("%s;%d;%s", g.Name, g.GID, g.Members)
}
