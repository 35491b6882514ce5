package userdb

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Store answers identity lookups against the backing database files.
// It keeps no cache: every query re-reads and re-parses its file, so a
// returned record always reflects the file as it was at that moment.
//
// A lookup distinguishes three results: (record, true, nil) for a hit,
// (zero, false, nil) for a well-formed absence, and (zero, false, err)
// when the backing file itself cannot be read.
type Store struct {
	PasswdPath string
	GroupPath  string
	Log        *logrus.Logger
}

// NewStore returns a Store over the given database files. A nil logger
// discards the skipped-line debug output.
func NewStore(passwdPath, groupPath string, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.WarnLevel)
	}
	return &Store{PasswdPath: passwdPath, GroupPath: groupPath, Log: log}
}

// Users loads and parses the whole user database.
func (s *Store) Users() ([]User, error) {
	b, err := os.ReadFile(s.PasswdPath)
	if err != nil {
		return nil, fmt.Errorf("user database %s: %w", s.PasswdPath, err)
	}
	users, skipped := ParseUsers(string(b))
	if skipped > 0 && s.Log != nil {
		s.Log.WithFields(logrus.Fields{"file": s.PasswdPath, "skipped": skipped}).
			Debug("skipped malformed user records")
	}
	return users, nil
}

// Groups loads and parses the whole group database.
func (s *Store) Groups() ([]Group, error) {
	b, err := os.ReadFile(s.GroupPath)
	if err != nil {
		return nil, fmt.Errorf("group database %s: %w", s.GroupPath, err)
	}
	groups, skipped := ParseGroups(string(b))
	if skipped > 0 && s.Log != nil {
		s.Log.WithFields(logrus.Fields{"file": s.GroupPath, "skipped": skipped}).
			Debug("skipped malformed group records")
	}
	return groups, nil
}

// UserByName returns the first record whose Name matches, in file order.
func (s *Store) UserByName(name string) (User, bool, error) {
	users, err := s.Users()
	if err != nil {
		return User{}, false, err
	}
	for _, u := range users {
		if u.Name == name {
			return u, true, nil
		}
	}
	return User{}, false, nil
}

// UserByID returns the first record whose UID matches, in file order.
func (s *Store) UserByID(uid uint32) (User, bool, error) {
	users, err := s.Users()
	if err != nil {
		return User{}, false, err
	}
	for _, u := range users {
		if u.UID == uid {
			return u, true, nil
		}
	}
	return User{}, false, nil
}

// GroupByName returns the first record whose Name matches, in file order.
func (s *Store) GroupByName(name string) (Group, bool, error) {
	groups, err := s.Groups()
	if err != nil {
		return Group{}, false, err
	}
	for _, g := range groups {
		if g.Name == name {
			return g, true, nil
		}
	}
	return Group{}, false, nil
}

// GroupByID returns the first record whose GID matches, in file order.
func (s *Store) GroupByID(gid uint32) (Group, bool, error) {
	groups, err := s.Groups()
	if err != nil {
		return Group{}, false, err
	}
	for _, g := range groups {
		if g.GID == gid {
			return g, true, nil
		}
	}
	return Group{}, false, nil
}
