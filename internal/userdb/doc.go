// Package userdb reads the ;-separated user and group databases.
//
// Layout (one record per line):
//
//	passwd: name;hash;uid;gid;gecos;home;shell
//	group:  name;gid;members   (members comma-joined)
//
// The store is read-only and uncached: every lookup re-reads its backing
// file, so records are never stale and there is nothing to invalidate.
// Lines that do not parse are skipped, not fatal; a file that cannot be
// read at all is.
package userdb
