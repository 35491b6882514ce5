// Package sysid reports the calling process's own identity. It wraps
// the uid/gid system calls so the binaries share one place that does
// the int-to-uint32 conversion.
package sysid

import "golang.org/x/sys/unix"

// UID returns the real user id of the calling process.
func UID() uint32 { return uint32(unix.Getuid()) }

// EUID returns the effective user id of the calling process.
func EUID() uint32 { return uint32(unix.Geteuid()) }

// GID returns the real group id of the calling process.
func GID() uint32 { return uint32(unix.Getgid()) }

// EGID returns the effective group id of the calling process.
func EGID() uint32 { return uint32(unix.Getegid()) }
