package main

import (
	"fmt"
	"os"

	"github.com/jhunt/go-cli"
	"github.com/sirupsen/logrus"

	"github.com/hnrobert/userkit/internal/config"
	"github.com/hnrobert/userkit/internal/sysid"
	"github.com/hnrobert/userkit/internal/userdb"
)

const helpHint = "Try 'id --help' for more information."

const manPage = `
NAME
    id - display user identity

SYNOPSIS
    id
    id -g [-nr]
    id -u [-nr]
    id [ -h | --help ]

DESCRIPTION
    The id utility displays the user and group names and numeric IDs, of
    the calling process, to the standard output.

OPTIONS
    -G
        Display the different group IDs (effective and real) as
        white-space separated numbers, in no particular order.

    -g
        Display the effective group ID as a number.

    -n
        Display the name of the user or group ID for the -g and -u
        options instead of the number.

    -u
        Display the effective user ID as a number.

    -a
        Ignored for compatibility with other id implementations.

    -r
        Display the real ID for the -g and -u options instead of the
        effective ID.

    -h
    --help
        Display this help and exit.

EXIT STATUS
    The id utility exits 0 on success, and >0 if an error occurs.
`

type options struct {
	Help      bool `cli:"-h, --help"`
	AllGroups bool `cli:"-G"`
	Group     bool `cli:"-g"`
	User      bool `cli:"-u"`
	Names     bool `cli:"-n"`
	Real      bool `cli:"-r"`
	Compat    bool `cli:"-a"`
}

func main() {
	var opts options
	if _, _, err := cli.ParseArgs(&opts, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "id: %s\n%s\n", err, helpHint)
		os.Exit(1)
	}
	if opts.Help {
		fmt.Print(manPage)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("id: %s", err)
	}
	store := userdb.NewStore(cfg.Path(cfg.PasswdFile), cfg.Path(cfg.GroupFile), newLogger())

	if opts.AllGroups {
		if opts.Group || opts.User {
			fatal("id: -G option must be used without others\n%s", helpHint)
		}
		fmt.Printf("%d %d\n", sysid.EGID(), sysid.GID())
		return
	}
	if opts.User && opts.Group {
		fatal("id: specify either -u or -g but not both\n%s", helpHint)
	}
	if opts.Names && !opts.User && !opts.Group {
		fatal("id: the -n option must be used with either -u or -g")
	}
	if opts.Real && !opts.User && !opts.Group {
		fatal("id: the -r option must be used with either -u or -g")
	}

	switch {
	case opts.User:
		uid := sysid.EUID()
		if opts.Real {
			uid = sysid.UID()
		}
		if opts.Names {
			user, ok, err := store.UserByID(uid)
			if err != nil {
				fatal("id: %s", err)
			}
			if !ok {
				fatal("id: no user found for uid: %d", uid)
			}
			fmt.Println(user.Name)
			return
		}
		fmt.Println(uid)

	case opts.Group:
		gid := sysid.EGID()
		if opts.Real {
			gid = sysid.GID()
		}
		if opts.Names {
			group, ok, err := store.GroupByID(gid)
			if err != nil {
				fatal("id: %s", err)
			}
			if !ok {
				fatal("id: no group found for gid: %d", gid)
			}
			fmt.Println(group.Name)
			return
		}
		fmt.Println(gid)

	default:
		euid, egid := sysid.EUID(), sysid.EGID()
		user, ok, err := store.UserByID(euid)
		if err != nil {
			fatal("id: %s", err)
		}
		if !ok {
			fatal("id: no user found for uid: %d", euid)
		}
		group, ok, err := store.GroupByID(egid)
		if err != nil {
			fatal("id: %s", err)
		}
		if !ok {
			fatal("id: no group found for gid: %d", egid)
		}
		fmt.Printf("uid=%d(%s) gid=%d(%s)\n", euid, user.Name, egid, group.Name)
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if os.Getenv("USERKIT_DEBUG") == "1" {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
