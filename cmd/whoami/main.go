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

const manPage = `
NAME
    whoami - print effective user name

SYNOPSIS
    whoami
    whoami [ -h | --help ]

DESCRIPTION
    The whoami utility prints the user name associated with the current
    effective user ID.

OPTIONS

    -h
    --help
        Display this help and exit.

EXIT STATUS
    The whoami utility exits 0 on success, and >0 if an error occurs.
`

type options struct {
	Help bool `cli:"-h, --help"`
}

func main() {
	var opts options
	if _, _, err := cli.ParseArgs(&opts, os.Args[1:]); err != nil {
		fatal("whoami: %s", err)
	}
	if opts.Help {
		fmt.Print(manPage)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("whoami: %s", err)
	}
	store := userdb.NewStore(cfg.Path(cfg.PasswdFile), cfg.Path(cfg.GroupFile), newLogger())

	euid := sysid.EUID()
	user, ok, err := store.UserByID(euid)
	if err != nil {
		fatal("whoami: %s", err)
	}
	if !ok {
		fatal("whoami: no user found for uid: %d", euid)
	}
	fmt.Println(user.Name)
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
