package main

import (
	"fmt"
	"os"

	"github.com/jhunt/go-cli"
	"github.com/sirupsen/logrus"

	"github.com/hnrobert/userkit/internal/auth"
	"github.com/hnrobert/userkit/internal/config"
	"github.com/hnrobert/userkit/internal/launch"
	"github.com/hnrobert/userkit/internal/prompt"
	"github.com/hnrobert/userkit/internal/sysid"
	"github.com/hnrobert/userkit/internal/userdb"
)

const manPage = `
NAME
    su - substitute user identity

SYNOPSIS
    su [ user ]
    su [ -h | --help ]

DESCRIPTION
    The su utility requests the target user's password and switches to
    that user ID (the default user is the superuser). A shell is then
    executed. The superuser may assume any identity without a password.

OPTIONS

    -h
    --help
        Display this help and exit.
`

type options struct {
	Help bool `cli:"-h, --help"`
}

func main() {
	var opts options
	_, args, err := cli.ParseArgs(&opts, os.Args[1:])
	if err != nil {
		fatal("su: %s", err)
	}
	if opts.Help {
		fmt.Print(manPage)
		return
	}

	target := "root"
	if len(args) > 0 {
		target = args[0]
	}

	log := newLogger()
	cfg, err := config.Load()
	if err != nil {
		fatal("su: %s", err)
	}
	store := userdb.NewStore(cfg.Path(cfg.PasswdFile), cfg.Path(cfg.GroupFile), log)

	user, ok, err := store.UserByName(target)
	if err != nil {
		fatal("su: %s", err)
	}
	if !ok {
		fatal("su: user %s not found", target)
	}

	decision := auth.Decide(auth.Request{
		Target:             user,
		CallerUID:          sysid.UID(),
		SuperuserMayAssume: true,
	})
	if decision == auth.RequiresSecret {
		flow := auth.Flow{
			Source:      prompt.New(),
			Prompt:      "password: ",
			MaxAttempts: 1,
		}
		outcome, err := flow.Run(user)
		if err != nil {
			fatal("su: %s", err)
		}
		if outcome != auth.Accepted {
			if outcome == auth.Denied {
				fmt.Fprintln(os.Stderr, "su: authentication failed")
			}
			os.Exit(1)
		}
	}

	code, err := launch.ExecLauncher{}.Run(launch.ShellContext(user))
	if err != nil {
		fatal("su: %s", err)
	}
	os.Exit(code)
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
