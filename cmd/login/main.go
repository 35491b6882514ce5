package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jhunt/go-cli"
	"github.com/sirupsen/logrus"

	"github.com/hnrobert/userkit/internal/auth"
	"github.com/hnrobert/userkit/internal/banner"
	"github.com/hnrobert/userkit/internal/config"
	"github.com/hnrobert/userkit/internal/launch"
	"github.com/hnrobert/userkit/internal/prompt"
	"github.com/hnrobert/userkit/internal/userdb"
)

const manPage = `
NAME
    login - log into the computer

SYNOPSIS
    login
    login [ -h | --help ]

DESCRIPTION
    The login utility logs users (and pseudo-users) into the computer
    system. It prompts for an account name and, when the account has a
    password set, for the password, then replaces the session with the
    account's shell.

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
	if _, _, err := cli.ParseArgs(&opts, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "login: %s\n", err)
		os.Exit(1)
	}
	if opts.Help {
		fmt.Print(manPage)
		return
	}

	log := newLogger()
	cfg, err := config.Load()
	if err != nil {
		fatal("login: %s", err)
	}
	store := userdb.NewStore(cfg.Path(cfg.PasswdFile), cfg.Path(cfg.GroupFile), log)
	term := prompt.New()

	if err := banner.Show(os.Stdout, cfg.Path(cfg.IssueFile)); err != nil {
		log.WithError(err).Warn("could not show issue banner")
	}

	for {
		name, err := term.Line("\x1B[1mlogin:\x1B[0m ")
		if errors.Is(err, io.EOF) {
			os.Exit(1)
		}
		if err != nil {
			fatal("login: %s", err)
		}
		if name == "" {
			continue
		}

		user, ok, err := store.UserByName(name)
		if err != nil {
			fatal("login: %s", err)
		}
		if !ok {
			fmt.Println("\nLogin incorrect")
			fmt.Println()
			continue
		}

		flow := auth.Flow{
			Source:      term,
			Prompt:      "\x1B[1mpassword:\x1B[0m ",
			MaxAttempts: 1,
		}
		outcome, err := flow.Run(user)
		if err != nil {
			fatal("login: %s", err)
		}
		switch outcome {
		case auth.Accepted:
			startSession(cfg, log, user)
		case auth.InputClosed:
			os.Exit(1)
		case auth.Denied:
			// Back to the account prompt.
		}
	}
}

func startSession(cfg config.Config, log *logrus.Logger, user userdb.User) {
	if err := banner.Show(os.Stdout, cfg.Path(cfg.MotdFile)); err != nil {
		log.WithError(err).Warn("could not show motd")
	}
	code, err := launch.ExecLauncher{}.Run(launch.ShellContext(user))
	if err != nil {
		fatal("login: %s", err)
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
