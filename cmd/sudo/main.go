package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhunt/go-cli"
	"github.com/sirupsen/logrus"

	"github.com/hnrobert/userkit/internal/auth"
	"github.com/hnrobert/userkit/internal/config"
	"github.com/hnrobert/userkit/internal/launch"
	"github.com/hnrobert/userkit/internal/prompt"
	"github.com/hnrobert/userkit/internal/sysid"
	"github.com/hnrobert/userkit/internal/ticket"
	"github.com/hnrobert/userkit/internal/userdb"
)

const maxAttempts = 3

const manPage = `
NAME
    sudo - execute a command as another user

SYNOPSIS
    sudo command
    sudo [ -h | --help ]

DESCRIPTION
    The sudo utility allows a permitted user to execute a command as the
    superuser, as specified by the security policy: the invoking user
    must belong to the sudo group and must authenticate with their own
    password.

OPTIONS

    -h
    --help
        Display this help and exit.

EXIT STATUS
    Upon successful execution of a command, the exit status from sudo
    will be the exit status of the program that was executed. In case of
    error the exit status will be >0.
`

type options struct {
	Help bool `cli:"-h, --help"`
}

func main() {
	var opts options
	_, args, err := cli.ParseArgs(&opts, os.Args[1:])
	if err != nil {
		fatal("sudo: %s", err)
	}
	if opts.Help {
		fmt.Print(manPage)
		return
	}
	if len(args) == 0 {
		fatal("sudo: no command provided")
	}

	log := newLogger()
	cfg, err := config.Load()
	if err != nil {
		fatal("sudo: %s", err)
	}
	store := userdb.NewStore(cfg.Path(cfg.PasswdFile), cfg.Path(cfg.GroupFile), log)

	uid := sysid.UID()
	user, ok, err := store.UserByID(uid)
	if err != nil {
		fatal("sudo: %s", err)
	}
	if !ok {
		fatal("sudo: user not found")
	}

	if uid != 0 {
		authorize(cfg, log, store, user)
	}

	root, _, err := store.UserByID(0)
	if err != nil {
		fatal("sudo: %s", err)
	}
	code, err := launch.ExecLauncher{}.Run(launch.CommandContext(root, args[0], args[1:]))
	if err != nil {
		fatal("sudo: %s", err)
	}
	os.Exit(code)
}

// authorize enforces the elevation policy for a non-superuser caller:
// sudo-group membership, a password actually set, then up to three
// password attempts (skipped while the caller holds a live ticket).
func authorize(cfg config.Config, log *logrus.Logger, store *userdb.Store, user userdb.User) {
	group, ok, err := store.GroupByName(cfg.Sudo.Group)
	if err != nil {
		fatal("sudo: %s", err)
	}
	if !ok {
		fatal("sudo: %s group not found", cfg.Sudo.Group)
	}
	if !group.HasMember(user.Name) {
		fatal("sudo: '%s' not in %s group", user.Name, cfg.Sudo.Group)
	}
	if user.Passwordless() {
		fatal("sudo: '%s' is in %s group but does not have a password set", user.Name, cfg.Sudo.Group)
	}

	cache := ticketCache(cfg)
	if cache.Valid(user.Name) {
		log.WithField("user", user.Name).Debug("elevation ticket accepted")
		return
	}

	flow := auth.Flow{
		Source:      prompt.New(),
		Prompt:      fmt.Sprintf("[sudo] password for %s: ", user.Name),
		MaxAttempts: maxAttempts,
		Rejected: func(n, max int) {
			fmt.Fprintf(os.Stderr, "sudo: incorrect password (%d/%d)\n", n, max)
		},
	}
	outcome, err := flow.Run(user)
	if err != nil {
		fatal("sudo: %s", err)
	}
	if outcome != auth.Accepted {
		os.Exit(1)
	}
	if err := cache.Issue(user.Name); err != nil {
		log.WithError(err).Debug("could not record elevation ticket")
	}
}

func ticketCache(cfg config.Config) *ticket.Cache {
	if cfg.Sudo.TicketDir == "" {
		return nil
	}
	secret := cfg.Sudo.TicketSecret
	if secret == "" {
		secret = filepath.Join(cfg.Sudo.TicketDir, ".secret")
	}
	return &ticket.Cache{
		Dir:        cfg.Path(cfg.Sudo.TicketDir),
		SecretPath: cfg.Path(secret),
		TTL:        cfg.Sudo.TicketTTL(),
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
