// Package launch turns an authenticated identity into the security
// context of the process to run, and hands that context to a launcher.
// The context is a plain value so the decision logic stays testable
// without creating OS processes.
package launch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"

	"github.com/hnrobert/userkit/internal/userdb"
)

// Superuser identity used when elevation cannot resolve uid 0 from the
// store. Elevated commands always run as the superuser, never as an
// arbitrary other user.
const (
	superuserName  = "root"
	superuserHome  = "/root"
	superuserShell = "/bin/sh"
)

// Context is the immutable security context for one child process: the
// identity to assume, the working directory (empty means inherit), the
// environment overlay applied on top of the inherited environment, and
// the program to run.
type Context struct {
	UID  uint32
	GID  uint32
	Dir  string
	Env  map[string]string
	Path string
	Args []string
}

// ShellContext builds the context for a login or substitution session:
// the target's own shell, run as the target, in the target's home.
func ShellContext(u userdb.User) Context {
	return Context{
		UID:  u.UID,
		GID:  u.GID,
		Dir:  u.Home,
		Env:  identityEnv(u),
		Path: u.Shell,
	}
}

// CommandContext builds the context for an elevated command. The command
// runs as the superuser with USER/UID/GROUPS forced to the superuser
// identity regardless of who invoked it; the working directory is left
// unchanged. root is the store's record for uid 0, or the zero User when
// the store has none, in which case fixed fallback values apply.
func CommandContext(root userdb.User, name string, args []string) Context {
	if root.Name == "" {
		root = userdb.User{Name: superuserName, Home: superuserHome, Shell: superuserShell}
	}
	root.UID = 0
	root.GID = 0
	return Context{
		UID:  0,
		GID:  0,
		Env:  identityEnv(root),
		Path: name,
		Args: args,
	}
}

func identityEnv(u userdb.User) map[string]string {
	return map[string]string{
		"USER":   u.Name,
		"UID":    fmt.Sprintf("%d", u.UID),
		"GROUPS": fmt.Sprintf("%d", u.GID),
		"HOME":   u.Home,
		"SHELL":  u.Shell,
	}
}

// MergeEnviron applies the overlay onto an inherited environment,
// replacing matching keys and appending the rest in sorted order so the
// result is deterministic.
func MergeEnviron(inherited []string, overlay map[string]string) []string {
	seen := make(map[string]bool, len(overlay))
	out := make([]string, 0, len(inherited)+len(overlay))
	for _, kv := range inherited {
		key, _, ok := strings.Cut(kv, "=")
		if ok {
			if v, exists := overlay[key]; exists {
				out = append(out, key+"="+v)
				seen[key] = true
				continue
			}
		}
		out = append(out, kv)
	}
	rest := make([]string, 0, len(overlay))
	for key := range overlay {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		out = append(out, key+"="+overlay[key])
	}
	return out
}

// Launcher runs a child under a security context and reports its exit
// code. A non-nil error means the child could not be started or waited
// on; the exit code is only meaningful when the error is nil.
type Launcher interface {
	Run(ctx Context) (int, error)
}

// ExecLauncher is the real spawn collaborator: it applies the context to
// an os/exec command, wires the child to this process's terminal, and
// blocks until the child exits. Its exit code is returned verbatim for
// the caller to propagate.
type ExecLauncher struct{}

func (ExecLauncher) Run(ctx Context) (int, error) {
	cmd := exec.Command(ctx.Path, ctx.Args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Dir = ctx.Dir
	cmd.Env = MergeEnviron(os.Environ(), ctx.Env)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Credential: &syscall.Credential{Uid: ctx.UID, Gid: ctx.GID},
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("failed to execute %s: %w", ctx.Path, err)
}
