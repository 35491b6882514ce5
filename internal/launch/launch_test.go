package launch

import (
	"reflect"
	"testing"

	"github.com/hnrobert/userkit/internal/userdb"
)

var alice = userdb.User{
	Name: "alice", UID: 1000, GID: 1000,
	Gecos: "Alice", Home: "/home/alice", Shell: "/bin/sh",
}

func TestShellContext(t *testing.T) {
	ctx := ShellContext(alice)
	if ctx.UID != 1000 || ctx.GID != 1000 {
		t.Errorf("ids = %d/%d, want 1000/1000", ctx.UID, ctx.GID)
	}
	if ctx.Dir != "/home/alice" {
		t.Errorf("Dir = %q, want the target home", ctx.Dir)
	}
	if ctx.Path != "/bin/sh" {
		t.Errorf("Path = %q, want the target shell", ctx.Path)
	}
	want := map[string]string{
		"USER": "alice", "UID": "1000", "GROUPS": "1000",
		"HOME": "/home/alice", "SHELL": "/bin/sh",
	}
	if !reflect.DeepEqual(ctx.Env, want) {
		t.Errorf("Env = %v, want %v", ctx.Env, want)
	}
}

func TestCommandContextForcesSuperuser(t *testing.T) {
	// The root record's uid fields are irrelevant: elevation always runs
	// as uid 0, and the overlay always names the superuser.
	weird := userdb.User{Name: "root", UID: 42, GID: 42, Home: "/root", Shell: "/bin/ion"}
	ctx := CommandContext(weird, "/bin/ls", []string{"-l"})
	if ctx.UID != 0 || ctx.GID != 0 {
		t.Errorf("ids = %d/%d, want 0/0", ctx.UID, ctx.GID)
	}
	if ctx.Dir != "" {
		t.Errorf("Dir = %q, elevation must not change directory", ctx.Dir)
	}
	if ctx.Env["USER"] != "root" || ctx.Env["UID"] != "0" || ctx.Env["GROUPS"] != "0" {
		t.Errorf("Env = %v, want forced superuser identity", ctx.Env)
	}
	if ctx.Env["HOME"] != "/root" || ctx.Env["SHELL"] != "/bin/ion" {
		t.Errorf("Env = %v, want home and shell from the record", ctx.Env)
	}
	if ctx.Path != "/bin/ls" || len(ctx.Args) != 1 || ctx.Args[0] != "-l" {
		t.Errorf("command = %q %v", ctx.Path, ctx.Args)
	}
}

func TestCommandContextFallbackIdentity(t *testing.T) {
	ctx := CommandContext(userdb.User{}, "ls", nil)
	if ctx.Env["USER"] != "root" || ctx.Env["HOME"] != "/root" || ctx.Env["SHELL"] != "/bin/sh" {
		t.Errorf("Env = %v, want fixed fallback superuser identity", ctx.Env)
	}
}

func TestMergeEnviron(t *testing.T) {
	inherited := []string{"PATH=/bin", "USER=caller", "TERM=xterm"}
	overlay := map[string]string{"USER": "root", "UID": "0", "GROUPS": "0"}
	got := MergeEnviron(inherited, overlay)
	want := []string{"PATH=/bin", "USER=root", "TERM=xterm", "GROUPS=0", "UID=0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeEnviron = %v, want %v", got, want)
	}
}

func TestMergeEnvironEmptyOverlayValueStillWins(t *testing.T) {
	got := MergeEnviron([]string{"FOO=bar"}, map[string]string{"FOO": ""})
	if !reflect.DeepEqual(got, []string{"FOO="}) {
		t.Errorf("MergeEnviron = %v, want [FOO=]", got)
	}
}

// fakeLauncher records the context it was handed.
type fakeLauncher struct {
	got  Context
	code int
	err  error
}

func (f *fakeLauncher) Run(ctx Context) (int, error) {
	f.got = ctx
	return f.code, f.err
}

func TestLauncherContractExitCodePropagates(t *testing.T) {
	var l Launcher = &fakeLauncher{code: 7}
	code, err := l.Run(ShellContext(alice))
	if err != nil || code != 7 {
		t.Fatalf("Run = %d, %v, want 7", code, err)
	}
}
