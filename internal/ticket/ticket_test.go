package ticket

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	dir := t.TempDir()
	return &Cache{
		Dir:        filepath.Join(dir, "tickets"),
		SecretPath: filepath.Join(dir, "secret"),
		TTL:        ttl,
	}
}

func TestIssueThenValid(t *testing.T) {
	c := testCache(t, time.Minute)
	if c.Valid("alice") {
		t.Fatal("ticket valid before issue")
	}
	if err := c.Issue("alice"); err != nil {
		t.Fatal(err)
	}
	if !c.Valid("alice") {
		t.Error("freshly issued ticket should be valid")
	}
	if c.Valid("bob") {
		t.Error("alice's ticket must not cover bob")
	}
}

func TestExpiredTicket(t *testing.T) {
	c := testCache(t, -time.Minute)
	if err := c.Issue("alice"); err != nil {
		t.Fatal(err)
	}
	if c.Valid("alice") {
		t.Error("expired ticket should not validate")
	}
}

func TestTamperedTicket(t *testing.T) {
	c := testCache(t, time.Minute)
	if err := c.Issue("alice"); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(c.Dir, "alice")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	b[len(b)-1] ^= 0x01
	if err := os.WriteFile(path, b, 0600); err != nil {
		t.Fatal(err)
	}
	if c.Valid("alice") {
		t.Error("tampered ticket should not validate")
	}
}

func TestSecretRotationInvalidates(t *testing.T) {
	c := testCache(t, time.Minute)
	if err := c.Issue("alice"); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(c.SecretPath); err != nil {
		t.Fatal(err)
	}
	// Next check mints a new secret; the old ticket no longer verifies.
	if c.Valid("alice") {
		t.Error("ticket signed with a rotated-away secret should not validate")
	}
}

func TestDrop(t *testing.T) {
	c := testCache(t, time.Minute)
	if err := c.Issue("alice"); err != nil {
		t.Fatal(err)
	}
	c.Drop("alice")
	if c.Valid("alice") {
		t.Error("dropped ticket should not validate")
	}
}

func TestDisabledCache(t *testing.T) {
	var c *Cache
	if c.Enabled() || c.Valid("alice") {
		t.Error("nil cache must be inert")
	}
	empty := &Cache{}
	if empty.Enabled() || empty.Valid("alice") {
		t.Error("unconfigured cache must be inert")
	}
	if err := empty.Issue("alice"); err != nil {
		t.Errorf("Issue on a disabled cache = %v, want nil", err)
	}
	if _, err := os.Stat("alice"); err == nil {
		t.Error("disabled cache wrote a file")
	}
}

func TestSecretFilePermissions(t *testing.T) {
	c := testCache(t, time.Minute)
	if err := c.Issue("alice"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(c.SecretPath)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("secret file mode = %o, want 0600", perm)
	}
}
