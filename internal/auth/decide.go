package auth

import "github.com/hnrobert/userkit/internal/userdb"

// Decision is the pre-secret authorization outcome: either the caller is
// already authorized to assume the target identity, or a secret must be
// requested and verified.
type Decision int

const (
	RequiresSecret Decision = iota
	AutoAccepted
)

// Request describes one identity-assumption attempt before any secret
// has been read. SuperuserMayAssume is set by the substitution use case,
// where uid 0 may become anyone without proof; the elevation use case
// leaves it unset because its policy checks happen at the call site.
type Request struct {
	Target             userdb.User
	CallerUID          uint32
	SuperuserMayAssume bool
}

// Decide evaluates the implicit-authorization short circuits. It is
// called before a secret is requested so that passwordless targets and
// privileged callers never see a prompt.
func Decide(r Request) Decision {
	if r.Target.Passwordless() {
		return AutoAccepted
	}
	if r.SuperuserMayAssume && r.CallerUID == 0 {
		return AutoAccepted
	}
	return RequiresSecret
}
