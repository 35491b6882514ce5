package auth

import (
	"errors"
	"io"

	"github.com/hnrobert/userkit/internal/userdb"
)

// Outcome is the terminal state of one authentication flow.
type Outcome int

const (
	// Accepted means the secret verified (or no secret was required).
	Accepted Outcome = iota
	// Denied means the attempt budget was exhausted by rejections.
	Denied
	// InputClosed means the secret source ended before a secret arrived.
	// It does not consume an attempt and is distinct from Denied.
	InputClosed
)

// SecretSource yields secrets for verification. It returns io.EOF when
// the input has ended, which is not the same thing as an empty secret.
type SecretSource interface {
	Secret(prompt string) (string, error)
}

// Flow runs the prompt-verify-retry state machine for one target. The
// states are AwaitingSecret -> Verifying -> Accepted or Rejected; a
// rejection with attempts remaining loops back, a rejection with the
// budget spent terminates in Denied.
type Flow struct {
	Source SecretSource
	Prompt string

	// MaxAttempts bounds the number of rejections before Denied.
	// Zero means unbounded.
	MaxAttempts int

	// Rejected, if set, is invoked after each rejection with the attempt
	// number and the bound (0 when unbounded), so the caller can render
	// "attempt n of m" feedback.
	Rejected func(attempt, max int)
}

// Run authenticates the caller against target. A passwordless target is
// Accepted immediately without reading a secret or touching the codec.
// A corrupt stored hash aborts the flow with its error; the Outcome is
// meaningless when the error is non-nil.
func (f Flow) Run(target userdb.User) (Outcome, error) {
	if target.Passwordless() {
		return Accepted, nil
	}

	attempts := 0
	for {
		secret, err := f.Source.Secret(f.Prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return InputClosed, nil
			}
			return Denied, err
		}

		ok, err := Verify(target.Hash, secret)
		if err != nil {
			return Denied, err
		}
		if ok {
			return Accepted, nil
		}

		attempts++
		if f.Rejected != nil {
			f.Rejected(attempts, f.MaxAttempts)
		}
		if f.MaxAttempts > 0 && attempts >= f.MaxAttempts {
			return Denied, nil
		}
	}
}
