package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
	"golang.org/x/crypto/argon2"
)

// ErrCorruptHash marks a stored hash that cannot be decoded. It is an
// operational failure of the record, distinct from a wrong password, and
// aborts the attempt that hit it.
var ErrCorruptHash = errors.New("corrupt stored hash")

// Fixed derivation costs. Hashes embed their own parameters, so these
// only govern what Encode writes; Verify honors whatever is stored.
const (
	argonTime    = 10
	argonMemory  = 4096 // KiB
	argonThreads = 1
	argonKeyLen  = 32
)

var b64 = base64.RawStdEncoding

// Encode derives a stored-hash string from a secret and salt using
// Argon2i. The result is self-describing: algorithm tag, version, cost
// parameters, salt, and derived key, ready for the hash field of a user
// record.
func Encode(secret, salt string) string {
	key := argon2.Key([]byte(secret), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2i$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		b64.EncodeToString([]byte(salt)), b64.EncodeToString(key))
}

// Verify checks a candidate secret against a stored hash. It dispatches
// on the hash's algorithm tag: argon2 strings are recomputed with the
// embedded parameters and compared in constant time; $1$/$5$/$6$ crypt
// hashes (snapshots migrated from Linux hosts) go through the matching
// crypt scheme. A hash that fits no scheme, or an argon2 string that
// does not decode, is ErrCorruptHash.
func Verify(stored, secret string) (bool, error) {
	switch {
	case strings.HasPrefix(stored, "$argon2i$"), strings.HasPrefix(stored, "$argon2id$"):
		return verifyArgon2(stored, secret)
	case strings.HasPrefix(stored, "$1$"):
		return verifyCrypt(md5_crypt.New(), stored, secret)
	case strings.HasPrefix(stored, "$5$"):
		return verifyCrypt(sha256_crypt.New(), stored, secret)
	case strings.HasPrefix(stored, "$6$"):
		return verifyCrypt(sha512_crypt.New(), stored, secret)
	}
	return false, fmt.Errorf("%w: unrecognized scheme", ErrCorruptHash)
}

// verifyArgon2 decodes a $argon2i$ / $argon2id$ string of the form
// $argon2i$[v=19$]m=4096,t=10,p=1$<salt>$<key> (the version field is
// optional on input; older encoders omit it).
func verifyArgon2(stored, secret string) (bool, error) {
	parts := strings.Split(stored, "$")
	// Leading separator yields an empty first element.
	if len(parts) == 6 && strings.HasPrefix(parts[2], "v=") {
		var version int
		if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
			return false, fmt.Errorf("%w: bad version field", ErrCorruptHash)
		}
		if version != argon2.Version {
			return false, fmt.Errorf("%w: unsupported argon2 version %d", ErrCorruptHash, version)
		}
		parts = append(parts[:2], parts[3:]...)
	}
	if len(parts) != 5 {
		return false, fmt.Errorf("%w: bad argon2 structure", ErrCorruptHash)
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("%w: bad argon2 parameters", ErrCorruptHash)
	}
	salt, err := b64.DecodeString(parts[3])
	if err != nil {
		return false, fmt.Errorf("%w: bad salt encoding", ErrCorruptHash)
	}
	want, err := b64.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: bad key encoding", ErrCorruptHash)
	}
	if len(want) == 0 {
		return false, fmt.Errorf("%w: empty derived key", ErrCorruptHash)
	}

	derive := argon2.Key
	if parts[1] == "argon2id" {
		derive = argon2.IDKey
	}
	got := derive([]byte(secret), salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func verifyCrypt(c crypt.Crypter, stored, secret string) (bool, error) {
	err := c.Verify(stored, []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, crypt.ErrKeyMismatch):
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrCorruptHash, err)
}
