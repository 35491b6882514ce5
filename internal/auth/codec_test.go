package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/GehirnInc/crypt/sha512_crypt"
)

func TestEncodeVerifyRoundTrip(t *testing.T) {
	cases := []struct{ secret, salt string }{
		{"hunter2", "pepper"},
		{"correct horse battery staple", "somesalt"},
		{"p@ss;word", "s"},
	}
	for _, tc := range cases {
		stored := Encode(tc.secret, tc.salt)
		if !strings.HasPrefix(stored, "$argon2i$v=19$m=4096,t=10,p=1$") {
			t.Fatalf("Encode(%q, %q) = %q, unexpected shape", tc.secret, tc.salt, stored)
		}
		ok, err := Verify(stored, tc.secret)
		if err != nil || !ok {
			t.Errorf("Verify(encode(%q)) = %v, %v, want true", tc.secret, ok, err)
		}
		ok, err = Verify(stored, tc.secret+"x")
		if err != nil || ok {
			t.Errorf("Verify with wrong secret = %v, %v, want false, nil", ok, err)
		}
	}
}

func TestVerifyWithoutVersionField(t *testing.T) {
	// Older encoders write $argon2i$m=...$salt$key with no v= field.
	stored := Encode("secret", "salt1234")
	legacy := strings.Replace(stored, "$v=19", "", 1)
	ok, err := Verify(legacy, "secret")
	if err != nil || !ok {
		t.Fatalf("Verify(version-less hash) = %v, %v, want true", ok, err)
	}
}

func TestVerifyLegacyCrypt(t *testing.T) {
	c := sha512_crypt.New()
	stored, err := c.Generate([]byte("hunter2"), nil)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := Verify(stored, "hunter2")
	if err != nil || !ok {
		t.Fatalf("Verify(sha512-crypt) = %v, %v, want true", ok, err)
	}
	ok, err = Verify(stored, "wrong")
	if err != nil || ok {
		t.Fatalf("Verify(sha512-crypt, wrong) = %v, %v, want false, nil", ok, err)
	}
}

func TestVerifyCorruptHash(t *testing.T) {
	cases := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"no scheme", "not-a-hash"},
		{"unknown scheme", "$y$j9T$salt$hash"},
		{"truncated argon2", "$argon2i$m=4096,t=10,p=1$c2FsdA"},
		{"bad params", "$argon2i$m=x,t=y,p=z$c2FsdA$c2FsdA"},
		{"bad salt b64", "$argon2i$m=4096,t=10,p=1$!!!$c2FsdA"},
		{"bad key b64", "$argon2i$m=4096,t=10,p=1$c2FsdA$!!!"},
		{"bad version", "$argon2i$v=16$m=4096,t=10,p=1$c2FsdA$c2FsdA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Verify(tc.stored, "whatever"); !errors.Is(err, ErrCorruptHash) {
				t.Errorf("Verify(%q) err = %v, want ErrCorruptHash", tc.stored, err)
			}
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	if Encode("a", "salted") != Encode("a", "salted") {
		t.Error("same secret and salt should encode identically")
	}
	if Encode("a", "salted") == Encode("b", "salted") {
		t.Error("different secrets should encode differently")
	}
}
