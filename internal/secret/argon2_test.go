package secret

import (
	"errors"
	"strings"
	"testing"
)

// fastParams keeps the suite quick; production hashes use DefaultArgon2Params.
func fastParams() *Argon2Params {
	return &Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestDefaultArgon2Params(t *testing.T) {
	params := DefaultArgon2Params()

	if params.Memory != 64*1024 {
		t.Errorf("expected memory 64MB, got %d KB", params.Memory)
	}
	if params.Iterations != 1 {
		t.Errorf("expected iterations 1, got %d", params.Iterations)
	}
	if params.Parallelism != 4 {
		t.Errorf("expected parallelism 4, got %d", params.Parallelism)
	}
	if params.SaltLength != 16 || params.KeyLength != 32 {
		t.Errorf("unexpected salt/key length %d/%d", params.SaltLength, params.KeyLength)
	}
}

func TestHashFormat(t *testing.T) {
	hash, err := Hash("testsecret123", fastParams())
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Errorf("unexpected hash prefix: %s", hash)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 6 {
		t.Errorf("expected 6 parts in hash, got %d", len(parts))
	}
	if err := ValidateHash(hash); err != nil {
		t.Errorf("ValidateHash rejected a fresh hash: %v", err)
	}
}

func TestHashUniqueness(t *testing.T) {
	hash1, err := Hash("samesecret", fastParams())
	if err != nil {
		t.Fatalf("first hash failed: %v", err)
	}
	hash2, err := Hash("samesecret", fastParams())
	if err != nil {
		t.Fatalf("second hash failed: %v", err)
	}

	if hash1 == hash2 {
		t.Error("hashing the same key twice should produce different hashes")
	}
}

func TestVerify(t *testing.T) {
	hash, err := Hash("correct", fastParams())
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"correct key", "correct", true},
		{"wrong key", "incorrect", false},
		{"empty key", "", false},
		{"case differs", "Correct", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Verify(tt.key, hash)
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Verify(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestVerifyInvalidHash(t *testing.T) {
	invalid := []string{
		"",
		"notahash",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
	}

	for _, h := range invalid {
		_, err := Verify("key", h)
		if !errors.Is(err, ErrInvalidHash) {
			t.Errorf("Verify with hash %q: expected ErrInvalidHash, got %v", h, err)
		}
	}
}
