// Package secret hashes and generates the proxy bearer secret.
package secret

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidHash is returned when an encoded hash cannot be decoded.
var ErrInvalidHash = errors.New("invalid hash format")

// Argon2Params holds the Argon2id hashing parameters
type Argon2Params struct {
	Memory      uint32 // Memory in KB
	Iterations  uint32 // Time parameter
	Parallelism uint8  // Threads
	SaltLength  uint32 // Salt bytes
	KeyLength   uint32 // Output hash bytes
}

// DefaultArgon2Params returns the parameters used for new hashes.
// Memory: 64MB, Iterations: 1, Parallelism: 4, Salt: 16 bytes, Key: 32 bytes
func DefaultArgon2Params() *Argon2Params {
	return &Argon2Params{
		Memory:      64 * 1024,
		Iterations:  1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hash creates an Argon2id hash of key.
// Returns encoded hash in format: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
func Hash(key string, params *Argon2Params) (string, error) {
	if params == nil {
		params = DefaultArgon2Params()
	}

	salt, err := randomBytes(params.SaltLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	sum := argon2.IDKey([]byte(key), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		params.Memory,
		params.Iterations,
		params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify reports whether key matches the encoded hash.
func Verify(key, encodedHash string) (bool, error) {
	params, salt, want, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(key), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// ValidateHash checks that encodedHash is a decodable Argon2id hash.
func ValidateHash(encodedHash string) error {
	_, _, _, err := decodeHash(encodedHash)
	return err
}

func randomBytes(n uint32) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// decodeHash parses an encoded Argon2id hash string
func decodeHash(encodedHash string) (*Argon2Params, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, nil, ErrInvalidHash
	}

	if parts[1] != "argon2id" {
		return nil, nil, nil, fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: version: %v", ErrInvalidHash, err)
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("%w: incompatible argon2 version %d", ErrInvalidHash, version)
	}

	params := &Argon2Params{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: parameters: %v", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	params.SaltLength = uint32(len(salt))

	sum, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: hash: %v", ErrInvalidHash, err)
	}
	params.KeyLength = uint32(len(sum))

	return params, salt, sum, nil
}
