// Package auth provides the bearer-secret gate for the proxy endpoint.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/mandalnilabja/promptproxy/internal/secret"
)

// DefaultCacheTTL bounds how long a verified token skips argon2.
const DefaultCacheTTL = 5 * time.Minute

// Verifier checks a presented bearer token against the configured secret.
type Verifier interface {
	Verify(token string) bool
}

// NewVerifier returns a Verifier for a plaintext key or an argon2id hash.
// It returns nil when neither is set, which disables the gate.
func NewVerifier(key, hash string, cache *ristretto.Cache[string, time.Time]) (Verifier, error) {
	switch {
	case key != "" && hash != "":
		return nil, errors.New("both plaintext key and hash configured")
	case key != "":
		return &PlainVerifier{key: []byte(key)}, nil
	case hash != "":
		if err := secret.ValidateHash(hash); err != nil {
			return nil, err
		}
		return &HashVerifier{hash: hash, cache: cache, ttl: DefaultCacheTTL}, nil
	default:
		return nil, nil
	}
}

// NewCache builds the verification cache used by HashVerifier.
func NewCache() (*ristretto.Cache[string, time.Time], error) {
	return ristretto.NewCache(&ristretto.Config[string, time.Time]{
		NumCounters: 1e4,
		MaxCost:     1 << 10,
		BufferItems: 64,
	})
}

// PlainVerifier compares against a plaintext secret in constant time.
type PlainVerifier struct {
	key []byte
}

func (v *PlainVerifier) Verify(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), v.key) == 1
}

// HashVerifier checks tokens against an argon2id hash. Successful tokens
// are remembered by their SHA-256 digest so repeat callers skip argon2.
type HashVerifier struct {
	hash  string
	cache *ristretto.Cache[string, time.Time]
	ttl   time.Duration
}

func (v *HashVerifier) Verify(token string) bool {
	sum := sha256.Sum256([]byte(token))
	cacheKey := "bearer:" + hex.EncodeToString(sum[:])

	if v.cache != nil {
		if validUntil, found := v.cache.Get(cacheKey); found && time.Now().Before(validUntil) {
			return true
		}
	}

	ok, err := secret.Verify(token, v.hash)
	if err != nil || !ok {
		return false
	}

	if v.cache != nil {
		v.cache.SetWithTTL(cacheKey, time.Now().Add(v.ttl), 1, v.ttl)
	}
	return true
}
