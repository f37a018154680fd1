package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/promptproxy/internal/metrics"
	"github.com/mandalnilabja/promptproxy/internal/secret"
	"github.com/mandalnilabja/promptproxy/internal/types"
)

func testHash(t *testing.T, key string) string {
	t.Helper()
	hash, err := secret.Hash(key, &secret.Argon2Params{
		Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})
	require.NoError(t, err)
	return hash
}

func serve(t *testing.T, v Verifier, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	nextCalled := false
	handler := BearerAuth(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, nextCalled
}

func TestBearerAuth(t *testing.T) {
	plain, err := NewVerifier("s3cret", "", nil)
	require.NoError(t, err)
	hashed, err := NewVerifier("", testHash(t, "s3cret"), nil)
	require.NoError(t, err)

	tests := []struct {
		name       string
		verifier   Verifier
		header     string
		wantStatus int
		wantNext   bool
	}{
		{"disabled allows all", nil, "", http.StatusOK, true},
		{"plain correct", plain, "Bearer s3cret", http.StatusOK, true},
		{"plain wrong", plain, "Bearer nope", http.StatusUnauthorized, false},
		{"plain missing", plain, "", http.StatusUnauthorized, false},
		{"plain wrong scheme", plain, "Basic s3cret", http.StatusUnauthorized, false},
		{"plain empty token", plain, "Bearer ", http.StatusUnauthorized, false},
		{"plain prefix only", plain, "Bearer s3cre", http.StatusUnauthorized, false},
		{"hash correct", hashed, "Bearer s3cret", http.StatusOK, true},
		{"hash wrong", hashed, "Bearer nope", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, nextCalled := serve(t, tt.verifier, tt.header)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, nextCalled)

			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				var body types.APIError
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "Unauthorized", body.Error)
				assert.NotEmpty(t, body.Message)
			}
		})
	}
}

func TestBearerAuthCountsFailures(t *testing.T) {
	v, err := NewVerifier("s3cret", "", nil)
	require.NoError(t, err)

	missing := testutil.ToFloat64(metrics.AuthFailures().WithLabelValues("missing"))
	invalid := testutil.ToFloat64(metrics.AuthFailures().WithLabelValues("invalid"))

	serve(t, v, "")
	serve(t, v, "Bearer wrong")
	serve(t, v, "Bearer s3cret")

	assert.Equal(t, missing+1, testutil.ToFloat64(metrics.AuthFailures().WithLabelValues("missing")))
	assert.Equal(t, invalid+1, testutil.ToFloat64(metrics.AuthFailures().WithLabelValues("invalid")))
}

func TestNewVerifier(t *testing.T) {
	v, err := NewVerifier("", "", nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = NewVerifier("a", testHash(t, "a"), nil)
	assert.Error(t, err)

	_, err = NewVerifier("", "not-a-hash", nil)
	assert.ErrorIs(t, err, secret.ErrInvalidHash)
}

func TestHashVerifierCache(t *testing.T) {
	cache, err := NewCache()
	require.NoError(t, err)
	defer cache.Close()

	v, err := NewVerifier("", testHash(t, "s3cret"), cache)
	require.NoError(t, err)
	hv := v.(*HashVerifier)

	assert.False(t, hv.Verify("wrong"))
	cache.Wait()

	require.True(t, hv.Verify("s3cret"))
	cache.Wait()

	// A cached success survives even if the hash no longer matches.
	hv.hash = testHash(t, "rotated")
	assert.True(t, hv.Verify("s3cret"))

	// Failures are never cached.
	assert.False(t, hv.Verify("wrong"))

	// Expired entries fall back to argon2.
	hv2 := &HashVerifier{hash: hv.hash, cache: cache, ttl: time.Millisecond}
	require.True(t, hv2.Verify("rotated"))
	cache.Wait()
	time.Sleep(5 * time.Millisecond)
	hv2.hash = testHash(t, "other")
	assert.False(t, hv2.Verify("rotated"))
}
