package auth

import (
	"net/http"
	"strings"

	"github.com/mandalnilabja/promptproxy/internal/metrics"
	"github.com/mandalnilabja/promptproxy/internal/types"
)

// Rejection reasons, also used as metric labels.
const (
	reasonMissing = "missing"
	reasonInvalid = "invalid"
)

// BearerAuth requires "Authorization: Bearer <secret>" on every request that
// reaches it. A nil verifier disables the check.
func BearerAuth(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if v == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				reject(w, reasonMissing, "bearer token required")
				return
			}
			if !v.Verify(token) {
				reject(w, reasonInvalid, "invalid bearer token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// reject writes a JSON 401 response.
func reject(w http.ResponseWriter, reason, message string) {
	metrics.AuthFailure(reason)
	types.WriteError(w, http.StatusUnauthorized,
		types.NewAPIErrorWithMessage(types.ErrLabelUnauthorized, message))
}
