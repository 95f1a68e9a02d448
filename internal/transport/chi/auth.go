package chi

import (
	"crypto/subtle"
	"net/http"

	"github.com/kailas-cloud/dataapi/internal/domain"
)

// HeaderToken carries the application token on every Data API request.
const HeaderToken = "Token"

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// TokenAuthMiddleware returns a middleware that validates the Token header.
// If tokens is empty, authentication is disabled (pass-through).
func TokenAuthMiddleware(tokens []string) func(http.Handler) http.Handler {
	valid := make([][]byte, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			valid = append(valid, []byte(t))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(valid) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(HeaderToken)
			if token == "" {
				writeAuthError(w, "missing "+HeaderToken+" header")
				return
			}
			if !knownToken(valid, []byte(token)) {
				writeAuthError(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func knownToken(valid [][]byte, token []byte) bool {
	for _, v := range valid {
		if subtle.ConstantTimeCompare(v, token) == 1 {
			return true
		}
	}
	return false
}

func writeAuthError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, reply{
		Errors: []domain.ErrorDescriptor{{Message: msg, ErrorCode: domain.CodeUnauthenticated}},
	})
}
