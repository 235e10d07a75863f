package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const claimKey contextKey = "accounts_session_claim"

// Middleware rejects requests without a valid bearer token and stores the
// token's claim in the request context.
func Middleware(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if token == "" {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claim, err := issuer.Verify(token)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), claimKey, claim)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimFromContext(ctx context.Context) (*SessionClaim, bool) {
	claim, ok := ctx.Value(claimKey).(*SessionClaim)
	return claim, ok
}
