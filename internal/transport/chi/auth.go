package chi

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates a bearer credential and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*jwt.RegisteredClaims, error)
}

type claimsContextKey struct{}

// ClaimsFromContext returns the verified claims placed by the middleware, or
// nil on an unauthenticated request.
func ClaimsFromContext(ctx context.Context) *jwt.RegisteredClaims {
	claims, _ := ctx.Value(claimsContextKey{}).(*jwt.RegisteredClaims)
	return claims
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens on
// every request it wraps. Verified claims land in the request context.
func BearerAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(header, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					"unauthorized", "authorization header must use Bearer scheme")
				return
			}

			claims, err := verifier.Verify(header[len(bearerPrefix):])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
