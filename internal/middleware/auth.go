// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
)

// TokenValidator resolves a bearer token to a user ID.
type TokenValidator interface {
	ValidateJWTToken(tokenString string) (uint, error)
}

// NewJWTMiddleware rejects requests without a valid "Authorization: Bearer" token
// and stores the user ID in the request context.
func NewJWTMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			userID, err := validator.ValidateJWTToken(strings.TrimSpace(token))
			if err != nil {
				log.Printf("[AuthMiddleware] Invalid token for %s: %v", r.URL.Path, err)
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
