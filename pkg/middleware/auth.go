package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtutil "github.com/Dias221467/Accountability_Tracker/pkg/jwt"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthMiddleware validates the Bearer session token and stores its claims in
// the request context, so handlers always know which user is acting.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logrus.Warn("Missing Authorization header")
				http.Error(w, "Missing authorization token", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := jwtutil.ValidateToken(tokenString, secret)
			if err != nil {
				logrus.WithError(err).Warn("Invalid session token")
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the session claims stored by AuthMiddleware,
// or nil if the request was not authenticated.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, ok := ctx.Value(userContextKey).(*jwtutil.Claims)
	if !ok {
		return nil
	}
	return claims
}
