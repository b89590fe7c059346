package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

type contextKey string

// UserIDKey holds the authenticated user id (int64) in the request context.
const UserIDKey contextKey = "userID"

type AuthMiddleware struct {
	jwtSecret []byte
}

func NewAuthMiddleware(jwtSecret []byte) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// RequireAuth rejects requests without a valid access token.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.userIDFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserIDKey, userID)))
	})
}

// OptionalAuth resolves the identity when a valid token is present and lets
// anonymous requests through.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.userIDFromRequest(r)
		if err == nil {
			r = r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) userIDFromRequest(r *http.Request) (int64, error) {
	cookie, err := r.Cookie("access_token")
	if err != nil {
		return 0, err
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid access token: %w", err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(sub, 10, 64)
}

// requesterID returns the authenticated user id or domain.Anonymous.
func requesterID(r *http.Request) int64 {
	if id, ok := r.Context().Value(UserIDKey).(int64); ok {
		return id
	}
	return domain.Anonymous
}
