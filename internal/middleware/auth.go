// Package middleware содержит HTTP middleware сервиса заказов.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "userID"

const bearerPrefix = "Bearer "

// TokenVerifier проверяет токен доступа и возвращает идентификатор пользователя.
type TokenVerifier interface {
	Verify(tokenString string) (int64, error)
}

// AuthMiddleware выполняет проверку аутентификации по bearer-токену
// в заголовке Authorization.
type AuthMiddleware struct {
	tokens TokenVerifier
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware.
func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Middleware проверяет токен запроса и добавляет идентификатор пользователя
// в контекст. Любая ошибка проверки отображается одинаково — 401.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			writeUnauthorized(w)
			return
		}

		userID, err := a.tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"detail":"Not authenticated"}`))
}

// GetUserIDFromContext извлекает идентификатор пользователя из контекста запроса.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
