package session

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// contextKey is a type for context keys
type contextKey string

// IDKey is the context key for the authenticated session id
const IDKey contextKey = "sessionId"

// Middleware resolves bearer session tokens
type Middleware struct {
	tokens *Tokens
}

func NewMiddleware(tokens *Tokens) *Middleware {
	return &Middleware{tokens: tokens}
}

// RequireSession rejects requests without a valid session token
func (m *Middleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			unauthorized(w, "session_required", "session token required")
			return
		}

		id, err := m.tokens.Parse(token)
		if err != nil {
			unauthorized(w, "invalid_session", "invalid or expired session token")
			return
		}

		next(w, r.WithContext(WithID(r.Context(), id)))
	}
}

func unauthorized(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, IDKey, id)
}

// GetID extracts the session id from the request context
func GetID(ctx context.Context) string {
	id, _ := ctx.Value(IDKey).(string)
	return id
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
