package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("secret", "fpviraq", time.Hour)

	signed, expiresAt, err := tokens.Issue("abc-123")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	id, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
}

func TestTokens_Rejects(t *testing.T) {
	tokens := NewTokens("secret", "fpviraq", time.Hour)
	signed, _, err := tokens.Issue("abc-123")
	require.NoError(t, err)

	other := NewTokens("other-secret", "fpviraq", time.Hour)
	_, err = other.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := NewTokens("secret", "someone-else", time.Hour)
	_, err = wrongIssuer.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokens("secret", "fpviraq", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue("abc-123")
	require.NoError(t, err)
	_, err = tokens.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware_RequireSession(t *testing.T) {
	tokens := NewTokens("secret", "fpviraq", time.Hour)
	mw := NewMiddleware(tokens)

	var seen string
	handler := mw.RequireSession(func(w http.ResponseWriter, r *http.Request) {
		seen = GetID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_required")

	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_session")

	signed, _, _ := tokens.Issue("abc-123")
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "abc-123", seen)
}
