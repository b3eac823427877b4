package auth_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regwatch/pkg/platform/middleware/auth"
)

type stubValidator struct {
	claims *auth.JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*auth.JWTClaims, error) {
	return s.claims, s.err
}

func newAuthedHandler(v auth.JWTValidator, seen *auth.JWTClaims) http.Handler {
	logger := slog.New(slog.DiscardHandler)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.UserID = auth.GetUserID(r.Context())
		seen.Role = auth.GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return auth.RequireAuth(v, logger)(next)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	var seen auth.JWTClaims
	h := newAuthedHandler(stubValidator{claims: &auth.JWTClaims{UserID: "user-1", Role: "reviewer"}}, &seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", seen.UserID)
	assert.Equal(t, "reviewer", seen.Role)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	var seen auth.JWTClaims
	h := newAuthedHandler(stubValidator{err: errors.New("bad signature")}, &seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized","error_description":"Invalid or expired token"}`, rec.Body.String())
	assert.Empty(t, seen.UserID)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	var seen auth.JWTClaims
	h := newAuthedHandler(stubValidator{claims: &auth.JWTClaims{UserID: "user-1"}}, &seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`, rec.Body.String())
}
