package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripCookies copies Set-Cookie headers from rec onto a new request.
func roundTripCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionStore_SaveLoadClear(t *testing.T) {
	store := NewSessionStore("session-secret", time.Hour, CookieSettings{Secure: false})

	rec := httptest.NewRecorder()
	err := store.Save(rec, httptest.NewRequest(http.MethodPost, "/api/auth/sign-in", nil),
		"6f1c1c1e-1a2b-4c3d-8e9f-000000000001", "demo@taskify.com", "Demo")
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	claims, err := store.Load(roundTripCookies(rec))
	require.NoError(t, err)
	assert.Equal(t, "6f1c1c1e-1a2b-4c3d-8e9f-000000000001", claims.Subject)
	assert.Equal(t, "demo@taskify.com", claims.Email)
	assert.Equal(t, "Demo", claims.Name)

	clearRec := httptest.NewRecorder()
	require.NoError(t, store.Clear(clearRec, roundTripCookies(rec)))
	cleared := clearRec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestSessionStore_RejectsForeignSignature(t *testing.T) {
	issuing := NewSessionStore("secret-a", time.Hour, CookieSettings{})
	verifying := NewSessionStore("secret-b", time.Hour, CookieSettings{})

	rec := httptest.NewRecorder()
	require.NoError(t, issuing.Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), "u", "e", "n"))

	_, err := verifying.Load(roundTripCookies(rec))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionStore_NoCookie(t *testing.T) {
	store := NewSessionStore("s", time.Hour, CookieSettings{})
	_, err := store.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)
}
