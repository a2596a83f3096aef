package auth

import (
	"crypto/sha256"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
)

// SessionName is the name of the browser session cookie.
const SessionName = "taskify-session"

// Session value keys.
const (
	sessionKeyUserID = "user_id"
	sessionKeyEmail  = "email"
	sessionKeyName   = "name"
)

// ErrNoSession is returned when the request carries no authenticated session.
var ErrNoSession = errors.New("no session")

// SessionStore keeps the signed browser session cookie.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore creates a cookie-backed session store.
//
// The secret can be any passphrase; it is SHA-256 hashed to derive the
// signing key, so it must be stable across restarts and replicas.
func NewSessionStore(secret string, ttl time.Duration, cookie CookieSettings) *SessionStore {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   cookie.Domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)

	return &SessionStore{store: store}
}

// Save writes a session for the user to the response.
func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request, userID, email, name string) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values[sessionKeyUserID] = userID
	session.Values[sessionKeyEmail] = email
	session.Values[sessionKeyName] = name
	return session.Save(r, w)
}

// Load returns the claims of the session on r. Expiry is enforced by the
// cookie signature's timestamp.
func (s *SessionStore) Load(r *http.Request) (*Claims, error) {
	session, err := s.store.Get(r, SessionName)
	if err != nil || session.IsNew {
		return nil, ErrNoSession
	}

	userID, _ := session.Values[sessionKeyUserID].(string)
	if userID == "" {
		return nil, ErrNoSession
	}
	email, _ := session.Values[sessionKeyEmail].(string)
	name, _ := session.Values[sessionKeyName].(string)

	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Email:            email,
		Name:             name,
	}, nil
}

// Clear expires the session cookie.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	if session == nil {
		return nil
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
