// Package session tracks which household member each browser is looking at.
//
// The selection used to be a single process-wide variable, so one person
// switching users switched everyone. Here every browser carries a cookie, and
// a Store maps that cookie to a user id:
//
//	CookieStore → the user id lives inside a signed JWT (stateless)
//	RedisStore  → the cookie holds a random session id, Redis holds the user id
//
// Middleware resolves the id once per request and puts it in the context;
// handlers read it back with UserIDFromContext.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// CookieName is the cookie both stores use.
const CookieName = "tt_session"

// DefaultTTL is how long a selection survives without being saved again.
const DefaultTTL = 30 * 24 * time.Hour

// ErrInvalid reports a cookie that is present but unusable: bad signature,
// expired, or malformed. Middleware treats it like no selection.
var ErrInvalid = errors.New("session: invalid session")

// Store loads and saves the current user id for a request.
type Store interface {
	// Load returns ok=false when the request carries no selection.
	Load(r *http.Request) (userID int64, ok bool, err error)
	// Save makes userID the selection for this browser, setting a cookie on w.
	Save(w http.ResponseWriter, r *http.Request, userID int64) error
}

// CookieOptions are shared by both stores.
type CookieOptions struct {
	TTL time.Duration
	// Secure restricts the cookie to HTTPS. Leave false for local http.
	Secure bool
}

func (o CookieOptions) ttl() time.Duration {
	if o.TTL <= 0 {
		return DefaultTTL
	}
	return o.TTL
}

func (o CookieOptions) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(o.ttl() / time.Second),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// RandomSecret returns 32 random bytes, hex encoded. Used when no
// SESSION_SECRET is configured; sessions then last until the process exits.
func RandomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: generating secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
