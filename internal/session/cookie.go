package session

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "travel-tracker"

var _ Store = (*CookieStore)(nil)

// CookieStore keeps the selection in an HS256-signed JWT. The "sub" claim is
// the user id. Nothing is stored server-side, so any replica with the same
// secret can read the cookie.
type CookieStore struct {
	secret []byte
	opts   CookieOptions
}

// NewCookieStore rejects secrets shorter than 16 characters.
func NewCookieStore(secret string, opts CookieOptions) (*CookieStore, error) {
	if len(secret) < 16 {
		return nil, errors.New("session: secret must be at least 16 characters")
	}
	return &CookieStore{secret: []byte(secret), opts: opts}, nil
}

func (s *CookieStore) Load(r *http.Request) (int64, bool, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		// http.ErrNoCookie: first visit, not an error
		return 0, false, nil
	}

	userID, err := s.parse(c.Value)
	if err != nil {
		return 0, false, err
	}
	return userID, true, nil
}

func (s *CookieStore) Save(w http.ResponseWriter, _ *http.Request, userID int64) error {
	token, err := s.sign(userID, time.Now())
	if err != nil {
		return err
	}
	http.SetCookie(w, s.opts.cookie(token))
	return nil
}

func (s *CookieStore) sign(userID int64, now time.Time) (string, error) {
	c := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.ttl())),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("session: signing token: %w", err)
	}
	return signed, nil
}

// parse checks signature, algorithm, issuer and expiry, then returns the
// subject as a user id. WithValidMethods blocks "alg: none" tokens.
func (s *CookieStore) parse(tokenStr string) (int64, error) {
	var c jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenStr, &c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject %q is not a user id", ErrInvalid, c.Subject)
	}
	return userID, nil
}
