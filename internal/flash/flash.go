// Package flash carries one-shot status messages across a redirect in a
// signed cookie. The cookie is cleared by the request that reads it.
package flash

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	cookieName = "flash"
	maxAge     = 5 * time.Minute
)

const (
	KindSuccess = "success"
	KindInfo    = "info"
	KindDanger  = "danger"
)

type Message struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type claims struct {
	Message
	jwt.RegisteredClaims
}

// Store signs and verifies flash cookies with the application secret.
type Store struct {
	secret []byte
	secure bool
}

func NewStore(secret string, secure bool) *Store {
	return &Store{secret: []byte(secret), secure: secure}
}

// Set attaches a message to the response, usually right before a redirect.
func (s *Store) Set(w http.ResponseWriter, kind, text string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Message: Message{Kind: kind, Text: text},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(maxAge)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
	return nil
}

// Pop returns the pending message, if any, and clears the cookie.
// Tampered or expired cookies are dropped silently.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) *Message {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	s.clear(w)

	msg, err := s.parse(cookie.Value)
	if err != nil {
		return nil
	}
	return msg
}

func (s *Store) parse(value string) (*Message, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(value, c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid flash token")
	}
	return &c.Message, nil
}

func (s *Store) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
