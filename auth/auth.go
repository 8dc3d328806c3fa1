// Package auth gates the admin panel: a credential check that opens a
// time-bounded session, and a separate numeric passcode asked for before the
// login form is shown.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is how long a login stays valid.
const DefaultSessionTTL = 24 * time.Hour

// ErrInvalidPasscode is returned when a configured passcode is not six digits.
var ErrInvalidPasscode = errors.New("auth: passcode must be exactly 6 digits")

// Authenticator decides whether credentials and passcodes are correct.
type Authenticator interface {
	Authenticate(username, password string) bool
	VerifyPasscode(code string) bool
}

// StaticCredentials compares against a fixed plaintext pair. Comparison is
// exact and case-sensitive.
type StaticCredentials struct {
	Username string
	Password string
	Passcode string
}

func (c StaticCredentials) Authenticate(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	return userOK && passOK
}

func (c StaticCredentials) VerifyPasscode(code string) bool {
	return verifyPasscode(code, c.Passcode)
}

// HashedCredentials checks the password against a bcrypt hash.
type HashedCredentials struct {
	Username     string
	PasswordHash []byte
	Passcode     string
}

// HashPassword returns a bcrypt hash suitable for HashedCredentials.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func (c HashedCredentials) Authenticate(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)) == nil
	return userOK && passOK
}

func (c HashedCredentials) VerifyPasscode(code string) bool {
	return verifyPasscode(code, c.Passcode)
}

func verifyPasscode(code, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(want)) == 1
}

// ValidatePasscode checks that code is exactly six ASCII digits.
func ValidatePasscode(code string) error {
	if len(code) != 6 {
		return ErrInvalidPasscode
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrInvalidPasscode
		}
	}
	return nil
}

// Session is the persisted login record.
type Session struct {
	LoggedIn  bool      `json:"isLoggedIn"`
	Username  string    `json:"username"`
	LoginTime time.Time `json:"loginTime"`
}

// SessionStore persists at most one Session. Load returns nil, nil when
// there is none.
type SessionStore interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// Gate combines an Authenticator with a SessionStore.
type Gate struct {
	auth     Authenticator
	sessions SessionStore
	ttl      time.Duration
	now      func() time.Time
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithTTL overrides DefaultSessionTTL.
func WithTTL(d time.Duration) GateOption {
	return func(g *Gate) { g.ttl = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

// NewGate returns a Gate checking credentials with a and keeping sessions in s.
func NewGate(a Authenticator, s SessionStore, opts ...GateOption) *Gate {
	g := &Gate{auth: a, sessions: s, ttl: DefaultSessionTTL, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Login opens a session when the credentials match. Wrong credentials leave
// any existing session untouched.
func (g *Gate) Login(ctx context.Context, username, password string) (bool, error) {
	if !g.auth.Authenticate(username, password) {
		return false, nil
	}
	sess := &Session{LoggedIn: true, Username: username, LoginTime: g.now()}
	if err := g.sessions.Save(ctx, sess); err != nil {
		return false, fmt.Errorf("save session: %w", err)
	}
	return true, nil
}

// IsLoggedIn reports whether a live session exists. An expired session is
// cleared as a side effect.
func (g *Gate) IsLoggedIn(ctx context.Context) (bool, error) {
	sess, err := g.sessions.Load(ctx)
	if err != nil {
		return false, err
	}
	if sess == nil {
		return false, nil
	}
	if g.now().Sub(sess.LoginTime) > g.ttl {
		if err := g.sessions.Clear(ctx); err != nil {
			return false, fmt.Errorf("clear expired session: %w", err)
		}
		return false, nil
	}
	return sess.LoggedIn, nil
}

// Session returns the live session, or nil.
func (g *Gate) Session(ctx context.Context) (*Session, error) {
	ok, err := g.IsLoggedIn(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return g.sessions.Load(ctx)
}

// Logout clears the session.
func (g *Gate) Logout(ctx context.Context) error {
	return g.sessions.Clear(ctx)
}

// VerifyPasscode checks code against the configured passcode. It does not
// depend on or change the login session.
func (g *Gate) VerifyPasscode(code string) bool {
	return g.auth.VerifyPasscode(code)
}
