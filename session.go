package pressroom

import (
	"context"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pressroom/auth"
)

const sessionName = "pressroom_admin"

const (
	keyPasscode  = "passcode_ok"
	keyLoggedIn  = "logged_in"
	keyUsername  = "username"
	keyLoginTime = "login_time"
)

// cookieSessions is an auth.SessionStore over the request's signed cookie,
// so every browser holds its own admin session.
type cookieSessions struct {
	c echo.Context
}

func (s cookieSessions) get() (*sessions.Session, error) {
	return adminSession(s.c)
}

// adminSession returns the cookie session. A cookie that fails to decode
// (rotated secret, tampering) yields a fresh empty session.
func adminSession(c echo.Context) (*sessions.Session, error) {
	sess, err := session.Get(sessionName, c)
	if sess == nil {
		return nil, err
	}
	return sess, nil
}

func (s cookieSessions) Load(_ context.Context) (*auth.Session, error) {
	sess, err := s.get()
	if err != nil {
		return nil, err
	}
	in, _ := sess.Values[keyLoggedIn].(bool)
	if !in {
		return nil, nil
	}
	user, _ := sess.Values[keyUsername].(string)
	at, _ := sess.Values[keyLoginTime].(int64)
	return &auth.Session{LoggedIn: true, Username: user, LoginTime: time.Unix(at, 0)}, nil
}

func (s cookieSessions) Save(_ context.Context, st *auth.Session) error {
	sess, err := s.get()
	if err != nil {
		return err
	}
	sess.Values[keyLoggedIn] = st.LoggedIn
	sess.Values[keyUsername] = st.Username
	sess.Values[keyLoginTime] = st.LoginTime.Unix()
	return sess.Save(s.c.Request(), s.c.Response())
}

func (s cookieSessions) Clear(_ context.Context) error {
	sess, err := s.get()
	if err != nil {
		return err
	}
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(s.c.Request(), s.c.Response())
}

// gate binds the configured credentials to this request's cookie session.
func (a *App) gate(c echo.Context) *auth.Gate {
	return auth.NewGate(a.auth, cookieSessions{c: c},
		auth.WithTTL(a.Config.SessionTTL),
		auth.WithClock(a.now),
	)
}

// IsAdmin reports whether the request carries a live admin session.
func (a *App) IsAdmin(c echo.Context) bool {
	ok, err := a.gate(c).IsLoggedIn(c.Request().Context())
	return err == nil && ok
}

func passcodeVerified(c echo.Context) bool {
	sess, err := adminSession(c)
	if err != nil {
		return false
	}
	ok, _ := sess.Values[keyPasscode].(bool)
	return ok
}

func setPasscodeVerified(c echo.Context) error {
	sess, err := adminSession(c)
	if err != nil {
		return err
	}
	sess.Values[keyPasscode] = true
	return sess.Save(c.Request(), c.Response())
}
