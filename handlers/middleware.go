package handlers

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/security"
)

type contextKey string

const SessionKey contextKey = "session"

const (
	cartCookieName = "cart_session"
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	tokenLength    = 32
)

// Session is the per-browser state every bulk order request carries: the
// token that identifies the cart and the anti-forgery token the page must
// echo back on submission.
type Session struct {
	CartToken string
	CSRFToken string
}

// GetSession extracts the session from the request context.
func GetSession(r *http.Request) Session {
	if val, ok := r.Context().Value(SessionKey).(Session); ok {
		return val
	}
	return Session{}
}

// WithSession returns a copy of r carrying the given session.
func WithSession(r *http.Request, s Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), SessionKey, s))
}

// SessionMiddleware reads the cart and CSRF cookies, issues new tokens when
// they are missing, and stores the resulting Session in the request context.
func SessionMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		session := Session{
			CartToken: readOrIssueCookie(e, cartCookieName, true),
			CSRFToken: readOrIssueCookie(e, csrfCookieName, false),
		}
		e.Request = WithSession(e.Request, session)
		return e.Next()
	}
}

func readOrIssueCookie(e *core.RequestEvent, name string, httpOnly bool) string {
	if cookie, err := e.Request.Cookie(name); err == nil && len(cookie.Value) == tokenLength {
		return cookie.Value
	}

	token := security.RandomString(tokenLength)
	log.Printf("middleware: issuing new %s cookie", name)
	http.SetCookie(e.Response, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// VerifyCSRF reports whether the request echoes the session's CSRF token in
// the X-CSRF-Token header.
func VerifyCSRF(r *http.Request) bool {
	expected := GetSession(r).CSRFToken
	got := r.Header.Get(csrfHeaderName)
	if expected == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}
