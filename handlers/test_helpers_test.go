package handlers

import (
	"net/http"
	"net/http/httptest"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bulkorder/config"
)

const (
	testCartToken = "cart-token-0123456789abcdefghijk"
	testCSRFToken = "csrf-token-0123456789abcdefghijk"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// withTestSession attaches the fixed test session, as SessionMiddleware would.
func withTestSession(req *http.Request) *http.Request {
	return WithSession(req, Session{CartToken: testCartToken, CSRFToken: testCSRFToken})
}

func testConfig() config.Config {
	return config.Default()
}
