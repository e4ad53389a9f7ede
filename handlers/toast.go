package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
)

// SetToast sets the HX-Trigger response header to show a toast notification
// on the client via HTMX, merging into any HX-Trigger payload already set.
// It also sets a flash cookie so the toast survives a redirect; the submit
// endpoint relies on this because it always navigates to the cart.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	payload := map[string]string{"message": message, "type": toastType}

	trigger := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &trigger); err != nil {
			log.Printf("toast: existing HX-Trigger is not valid JSON, overwriting: %v", err)
			trigger = map[string]any{}
		}
	}
	trigger["showToast"] = payload

	data, err := json.Marshal(trigger)
	if err != nil {
		log.Printf("toast: failed to marshal HX-Trigger JSON: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))

	cookieVal, err := json.Marshal(payload)
	if err == nil {
		http.SetCookie(e.Response, &http.Cookie{
			Name:     "flash_toast",
			Value:    url.QueryEscape(string(cookieVal)),
			Path:     "/",
			MaxAge:   10,
			HttpOnly: false, // JS needs to read it
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ErrorToast sets an error toast and prevents HTMX from swapping the error text into the DOM.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

// redirect sends the browser to target: via HX-Redirect for htmx requests,
// a 302 otherwise.
func redirect(e *core.RequestEvent, target string) error {
	if e.Request.Header.Get("HX-Request") == "true" {
		e.Response.Header().Set("HX-Redirect", target)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusFound, target)
}
