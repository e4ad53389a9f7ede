// Package templates holds the templ components that render the bulk order
// and cart pages and their htmx fragments.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

// pageStyle makes #freeze a full-page overlay that blocks input while a
// submission is in flight. htmx adds .htmx-request to the indicator.
const pageStyle = `
.freeze { position: fixed; inset: 0; z-index: 1000; display: none; align-items: center; justify-content: center; background: rgba(255, 255, 255, 0.7); cursor: wait; }
.freeze.htmx-request { display: flex; }
.freeze-message { padding: 1rem 2rem; background: #fff; border: 1px solid #ccc; font-weight: bold; }
`

// toastScript shows toasts sent through HX-Trigger and the flash_toast cookie.
const toastScript = `
function showToast(detail) {
  var box = document.getElementById("toasts");
  if (!box || !detail || !detail.message) { return; }
  var el = document.createElement("div");
  el.className = "toast toast-" + (detail.type || "info");
  el.textContent = detail.message;
  box.appendChild(el);
  setTimeout(function () { el.remove(); }, 6000);
}
document.body.addEventListener("showToast", function (evt) { showToast(evt.detail); });
(function () {
  var m = document.cookie.match(/(?:^|; )flash_toast=([^;]*)/);
  if (!m) { return; }
  document.cookie = "flash_toast=; Max-Age=0; path=/";
  try { showToast(JSON.parse(decodeURIComponent(m[1].replace(/\+/g, " ")))); } catch (e) {}
})();
`

// Layout wraps a page body in the document shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		fmt.Fprintf(&b, "<title>%s</title>", esc(title))
		fmt.Fprintf(&b, "<script src=\"%s\"></script>", htmxScript)
		fmt.Fprintf(&b, "<style>%s</style>", pageStyle)
		b.WriteString("</head><body><div id=\"toasts\" class=\"toast-container\"></div><main class=\"container\">")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "</main><script>%s</script></body></html>", toastScript)
		return err
	})
}

// esc escapes text and attribute values.
func esc(s string) string {
	return templ.EscapeString(s)
}

// writeString is the ComponentFunc body for fragments built in one go.
func writeString(w io.Writer, b *strings.Builder) error {
	_, err := io.WriteString(w, b.String())
	return err
}
