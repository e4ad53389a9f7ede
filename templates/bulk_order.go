package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"bulkorder/services"
)

const (
	FreezeText   = "Adding to Shopping Cart..."
	orderCardsID = "order-cards"
)

// BulkOrderData is everything the bulk order page renders.
type BulkOrderData struct {
	View         services.ViewMode
	Rows         []services.OrderRow
	BulkPaste    string
	CSRFToken    string
	SubmitURL    string
	AddRowURL    string
	ToggleURL    string
	ImportURL    string
	ImportErrors []services.LineError
}

// BulkOrderPage is the full document.
func BulkOrderPage(data BulkOrderData) templ.Component {
	return Layout("Bulk Order", BulkOrderContent(data))
}

// BulkOrderContent is the page body: the cards plus the freeze overlay shown
// while a submission is in flight. The CSRF token is attached to every htmx
// request made from inside it.
func BulkOrderContent(data BulkOrderData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		headers := fmt.Sprintf(`{"X-CSRF-Token": %q}`, data.CSRFToken)
		if _, err := fmt.Fprintf(w, `<section id="bulk-order-page" hx-headers="%s"><h1>Bulk Order</h1>`, esc(headers)); err != nil {
			return err
		}
		if err := OrderCards(data).Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			`<div id="freeze" class="freeze" aria-live="polite"><div class="freeze-message">%s</div></div></section>`,
			esc(FreezeText))
		return err
	})
}

// OrderCards renders the mode switch button and both order cards; only the
// card matching data.View is displayed. It is also the swap target of the
// toggle request.
func OrderCards(data BulkOrderData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<div id="%s">`, orderCardsID)

		fmt.Fprintf(&b,
			`<button type="button" id="order-type-button" class="btn btn-secondary" hx-post="%s" hx-target="#%s" hx-swap="outerHTML" hx-include="#line-by-line-order, #bulk-order-form" hx-vals='{"view": "%s"}'>%s</button>`,
			esc(data.ToggleURL), orderCardsID, esc(string(data.View)), esc(data.View.ButtonLabel()))

		// Line by line card
		fmt.Fprintf(&b, `<form id="line-by-line-order" class="card" style="display: %s" onsubmit="return false">`, data.View.LineByLineDisplay())
		lastIndex := 0
		if len(data.Rows) > 0 {
			lastIndex = data.Rows[len(data.Rows)-1].Index
		}
		if err := rowCountInput(lastIndex, false).Render(ctx, &b); err != nil {
			return err
		}
		b.WriteString(`<div class="input-row-container">`)
		for _, row := range data.Rows {
			if err := orderRow(row).Render(ctx, &b); err != nil {
				return err
			}
		}
		b.WriteString(`</div>`)
		fmt.Fprintf(&b,
			`<button type="button" class="btn btn-light" hx-post="%s" hx-include="#row_count" hx-target="#line-by-line-order .input-row-container" hx-swap="beforeend">Add row</button>`,
			esc(data.AddRowURL))
		fmt.Fprintf(&b,
			`<button type="button" class="btn btn-primary" hx-post="%s" hx-include="#line-by-line-order" hx-vals='{"%s": "false"}' hx-indicator="#freeze" hx-disabled-elt="this">Add to cart</button>`,
			esc(data.SubmitURL), services.FieldIsProcessed)
		b.WriteString(`</form>`)

		// Bulk paste card
		fmt.Fprintf(&b, `<div id="bulk-order" class="card" style="display: %s">`, data.View.BulkPasteDisplay())
		b.WriteString(`<form id="bulk-order-form" onsubmit="return false">`)
		b.WriteString(`<label for="bulk_paste">Paste item codes and quantities, one per line, separated by a tab</label>`)
		fmt.Fprintf(&b, `<textarea id="bulk_paste" name="%s" class="form-control" rows="12">%s</textarea>`,
			services.FieldBulkPaste, esc(data.BulkPaste))
		fmt.Fprintf(&b,
			`<button type="button" class="btn btn-primary" hx-post="%s" hx-include="#bulk-order-form" hx-vals='{"%s": "true"}' hx-indicator="#freeze" hx-disabled-elt="this">Add to cart</button>`,
			esc(data.SubmitURL), services.FieldIsProcessed)
		b.WriteString(`</form>`)
		fmt.Fprintf(&b,
			`<form id="order-file-import" hx-post="%s" hx-encoding="multipart/form-data" hx-target="#%s" hx-swap="outerHTML"><input type="file" name="file" accept=".csv,.xlsx" required><button type="submit" class="btn btn-light">Load file</button></form>`,
			esc(data.ImportURL), orderCardsID)
		if len(data.ImportErrors) > 0 {
			b.WriteString(`<ul class="import-errors">`)
			for _, e := range data.ImportErrors {
				fmt.Fprintf(&b, `<li>%s</li>`, esc(e.Error()))
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</div>`)

		b.WriteString(`</div>`)
		return writeString(w, &b)
	})
}
