package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bulkorder/config"
	"bulkorder/services"
	"bulkorder/templates"
)

const maxImportSize = 5 << 20

func newBulkOrderData(r *http.Request, cfg config.Config) templates.BulkOrderData {
	return templates.BulkOrderData{
		View:      services.ViewLineByLine,
		CSRFToken: GetSession(r).CSRFToken,
		SubmitURL: cfg.SubmitURL,
		AddRowURL: cfg.AddRowPath(),
		ToggleURL: cfg.TogglePath(),
		ImportURL: cfg.ImportPath(),
	}
}

// HandleBulkOrderPage handles GET /bulk-order
// Renders the page in line-by-line mode with one empty row.
func HandleBulkOrderPage(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := newBulkOrderData(e.Request, cfg)
		data.View = services.ParseViewMode(e.Request.URL.Query().Get(services.FieldView))
		data.Rows = []services.OrderRow{services.NewRowBuilder(0).AddRow()}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.BulkOrderContent(data)
		} else {
			component = templates.BulkOrderPage(data)
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleBulkOrderAddRow handles POST /bulk-order/rows
// Returns one new input row numbered after the row_count the page sent.
func HandleBulkOrderAddRow(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		existing := services.RowCount(e.Request.Form)
		if existing >= services.MaxOrderRows {
			return ErrorToast(e, http.StatusUnprocessableEntity,
				fmt.Sprintf("An order can have at most %d rows. Paste larger orders instead.", services.MaxOrderRows))
		}
		builder := services.NewRowBuilder(existing)
		row := builder.AddRow()

		return templates.OrderRowFragment(row).Render(e.Request.Context(), e.Response)
	}
}

// HandleBulkOrderToggle handles POST /bulk-order/toggle
// Re-renders both cards with the other one visible. Rows and pasted text the
// page included are carried over so switching does not lose input.
func HandleBulkOrderToggle(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		data := newBulkOrderData(e.Request, cfg)
		data.View = services.ParseViewMode(e.Request.Form.Get(services.FieldView)).Toggle()
		data.Rows = services.CollectOrderRows(e.Request.Form)
		if len(data.Rows) == 0 {
			data.Rows = []services.OrderRow{services.NewRowBuilder(0).AddRow()}
		}
		data.BulkPaste = e.Request.Form.Get(services.FieldBulkPaste)

		return templates.OrderCards(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleBulkOrderImport handles POST /bulk-order/import
// Reads an uploaded .csv/.xlsx order sheet and shows its lines in the bulk
// paste card, ready to be reviewed and submitted.
func HandleBulkOrderImport(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(maxImportSize); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid upload")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please choose a file to upload")
		}
		defer file.Close()

		lines, lineErrs, err := services.ParseOrderFile(file, header.Filename)
		if err != nil {
			log.Printf("bulk_order: HandleBulkOrderImport: %s: %v", filepath.Base(header.Filename), err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		data := newBulkOrderData(e.Request, cfg)
		data.View = services.ViewBulkPaste
		data.Rows = []services.OrderRow{services.NewRowBuilder(0).AddRow()}
		data.BulkPaste = services.FormatPastedOrder(lines)
		data.ImportErrors = lineErrs

		if len(lineErrs) > 0 {
			SetToast(e, "warning", fmt.Sprintf("Loaded %d lines, %d skipped", len(lines), len(lineErrs)))
		} else {
			SetToast(e, "success", fmt.Sprintf("Loaded %d lines", len(lines)))
		}

		return templates.OrderCards(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleCreateQuotation handles POST /api/method/bulk_order.create_quotation
// Applies the submitted lines to the session's cart and always sends the
// browser to the cart page afterwards. Failures are reported through a toast
// that survives the redirect.
func HandleCreateQuotation(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if !VerifyCSRF(e.Request) {
			return ErrorToast(e, http.StatusForbidden, "Invalid or missing CSRF token")
		}

		if err := e.Request.ParseForm(); err != nil {
			log.Printf("bulk_order: HandleCreateQuotation: parse form: %v", err)
			SetToast(e, "error", "Could not read the order. Please try again.")
			return redirect(e, cfg.CartPath)
		}

		req, err := services.BuildQuotationRequest(e.Request.Form)
		if err != nil {
			log.Printf("bulk_order: HandleCreateQuotation: build request: %v", err)
			SetToast(e, "error", "Could not read the order. Please try again.")
			return redirect(e, cfg.CartPath)
		}

		cart, err := services.EnsureCart(app, GetSession(e.Request).CartToken)
		if err != nil {
			log.Printf("bulk_order: HandleCreateQuotation: ensure cart: %v", err)
			SetToast(e, "error", "Something went wrong. Please try again.")
			return redirect(e, cfg.CartPath)
		}

		result, err := services.CreateQuotation(app, cart.Id, req)
		switch {
		case err != nil:
			log.Printf("bulk_order: HandleCreateQuotation: cart %s: %v", cart.Id, err)
			SetToast(e, "error", "Could not add items to the cart: "+err.Error())
		case result.HasErrors():
			SetToast(e, "warning", fmt.Sprintf("%d line(s) could not be added. First problem: %s",
				len(result.Errors), result.Errors[0].Error()))
		default:
			SetToast(e, "success", fmt.Sprintf("Cart updated (%d line(s))", result.Updated+result.Removed))
		}

		return redirect(e, cfg.CartPath)
	}
}
