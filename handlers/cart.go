package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bulkorder/config"
	"bulkorder/services"
	"bulkorder/templates"
)

func loadSessionCart(app *pocketbase.PocketBase, e *core.RequestEvent) (services.CartSummary, error) {
	cart, err := services.EnsureCart(app, GetSession(e.Request).CartToken)
	if err != nil {
		return services.CartSummary{}, err
	}
	return services.LoadCart(app, cart.Id)
}

// HandleCartView handles GET /cart
func HandleCartView(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		summary, err := loadSessionCart(app, e)
		if err != nil {
			log.Printf("cart: HandleCartView: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		data := templates.CartPageData{
			Cart:         summary,
			BulkOrderURL: cfg.BulkOrderPath,
			PDFURL:       cfg.QuotationPDFPath(),
			ExcelURL:     cfg.QuotationExcelPath(),
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.CartContent(data)
		} else {
			component = templates.CartPage(data)
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleCartQuotationPDF handles GET /cart/quotation.pdf
func HandleCartQuotationPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		summary, err := loadSessionCart(app, e)
		if err != nil {
			log.Printf("cart: HandleCartQuotationPDF: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load cart")
		}
		if len(summary.Lines) == 0 {
			return e.String(http.StatusNotFound, "Cart is empty")
		}

		pdfBytes, err := services.GenerateQuotationPDF(services.NewQuotationExport(summary, time.Now()))
		if err != nil {
			log.Printf("cart: HandleCartQuotationPDF: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="Quotation_%s.pdf"`, summary.CartID))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleCartQuotationExcel handles GET /cart/quotation.xlsx
func HandleCartQuotationExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		summary, err := loadSessionCart(app, e)
		if err != nil {
			log.Printf("cart: HandleCartQuotationExcel: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load cart")
		}
		if len(summary.Lines) == 0 {
			return e.String(http.StatusNotFound, "Cart is empty")
		}

		xlsxBytes, err := services.GenerateQuotationExcel(services.NewQuotationExport(summary, time.Now()))
		if err != nil {
			log.Printf("cart: HandleCartQuotationExcel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="Quotation_%s.xlsx"`, summary.CartID))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
