package main

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bulkorder/collections"
	"bulkorder/config"
	"bulkorder/handlers"
)

func main() {
	cfg := config.Load(".env")
	app := pocketbase.New()

	// Create collections and seed the catalog on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Cart and CSRF tokens for every request
		se.Router.BindFunc(handlers.SessionMiddleware(app))

		// ── Bulk order page ──────────────────────────────────────
		se.Router.GET(cfg.BulkOrderPath, handlers.HandleBulkOrderPage(app, cfg))
		se.Router.POST(cfg.AddRowPath(), handlers.HandleBulkOrderAddRow(app))
		se.Router.POST(cfg.TogglePath(), handlers.HandleBulkOrderToggle(app, cfg))
		se.Router.POST(cfg.ImportPath(), handlers.HandleBulkOrderImport(app, cfg))

		// ── Submission ───────────────────────────────────────────
		se.Router.POST(cfg.SubmitURL, handlers.HandleCreateQuotation(app, cfg))

		// ── Cart ─────────────────────────────────────────────────
		se.Router.GET(cfg.CartPath, handlers.HandleCartView(app, cfg))
		se.Router.GET(cfg.QuotationPDFPath(), handlers.HandleCartQuotationPDF(app))
		se.Router.GET(cfg.QuotationExcelPath(), handlers.HandleCartQuotationExcel(app))

		// Redirect home to the bulk order page
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, cfg.BulkOrderPath)
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
