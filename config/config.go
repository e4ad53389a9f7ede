// Package config loads the settings of the bulk order app from the
// environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultCartPath  = "/cart"
	DefaultSubmitURL = "/api/method/bulk_order.create_quotation"
)

// Config holds the paths the bulk order page links to.
type Config struct {
	// CartPath is where the browser goes after every submission.
	CartPath string
	// SubmitURL is the create_quotation endpoint the page posts to.
	SubmitURL string
	// BulkOrderPath is the page itself.
	BulkOrderPath string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CartPath:      DefaultCartPath,
		SubmitURL:     DefaultSubmitURL,
		BulkOrderPath: "/bulk-order",
	}
}

// Load reads envFile (if it exists) into the environment and returns the
// configuration with any BULK_ORDER_* overrides applied.
func Load(envFile string) Config {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("config: could not load %s: %v", envFile, err)
		}
	}

	cfg := Default()
	if v := strings.TrimSpace(os.Getenv("BULK_ORDER_CART_PATH")); v != "" {
		cfg.CartPath = v
	}
	return cfg
}

// AddRowPath, TogglePath and ImportPath are the fragment endpoints under the
// bulk order page.
func (c Config) AddRowPath() string { return c.BulkOrderPath + "/rows" }
func (c Config) TogglePath() string { return c.BulkOrderPath + "/toggle" }
func (c Config) ImportPath() string { return c.BulkOrderPath + "/import" }

// QuotationPDFPath and QuotationExcelPath are the cart downloads.
func (c Config) QuotationPDFPath() string   { return c.CartPath + "/quotation.pdf" }
func (c Config) QuotationExcelPath() string { return c.CartPath + "/quotation.xlsx" }
