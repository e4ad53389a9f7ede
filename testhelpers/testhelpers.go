// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bulkorder/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestCatalogItem creates a catalog item that carts can reference.
func CreateTestCatalogItem(t *testing.T, app *pocketbase.PocketBase, itemCode, itemName string, rate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("catalog_items")
	if err != nil {
		t.Fatalf("failed to find catalog_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("item_code", itemCode)
	record.Set("item_name", itemName)
	record.Set("uom", "Nos")
	record.Set("rate", rate)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test catalog item: %v", err)
	}

	return record
}

// CreateTestCart creates an open cart bound to the given session token.
func CreateTestCart(t *testing.T, app *pocketbase.PocketBase, sessionToken string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("carts")
	if err != nil {
		t.Fatalf("failed to find carts collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("session_token", sessionToken)
	record.Set("status", "open")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test cart: %v", err)
	}

	return record
}

// CreateTestCartItem adds a line to a cart directly, bypassing the catalog lookup.
func CreateTestCartItem(t *testing.T, app *pocketbase.PocketBase, cartID string, sortOrder int, itemCode string, qty, rate float64) *core.Record {
	t.Helper()
	col, err := app.FindCollectionByNameOrId("cart_items")
	if err != nil {
		t.Fatalf("failed to find cart_items collection: %v", err)
	}
	record := core.NewRecord(col)
	record.Set("cart", cartID)
	record.Set("sort_order", sortOrder)
	record.Set("item_code", itemCode)
	record.Set("item_name", "Item "+itemCode)
	record.Set("uom", "Nos")
	record.Set("qty", qty)
	record.Set("rate", rate)
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test cart item: %v", err)
	}
	return record
}

// CartItems returns the lines of a cart ordered by sort_order.
func CartItems(t *testing.T, app *pocketbase.PocketBase, cartID string) []*core.Record {
	t.Helper()
	items, err := app.FindRecordsByFilter(
		"cart_items",
		"cart = {:cartId}",
		"sort_order",
		0,
		0,
		map[string]any{"cartId": cartID},
	)
	if err != nil {
		t.Fatalf("failed to query cart_items: %v", err)
	}
	return items
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHTMLNotContains checks that body contains none of the specified fragments.
func AssertHTMLNotContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if strings.Contains(body, frag) {
			t.Errorf("expected HTML not to contain %q\nbody (first 500 chars): %s", frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
