package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
)

// CartChange is what UpdateCart did with a line.
type CartChange int

const (
	CartLineUnchanged CartChange = iota
	CartLineAdded
	CartLineUpdated
	CartLineRemoved
)

// EnsureCart returns the open cart bound to a session token, creating it on
// first use.
func EnsureCart(app *pocketbase.PocketBase, sessionToken string) (*core.Record, error) {
	if sessionToken == "" {
		return nil, fmt.Errorf("empty cart session token")
	}

	existing, err := app.FindRecordsByFilter(
		"carts",
		"session_token = {:token} && status = 'open'",
		"-created",
		1,
		0,
		map[string]any{"token": sessionToken},
	)
	if err == nil && len(existing) > 0 {
		return existing[0], nil
	}

	col, err := app.FindCollectionByNameOrId("carts")
	if err != nil {
		return nil, fmt.Errorf("carts collection not found: %w", err)
	}

	record := core.NewRecord(col)
	record.Set("session_token", sessionToken)
	record.Set("status", "open")
	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return record, nil
}

// UpdateCart sets the quantity of itemCode in the cart. The quantity replaces
// whatever was there before; zero removes the line. Problems with the line
// itself are returned as *LineError, storage failures as plain errors.
func UpdateCart(app core.App, cartID, itemCode, qty string) (CartChange, error) {
	itemCode = strings.TrimSpace(itemCode)
	if itemCode == "" {
		return CartLineUnchanged, &LineError{Message: "item code is required"}
	}

	qty = strings.TrimSpace(qty)
	if qty == "" {
		return CartLineUnchanged, &LineError{SKU: itemCode, Message: "quantity is required"}
	}
	quantity, err := cast.ToFloat64E(qty)
	if err != nil {
		return CartLineUnchanged, &LineError{SKU: itemCode, Message: fmt.Sprintf("quantity %q is not a number", qty)}
	}
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return CartLineUnchanged, &LineError{SKU: itemCode, Message: fmt.Sprintf("quantity %q is not a number", qty)}
	}
	if quantity < 0 {
		return CartLineUnchanged, &LineError{SKU: itemCode, Message: "quantity must be zero or greater"}
	}

	items, err := app.FindRecordsByFilter(
		"catalog_items",
		"item_code = {:code}",
		"",
		1,
		0,
		map[string]any{"code": itemCode},
	)
	if err != nil {
		return CartLineUnchanged, fmt.Errorf("look up item %s: %w", itemCode, err)
	}
	if len(items) == 0 {
		return CartLineUnchanged, &LineError{SKU: itemCode, Message: "unknown item code"}
	}
	item := items[0]

	existing, err := app.FindRecordsByFilter(
		"cart_items",
		"cart = {:cartId} && item_code = {:code}",
		"",
		1,
		0,
		map[string]any{"cartId": cartID, "code": itemCode},
	)
	if err != nil {
		return CartLineUnchanged, fmt.Errorf("look up cart line %s: %w", itemCode, err)
	}

	if quantity == 0 {
		if len(existing) == 0 {
			return CartLineUnchanged, nil
		}
		if err := app.Delete(existing[0]); err != nil {
			return CartLineUnchanged, fmt.Errorf("remove cart line %s: %w", itemCode, err)
		}
		return CartLineRemoved, nil
	}

	if len(existing) > 0 {
		line := existing[0]
		line.Set("qty", quantity)
		line.Set("rate", item.GetFloat("rate"))
		if err := app.Save(line); err != nil {
			return CartLineUnchanged, fmt.Errorf("update cart line %s: %w", itemCode, err)
		}
		return CartLineUpdated, nil
	}

	col, err := app.FindCollectionByNameOrId("cart_items")
	if err != nil {
		return CartLineUnchanged, fmt.Errorf("cart_items collection not found: %w", err)
	}

	line := core.NewRecord(col)
	line.Set("cart", cartID)
	line.Set("sort_order", nextCartSortOrder(app, cartID))
	line.Set("item_code", itemCode)
	line.Set("item_name", item.GetString("item_name"))
	line.Set("uom", item.GetString("uom"))
	line.Set("qty", quantity)
	line.Set("rate", item.GetFloat("rate"))
	if err := app.Save(line); err != nil {
		return CartLineUnchanged, fmt.Errorf("add cart line %s: %w", itemCode, err)
	}
	return CartLineAdded, nil
}

func nextCartSortOrder(app core.App, cartID string) int {
	existing, err := app.FindRecordsByFilter(
		"cart_items",
		"cart = {:cartId}",
		"-sort_order",
		1,
		0,
		map[string]any{"cartId": cartID},
	)
	if err != nil || len(existing) == 0 {
		return 1
	}
	return existing[0].GetInt("sort_order") + 1
}

// CartLine is one cart row ready for display or export.
type CartLine struct {
	SortOrder int
	ItemCode  string
	ItemName  string
	UOM       string
	Qty       float64
	Rate      float64
	Amount    float64
}

// CartSummary is the cart with its computed totals.
type CartSummary struct {
	CartID   string
	Lines    []CartLine
	TotalQty float64
	Total    float64
}

// LoadCart reads the cart lines in the order they were added.
func LoadCart(app *pocketbase.PocketBase, cartID string) (CartSummary, error) {
	summary := CartSummary{CartID: cartID}

	records, err := app.FindRecordsByFilter(
		"cart_items",
		"cart = {:cartId}",
		"sort_order",
		0,
		0,
		map[string]any{"cartId": cartID},
	)
	if err != nil {
		return summary, fmt.Errorf("load cart %s: %w", cartID, err)
	}

	for _, rec := range records {
		line := CartLine{
			SortOrder: rec.GetInt("sort_order"),
			ItemCode:  rec.GetString("item_code"),
			ItemName:  rec.GetString("item_name"),
			UOM:       rec.GetString("uom"),
			Qty:       rec.GetFloat("qty"),
			Rate:      rec.GetFloat("rate"),
		}
		line.Amount = line.Qty * line.Rate
		summary.TotalQty += line.Qty
		summary.Total += line.Amount
		summary.Lines = append(summary.Lines, line)
	}
	return summary, nil
}
