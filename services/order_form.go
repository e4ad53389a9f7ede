package services

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Form field names shared by the bulk order templates and handlers.
const (
	FieldRowCount    = "row_count"
	FieldBulkPaste   = "bulk_paste"
	FieldIsProcessed = "is_processed"
	FieldQuoteData   = "quote_data"
	FieldView        = "view"
)

// OrderLine is one SKU/quantity pair as entered by the user. Qty is kept as
// the raw string from the form; it is only interpreted when the cart is updated.
type OrderLine struct {
	SKU string `json:"sku"`
	Qty string `json:"qty"`
}

// OrderRow is one rendered input row of the line-by-line form.
type OrderRow struct {
	Index int
	SKU   string
	Qty   string
}

func (r OrderRow) SKUFieldID() string     { return fmt.Sprintf("sku_%d", r.Index) }
func (r OrderRow) QtyFieldID() string     { return fmt.Sprintf("qty_%d", r.Index) }
func (r OrderRow) SKUPlaceholder() string { return fmt.Sprintf("SKU %d", r.Index) }
func (r OrderRow) QtyPlaceholder() string { return fmt.Sprintf("Quantity %d", r.Index) }

// RowBuilder hands out input rows with strictly increasing indexes starting
// after the rows that already exist on the page.
type RowBuilder struct {
	next int
}

// NewRowBuilder returns a builder whose first row is existing+1.
func NewRowBuilder(existing int) *RowBuilder {
	if existing < 0 {
		existing = 0
	}
	return &RowBuilder{next: existing + 1}
}

// AddRow returns the next empty row and advances the counter.
func (b *RowBuilder) AddRow() OrderRow {
	row := OrderRow{Index: b.next}
	b.next++
	return row
}

// Count is the number of rows handed out so far, including pre-existing ones.
func (b *RowBuilder) Count() int {
	return b.next - 1
}

// MaxOrderRows bounds the row counter a page can claim.
const MaxOrderRows = 1000

// RowCount reads the row_count field. Missing or malformed values count as
// zero and values past MaxOrderRows are clamped.
func RowCount(form url.Values) int {
	n := cast.ToInt(strings.TrimSpace(form.Get(FieldRowCount)))
	switch {
	case n < 0:
		return 0
	case n > MaxOrderRows:
		return MaxOrderRows
	}
	return n
}

// rowIndexes returns the indexes of every sku_i/qty_i field in the form in
// ascending order, which is the order the rows appear on the page. row_count
// is not consulted.
func rowIndexes(form url.Values) []int {
	seen := make(map[int]bool)
	for key := range form {
		var idx string
		switch {
		case strings.HasPrefix(key, "sku_"):
			idx = strings.TrimPrefix(key, "sku_")
		case strings.HasPrefix(key, "qty_"):
			idx = strings.TrimPrefix(key, "qty_")
		default:
			continue
		}
		i, err := strconv.Atoi(idx)
		if err != nil || i < 1 {
			continue
		}
		seen[i] = true
	}

	indexes := make([]int, 0, len(seen))
	for i := range seen {
		indexes = append(indexes, i)
	}
	slices.Sort(indexes)
	return indexes
}

// CollectOrderLines pairs sku_i with qty_i for every row in the form, in
// index order. Values are passed through untouched: empty SKUs, non-numeric
// quantities and duplicates are all kept.
func CollectOrderLines(form url.Values) []OrderLine {
	rows := CollectOrderRows(form)
	lines := make([]OrderLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, OrderLine{SKU: row.SKU, Qty: row.Qty})
	}
	return lines
}

// CollectOrderRows is like CollectOrderLines but keeps the row indexes so the
// form can be re-rendered with the user's values.
func CollectOrderRows(form url.Values) []OrderRow {
	indexes := rowIndexes(form)
	rows := make([]OrderRow, 0, len(indexes))
	for _, i := range indexes {
		row := OrderRow{Index: i}
		row.SKU = form.Get(row.SKUFieldID())
		row.Qty = form.Get(row.QtyFieldID())
		rows = append(rows, row)
	}
	return rows
}

// ViewMode says which of the two order cards is visible.
type ViewMode string

const (
	ViewLineByLine ViewMode = "line-by-line"
	ViewBulkPaste  ViewMode = "bulk-paste"
)

// ParseViewMode maps a form value to a ViewMode. Anything unknown is line-by-line.
func ParseViewMode(s string) ViewMode {
	if ViewMode(strings.TrimSpace(s)) == ViewBulkPaste {
		return ViewBulkPaste
	}
	return ViewLineByLine
}

// Toggle returns the other mode.
func (v ViewMode) Toggle() ViewMode {
	if v == ViewBulkPaste {
		return ViewLineByLine
	}
	return ViewBulkPaste
}

// ButtonLabel is the text of the mode switch button: it names the mode the
// user would switch to.
func (v ViewMode) ButtonLabel() string {
	if v == ViewBulkPaste {
		return "Build order line by line"
	}
	return "Paste products and quantities"
}

// LineByLineDisplay and BulkPasteDisplay give the CSS display value of each card.
func (v ViewMode) LineByLineDisplay() string {
	if v == ViewBulkPaste {
		return "none"
	}
	return "block"
}

func (v ViewMode) BulkPasteDisplay() string {
	if v == ViewBulkPaste {
		return "block"
	}
	return "none"
}
