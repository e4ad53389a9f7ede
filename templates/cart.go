package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"bulkorder/services"
)

// CartPageData is what the cart page shows.
type CartPageData struct {
	Cart         services.CartSummary
	BulkOrderURL string
	PDFURL       string
	ExcelURL     string
}

// CartPage is the full cart document.
func CartPage(data CartPageData) templ.Component {
	return Layout("Shopping Cart", CartContent(data))
}

// CartContent lists the cart lines with totals and export links.
func CartContent(data CartPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section id="cart"><h1>Shopping Cart</h1>`)

		if len(data.Cart.Lines) == 0 {
			b.WriteString(`<p class="empty-state">Your cart is empty.</p>`)
		} else {
			b.WriteString(`<table class="table cart-table"><thead><tr>`)
			for _, h := range []string{"#", "Item Code", "Item Name", "Qty", "UoM", "Rate", "Amount"} {
				fmt.Fprintf(&b, "<th>%s</th>", h)
			}
			b.WriteString(`</tr></thead><tbody>`)
			for _, l := range data.Cart.Lines {
				fmt.Fprintf(&b,
					`<tr class="cart-line" data-item-code="%[2]s"><td>%[1]d</td><td>%[2]s</td><td>%[3]s</td><td class="num">%[4]s</td><td>%[5]s</td><td class="num">%[6]s</td><td class="num">%[7]s</td></tr>`,
					l.SortOrder, esc(l.ItemCode), esc(l.ItemName), services.FormatQty(l.Qty), esc(l.UOM),
					services.FormatMoney(l.Rate), services.FormatMoney(l.Amount))
			}
			b.WriteString(`</tbody><tfoot>`)
			fmt.Fprintf(&b,
				`<tr><td colspan="3">Total</td><td class="num">%s</td><td></td><td></td><td class="num cart-total">%s</td></tr>`,
				services.FormatQty(data.Cart.TotalQty), services.FormatMoney(data.Cart.Total))
			b.WriteString(`</tfoot></table>`)
			fmt.Fprintf(&b, `<p class="cart-exports"><a href="%s">Download quotation (PDF)</a> <a href="%s">Download quotation (Excel)</a></p>`,
				esc(data.PDFURL), esc(data.ExcelURL))
		}

		fmt.Fprintf(&b, `<a class="btn btn-light" href="%s">Continue ordering</a></section>`, esc(data.BulkOrderURL))
		return writeString(w, &b)
	})
}
