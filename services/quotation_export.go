package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/xuri/excelize/v2"
)

// QuotationExport is the cart as it appears on an exported quotation.
type QuotationExport struct {
	Title       string
	Reference   string
	CreatedDate string
	Cart        CartSummary
}

// NewQuotationExport prepares export data for a cart.
func NewQuotationExport(cart CartSummary, now time.Time) QuotationExport {
	return QuotationExport{
		Title:       "Quotation",
		Reference:   QuotationReference(cart.CartID, now),
		CreatedDate: now.Format("02 Jan 2006"),
		Cart:        cart,
	}
}

var quotationHeaders = []string{"#", "Item Code", "Item Name", "Qty", "UoM", "Rate", "Amount"}

// GenerateQuotationPDF renders the quotation with maroto/v2.
func GenerateQuotationPDF(data QuotationExport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(text.New(data.Title, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center})),
		),
		row.New(8).Add(
			col.New(6).Add(text.New("Reference: "+data.Reference, props.Text{Size: 9, Align: align.Left})),
			col.New(6).Add(text.New("Date: "+data.CreatedDate, props.Text{Size: 9, Align: align.Right})),
		),
		row.New(4),
	)

	addQuotationTableHeader(m)
	for _, l := range data.Cart.Lines {
		addQuotationRow(m, l)
	}

	totalStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	m.AddRows(
		row.New(6),
		row.New(8).Add(
			col.New(8).Add(text.New("Total", totalStyle)).WithStyle(summaryCell),
			col.New(4).Add(text.New(FormatMoney(data.Cart.Total), totalStyle)).WithStyle(summaryCell),
		),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addQuotationTableHeader(m core.Maroto) {
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	widths := []int{1, 2, 4, 1, 1, 1, 2}

	r := row.New(8)
	for i, h := range quotationHeaders {
		r.Add(col.New(widths[i]).Add(text.New(h, headerText)).WithStyle(headerCell))
	}
	m.AddRows(r)
}

func addQuotationRow(m core.Maroto, l CartLine) {
	base := props.Text{Size: 8, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.SortOrder), base)),
			col.New(2).Add(text.New(l.ItemCode, left)),
			col.New(4).Add(text.New(l.ItemName, left)),
			col.New(1).Add(text.New(FormatQty(l.Qty), right)),
			col.New(1).Add(text.New(l.UOM, base)),
			col.New(1).Add(text.New(FormatMoney(l.Rate), right)),
			col.New(2).Add(text.New(FormatMoney(l.Amount), right)),
		),
	)
}

// GenerateQuotationExcel renders the quotation as a single-sheet workbook.
func GenerateQuotationExcel(data QuotationExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Quotation"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	f.SetCellValue(sheet, "A1", data.Title)
	f.SetCellValue(sheet, "A2", "Reference: "+data.Reference)
	f.SetCellValue(sheet, "A3", "Date: "+data.CreatedDate)

	for i, h := range quotationHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A5", "G5", headerStyle)

	widths := []float64{6, 18, 40, 10, 8, 14, 16}
	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, name, name, w)
	}

	rowNum := 6
	for _, l := range data.Cart.Lines {
		values := []any{l.SortOrder, sanitizeExcelCell(l.ItemCode), sanitizeExcelCell(l.ItemName), l.Qty, l.UOM, l.Rate, l.Amount}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)
			f.SetCellValue(sheet, cell, v)
		}
		rowNum++
	}

	f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), data.Cart.Total)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write quotation workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
