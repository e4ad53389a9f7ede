package services

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xuri/excelize/v2"
)

// orderHeaderAliases maps normalized column headers to order line fields.
var orderHeaderAliases = map[string]string{
	"sku":       "sku",
	"item code": "sku",
	"item_code": "sku",
	"quantity":  "qty",
	"qty":       "qty",
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapOrderHeaders returns the column index of the SKU and quantity columns.
func mapOrderHeaders(headers []string) (skuCol, qtyCol int, err error) {
	skuCol, qtyCol = -1, -1
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, "*"))
		switch orderHeaderAliases[norm] {
		case "sku":
			if skuCol < 0 {
				skuCol = i
			}
		case "qty":
			if qtyCol < 0 {
				qtyCol = i
			}
		}
	}
	if skuCol < 0 || qtyCol < 0 {
		return -1, -1, fmt.Errorf("file must have SKU and Quantity columns")
	}
	return skuCol, qtyCol, nil
}

// ParseOrderFile reads an uploaded .csv or .xlsx order sheet into order lines.
// Rows with an empty SKU are reported and skipped; cell values are stripped
// of any markup.
func ParseOrderFile(file io.Reader, fileName string) ([]OrderLine, []LineError, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, nil, err
	}

	skuCol, qtyCol, err := mapOrderHeaders(headers)
	if err != nil {
		return nil, nil, err
	}

	policy := bluemonday.StrictPolicy()
	cell := func(row []string, col int) string {
		if col >= len(row) {
			return ""
		}
		return strings.TrimSpace(html.UnescapeString(policy.Sanitize(row[col])))
	}

	var lines []OrderLine
	var errs []LineError
	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		sku := cell(row, skuCol)
		qty := cell(row, qtyCol)
		if sku == "" && qty == "" {
			continue
		}
		if sku == "" {
			errs = append(errs, LineError{Line: rowNum, Message: "SKU is required"})
			continue
		}
		lines = append(lines, OrderLine{SKU: sku, Qty: qty})
	}
	return lines, errs, nil
}
