package services

import (
	"fmt"
	"strings"
)

// LineError describes a single order line that could not be applied to the cart.
// Line is 1-based; for structured submissions it is the row index.
type LineError struct {
	Line    int    `json:"line"`
	SKU     string `json:"sku"`
	Message string `json:"message"`
}

func (e LineError) Error() string {
	if e.SKU == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("line %d (%s): %s", e.Line, e.SKU, e.Message)
}

// pastedLine is a parsed bulk paste line together with its position in the text.
type pastedLine struct {
	OrderLine
	Line int
}

// ParsePastedOrder splits a pasted blob into order lines. Each non-blank line
// holds an item code and a quantity separated by a TAB, which is what a copy
// out of a spreadsheet produces. A comma is accepted when the line has no TAB.
// Lines without any separator are reported and skipped.
func ParsePastedOrder(text string) ([]OrderLine, []LineError) {
	parsed, errs := parsePastedLines(text)
	lines := make([]OrderLine, 0, len(parsed))
	for _, p := range parsed {
		lines = append(lines, p.OrderLine)
	}
	return lines, errs
}

func parsePastedLines(text string) ([]pastedLine, []LineError) {
	var lines []pastedLine
	var errs []LineError

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for i, raw := range strings.Split(text, "\n") {
		lineNum := i + 1
		if strings.TrimSpace(raw) == "" {
			continue
		}

		sep := "\t"
		if !strings.Contains(raw, sep) {
			sep = ","
		}
		sku, qty, ok := strings.Cut(raw, sep)
		if !ok {
			errs = append(errs, LineError{
				Line:    lineNum,
				SKU:     strings.TrimSpace(raw),
				Message: "expected an item code and a quantity separated by a tab",
			})
			continue
		}

		lines = append(lines, pastedLine{
			OrderLine: OrderLine{
				SKU: strings.TrimSpace(sku),
				Qty: strings.TrimSpace(qty),
			},
			Line: lineNum,
		})
	}
	return lines, errs
}

// FormatPastedOrder renders order lines in the TAB-separated form that
// ParsePastedOrder reads back.
func FormatPastedOrder(lines []OrderLine) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.SKU)
		b.WriteByte('\t')
		b.WriteString(l.Qty)
	}
	return b.String()
}
