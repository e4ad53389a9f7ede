package services

import (
	"fmt"
	"strings"
	"time"
)

// GetFiscalYear returns the fiscal year string for a given date. The fiscal
// year runs April to March: Jan 2026 → "25-26", May 2026 → "26-27".
func GetFiscalYear(t time.Time) string {
	startYear := t.Year()
	if t.Month() < time.April {
		startYear--
	}
	return fmt.Sprintf("%02d-%02d", startYear%100, (startYear+1)%100)
}

// QuotationReference builds the reference printed on an exported quotation.
// Format: QTN-{fiscal_year}-{cart id, upper-cased}
func QuotationReference(cartID string, now time.Time) string {
	return fmt.Sprintf("QTN-%s-%s", GetFiscalYear(now), strings.ToUpper(cartID))
}
