package services

import (
	"github.com/dustin/go-humanize"
)

// FormatMoney formats an amount with thousands separators and exactly two
// decimal places, e.g. 1234.5 -> "1,234.50".
func FormatMoney(amount float64) string {
	return humanize.FormatFloat("#,###.##", amount)
}

// FormatQty prints a quantity without trailing zeros: 10 -> "10", 2.5 -> "2.5".
func FormatQty(qty float64) string {
	return humanize.Ftoa(qty)
}
