// Package money formats rupiah amounts stored as plain integers.
package money

import "strconv"

// FormatIDR renders an amount in minor units as the API's display string:
// "Rp. " prefix, thousands grouped with dots, no decimals.
// 300000 -> "Rp. 300.000".
func FormatIDR(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)

	// Grouped length: one separator per extra group of three digits.
	n := len(digits)
	grouped := make([]byte, 0, n+(n-1)/3)
	for i, d := range []byte(digits) {
		if i > 0 && (n-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}

	return "Rp. " + sign + string(grouped)
}
