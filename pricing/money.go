package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol is prefixed to every formatted amount
const CurrencySymbol = "₹"

var hundred = decimal.NewFromInt(100)

// Round2 rounds an amount to the currency's minor unit (paise), half away from zero
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatCurrency renders an amount in Indian Rupees with Indian digit grouping.
// Whole amounts carry no fraction digits; anything with paise shows exactly two.
//
//	1180      -> ₹1,180
//	1180.5    -> ₹1,180.50
//	1234567.8 -> ₹12,34,567.80
func FormatCurrency(amount decimal.Decimal) string {
	amount = Round2(amount)

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	whole := amount.Truncate(0)
	paise := amount.Sub(whole).Mul(hundred).IntPart()

	out := sign + CurrencySymbol + groupIndian(whole.String())
	if paise != 0 {
		frac := amount.StringFixed(2)
		out += frac[strings.IndexByte(frac, '.'):]
	}
	return out
}

// groupIndian inserts separators as 12,34,567: the last three digits, then pairs
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}
