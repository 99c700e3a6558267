package payment

import (
	"strings"
)

// maxAmountDigits bounds the integer part so the minor-unit value can never
// overflow int64.
const maxAmountDigits = 12

// ToMinorUnits converts a decimal amount in whole currency units ("999",
// "899.50") into minor units (99900, 89950) using integer arithmetic only.
// At most two fractional digits are accepted; anything else is rejected so
// float rounding can never leak into stored amounts.
func ToMinorUnits(amount string) (int64, bool) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, false
	}

	whole, frac := amount, ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		whole, frac = amount[:i], amount[i+1:]
	}
	if whole == "" || len(whole) > maxAmountDigits || len(frac) > 2 {
		return 0, false
	}

	var units int64
	for _, c := range whole {
		if c < '0' || c > '9' {
			return 0, false
		}
		units = units*10 + int64(c-'0')
	}

	var cents int64
	for _, c := range frac {
		if c < '0' || c > '9' {
			return 0, false
		}
		cents = cents*10 + int64(c-'0')
	}
	if len(frac) == 1 {
		cents *= 10
	}

	minor := units*100 + cents
	if minor <= 0 {
		return 0, false
	}
	return minor, true
}
