/**
 * @description
 * Boundary parsing for monetary amounts. Clients send decimal strings or JSON
 * numbers; inside the service money is always an int64 count of minor units.
 * The conversion lives here so both the HTTP layer and any other caller apply
 * identical validation.
 *
 * @dependencies
 * - github.com/shopspring/decimal: Exact decimal arithmetic for the conversion.
 */

package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnitScale is the number of decimal places a major currency unit carries
// (two for cent-denominated currencies).
const minorUnitScale = 2

// ParseAmount converts a decimal string such as "50" or "50.25" into minor units.
// It fails with ErrInvalidAmount when the input is empty, not a number, not
// strictly positive, carries sub-minor-unit precision, or overflows int64.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return AmountToMinorUnits(d)
}

// AmountToMinorUnits converts an already-parsed decimal into minor units under
// the same rules as ParseAmount.
func AmountToMinorUnits(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(minorUnitScale)
	if !shifted.IsInteger() {
		return 0, ErrInvalidAmount
	}
	bi := shifted.BigInt()
	if !bi.IsInt64() {
		return 0, ErrInvalidAmount
	}
	minor := bi.Int64()
	if minor <= 0 {
		return 0, ErrInvalidAmount
	}
	return minor, nil
}

// FormatAmount renders minor units back into a fixed two-decimal string for
// exports and API responses, e.g. 10050 -> "100.50".
func FormatAmount(minor int64) string {
	return decimal.New(minor, -minorUnitScale).StringFixed(minorUnitScale)
}
