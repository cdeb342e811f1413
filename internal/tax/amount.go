package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencyMarks = strings.NewReplacer(
	",", "",
	"৳", "",
	"BDT", "",
	"bdt", "",
	"Tk.", "",
	"Tk", "",
	"tk", "",
	"TK", "",
	" ", "",
)

// ParseAmount parses user-formatted money such as "20,000", "৳ 20,000",
// "Tk 500" or "1,00,000.50". Anything else that is not a number is
// ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := currencyMarks.Replace(strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero, invalidAmount("%q is empty", s)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, invalidAmount("%q is not a number", s)
	}
	return d, nil
}
