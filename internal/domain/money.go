package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	// The API exchanges money as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

var printer = message.NewPrinter(language.English)

// maxAmountLen bounds the digits of a typed amount.
const maxAmountLen = 24

// plainAmount admits digits with an optional fraction. Exponent notation
// is refused so comparisons never rescale by a huge power of ten.
var plainAmount = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseAmount parses a user-entered amount. Anything that is not a
// plain non-negative number fails with "Invalid amount".
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxAmountLen || !plainAmount.MatchString(raw) {
		return decimal.Zero, Invalid("Invalid amount")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero, Invalid("Invalid amount")
	}
	return d, nil
}

// FormatNumber renders d with thousands separators, e.g. 110,000.
func FormatNumber(d decimal.Decimal) string {
	d = d.Round(2)
	neg := d.IsNegative()
	d = d.Abs()

	whole := d.Truncate(0)
	s := printer.Sprintf("%d", whole.IntPart())
	if frac := d.Sub(whole); !frac.IsZero() {
		s += strings.TrimPrefix(frac.StringFixed(2), "0")
	}
	if neg {
		s = "-" + s
	}
	return s
}

// FormatRupiah renders d as an IDR amount, e.g. Rp 110,000.
func FormatRupiah(d decimal.Decimal) string {
	return "Rp " + FormatNumber(d)
}
