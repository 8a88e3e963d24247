// Package money converts between integer minor-currency units ("cents") and
// locale-formatted decimal strings. Amounts are always carried as int64
// cents; binary floating point never represents money. Decimal string
// arithmetic goes through shopspring/decimal.
package money

import (
	"strings"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in integer minor units.
type Cents = int64

// ErrNotANumber is returned by ParseCents when the input is empty or not a
// numeric amount.
var ErrNotANumber = shared.NewDomainError("NOT_A_NUMBER", "input is not a numeric amount")

// currencySymbols maps ISO 4217 codes to their display symbol. Codes without
// an entry are displayed as the code itself.
var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"CAD": "$",
	"CHF": "CHF",
}

// Symbol returns the display symbol for a currency code.
func Symbol(currency string) string {
	if sym, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		return sym
	}
	return currency
}

// FormatCents renders cents as a French-locale decimal string with a comma
// decimal separator and no grouping. minFractionDigits controls padding for
// whole amounts: FormatCents(10000, 0) == "100", FormatCents(10000, 2) ==
// "100,00". Amounts with a non-zero fractional part always show two digits:
// FormatCents(10050, 0) == "100,50".
func FormatCents(cents Cents, minFractionDigits int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	frac := cents % 100

	digits := minFractionDigits
	if frac != 0 && digits < 2 {
		digits = 2
	}
	if digits <= 0 {
		return sign + decimal.NewFromInt(cents/100).String()
	}
	fixed := decimal.NewFromInt(cents).Shift(-2).StringFixed(int32(digits))
	return sign + strings.Replace(fixed, ".", ",", 1)
}

// FormatAmount renders cents as a full display amount with thousands
// grouping, two fraction digits and the currency symbol, e.g.
// "2 500,00 €". The output round-trips through ParseCents.
func FormatAmount(cents Cents, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	fixed := decimal.NewFromInt(cents).Shift(-2).StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	return sign + group(parts[0]) + "," + parts[1] + " " + Symbol(currency)
}

// group inserts a space every three digits from the right.
func group(intPart string) string {
	n := len(intPart)
	if n <= 3 {
		return intPart
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(intPart[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String()
}

// parseSpaceLike covers the exotic space characters user-pasted amounts
// carry (narrow no-break space, no-break space, thin space, zero-width
// space, BOM).
const parseSpaceLike = "    ​\uFEFF"

// ParseCents parses a display amount into integer cents. Both comma and dot
// are accepted as decimal separators, thousands separators and currency
// symbols are stripped, and fraction digits beyond two are truncated (never
// rounded up). Empty or non-numeric input returns ErrNotANumber.
func ParseCents(input string) (Cents, error) {
	cleaned := cleanAmount(input)
	if cleaned == "" || cleaned == "-" {
		return 0, ErrNotANumber
	}

	normalized, ok := normalizeSeparators(cleaned)
	if !ok {
		return 0, ErrNotANumber
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, ErrNotANumber
	}
	// Shift into cents, then truncate whatever precision remains.
	return d.Shift(2).Truncate(0).IntPart(), nil
}

// cleanAmount strips whitespace, currency symbols and codes, keeping only
// digits, separators and a leading sign.
func cleanAmount(input string) string {
	var b strings.Builder
	for _, r := range input {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		case r == ' ' || strings.ContainsRune(parseSpaceLike, r):
			// grouping or padding, dropped
		case r == '€' || r == '$' || r == '£':
			// currency symbol, dropped
		case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
			// currency code letters ("EUR", "CHF"), dropped
		default:
			// any other character disqualifies the input
			return ""
		}
	}
	return b.String()
}

// normalizeSeparators rewrites a cleaned amount into canonical dot-decimal
// form. The rightmost separator is the decimal separator unless it is
// followed by exactly three digits, which marks thousands grouping
// ("1.234" == 1234, "1,234.56" == 1234.56, "100,5" == 100.5).
func normalizeSeparators(s string) (string, bool) {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	last := lastDot
	if lastComma > last {
		last = lastComma
	}
	if last == -1 {
		return s, true
	}

	fracDigits := len(s) - last - 1
	if fracDigits == 0 {
		// trailing separator, e.g. "100,": whole amount
		return strings.Map(dropSeparators, s), true
	}

	if fracDigits == 3 {
		// thousands grouping: every group must be digits only
		stripped := strings.Map(dropSeparators, s)
		if strings.ContainsAny(stripped, ".,") {
			return "", false
		}
		return stripped, true
	}

	intPart := strings.Map(dropSeparators, s[:last])
	fracPart := s[last+1:]
	if strings.ContainsAny(fracPart, ".,") {
		return "", false
	}
	return intPart + "." + fracPart, true
}

func dropSeparators(r rune) rune {
	if r == '.' || r == ',' {
		return -1
	}
	return r
}
