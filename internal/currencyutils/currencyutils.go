// Package currencyutils turns free-form amount strings of unknown locale into
// decimal values. Bank exports disagree on thousands and decimal separators,
// so disambiguation works from the separator layout alone.
package currencyutils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a configured logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

var (
	nonNumeric = regexp.MustCompile(`[^0-9.,()\-]`)
	separators = regexp.MustCompile(`[.,]`)
)

// ParseAmount parses a free-form amount string into a signed decimal value.
// It never fails: input without digits or with an unparseable layout yields
// zero. This silent-zero degradation is deliberate policy for amount columns;
// a blank or garbled amount must not reject the whole row.
//
// Handled notations: currency symbols and whitespace anywhere, leading minus,
// accounting parentheses ("(123.45)" is -123.45), thousands groupings with
// either separator, and both comma-decimal and dot-decimal locales.
func ParseAmount(text string) decimal.Decimal {
	cleaned := nonNumeric.ReplaceAllString(text, "")

	negative := false
	if strings.HasPrefix(cleaned, "-") {
		negative = true
	}
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
	}
	cleaned = strings.NewReplacer("-", "", "(", "", ")", "").Replace(cleaned)

	canonical := canonicalize(cleaned)

	amount, err := decimal.NewFromString(canonical)
	if err != nil {
		if canonical != "" {
			log.WithField("input", text).Debug("Unparseable amount, degrading to zero")
		}
		return decimal.Zero
	}

	if negative {
		return amount.Neg()
	}
	return amount
}

// canonicalize rewrites the digits-and-separators string into a form that
// decimal.NewFromString accepts, resolving separator ambiguity:
//
//   - three or more segments: the last segment is the fraction, everything
//     before it is thousands grouping ("12,345,678.90" -> "12345678.90",
//     "123.45.67,00" -> "1234567.00")
//   - exactly one separator and it is a comma: the comma is the decimal
//     point ("123,00" -> "123.00")
//   - otherwise the string is already canonical
func canonicalize(s string) string {
	segments := separators.Split(s, -1)
	if len(segments) > 2 {
		integer := strings.Join(segments[:len(segments)-1], "")
		return integer + "." + segments[len(segments)-1]
	}
	if len(segments) == 2 && strings.Contains(s, ",") {
		return strings.Replace(s, ",", ".", 1)
	}
	return s
}
