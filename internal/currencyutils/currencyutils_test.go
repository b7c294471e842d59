package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	customLogger := logrus.New()

	originalLogger := log
	defer func() {
		log = originalLogger
	}()

	SetLogger(customLogger)
	assert.Equal(t, customLogger, log)

	// Nil must not change the current logger
	SetLogger(nil)
	assert.Equal(t, customLogger, log)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"dot decimal with currency symbol", "123.00$", "123"},
		{"comma decimal", "123,00", "123"},
		{"dot grouping comma decimal", "123.12,40", "12312.4"},
		{"comma grouping dot decimal", "123,12.40", "12312.4"},
		{"us thousands", "12,345,678.90", "12345678.9"},
		{"multiple dot groupings", "123.45.67,00", "1234567"},
		{"multiple comma groupings", "123,45,67.00", "1234567"},
		{"accounting negative", "(123.45)", "-123.45"},
		{"leading minus", "-520.75", "-520.75"},
		{"plain integer", "47000", "47000"},
		{"currency prefix", "NOK 1 250,50", "1250.5"},
		{"empty string", "", "0"},
		{"symbols only", "$,.", "0"},
		{"no digits", "abc", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseAmount(tc.input)
			assert.True(t, decimal.RequireFromString(tc.expected).Equal(got),
				"ParseAmount(%q) = %s, want %s", tc.input, got, tc.expected)
		})
	}
}

func TestParseAmountRoundTrip(t *testing.T) {
	// Canonical non-negative forms with at most one fractional separator and
	// no thousands grouping must parse back to themselves.
	for _, s := range []string{"0", "1", "99.99", "1234.5", "0.01", "100000"} {
		want := decimal.RequireFromString(s)
		got := ParseAmount(want.String())
		assert.True(t, want.Equal(got), "round-trip of %s gave %s", s, got)
	}
}
