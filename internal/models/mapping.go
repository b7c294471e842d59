package models

import "strings"

// Field identifies the target field a source column maps to.
type Field string

const (
	FieldDate     Field = "DATE"
	FieldAmount   Field = "AMOUNT"
	FieldTitle    Field = "TITLE"
	FieldCategory Field = "CATEGORY"
	FieldNote     Field = "NOTE"
)

// RequiredFields must each be covered by at least one mapped column before an
// import can proceed.
var RequiredFields = []Field{FieldDate, FieldAmount, FieldTitle}

var knownFields = map[Field]struct{}{
	FieldDate:     {},
	FieldAmount:   {},
	FieldTitle:    {},
	FieldCategory: {},
	FieldNote:     {},
}

// ParseField normalizes free-form text to a Field and reports whether it is
// recognized.
func ParseField(s string) (Field, bool) {
	f := Field(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := knownFields[f]
	if !ok {
		return "", false
	}
	return f, true
}

// SignPolicy determines how a parsed amount column contributes to the final
// signed amount. It only applies when the target field is FieldAmount.
type SignPolicy string

const (
	// SignDebit negates the parsed value (debit columns export positive figures).
	SignDebit SignPolicy = "DEBIT"
	// SignCredit passes the parsed value through unchanged.
	SignCredit SignPolicy = "CREDIT"
	// SignBoth passes the parsed value through, sign included.
	SignBoth SignPolicy = "BOTH"
)

// ParseSignPolicy normalizes free-form text to a SignPolicy. An empty string
// defaults to SignBoth.
func ParseSignPolicy(s string) (SignPolicy, bool) {
	p := SignPolicy(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case "":
		return SignBoth, true
	case SignDebit, SignCredit, SignBoth:
		return p, true
	}
	return "", false
}

// ColumnTarget describes where a source column lands and, for amount columns,
// how its sign is treated.
type ColumnTarget struct {
	Field      Field      `yaml:"field"`
	SignPolicy SignPolicy `yaml:"sign_policy,omitempty"`
}

// ColumnMapping maps raw source column names to their targets. It is scoped
// to a single import session.
type ColumnMapping map[string]ColumnTarget
