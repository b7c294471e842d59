// Package importer implements the import pipeline: it turns a raw tabular
// file into typed transaction candidates using a user-supplied column
// mapping, and finalizes them into transactions bound to an account.
package importer

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/shubhamksm/excel-mapper/internal/currencyutils"
	"github.com/shubhamksm/excel-mapper/internal/dateutils"
	"github.com/shubhamksm/excel-mapper/internal/models"
	"github.com/shubhamksm/excel-mapper/internal/parsererror"
	"github.com/shubhamksm/excel-mapper/internal/textutils"
)

var log = logrus.New()

// SetLogger allows setting a configured logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Table is a raw parsed import file: the header row in source order plus the
// data rows as string-keyed maps. File-format decoding (CSV, XLSX) happens
// upstream; the pipeline only sees this shape.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Candidate is a transaction-shaped record produced from one raw row, before
// it is bound to an account, currency and final category.
type Candidate struct {
	Title    string
	Amount   decimal.Decimal
	Date     time.Time
	Category models.Category
	Note     string
}

// ReferenceDecl declares the counterparty side of a balance correction at
// commit time: the reference account and, for cross-currency transfers, the
// expected amount on the other side.
type ReferenceDecl struct {
	AccountID string
	Amount    *decimal.Decimal
}

// ExtractHeaders returns the de-duplicated, order-preserving list of column
// names present in the table's header row, skipping blank names.
func ExtractHeaders(table Table) []string {
	seen := make(map[string]struct{}, len(table.Headers))
	var headers []string
	for _, h := range table.Headers {
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		headers = append(headers, h)
	}
	return headers
}

// ValidateMapping reports whether the mapping covers every required target
// field. Extra mapped columns beyond the required set are fine.
func ValidateMapping(mapping models.ColumnMapping) error {
	covered := make(map[models.Field]bool, len(mapping))
	for _, target := range mapping {
		covered[target.Field] = true
	}

	var missing []string
	for _, f := range models.RequiredFields {
		if !covered[f] {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return &parsererror.MappingError{MissingFields: missing}
	}
	return nil
}

// BuildMapping converts user-supplied column targets into a typed mapping.
// Columns targeting an unrecognized field are dropped with a warning; an
// invalid sign policy rejects the column the same way.
func BuildMapping(raw map[string]models.ColumnTarget) models.ColumnMapping {
	mapping := make(models.ColumnMapping, len(raw))
	for column, target := range raw {
		field, ok := models.ParseField(string(target.Field))
		if !ok {
			log.WithFields(logrus.Fields{
				"column": column,
				"field":  target.Field,
			}).Warn("Ignoring column mapped to unrecognized field")
			continue
		}
		policy, ok := models.ParseSignPolicy(string(target.SignPolicy))
		if !ok {
			log.WithFields(logrus.Fields{
				"column":      column,
				"sign_policy": target.SignPolicy,
			}).Warn("Ignoring column with invalid sign policy")
			continue
		}
		mapping[column] = models.ColumnTarget{Field: field, SignPolicy: policy}
	}
	return mapping
}

// MapRows builds one candidate per raw row that contains every source column
// referenced by the mapping. Rows missing a mapped column are silently
// dropped; this best-effort policy is deliberate, partial exports are common.
//
// Amount columns are parsed leniently (unparseable text degrades to zero) and
// summed when several columns target the amount, which supports split
// debit/credit exports. An unparseable date is a row-level defect: the row is
// excluded and reported. A table yielding zero usable rows is a hard error.
func MapRows(table Table, mapping models.ColumnMapping) ([]Candidate, []*parsererror.RowError, error) {
	var candidates []Candidate
	var defects []*parsererror.RowError

	for i, row := range table.Rows {
		if !hasAllMappedColumns(row, mapping) {
			log.WithField("row", i).Debug("Skipping row missing mapped columns")
			continue
		}

		candidate, defect := mapRow(i, row, table.Headers, mapping)
		if defect != nil {
			defects = append(defects, defect)
			continue
		}
		candidates = append(candidates, candidate)
	}

	if len(candidates) == 0 {
		return nil, defects, &parsererror.EmptyInputError{
			Source: "import table",
			Reason: "no rows matched the column mapping",
		}
	}

	log.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"defects":    len(defects),
		"rows":       len(table.Rows),
	}).Info("Mapped raw rows to candidates")
	return candidates, defects, nil
}

func hasAllMappedColumns(row map[string]string, mapping models.ColumnMapping) bool {
	for column := range mapping {
		if _, ok := row[column]; !ok {
			return false
		}
	}
	return true
}

// mapRow applies the mapping to a single row. Mapped columns are visited in
// header order so first-writer-wins is deterministic. A header appearing
// twice carries a single value per row, so each column contributes once;
// without the visited guard a duplicated amount header would be summed twice.
func mapRow(index int, row map[string]string, headers []string, mapping models.ColumnMapping) (Candidate, *parsererror.RowError) {
	var c Candidate
	amountSet := false
	dateSet := false
	visited := make(map[string]struct{}, len(mapping))

	for _, column := range headers {
		target, ok := mapping[column]
		if !ok {
			continue
		}
		if _, done := visited[column]; done {
			continue
		}
		visited[column] = struct{}{}
		value := row[column]

		switch target.Field {
		case models.FieldAmount:
			amount := currencyutils.ParseAmount(value)
			if target.SignPolicy == models.SignDebit {
				amount = amount.Neg()
			}
			if amountSet {
				c.Amount = c.Amount.Add(amount)
			} else {
				c.Amount = amount
				amountSet = true
			}
		case models.FieldDate:
			if dateSet {
				continue
			}
			date, err := dateutils.ParseDate(value)
			if err != nil {
				return Candidate{}, &parsererror.RowError{
					Row: index, Field: string(models.FieldDate), Value: value, Err: err,
				}
			}
			c.Date = date
			dateSet = true
		case models.FieldTitle:
			if c.Title == "" {
				c.Title = value
			}
		case models.FieldCategory:
			if c.Category == "" {
				if category, ok := models.ParseCategory(value); ok {
					c.Category = category
				}
			}
		case models.FieldNote:
			if c.Note == "" {
				c.Note = value
			}
		}
	}

	return c, nil
}

// Commit finalizes candidates into transactions bound to the destination
// account: the final category resolves through the normalized-title lookup,
// balance corrections pick up their declared reference account and optional
// cross-currency reference amount, and account, currency, year and the
// deterministic ID are stamped. Commit performs no I/O; the caller persists
// the result.
func Commit(
	candidates []Candidate,
	categories map[string]models.Category,
	references map[string]ReferenceDecl,
	accountID string,
	currency string,
) []models.Transaction {
	transactions := make([]models.Transaction, 0, len(candidates))
	for _, c := range candidates {
		normalized := textutils.NormalizeTitle(c.Title)

		category := c.Category
		// An unassigned memory entry must not clobber a category the
		// source file supplied.
		if resolved, ok := categories[normalized]; ok && resolved.IsAssigned() {
			category = resolved
		}
		if category == "" {
			category = models.CategoryUncategorized
		}

		year := c.Date.Year()
		tx := models.Transaction{
			ID:        models.TransactionID(accountID, c.Date, c.Amount, currency, year, c.Title),
			AccountID: accountID,
			Year:      year,
			Title:     c.Title,
			Amount:    c.Amount,
			Currency:  currency,
			Date:      c.Date,
			Category:  category,
			Note:      c.Note,
		}

		if category.IsTransfer() {
			if ref, ok := references[normalized]; ok {
				tx.ReferenceAccountID = ref.AccountID
				tx.ReferenceAmount = ref.Amount
			}
		}

		transactions = append(transactions, tx)
	}
	return transactions
}
