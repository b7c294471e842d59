// Package reconciler discovers and binds the two sides of an internal
// transfer recorded independently on two accounts, deriving per-side exchange
// rates when the currencies differ.
package reconciler

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/shubhamksm/excel-mapper/internal/dateutils"
	"github.com/shubhamksm/excel-mapper/internal/models"
)

var log = logrus.New()

// SetLogger allows setting a configured logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// DefaultTransferWindowDays is the calendar-day window within which a
// cross-currency transfer's two sides may be recorded, unless configured
// otherwise.
const DefaultTransferWindowDays = 5

// exchangeRatePlaces is the rounding applied to derived exchange rates.
const exchangeRatePlaces = 4

// Reconcile scans a frozen snapshot of transactions for unlinked transfer
// pairs and links them bidirectionally. It returns only the mutated records,
// in pairs; the caller persists them in a single bulk update. windowDays
// bounds the date gap allowed between the two sides of a cross-currency
// transfer.
//
// Only transactions declaring a reference account and not yet linked are
// considered, so a second pass over an already-reconciled set yields no
// mutations. Candidates are ordered by date then ID before the scan, making
// the first-match tie-break deterministic regardless of input order.
func Reconcile(transactions []models.Transaction, windowDays int) []models.Transaction {
	candidates := make([]*models.Transaction, 0)
	for i := range transactions {
		if transactions[i].IsTransferCandidate() {
			tx := transactions[i]
			candidates = append(candidates, &tx)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].Date.Equal(candidates[j].Date) {
			return candidates[i].Date.Before(candidates[j].Date)
		}
		return candidates[i].ID < candidates[j].ID
	})

	var mutations []models.Transaction
	linked := make(map[string]bool, len(candidates))

	for _, tx := range candidates {
		if linked[tx.ID] {
			continue
		}
		match := findMatch(tx, candidates, linked, windowDays)
		if match == nil {
			continue
		}

		tx.LinkedTransactionID = match.ID
		match.LinkedTransactionID = tx.ID
		tx.ExchangeRate = exchangeRate(tx.Amount, match.Amount)
		match.ExchangeRate = exchangeRate(match.Amount, tx.Amount)
		linked[tx.ID] = true
		linked[match.ID] = true

		log.WithFields(logrus.Fields{
			"transaction": tx.ID,
			"counterpart": match.ID,
			"account":     tx.AccountID,
			"reference":   tx.ReferenceAccountID,
		}).Info("Linked transfer pair")

		mutations = append(mutations, *tx, *match)
	}

	return mutations
}

// findMatch returns the first unlinked candidate, in scan order, that mutually
// cross-references tx and satisfies the amount rule.
func findMatch(tx *models.Transaction, candidates []*models.Transaction, linked map[string]bool, windowDays int) *models.Transaction {
	for _, other := range candidates {
		if other.ID == tx.ID || linked[other.ID] {
			continue
		}
		if other.AccountID != tx.ReferenceAccountID || other.ReferenceAccountID != tx.AccountID {
			continue
		}
		if amountsMatch(tx, other, windowDays) {
			return other
		}
	}
	return nil
}

// amountsMatch applies the transfer matching rule from tx's perspective:
// same currency requires the absolute amounts to agree exactly; differing
// currencies require the dates within the transfer window and the
// counterpart's amount to equal tx's declared reference amount.
func amountsMatch(tx, other *models.Transaction, windowDays int) bool {
	if tx.Currency == other.Currency {
		return tx.Amount.Abs().Equal(other.Amount.Abs())
	}
	if !dateutils.WithinDays(tx.Date, other.Date, windowDays) {
		return false
	}
	if tx.ReferenceAmount == nil {
		return false
	}
	return other.Amount.Abs().Equal(tx.ReferenceAmount.Abs())
}

// exchangeRate derives the rate on the self side: |other/self| rounded to
// four places. A zero self amount defaults the rate to 1.
func exchangeRate(self, other decimal.Decimal) *decimal.Decimal {
	rate := decimal.NewFromInt(1)
	if !self.IsZero() {
		rate = other.Div(self).Abs().Round(exchangeRatePlaces)
	}
	return &rate
}
