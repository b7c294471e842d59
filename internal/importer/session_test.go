package importer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubhamksm/excel-mapper/internal/dateutils"
	"github.com/shubhamksm/excel-mapper/internal/models"
	"github.com/shubhamksm/excel-mapper/internal/parsererror"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dateutils.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestSessionHappyPath(t *testing.T) {
	session := NewSession()
	assert.Equal(t, StateAwaitingFile, session.State())

	table := Table{
		Headers: []string{"Date", "Description", "Amount"},
		Rows: []map[string]string{
			{"Date": "2024-02-01", "Description": "ICA Supermarket", "Amount": "-520.75"},
			{"Date": "2024-02-05", "Description": "Salary February", "Amount": "47000"},
		},
	}

	headers, err := session.LoadTable(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Description", "Amount"}, headers)

	err = session.MapHeaders(baseMapping())
	require.NoError(t, err)
	assert.Equal(t, StateHeadersMapped, session.State())

	candidates, defects, err := session.BuildCandidates()
	require.NoError(t, err)
	assert.Empty(t, defects)
	require.Len(t, candidates, 2)
	assert.Equal(t, StateCandidatesReady, session.State())

	transactions, err := session.Commit(nil, nil, "account_x", "NOK")
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, session.State())

	// The end-to-end scenario: two transactions, correct amounts, no linkage.
	require.Len(t, transactions, 2)
	assert.True(t, decimal.RequireFromString("-520.75").Equal(transactions[0].Amount))
	assert.True(t, decimal.NewFromInt(47000).Equal(transactions[1].Amount))
	for _, tx := range transactions {
		assert.Equal(t, "account_x", tx.AccountID)
		assert.Equal(t, "NOK", tx.Currency)
		assert.Equal(t, 2024, tx.Year)
		assert.Empty(t, tx.ReferenceAccountID)
		assert.Empty(t, tx.LinkedTransactionID)
	}
}

func TestSessionRejectsEmptyTable(t *testing.T) {
	session := NewSession()

	var emptyErr *parsererror.EmptyInputError

	_, err := session.LoadTable(Table{})
	assert.ErrorAs(t, err, &emptyErr)

	_, err = session.LoadTable(Table{Headers: []string{"Date"}})
	assert.ErrorAs(t, err, &emptyErr, "header row without data rows is an input-shape error")
}

func TestSessionRejectsInsufficientMapping(t *testing.T) {
	session := NewSession()
	_, err := session.LoadTable(Table{
		Headers: []string{"Date", "Description", "Amount"},
		Rows:    []map[string]string{{"Date": "2024-02-01", "Description": "x", "Amount": "1"}},
	})
	require.NoError(t, err)

	err = session.MapHeaders(models.ColumnMapping{
		"Date": {Field: models.FieldDate},
	})
	var mappingErr *parsererror.MappingError
	assert.ErrorAs(t, err, &mappingErr)
	assert.Equal(t, StateAwaitingFile, session.State(), "failed validation must not advance the session")
}

func TestSessionOutOfOrderCalls(t *testing.T) {
	session := NewSession()

	var stateErr *parsererror.StateError

	_, _, err := session.BuildCandidates()
	assert.ErrorAs(t, err, &stateErr)

	_, err = session.Commit(nil, nil, "acct", "NOK")
	assert.ErrorAs(t, err, &stateErr)

	err = session.MapHeaders(baseMapping())
	assert.ErrorAs(t, err, &stateErr, "mapping before a table is loaded is a programming error")
}

func TestSessionRemapRebuildsCandidates(t *testing.T) {
	session := NewSession()
	_, err := session.LoadTable(Table{
		Headers: []string{"Date", "Description", "Amount", "Note"},
		Rows: []map[string]string{
			{"Date": "2024-02-01", "Description": "x", "Amount": "1", "Note": "first"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, session.MapHeaders(baseMapping()))
	_, _, err = session.BuildCandidates()
	require.NoError(t, err)

	// Going back to the mapping step discards the built candidates.
	remapped := baseMapping()
	remapped["Note"] = models.ColumnTarget{Field: models.FieldNote}
	require.NoError(t, session.MapHeaders(remapped))
	assert.Equal(t, StateHeadersMapped, session.State())

	candidates, _, err := session.BuildCandidates()
	require.NoError(t, err)
	assert.Equal(t, "first", candidates[0].Note)
}
