package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubhamksm/excel-mapper/internal/models"
)

func testTransaction(accountID, title string, amount decimal.Decimal) models.Transaction {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	return models.Transaction{
		ID:        models.TransactionID(accountID, date, amount, "NOK", 2024, title),
		AccountID: accountID,
		Year:      2024,
		Title:     title,
		Amount:    amount,
		Currency:  "NOK",
		Date:      date,
		Category:  models.CategoryUncategorized,
	}
}

func TestLoadTransactionsMissingFile(t *testing.T) {
	s := NewLedgerStore(t.TempDir())

	transactions, err := s.LoadTransactions()
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestInsertTransactionsDedupesByID(t *testing.T) {
	s := NewLedgerStore(t.TempDir())

	tx1 := testTransaction("nordea", "ICA SUPERMARKET", decimal.NewFromFloat(-520.75))
	tx2 := testTransaction("nordea", "SALARY", decimal.NewFromInt(47000))

	inserted, skipped, err := s.InsertTransactions([]models.Transaction{tx1, tx2})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 0, skipped)

	// Re-importing the same file must not duplicate rows.
	inserted, skipped, err = s.InsertTransactions([]models.Transaction{tx1, tx2})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 2, skipped)

	loaded, err := s.LoadTransactions()
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestInsertTransactionsDedupesWithinBatch(t *testing.T) {
	s := NewLedgerStore(t.TempDir())

	tx := testTransaction("nordea", "ICA SUPERMARKET", decimal.NewFromFloat(-520.75))

	inserted, skipped, err := s.InsertTransactions([]models.Transaction{tx, tx})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 1, skipped)
}

func TestUpdateTransactions(t *testing.T) {
	s := NewLedgerStore(t.TempDir())

	tx := testTransaction("nordea", "ICA SUPERMARKET", decimal.NewFromFloat(-520.75))
	_, _, err := s.InsertTransactions([]models.Transaction{tx})
	require.NoError(t, err)

	tx.Category = models.CategoryGroceries
	updated, err := s.UpdateTransactions([]models.Transaction{tx})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	loaded, err := s.LoadTransactions()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, models.CategoryGroceries, loaded[0].Category)
}

func TestUpdateTransactionsSkipsUnknownID(t *testing.T) {
	s := NewLedgerStore(t.TempDir())

	tx := testTransaction("nordea", "ICA SUPERMARKET", decimal.NewFromFloat(-520.75))
	updated, err := s.UpdateTransactions([]models.Transaction{tx})
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestTransactionsWithReference(t *testing.T) {
	s := NewLedgerStore(t.TempDir())

	plain := testTransaction("nordea", "ICA SUPERMARKET", decimal.NewFromFloat(-520.75))
	transfer := testTransaction("nordea", "TO WISE", decimal.NewFromInt(-5000))
	transfer.Category = models.CategoryBalanceCorrection
	transfer.ReferenceAccountID = "wise"

	_, _, err := s.InsertTransactions([]models.Transaction{plain, transfer})
	require.NoError(t, err)

	withRef, err := s.TransactionsWithReference()
	require.NoError(t, err)
	require.Len(t, withRef, 1)
	assert.Equal(t, transfer.ID, withRef[0].ID)
}

func TestTransactionsByAccount(t *testing.T) {
	s := NewLedgerStore(t.TempDir())

	nordea := testTransaction("nordea", "ICA SUPERMARKET", decimal.NewFromFloat(-520.75))
	wise := testTransaction("wise", "FROM NORDEA", decimal.NewFromInt(5000))

	_, _, err := s.InsertTransactions([]models.Transaction{nordea, wise})
	require.NoError(t, err)

	got, err := s.TransactionsByAccount("wise")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, wise.ID, got[0].ID)
}

func TestTitleMapRoundTrip(t *testing.T) {
	s := NewLedgerStore(t.TempDir())

	// Missing file is an empty memory.
	titleMap, err := s.LoadTitleMap()
	require.NoError(t, err)
	assert.Empty(t, titleMap)

	titleMap = map[string]models.Category{
		"ICA SUPERMARKET": models.CategoryGroceries,
		"SALARY":          models.CategorySalary,
	}
	require.NoError(t, s.SaveTitleMap(titleMap))

	loaded, err := s.LoadTitleMap()
	require.NoError(t, err)
	assert.Equal(t, titleMap, loaded)
}

func TestLoadAccounts(t *testing.T) {
	dir := t.TempDir()
	content := `accounts:
  - id: nordea
    name: Nordea
    type: MAIN
    currency: NOK
  - id: wise
    name: Wise INR
    type: PROXY
    currency: INR
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, AccountsFile), []byte(content), 0600))

	s := NewLedgerStore(dir)
	accounts, err := s.LoadAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, models.AccountTypeMain, accounts[0].Type)
	assert.Equal(t, "INR", accounts[1].Currency)

	account, err := s.AccountByID("wise")
	require.NoError(t, err)
	assert.Equal(t, "Wise INR", account.Name)

	_, err = s.AccountByID("missing")
	assert.Error(t, err)
}

func TestSetLogger(t *testing.T) {
	customLogger := logrus.New()
	customLogger.SetLevel(logrus.DebugLevel)

	SetLogger(customLogger)
	assert.Equal(t, customLogger, log)

	SetLogger(nil)
	assert.Equal(t, customLogger, log)
}
