// Package store persists the ledger to YAML files under a data directory:
// the transactions themselves, the title-to-category memory carried across
// import sessions, and the account list.
//
// Transaction IDs are derived deterministically from the identifying fields,
// so InsertTransactions dedupes instead of duplicating rows when the same
// file is imported twice.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/shubhamksm/excel-mapper/internal/models"
)

var log = logrus.New()

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Default file names inside the data directory.
const (
	TransactionsFile = "transactions.yaml"
	TitleMapFile     = "title_map.yaml"
	AccountsFile     = "accounts.yaml"
)

// LedgerStore manages loading and saving of ledger data.
type LedgerStore struct {
	DataDir string
}

// NewLedgerStore creates a store rooted at the given data directory.
func NewLedgerStore(dataDir string) *LedgerStore {
	if dataDir == "" {
		dataDir = "data"
	}
	return &LedgerStore{DataDir: dataDir}
}

type transactionsDoc struct {
	Transactions []models.Transaction `yaml:"transactions"`
}

type titleMapDoc struct {
	TitleMap map[string]models.Category `yaml:"title_map"`
}

type accountsDoc struct {
	Accounts []models.Account `yaml:"accounts"`
}

func (s *LedgerStore) path(filename string) string {
	return filepath.Join(s.DataDir, filename)
}

// LoadTransactions loads all persisted transactions. A missing file is an
// empty ledger, not an error.
func (s *LedgerStore) LoadTransactions() ([]models.Transaction, error) {
	filePath := s.path(TransactionsFile)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("Transactions file not found: %s", filePath)
			return nil, nil
		}
		return nil, fmt.Errorf("error reading transactions file: %w", err)
	}

	var doc transactionsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing transactions file: %w", err)
	}

	log.Debugf("Loaded %d transactions from %s", len(doc.Transactions), filePath)
	return doc.Transactions, nil
}

func (s *LedgerStore) saveTransactions(transactions []models.Transaction) error {
	if err := os.MkdirAll(s.DataDir, 0750); err != nil {
		return fmt.Errorf("error creating data directory: %w", err)
	}

	data, err := yaml.Marshal(transactionsDoc{Transactions: transactions})
	if err != nil {
		return fmt.Errorf("error marshaling transactions: %w", err)
	}
	if err := os.WriteFile(s.path(TransactionsFile), data, 0600); err != nil {
		return fmt.Errorf("error writing transactions file: %w", err)
	}
	return nil
}

// InsertTransactions appends new transactions to the ledger, skipping any
// whose ID is already present. Returns how many were inserted and how many
// were deduped.
func (s *LedgerStore) InsertTransactions(transactions []models.Transaction) (inserted, skipped int, err error) {
	existing, err := s.LoadTransactions()
	if err != nil {
		return 0, 0, err
	}

	known := make(map[string]struct{}, len(existing))
	for _, tx := range existing {
		known[tx.ID] = struct{}{}
	}

	for _, tx := range transactions {
		if _, ok := known[tx.ID]; ok {
			skipped++
			continue
		}
		known[tx.ID] = struct{}{}
		existing = append(existing, tx)
		inserted++
	}

	if err := s.saveTransactions(existing); err != nil {
		return 0, 0, err
	}

	log.WithFields(logrus.Fields{
		"inserted": inserted,
		"skipped":  skipped,
	}).Info("Inserted transactions")
	return inserted, skipped, nil
}

// UpdateTransactions replaces persisted transactions by ID in one bulk write.
// Unknown IDs are skipped with a warning.
func (s *LedgerStore) UpdateTransactions(transactions []models.Transaction) (updated int, err error) {
	existing, err := s.LoadTransactions()
	if err != nil {
		return 0, err
	}

	index := make(map[string]int, len(existing))
	for i, tx := range existing {
		index[tx.ID] = i
	}

	for _, tx := range transactions {
		i, ok := index[tx.ID]
		if !ok {
			log.Warnf("Cannot update unknown transaction %s", tx.ID)
			continue
		}
		existing[i] = tx
		updated++
	}

	if err := s.saveTransactions(existing); err != nil {
		return 0, err
	}
	return updated, nil
}

// TransactionsWithReference returns every transaction declaring a reference
// account. This feeds the reconciler.
func (s *LedgerStore) TransactionsWithReference() ([]models.Transaction, error) {
	all, err := s.LoadTransactions()
	if err != nil {
		return nil, err
	}

	var result []models.Transaction
	for _, tx := range all {
		if tx.ReferenceAccountID != "" {
			result = append(result, tx)
		}
	}
	return result, nil
}

// TransactionsByAccount returns the transactions owned by the given account.
func (s *LedgerStore) TransactionsByAccount(accountID string) ([]models.Transaction, error) {
	all, err := s.LoadTransactions()
	if err != nil {
		return nil, err
	}

	var result []models.Transaction
	for _, tx := range all {
		if tx.AccountID == accountID {
			result = append(result, tx)
		}
	}
	return result, nil
}

// LoadTitleMap loads the persisted title-to-category memory. A missing file
// yields an empty memory; the cache is a convenience, not a requirement.
func (s *LedgerStore) LoadTitleMap() (map[string]models.Category, error) {
	filePath := s.path(TitleMapFile)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("Title map file not found: %s", filePath)
			return map[string]models.Category{}, nil
		}
		return nil, fmt.Errorf("error reading title map file: %w", err)
	}

	var doc titleMapDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing title map file: %w", err)
	}
	if doc.TitleMap == nil {
		doc.TitleMap = map[string]models.Category{}
	}

	log.Debugf("Loaded %d title mappings from %s", len(doc.TitleMap), filePath)
	return doc.TitleMap, nil
}

// SaveTitleMap persists the title-to-category memory snapshot.
func (s *LedgerStore) SaveTitleMap(titleMap map[string]models.Category) error {
	if err := os.MkdirAll(s.DataDir, 0750); err != nil {
		return fmt.Errorf("error creating data directory: %w", err)
	}

	data, err := yaml.Marshal(titleMapDoc{TitleMap: titleMap})
	if err != nil {
		return fmt.Errorf("error marshaling title map: %w", err)
	}
	if err := os.WriteFile(s.path(TitleMapFile), data, 0600); err != nil {
		return fmt.Errorf("error writing title map file: %w", err)
	}
	return nil
}

// LoadAccounts loads the account list. The engine reads accounts only to
// stamp currencies and resolve counterparties.
func (s *LedgerStore) LoadAccounts() ([]models.Account, error) {
	filePath := s.path(AccountsFile)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("Accounts file not found: %s", filePath)
			return nil, nil
		}
		return nil, fmt.Errorf("error reading accounts file: %w", err)
	}

	var doc accountsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing accounts file: %w", err)
	}
	return doc.Accounts, nil
}

// AccountByID resolves one account from the accounts file.
func (s *LedgerStore) AccountByID(accountID string) (models.Account, error) {
	accounts, err := s.LoadAccounts()
	if err != nil {
		return models.Account{}, err
	}
	for _, account := range accounts {
		if account.ID == accountID {
			return account, nil
		}
	}
	return models.Account{}, fmt.Errorf("account %s not found", accountID)
}
