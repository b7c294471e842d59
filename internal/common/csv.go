// Package common provides shared CSV reading and writing used by the
// import commands.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"github.com/shubhamksm/excel-mapper/internal/importer"
	"github.com/shubhamksm/excel-mapper/internal/models"
	"github.com/shubhamksm/excel-mapper/internal/parsererror"
)

var log = logrus.New()

// Global CSV delimiter - can be configured via centralized config or environment variable
var Delimiter rune = ','

func init() {
	if val := os.Getenv("CSV_DELIMITER"); val != "" {
		// Use first rune only
		SetDelimiter([]rune(val)[0])
	}
}

// SetDelimiter allows setting the delimiter for CSV input and output
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = fmt.Sprintf("%c", delim)
}

// SetLogger allows setting a configured logger
func SetLogger(logger *logrus.Logger) {
	if logger == nil {
		return // Don't change the logger if nil is passed
	}
	log = logger
}

// ReadRawTable reads a CSV export into a header-ordered table. Bank exports
// name their columns freely, so rows are keyed by header text rather than
// unmarshaled into a fixed struct. The header order of the file is preserved;
// column precedence during mapping depends on it.
func ReadRawTable(filePath string) (importer.Table, error) {
	log.WithField("file", filePath).Info("Reading CSV file")

	file, err := os.Open(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to open CSV file")
		return importer.Table{}, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(file)
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		log.WithError(err).Error("Failed to parse CSV file")
		return importer.Table{}, fmt.Errorf("error parsing CSV file: %w", err)
	}
	if len(records) == 0 {
		return importer.Table{}, &parsererror.EmptyInputError{Source: filePath, Reason: "file has no rows"}
	}

	headers := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			}
		}
		rows = append(rows, row)
	}

	log.WithFields(logrus.Fields{
		"headers": len(headers),
		"rows":    len(rows),
	}).Info("Successfully read CSV data")
	return importer.Table{Headers: headers, Rows: rows}, nil
}

// csvTransaction is the flat export shape for one ledger transaction.
type csvTransaction struct {
	ID                  string `csv:"Id"`
	AccountID           string `csv:"Account"`
	Date                string `csv:"Date"`
	Title               string `csv:"Title"`
	Amount              string `csv:"Amount"`
	Currency            string `csv:"Currency"`
	Category            string `csv:"Category"`
	Note                string `csv:"Note"`
	ExchangeRate        string `csv:"Exchange Rate"`
	ReferenceAccountID  string `csv:"Reference Account"`
	ReferenceAmount     string `csv:"Reference Amount"`
	LinkedTransactionID string `csv:"Linked Transaction"`
}

func toCSVTransaction(tx models.Transaction) csvTransaction {
	row := csvTransaction{
		ID:                  tx.ID,
		AccountID:           tx.AccountID,
		Date:                tx.Date.Format("2006-01-02"),
		Title:               tx.Title,
		Amount:              tx.Amount.StringFixed(2),
		Currency:            tx.Currency,
		Category:            tx.Category.Display(),
		Note:                tx.Note,
		ReferenceAccountID:  tx.ReferenceAccountID,
		LinkedTransactionID: tx.LinkedTransactionID,
	}
	if tx.ExchangeRate != nil {
		row.ExchangeRate = tx.ExchangeRate.String()
	}
	if tx.ReferenceAmount != nil {
		row.ReferenceAmount = tx.ReferenceAmount.StringFixed(2)
	}
	return row
}

// WriteTransactionsToCSV writes transactions to a CSV file in a standardized
// format. All commands exporting ledger data use this function.
func WriteTransactionsToCSV(transactions []models.Transaction, csvFile string) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	log.WithFields(logrus.Fields{
		"file":  csvFile,
		"count": len(transactions),
	}).Info("Writing transactions to CSV file")

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		log.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		log.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	rows := make([]csvTransaction, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, toCSVTransaction(tx))
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		log.WithError(err).Error("Failed to marshal transactions to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.WithFields(logrus.Fields{
		"file":  csvFile,
		"count": len(transactions),
	}).Info("Successfully wrote transactions to CSV file")

	return nil
}
