// Package root contains the root command for the application
package root

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shubhamksm/excel-mapper/internal/categorizer"
	"github.com/shubhamksm/excel-mapper/internal/common"
	"github.com/shubhamksm/excel-mapper/internal/config"
	"github.com/shubhamksm/excel-mapper/internal/currencyutils"
	"github.com/shubhamksm/excel-mapper/internal/importer"
	"github.com/shubhamksm/excel-mapper/internal/reconciler"
	"github.com/shubhamksm/excel-mapper/internal/store"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "excel-mapper",
		Short: "A CLI tool to import bank exports into a ledger and reconcile transfers.",
		Long: `excel-mapper imports CSV exports from different banks into one ledger.
Columns are mapped per bank, amounts are parsed regardless of locale,
titles are categorized, and transfers between accounts are linked.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to excel-mapper!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize configuration and logging
			config.LoadEnv()
			config.GetGlobalConfig()
			Log = config.Logger

			// Set the configured logger for all packages
			importer.SetLogger(Log)
			reconciler.SetLogger(Log)
			categorizer.SetLogger(Log)
			currencyutils.SetLogger(Log)
			store.SetLogger(Log)
			common.SetLogger(Log)

			// Apply the configured CSV delimiter; the raw environment
			// variable still wins for backward compatibility
			delim := config.GetCSVDelimiter()
			if env := os.Getenv("CSV_DELIMITER"); env != "" {
				delim = env
			}
			Log.WithField("delimiter", delim).Debug("Setting CSV delimiter")
			common.SetDelimiter([]rune(delim)[0])

			if DataDir == "" {
				DataDir = config.GetDataDirectory()
			}
		},
	}

	// DataDir is the ledger data directory, shared by all commands
	DataDir string

	// Specific ingest command flags
	InputFile   string
	ProfileFile string
	AccountID   string
	Currency    string

	// Specific categorize command flags
	Apply         bool
	TransactionID string
	CategoryName  string

	// Specific export command flags
	OutputFile string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&DataDir, "data-dir", "d", "", "Ledger data directory")
}

// Store returns the ledger store rooted at the configured data directory.
func Store() *store.LedgerStore {
	return store.NewLedgerStore(DataDir)
}
