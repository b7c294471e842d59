// Package export handles writing the ledger back out as CSV
package export

import (
	"github.com/spf13/cobra"

	"github.com/shubhamksm/excel-mapper/cmd/root"
	"github.com/shubhamksm/excel-mapper/internal/common"
	"github.com/shubhamksm/excel-mapper/internal/models"
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export ledger transactions to a CSV file",
	RunE:  exportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.OutputFile, "output", "o", "", "Output CSV file")
	Cmd.Flags().StringVarP(&root.AccountID, "account", "a", "", "Only export this account")
	_ = Cmd.MarkFlagRequired("output")
}

func exportFunc(cmd *cobra.Command, args []string) error {
	root.Log.WithField("file", root.OutputFile).Info("Export command called")

	ledger := root.Store()

	var transactions []models.Transaction
	var err error
	if root.AccountID != "" {
		transactions, err = ledger.TransactionsByAccount(root.AccountID)
	} else {
		transactions, err = ledger.LoadTransactions()
	}
	if err != nil {
		return err
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	if err := common.WriteTransactionsToCSV(transactions, root.OutputFile); err != nil {
		return err
	}
	root.Log.Infof("Exported %d transactions to %s", len(transactions), root.OutputFile)
	return nil
}
