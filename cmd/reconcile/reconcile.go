// Package reconcile handles linking transfer transactions across accounts
package reconcile

import (
	"github.com/spf13/cobra"

	"github.com/shubhamksm/excel-mapper/cmd/root"
	"github.com/shubhamksm/excel-mapper/internal/config"
	"github.com/shubhamksm/excel-mapper/internal/reconciler"
)

// Cmd represents the reconcile command
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Link transfer transactions across accounts",
	Long: `Scan the ledger for balance corrections that reference another
account and link the two sides of each transfer. Cross-currency pairs
are matched within a date window and get an exchange rate stamped.
Running it again is harmless; linked pairs are never relinked.`,
	RunE: reconcileFunc,
}

func reconcileFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Reconcile command called")

	ledger := root.Store()

	withRef, err := ledger.TransactionsWithReference()
	if err != nil {
		return err
	}

	linked := reconciler.Reconcile(withRef, config.GetReconcileWindowDays())
	if len(linked) == 0 {
		root.Log.Info("No new transfer pairs found")
		return nil
	}

	updated, err := ledger.UpdateTransactions(linked)
	if err != nil {
		return err
	}
	root.Log.Infof("Linked %d transfer transactions (%d pairs)", updated, updated/2)
	return nil
}
