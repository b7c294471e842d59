// Package ingest handles importing a bank CSV export into the ledger
package ingest

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shubhamksm/excel-mapper/cmd/root"
	"github.com/shubhamksm/excel-mapper/internal/common"
	"github.com/shubhamksm/excel-mapper/internal/config"
	"github.com/shubhamksm/excel-mapper/internal/importer"
	"github.com/shubhamksm/excel-mapper/internal/models"
	"github.com/shubhamksm/excel-mapper/internal/reconciler"
	"github.com/shubhamksm/excel-mapper/internal/textutils"
)

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Import a bank CSV export into the ledger",
	Long: `Import a bank CSV export into the ledger using a per-bank profile.
The profile maps source columns to target fields and may declare
reference accounts for transfer titles. Newly imported transactions
are reconciled against the rest of the ledger immediately.`,
	RunE: ingestFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.InputFile, "input", "i", "", "Input CSV file")
	Cmd.Flags().StringVarP(&root.ProfileFile, "profile", "p", "", "Import profile YAML file")
	Cmd.Flags().StringVarP(&root.AccountID, "account", "a", "", "Destination account ID")
	Cmd.Flags().StringVarP(&root.Currency, "currency", "c", "", "Currency code (defaults to the account's currency)")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("profile")
	_ = Cmd.MarkFlagRequired("account")
}

// importProfile is the on-disk shape of a per-bank import profile.
type importProfile struct {
	Columns    map[string]models.ColumnTarget `yaml:"columns"`
	References map[string]referenceEntry      `yaml:"references"`
}

// referenceEntry declares the counterparty of a transfer title: the other
// account and, for cross-currency transfers, the amount expected there.
type referenceEntry struct {
	Account string           `yaml:"account"`
	Amount  *decimal.Decimal `yaml:"amount,omitempty"`
}

func loadProfile(path string) (*importProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading profile file: %w", err)
	}
	var profile importProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("error parsing profile file: %w", err)
	}
	if len(profile.Columns) == 0 {
		return nil, fmt.Errorf("profile %s maps no columns", path)
	}
	return &profile, nil
}

// referenceDecls keys the profile's reference entries by normalized title so
// commit-time lookup matches regardless of numbering or punctuation.
func referenceDecls(profile *importProfile) map[string]importer.ReferenceDecl {
	decls := make(map[string]importer.ReferenceDecl, len(profile.References))
	for title, entry := range profile.References {
		decls[textutils.NormalizeTitle(title)] = importer.ReferenceDecl{
			AccountID: entry.Account,
			Amount:    entry.Amount,
		}
	}
	return decls
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	root.Log.WithField("file", root.InputFile).Info("Ingest command called")

	ledger := root.Store()

	currency := root.Currency
	if currency == "" {
		account, err := ledger.AccountByID(root.AccountID)
		if err != nil {
			return fmt.Errorf("no currency given and account lookup failed: %w", err)
		}
		currency = account.Currency
	}

	profile, err := loadProfile(root.ProfileFile)
	if err != nil {
		return err
	}

	table, err := common.ReadRawTable(root.InputFile)
	if err != nil {
		return err
	}

	session := importer.NewSession()
	if _, err := session.LoadTable(table); err != nil {
		return err
	}
	if err := session.MapHeaders(importer.BuildMapping(profile.Columns)); err != nil {
		return err
	}

	candidates, defects, err := session.BuildCandidates()
	if err != nil {
		return err
	}
	for _, defect := range defects {
		root.Log.WithField("row", defect.Row).Warnf("Skipped defective row: %v", defect)
	}

	titleMap, err := ledger.LoadTitleMap()
	if err != nil {
		return err
	}

	transactions, err := session.Commit(titleMap, referenceDecls(profile), root.AccountID, currency)
	if err != nil {
		return err
	}

	inserted, skipped, err := ledger.InsertTransactions(transactions)
	if err != nil {
		return err
	}
	root.Log.Infof("Imported %d transactions (%d already present, %d candidates, %d defective rows)",
		inserted, skipped, len(candidates), len(defects))

	// Link transfers against the rest of the ledger right away.
	withRef, err := ledger.TransactionsWithReference()
	if err != nil {
		return err
	}
	linked := reconciler.Reconcile(withRef, config.GetReconcileWindowDays())
	if len(linked) > 0 {
		if _, err := ledger.UpdateTransactions(linked); err != nil {
			return err
		}
		root.Log.Infof("Linked %d transfer transactions", len(linked))
	}

	return nil
}
