// Package categorize handles transaction categorization commands
package categorize

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shubhamksm/excel-mapper/cmd/root"
	"github.com/shubhamksm/excel-mapper/internal/categorizer"
	"github.com/shubhamksm/excel-mapper/internal/config"
	"github.com/shubhamksm/excel-mapper/internal/models"
	"github.com/shubhamksm/excel-mapper/internal/textutils"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize ledger transactions by title",
	Long: `Group uncategorized transactions by normalized title and suggest
categories via the Gemini model when AI is enabled. With --apply the
suggestions are written to the title memory and the matching ledger
transactions are retagged.

With --transaction and --category a single correction is applied
instead: every transaction sharing that title gets the new category.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().BoolVar(&root.Apply, "apply", false, "Persist suggestions and retag matching transactions")
	Cmd.Flags().StringVarP(&root.TransactionID, "transaction", "t", "", "Transaction ID to correct")
	Cmd.Flags().StringVarP(&root.CategoryName, "category", "c", "", "Category to assign with --transaction")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Categorize command called")

	if root.TransactionID != "" || root.CategoryName != "" {
		return correctTransaction()
	}
	return suggestCategories(cmd.Context())
}

// correctTransaction retags one transaction and every other transaction
// sharing its normalized title, then records the choice in the title memory.
func correctTransaction() error {
	if root.TransactionID == "" || root.CategoryName == "" {
		return fmt.Errorf("--transaction and --category must be given together")
	}
	category, ok := models.ParseCategory(root.CategoryName)
	if !ok {
		return fmt.Errorf("unknown category: %s", root.CategoryName)
	}

	ledger := root.Store()
	transactions, err := ledger.LoadTransactions()
	if err != nil {
		return err
	}

	changed, err := categorizer.ApplyCategoryCorrection(transactions, root.TransactionID, category)
	if err != nil {
		return err
	}
	if _, err := ledger.UpdateTransactions(changed); err != nil {
		return err
	}

	titleMap, err := ledger.LoadTitleMap()
	if err != nil {
		return err
	}
	records := categorizer.GroupTitles(titlesOf(changed), categorizer.Memory(titleMap))
	for i := range records {
		records[i].Category = category
	}
	if err := ledger.SaveTitleMap(categorizer.UpdateMemory(categorizer.Memory(titleMap), records)); err != nil {
		return err
	}

	root.Log.Infof("Retagged %d transactions as %s", len(changed), category.Display())
	return nil
}

// suggestCategories groups uncategorized titles, asks the AI client for
// suggestions and, with --apply, persists them.
func suggestCategories(ctx context.Context) error {
	ledger := root.Store()
	transactions, err := ledger.LoadTransactions()
	if err != nil {
		return err
	}

	var uncategorized []models.Transaction
	for _, tx := range transactions {
		if !tx.Category.IsAssigned() {
			uncategorized = append(uncategorized, tx)
		}
	}
	if len(uncategorized) == 0 {
		root.Log.Info("All transactions are categorized")
		return nil
	}

	titleMap, err := ledger.LoadTitleMap()
	if err != nil {
		return err
	}
	memory := categorizer.Memory(titleMap)
	records := categorizer.GroupTitles(titlesOf(uncategorized), memory)

	var aiClient categorizer.AIClient
	if config.IsAIEnabled() {
		apiKey := config.GetGlobalConfig().AI.APIKey
		if apiKey == "" {
			apiKey = config.GetGeminiAPIKey()
		}
		aiClient = categorizer.NewGeminiClient(apiKey, config.GetAIModel(),
			time.Duration(config.GetGlobalConfig().AI.TimeoutSeconds)*time.Second)
	}
	suggested, err := categorizer.NewCategorizer(aiClient).SuggestCategories(ctx, records)
	if err != nil {
		return err
	}

	for _, r := range records {
		root.Log.Infof("%-40s %4dx  %s", r.Title, r.Count, r.Category.Display())
	}
	root.Log.Infof("%d titles, %d suggested by AI", len(records), suggested)

	if !root.Apply {
		return nil
	}

	if err := ledger.SaveTitleMap(categorizer.UpdateMemory(memory, records)); err != nil {
		return err
	}

	byTitle := categorizer.CategoriesByTitle(records)
	var changed []models.Transaction
	for _, tx := range uncategorized {
		if category, ok := byTitle[textutils.NormalizeTitle(tx.Title)]; ok && category.IsAssigned() {
			tx.Category = category
			changed = append(changed, tx)
		}
	}
	if len(changed) > 0 {
		if _, err := ledger.UpdateTransactions(changed); err != nil {
			return err
		}
	}
	root.Log.Infof("Retagged %d transactions", len(changed))
	return nil
}

func titlesOf(transactions []models.Transaction) []string {
	titles := make([]string, 0, len(transactions))
	for _, tx := range transactions {
		titles = append(titles, tx.Title)
	}
	return titles
}
