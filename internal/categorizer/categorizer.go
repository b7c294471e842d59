// Package categorizer assigns categories to imported transaction titles using
// two sources: a persisted title-to-category memory from earlier import
// sessions and an AI suggestion service for the titles the memory does not
// cover. Manual assignments always win over suggestions.
package categorizer

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/shubhamksm/excel-mapper/internal/models"
	"github.com/shubhamksm/excel-mapper/internal/textutils"
)

var log = logrus.New()

// SetLogger allows setting a configured logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// TitleRecord is one merchant group under review: the first-seen raw title,
// its normalized form, the current category and how many candidates share it.
type TitleRecord struct {
	Title           string
	NormalizedTitle string
	Category        models.Category
	Count           int
}

// Memory is the persisted normalized-title to category side-table. It is a
// convenience cache, not required for correctness. Callers treat it as an
// immutable snapshot: GroupTitles reads it, UpdateMemory derives the next
// snapshot, and the caller pushes that to storage.
type Memory map[string]models.Category

// GroupTitles groups raw titles by their normalized form, attaching the
// remembered category where the memory has one and the default marker where
// it does not. Records are sorted by occurrence count descending (title
// ascending on ties) to put the highest-volume merchants first for review.
func GroupTitles(titles []string, memory Memory) []TitleRecord {
	index := make(map[string]int)
	var records []TitleRecord

	for _, title := range titles {
		normalized := textutils.NormalizeTitle(title)
		if i, ok := index[normalized]; ok {
			records[i].Count++
			continue
		}

		category := models.CategoryUncategorized
		if remembered, ok := memory[normalized]; ok && remembered.IsAssigned() {
			category = remembered
		}
		index[normalized] = len(records)
		records = append(records, TitleRecord{
			Title:           title,
			NormalizedTitle: normalized,
			Category:        category,
			Count:           1,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Count != records[j].Count {
			return records[i].Count > records[j].Count
		}
		return records[i].Title < records[j].Title
	})
	return records
}

// UpdateMemory returns a new memory snapshot with the records folded in. The
// input snapshot is not modified.
func UpdateMemory(memory Memory, records []TitleRecord) Memory {
	updated := make(Memory, len(memory)+len(records))
	for k, v := range memory {
		updated[k] = v
	}
	for _, r := range records {
		updated[r.NormalizedTitle] = r.Category
	}
	return updated
}

// CategoriesByTitle extracts the commit-ready normalized-title lookup from
// reviewed records.
func CategoriesByTitle(records []TitleRecord) map[string]models.Category {
	result := make(map[string]models.Category, len(records))
	for _, r := range records {
		result[r.NormalizedTitle] = r.Category
	}
	return result
}

// MergeSuggestions applies AI suggestions to the records, keyed by normalized
// title. A suggestion never overwrites an already-assigned category; only
// uncategorized records change. Returns the number of records updated.
func MergeSuggestions(records []TitleRecord, suggestions map[string]models.Category) int {
	updated := 0
	for i := range records {
		if records[i].Category.IsAssigned() {
			continue
		}
		if suggested, ok := suggestions[records[i].NormalizedTitle]; ok && suggested.IsAssigned() {
			records[i].Category = suggested
			updated++
		}
	}
	return updated
}

// Categorizer runs AI-assisted categorization over title records.
type Categorizer struct {
	aiClient AIClient
}

// NewCategorizer creates a Categorizer backed by the given AI client. A nil
// client disables suggestions.
func NewCategorizer(aiClient AIClient) *Categorizer {
	return &Categorizer{aiClient: aiClient}
}

// SuggestCategories asks the AI client for categories for the records that
// are currently uncategorized and merges the answers in place. Disabled AI is
// not an error; the records simply stay as they are.
func (c *Categorizer) SuggestCategories(ctx context.Context, records []TitleRecord) (int, error) {
	if c.aiClient == nil {
		log.Debug("AI categorization disabled, skipping suggestions")
		return 0, nil
	}

	var uncategorized []TitleRecord
	for _, r := range records {
		if !r.Category.IsAssigned() {
			uncategorized = append(uncategorized, r)
		}
	}
	if len(uncategorized) == 0 {
		return 0, nil
	}

	suggestions, err := c.aiClient.SuggestCategories(ctx, uncategorized)
	if err != nil {
		return 0, fmt.Errorf("AI categorization failed: %w", err)
	}

	updated := MergeSuggestions(records, suggestions)
	log.WithFields(logrus.Fields{
		"requested": len(uncategorized),
		"updated":   updated,
	}).Info("Applied AI category suggestions")
	return updated, nil
}

// ApplyCategoryCorrection retags the transaction with the given ID and every
// other transaction sharing its normalized title, preserving all other
// fields. It returns the mutated transactions for a bulk update.
func ApplyCategoryCorrection(transactions []models.Transaction, transactionID string, category models.Category) ([]models.Transaction, error) {
	var target *models.Transaction
	for i := range transactions {
		if transactions[i].ID == transactionID {
			target = &transactions[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("transaction %s not found", transactionID)
	}

	normalized := textutils.NormalizeTitle(target.Title)
	var mutations []models.Transaction
	for i := range transactions {
		if textutils.NormalizeTitle(transactions[i].Title) != normalized {
			continue
		}
		if transactions[i].Category == category {
			continue
		}
		transactions[i].Category = category
		mutations = append(mutations, transactions[i])
	}

	log.WithFields(logrus.Fields{
		"transaction": transactionID,
		"category":    category,
		"updated":     len(mutations),
	}).Info("Applied category correction across matching titles")
	return mutations, nil
}
