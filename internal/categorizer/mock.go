package categorizer

import (
	"context"

	"github.com/shubhamksm/excel-mapper/internal/models"
)

// MockAIClient is an AIClient for tests: it returns canned suggestions and
// records what it was asked.
type MockAIClient struct {
	Suggestions map[string]models.Category
	Err         error

	// Requested collects the records passed to SuggestCategories.
	Requested []TitleRecord
}

// SuggestCategories returns the canned suggestions or the configured error.
func (m *MockAIClient) SuggestCategories(_ context.Context, records []TitleRecord) (map[string]models.Category, error) {
	m.Requested = append(m.Requested, records...)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Suggestions, nil
}
