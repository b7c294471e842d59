package categorizer

import (
	"context"

	"github.com/shubhamksm/excel-mapper/internal/models"
)

// AIClient is the category-suggestion collaborator. Implementations receive
// the currently-uncategorized title records and return suggested categories
// keyed by normalized title, drawn from the closed category enumeration.
//
// The abstraction keeps the categorization flow testable without external API
// calls and leaves the provider choice open.
type AIClient interface {
	SuggestCategories(ctx context.Context, records []TitleRecord) (map[string]models.Category, error)
}
