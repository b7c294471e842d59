package categorizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/shubhamksm/excel-mapper/internal/models"
	"github.com/shubhamksm/excel-mapper/internal/textutils"
)

// GeminiClient implements AIClient against the Google Gemini API.
type GeminiClient struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// NewGeminiClient creates a Gemini-backed AI client. The model name and
// timeout come from configuration.
func NewGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiClient{apiKey: apiKey, model: model, timeout: timeout}
}

// SuggestCategories sends the uncategorized titles to Gemini in one batch and
// parses the suggested categories back, keyed by normalized title. Unknown
// categories in the response are dropped; the model is constrained to the
// closed category set by the prompt but not trusted to honor it.
func (c *GeminiClient) SuggestCategories(ctx context.Context, records []TitleRecord) (map[string]models.Category, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("Failed to close Gemini client")
		}
	}()

	model := client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(records)))
	if err != nil {
		return nil, fmt.Errorf("Gemini request failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("empty Gemini response")
	}

	return parseSuggestions(text), nil
}

// buildPrompt lists the allowed categories and the titles to classify, asking
// for one "title | category" line per title.
func buildPrompt(records []TitleRecord) string {
	names := make([]string, 0, len(models.AllCategories))
	for _, c := range models.AllCategories {
		names = append(names, c.Display())
	}

	var b strings.Builder
	b.WriteString("Help categorize these bank transaction descriptions.\n")
	b.WriteString("Only use these categories: ")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(".\nBe precise and consistent. ")
	b.WriteString("If a description contains a person's name, use the Personal category.\n")
	b.WriteString("Answer with one line per description in the exact form: description | category\n\n")
	b.WriteString("Descriptions:\n")
	for _, r := range records {
		b.WriteString(r.Title)
		b.WriteString("\n")
	}
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}

// parseSuggestions reads "title | category" lines, keeping only categories
// from the closed set.
func parseSuggestions(text string) map[string]models.Category {
	suggestions := make(map[string]models.Category)
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, "|", 2)
		if len(parts) != 2 {
			continue
		}
		title := strings.TrimSpace(parts[0])
		category, ok := models.ParseCategory(parts[1])
		if !ok {
			log.WithFields(logrus.Fields{
				"title":    title,
				"category": strings.TrimSpace(parts[1]),
			}).Debug("Dropping suggestion outside the closed category set")
			continue
		}
		suggestions[textutils.NormalizeTitle(title)] = category
	}
	return suggestions
}
