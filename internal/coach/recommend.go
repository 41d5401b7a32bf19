package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ourclass/readlog/internal/llm"
	"github.com/ourclass/readlog/internal/readinglog"
)

// DefaultRecommendations is the number of books RecommendBooks asks for.
const DefaultRecommendations = 3

// Recommendation is one suggested book.
type Recommendation struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Genre   string `json:"genre"`
	Reason  string `json:"reason"`
	Stretch bool   `json:"stretch"`
}

func recommendationSchema() *llm.Schema {
	return &llm.Schema{
		Name:        "book-recommendations",
		Description: "Books recommended to a student with a reason for each",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"books": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"title":   map[string]any{"type": "string", "minLength": 1},
							"author":  map[string]any{"type": "string", "minLength": 1},
							"genre":   map[string]any{"type": "string", "enum": readinglog.Genres},
							"reason":  map[string]any{"type": "string", "minLength": 1},
							"stretch": map[string]any{"type": "boolean"},
						},
						"required":             []string{"title", "author", "genre", "reason", "stretch"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []string{"books"},
			"additionalProperties": false,
		},
	}
}

// RecommendBooks suggests n new books (DefaultRecommendations when n <= 0)
// for the student who wrote logs. Titles already logged are filtered out.
func (c *Coach) RecommendBooks(ctx context.Context, logs []readinglog.LogEntry, n int) ([]Recommendation, error) {
	if len(logs) == 0 {
		return nil, ErrNoLogs
	}
	if n <= 0 {
		n = DefaultRecommendations
	}
	data, err := logsJSON(logs)
	if err != nil {
		return nil, err
	}

	req := llm.UserPrompt(recommendSystem, fmt.Sprintf(recommendPrompt, n, data))
	req.Schema = recommendationSchema()
	req.MaxTokens = recommendTokens
	req.Temperature = recommendTemp

	resp, err := c.generate(ctx, llm.PurposeRecommendations, req)
	if err != nil {
		return nil, err
	}

	var out struct {
		Books []Recommendation `json:"books"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	return unread(out.Books, logs, n), nil
}

// unread drops recommendations for titles already in logs and caps the
// list at n.
func unread(recs []Recommendation, logs []readinglog.LogEntry, n int) []Recommendation {
	read := make(map[string]bool, len(logs))
	for _, e := range logs {
		read[normalizeTitle(e.BookTitle)] = true
	}
	out := make([]Recommendation, 0, min(len(recs), n))
	for _, r := range recs {
		if read[normalizeTitle(r.Title)] {
			continue
		}
		out = append(out, r)
		if len(out) == n {
			break
		}
	}
	return out
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
