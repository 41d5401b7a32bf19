// Package coach produces AI-written reading insights for teachers and
// students. Every call degrades to a fixed fallback message when the model
// is unavailable.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ourclass/readlog/internal/llm"
	"github.com/ourclass/readlog/internal/readinglog"
)

// Messages shown in place of an answer when a call fails.
const (
	FallbackStudentAnalysis = "An error occurred while analyzing the reading data. Please check the logs for details."
	FallbackClassAnalysis   = "An error occurred while analyzing class data."
	FallbackFeedback        = "Could not generate feedback due to an error."
)

// ErrNoLogs is returned when there is nothing to analyze.
var ErrNoLogs = errors.New("no reading logs to analyze")

const (
	defaultTimeout   = 60 * time.Second
	analysisTokens   = 1500
	feedbackTokens   = 300
	recommendTokens  = 800
	feedbackTemp     = 0.7
	recommendTemp    = 0.5
	coverAspectRatio = "3:4"
)

// Coach wraps a provider with the reading-specific prompts.
type Coach struct {
	provider llm.Provider
	images   llm.ImageGenerator
	log      *slog.Logger
	timeout  time.Duration
}

// Option configures a Coach.
type Option func(*Coach)

// WithImages enables CoverImage.
func WithImages(g llm.ImageGenerator) Option {
	return func(c *Coach) { c.images = g }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Coach) { c.log = l }
}

// WithTimeout bounds each call including retries.
func WithTimeout(d time.Duration) Option {
	return func(c *Coach) { c.timeout = d }
}

// New creates a Coach. A nil provider is allowed; every call then fails
// with llm.ErrNotConfigured and the fallback text.
func New(p llm.Provider, opts ...Option) *Coach {
	c := &Coach{provider: p, log: slog.Default(), timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether a provider is configured.
func (c *Coach) Available() bool {
	return c.provider != nil
}

// CanDraw reports whether CoverImage can work.
func (c *Coach) CanDraw() bool {
	return c.images != nil
}

// AnalyzeStudent summarizes one student's reflections, names their
// favourite genres and suggests three new books. The answer is markdown.
func (c *Coach) AnalyzeStudent(ctx context.Context, logs []readinglog.LogEntry) (string, error) {
	if len(logs) == 0 {
		return FallbackStudentAnalysis, ErrNoLogs
	}
	data, err := logsJSON(logs)
	if err != nil {
		return FallbackStudentAnalysis, err
	}
	req := llm.UserPrompt(studentAnalysisSystem, studentAnalysisPrompt+data)
	req.MaxTokens = analysisTokens
	return c.text(ctx, llm.PurposeStudentAnalysis, req, FallbackStudentAnalysis)
}

// AnalyzeClass reports the class's popular genres and books with one
// suggestion for the teacher. The answer is markdown.
func (c *Coach) AnalyzeClass(ctx context.Context, logs []readinglog.LogEntry) (string, error) {
	if len(logs) == 0 {
		return FallbackClassAnalysis, ErrNoLogs
	}
	data, err := logsJSON(logs)
	if err != nil {
		return FallbackClassAnalysis, err
	}
	req := llm.UserPrompt(classAnalysisSystem, classAnalysisPrompt+data)
	req.MaxTokens = analysisTokens
	return c.text(ctx, llm.PurposeClassAnalysis, req, FallbackClassAnalysis)
}

// SuggestFeedback drafts a short encouraging comment on one entry for the
// teacher to edit.
func (c *Coach) SuggestFeedback(ctx context.Context, entry readinglog.LogEntry) (string, error) {
	prompt := fmt.Sprintf(feedbackPrompt, entry.BookTitle, entry.ReflectionText())
	req := llm.UserPrompt(feedbackSystem, prompt)
	req.MaxTokens = feedbackTokens
	req.Temperature = feedbackTemp
	return c.text(ctx, llm.PurposeFeedback, req, FallbackFeedback)
}

func (c *Coach) text(ctx context.Context, purpose string, req llm.Request, fallback string) (string, error) {
	resp, err := c.generate(ctx, purpose, req)
	if err != nil {
		return fallback, err
	}
	out := strings.TrimSpace(resp.Text())
	if out == "" {
		c.log.Warn("empty coach answer", "purpose", purpose)
		return fallback, &llm.ErrInvalidResponse{Content: resp.Content, Err: errors.New("empty answer")}
	}
	return out, nil
}

func (c *Coach) generate(ctx context.Context, purpose string, req llm.Request) (*llm.Response, error) {
	if c.provider == nil {
		return nil, llm.ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, purpose), c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		c.log.Error("coach request failed", "purpose", purpose, "error", err)
		return nil, fmt.Errorf("%s: %w", purpose, err)
	}
	c.log.Debug("coach request done", "purpose", purpose, "model", resp.Model, "took", time.Since(start))
	return resp, nil
}

// logsJSON renders logs in their persisted JSON shape for a prompt.
func logsJSON(logs []readinglog.LogEntry) (string, error) {
	b, err := json.MarshalIndent(logs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode logs: %w", err)
	}
	return string(b), nil
}
