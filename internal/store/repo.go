package store

import (
	"context"
	"errors"
	"time"

	"github.com/ourclass/readlog/internal/readinglog"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match
}

// LogRepo persists reading log entries.
type LogRepo interface {
	// All returns every entry, newest first.
	All(ctx context.Context) ([]readinglog.LogEntry, error)

	// ForStudent returns the student's entries, newest first.
	ForStudent(ctx context.Context, studentID string) ([]readinglog.LogEntry, error)

	// Add stores a new entry. It returns readinglog.ErrDuplicateTimestamp if
	// an entry with the same timestamp exists.
	Add(ctx context.Context, e readinglog.LogEntry) error

	// Update replaces the entry with the same timestamp. It returns
	// readinglog.ErrEntryNotFound if there is none.
	Update(ctx context.Context, e readinglog.LogEntry) error
}

// RosterRepo persists users and their goal credits.
type RosterRepo interface {
	// All returns every user, including credited goal weeks.
	All(ctx context.Context) ([]readinglog.User, error)

	// Get returns one user or ErrNotFound.
	Get(ctx context.Context, id string) (readinglog.User, error)

	// Save inserts or replaces the user. Goal weeks on u are credited; weeks
	// already credited are never removed.
	Save(ctx context.Context, u readinglog.User) error

	// Delete removes the user and their goal credits.
	Delete(ctx context.Context, id string) error

	// CreditGoalWeek records a goal credit for weekID. It reports false when
	// the week was already credited.
	CreditGoalWeek(ctx context.Context, userID, weekID string) (bool, error)
}

// SettingsRepo persists class-wide settings.
type SettingsRepo interface {
	ClassSettings(ctx context.Context) (readinglog.ClassSettings, error)
	SaveClassSettings(ctx context.Context, s readinglog.ClassSettings) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates token usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
