package readinglog

import (
	"encoding/json"
	"fmt"
	"time"
)

// Reflection is the student's written response attached to an entry.
// It is either a QuickThought or a DeepDive.
type Reflection interface {
	Type() ReflectionType
	Text() string
	isReflection()
}

// QuickThought is a short reflection on a book still in progress.
type QuickThought struct {
	Thought     string
	MinutesRead int
}

func (QuickThought) Type() ReflectionType { return ReflectionQuickThought }
func (q QuickThought) Text() string       { return q.Thought }
func (QuickThought) isReflection()        {}

// DeepDive is a longer analysis written on finishing a book.
type DeepDive struct {
	Focus    DeepDiveFocus
	Analysis string
}

func (DeepDive) Type() ReflectionType { return ReflectionDeepDive }
func (d DeepDive) Text() string       { return d.Analysis }
func (DeepDive) isReflection()        {}

// LogEntry is one reading reflection. Timestamp is its identity.
type LogEntry struct {
	Timestamp       time.Time
	StudentID       string
	StudentName     string
	BookTitle       string
	Author          string
	Rating          int
	Format          Format
	Genre           string
	FinishedBook    bool
	Reflection      Reflection
	TeacherFeedback string
}

// ReflectionType returns the type of the entry's reflection.
// Entries without a reflection are treated as quick thoughts.
func (e LogEntry) ReflectionType() ReflectionType {
	if e.Reflection == nil {
		return ReflectionQuickThought
	}
	return e.Reflection.Type()
}

// IsDeepDive reports whether the entry carries a Deep Dive reflection.
func (e LogEntry) IsDeepDive() bool {
	_, ok := e.Reflection.(DeepDive)
	return ok
}

// MinutesRead returns the minutes logged with a quick thought, or 0.
func (e LogEntry) MinutesRead() int {
	if q, ok := e.Reflection.(QuickThought); ok {
		return q.MinutesRead
	}
	return 0
}

// ReflectionText returns the reflection body regardless of its type.
func (e LogEntry) ReflectionText() string {
	if e.Reflection == nil {
		return ""
	}
	return e.Reflection.Text()
}

// Record is the flat, serializable shape of a LogEntry. Optional fields are
// empty when they do not apply to the reflection type.
type Record struct {
	Timestamp        time.Time      `json:"timestamp"`
	StudentID        string         `json:"studentId"`
	StudentName      string         `json:"studentName"`
	BookTitle        string         `json:"bookTitle"`
	Author           string         `json:"author"`
	Rating           int            `json:"rating"`
	Format           Format         `json:"format"`
	Genre            string         `json:"genre"`
	ReflectionType   ReflectionType `json:"reflectionType"`
	FinishedBook     bool           `json:"finishedBook"`
	TeacherFeedback  string         `json:"teacherFeedback,omitempty"`
	QuickThought     string         `json:"quickThought,omitempty"`
	MinutesRead      *int           `json:"minutesRead,omitempty"`
	DeepDiveFocus    DeepDiveFocus  `json:"deepDiveFocus,omitempty"`
	DeepDiveAnalysis string         `json:"deepDiveAnalysis,omitempty"`
}

// ToRecord flattens the entry.
func (e LogEntry) ToRecord() Record {
	r := Record{
		Timestamp:       e.Timestamp,
		StudentID:       e.StudentID,
		StudentName:     e.StudentName,
		BookTitle:       e.BookTitle,
		Author:          e.Author,
		Rating:          e.Rating,
		Format:          e.Format,
		Genre:           e.Genre,
		ReflectionType:  e.ReflectionType(),
		FinishedBook:    e.FinishedBook,
		TeacherFeedback: e.TeacherFeedback,
	}
	switch ref := e.Reflection.(type) {
	case QuickThought:
		minutes := ref.MinutesRead
		r.QuickThought = ref.Thought
		r.MinutesRead = &minutes
	case DeepDive:
		r.DeepDiveFocus = ref.Focus
		r.DeepDiveAnalysis = ref.Analysis
	}
	return r
}

// Entry rebuilds a LogEntry from its flat record.
func (r Record) Entry() (LogEntry, error) {
	e := LogEntry{
		Timestamp:       r.Timestamp,
		StudentID:       r.StudentID,
		StudentName:     r.StudentName,
		BookTitle:       r.BookTitle,
		Author:          r.Author,
		Rating:          r.Rating,
		Format:          r.Format,
		Genre:           r.Genre,
		FinishedBook:    r.FinishedBook,
		TeacherFeedback: r.TeacherFeedback,
	}
	switch r.ReflectionType {
	case ReflectionDeepDive:
		e.Reflection = DeepDive{Focus: r.DeepDiveFocus, Analysis: r.DeepDiveAnalysis}
	case ReflectionQuickThought, "":
		q := QuickThought{Thought: r.QuickThought}
		if r.MinutesRead != nil {
			q.MinutesRead = *r.MinutesRead
		}
		e.Reflection = q
	default:
		return LogEntry{}, fmt.Errorf("unknown reflection type %q", r.ReflectionType)
	}
	return e, nil
}

func (e LogEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToRecord())
}

func (e *LogEntry) UnmarshalJSON(data []byte) error {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	entry, err := r.Entry()
	if err != nil {
		return err
	}
	*e = entry
	return nil
}
