package readinglog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	// MinQuickThoughtLen is the minimum trimmed length of a quick thought.
	MinQuickThoughtLen = 20

	// MinDeepDiveLen is the minimum trimmed length of a Deep Dive analysis.
	MinDeepDiveLen = 50
)

// Draft is a reading log as submitted by the authoring form, before it has
// a timestamp or a reflection variant.
type Draft struct {
	BookTitle        string        `json:"bookTitle" validate:"notblank"`
	Author           string        `json:"author" validate:"notblank"`
	Rating           int           `json:"rating" validate:"min=1,max=5"`
	Format           Format        `json:"format" validate:"format"`
	Genre            string        `json:"genre" validate:"genre"`
	FinishedBook     bool          `json:"finishedBook"`
	QuickThought     string        `json:"quickThought"`
	MinutesRead      int           `json:"minutesRead" validate:"min=0"`
	DeepDiveFocus    DeepDiveFocus `json:"deepDiveFocus"`
	DeepDiveAnalysis string        `json:"deepDiveAnalysis"`
}

// FieldError is a single failed check on a draft field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every failed check on a draft, in field order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, " ")
}

// First returns the name of the first failing field.
func (e *ValidationError) First() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0].Field
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	must(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	must(v.RegisterValidation("format", func(fl validator.FieldLevel) bool {
		return Format(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return IsGenre(fl.Field().String())
	}))
	v.RegisterStructValidation(reflectionValidation, Draft{})
	return v
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("readinglog: register validation: %v", err))
	}
}

// reflectionLen counts characters, not bytes, after trimming.
func reflectionLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// reflectionValidation enforces the reflection rules that depend on whether
// the book was finished.
func reflectionValidation(sl validator.StructLevel) {
	d := sl.Current().Interface().(Draft)
	if d.FinishedBook {
		if !d.DeepDiveFocus.Valid() {
			sl.ReportError(d.DeepDiveFocus, "deepDiveFocus", "DeepDiveFocus", "focus", "")
		}
		if reflectionLen(d.DeepDiveAnalysis) < MinDeepDiveLen {
			sl.ReportError(d.DeepDiveAnalysis, "deepDiveAnalysis", "DeepDiveAnalysis", "reflectionlen", fmt.Sprint(MinDeepDiveLen))
		}
		return
	}
	if reflectionLen(d.QuickThought) < MinQuickThoughtLen {
		sl.ReportError(d.QuickThought, "quickThought", "QuickThought", "reflectionlen", fmt.Sprint(MinQuickThoughtLen))
	}
}

// Validate checks the draft and returns a *ValidationError describing every
// problem, or nil.
func (d Draft) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate draft: %w", err)
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "bookTitle":
		return "Book title is required."
	case "author":
		return "Author is required."
	case "rating":
		return "Rating must be between 1 and 5."
	case "format":
		return "Please choose a book format."
	case "genre":
		return "Please choose a genre from the list."
	case "minutesRead":
		return "Minutes read cannot be negative."
	case "deepDiveFocus":
		return "Please choose a focus for your Deep Dive."
	case "deepDiveAnalysis":
		return fmt.Sprintf("Since you finished the book, please provide a detailed analysis (minimum %s characters).", fe.Param())
	case "quickThought":
		return fmt.Sprintf("Please write a bit more for your reflection (minimum %s characters).", fe.Param())
	}
	return fmt.Sprintf("%s is invalid.", fe.Field())
}

// Build validates the draft and turns it into an entry for student at now.
// Finishing a book makes the reflection a Deep Dive; otherwise it is a
// quick thought.
func (d Draft) Build(student User, now time.Time) (LogEntry, error) {
	if err := d.Validate(); err != nil {
		return LogEntry{}, err
	}

	e := LogEntry{
		Timestamp:    now,
		StudentID:    student.ID,
		StudentName:  student.Name,
		BookTitle:    strings.TrimSpace(d.BookTitle),
		Author:       strings.TrimSpace(d.Author),
		Rating:       d.Rating,
		Format:       d.Format,
		Genre:        d.Genre,
		FinishedBook: d.FinishedBook,
	}
	if d.FinishedBook {
		e.Reflection = DeepDive{
			Focus:    d.DeepDiveFocus,
			Analysis: strings.TrimSpace(d.DeepDiveAnalysis),
		}
	} else {
		e.Reflection = QuickThought{
			Thought:     strings.TrimSpace(d.QuickThought),
			MinutesRead: d.MinutesRead,
		}
	}
	return e, nil
}
