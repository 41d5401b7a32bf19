package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/ourclass/readlog/internal/readinglog"
)

var logColumns = []string{
	"timestamp", "student_id", "student_name", "book_title", "author",
	"rating", "format", "genre", "finished_book", "reflection_type",
	"quick_thought", "minutes_read", "deep_dive_focus", "deep_dive_analysis",
	"teacher_feedback",
}

// logRepo implements LogRepo.
type logRepo struct {
	db *sql.DB
}

// formatTimestamp renders ts as a fixed-width UTC key so equal instants
// always map to the same primary key.
func formatTimestamp(ts time.Time) string {
	return ts.UTC().Format(timestampLayout)
}

func logValues(e readinglog.LogEntry) []any {
	r := e.ToRecord()
	var minutes any
	if r.MinutesRead != nil {
		minutes = *r.MinutesRead
	}
	return []any{
		formatTimestamp(r.Timestamp),
		r.StudentID,
		r.StudentName,
		r.BookTitle,
		r.Author,
		r.Rating,
		string(r.Format),
		r.Genre,
		r.FinishedBook,
		string(r.ReflectionType),
		r.QuickThought,
		minutes,
		string(r.DeepDiveFocus),
		r.DeepDiveAnalysis,
		r.TeacherFeedback,
	}
}

func (r *logRepo) All(ctx context.Context) ([]readinglog.LogEntry, error) {
	return r.query(ctx, nil)
}

func (r *logRepo) ForStudent(ctx context.Context, studentID string) ([]readinglog.LogEntry, error) {
	return r.query(ctx, entsql.EQ("student_id", studentID))
}

func (r *logRepo) query(ctx context.Context, where *entsql.Predicate) ([]readinglog.LogEntry, error) {
	b := builder()
	sel := b.Select(logColumns...).
		From(b.Table(tableLogEntries)).
		OrderBy(entsql.Desc("timestamp"))
	if where != nil {
		sel.Where(where)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query log entries: %w", err)
	}
	defer rows.Close()

	var out []readinglog.LogEntry
	for rows.Next() {
		e, err := scanLogEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *logRepo) Add(ctx context.Context, e readinglog.LogEntry) error {
	query, args := builder().Insert(tableLogEntries).
		Columns(logColumns...).
		Values(logValues(e)...).
		OnConflict(entsql.ConflictColumns("timestamp"), entsql.DoNothing()).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	if n == 0 {
		return readinglog.ErrDuplicateTimestamp
	}
	return nil
}

func (r *logRepo) Update(ctx context.Context, e readinglog.LogEntry) error {
	values := logValues(e)
	upd := builder().Update(tableLogEntries)
	for i, col := range logColumns[1:] {
		upd.Set(col, values[i+1])
	}
	query, args := upd.Where(entsql.EQ("timestamp", values[0])).Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update log entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update log entry: %w", err)
	}
	if n == 0 {
		return readinglog.ErrEntryNotFound
	}
	return nil
}

func scanLogEntry(s scanner) (readinglog.LogEntry, error) {
	var (
		rec     readinglog.Record
		ts      string
		format  string
		refType string
		focus   string
		minutes sql.NullInt64
	)
	err := s.Scan(
		&ts,
		&rec.StudentID,
		&rec.StudentName,
		&rec.BookTitle,
		&rec.Author,
		&rec.Rating,
		&format,
		&rec.Genre,
		&rec.FinishedBook,
		&refType,
		&rec.QuickThought,
		&minutes,
		&focus,
		&rec.DeepDiveAnalysis,
		&rec.TeacherFeedback,
	)
	if err != nil {
		return readinglog.LogEntry{}, fmt.Errorf("scan log entry: %w", err)
	}

	rec.Timestamp, err = time.Parse(timestampLayout, ts)
	if err != nil {
		return readinglog.LogEntry{}, fmt.Errorf("parse log timestamp %q: %w", ts, err)
	}
	rec.Format = readinglog.Format(format)
	rec.ReflectionType = readinglog.ReflectionType(refType)
	rec.DeepDiveFocus = readinglog.DeepDiveFocus(focus)
	if minutes.Valid {
		m := int(minutes.Int64)
		rec.MinutesRead = &m
	}
	return rec.Entry()
}
