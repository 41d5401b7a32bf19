package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/ourclass/readlog/internal/readinglog"
)

// settingsRepo implements SettingsRepo as rows of a key/value table.
type settingsRepo struct {
	db *sql.DB
}

func (r *settingsRepo) ClassSettings(ctx context.Context) (readinglog.ClassSettings, error) {
	settings := readinglog.DefaultClassSettings()

	b := builder()
	query, args := b.Select("value").
		From(b.Table(tableSettings)).
		Where(entsql.EQ("key", settingsClassCode)).
		Query()

	var code string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&code)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return settings, nil
	case err != nil:
		return settings, fmt.Errorf("query class settings: %w", err)
	}
	settings.ClassCode = code
	return settings, nil
}

func (r *settingsRepo) SaveClassSettings(ctx context.Context, s readinglog.ClassSettings) error {
	query, args := builder().Insert(tableSettings).
		Columns("key", "value").
		Values(settingsClassCode, s.ClassCode).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save class settings: %w", err)
	}
	return nil
}
