package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/ourclass/readlog/internal/readinglog"
)

var userColumns = []string{
	"id", "role", "name", "avatar", "password_hash",
	"goal_type", "goal_value", "goal_week",
}

// rosterRepo implements RosterRepo.
type rosterRepo struct {
	db *sql.DB
}

func (r *rosterRepo) All(ctx context.Context) ([]readinglog.User, error) {
	b := builder()
	query, args := b.Select(userColumns...).
		From(b.Table(tableUsers)).
		OrderBy("name").
		Query()

	users, err := queryUsers(ctx, r.db, query, args)
	if err != nil {
		return nil, err
	}

	credits, err := r.credits(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].GoalAchievedWeeks = credits[users[i].ID]
	}
	return users, nil
}

func (r *rosterRepo) Get(ctx context.Context, id string) (readinglog.User, error) {
	b := builder()
	query, args := b.Select(userColumns...).
		From(b.Table(tableUsers)).
		Where(entsql.EQ("id", id)).
		Query()

	users, err := queryUsers(ctx, r.db, query, args)
	if err != nil {
		return readinglog.User{}, err
	}
	if len(users) == 0 {
		return readinglog.User{}, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}

	credits, err := r.credits(ctx, entsql.EQ("user_id", id))
	if err != nil {
		return readinglog.User{}, err
	}
	u := users[0]
	u.GoalAchievedWeeks = credits[id]
	return u, nil
}

func (r *rosterRepo) Save(ctx context.Context, u readinglog.User) error {
	var goalType, goalValue, goalWeek any
	if u.Goal != nil {
		goalType, goalValue, goalWeek = string(u.Goal.Type), u.Goal.Value, u.Goal.WeekID
	}

	query, args := builder().Insert(tableUsers).
		Columns(userColumns...).
		Values(u.ID, string(u.Role), u.Name, u.Avatar, u.PasswordHash, goalType, goalValue, goalWeek).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()

	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save user %q: %w", u.ID, err)
		}
		for _, wk := range u.GoalAchievedWeeks {
			if _, err := creditWeek(ctx, tx, u.ID, wk); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *rosterRepo) Delete(ctx context.Context, id string) error {
	b := builder()
	delUser, userArgs := b.Delete(tableUsers).Where(entsql.EQ("id", id)).Query()
	delCredits, creditArgs := b.Delete(tableGoalCredits).Where(entsql.EQ("user_id", id)).Query()

	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, delUser, userArgs...)
		if err != nil {
			return fmt.Errorf("delete user %q: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("user %q: %w", id, ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx, delCredits, creditArgs...); err != nil {
			return fmt.Errorf("delete goal credits of %q: %w", id, err)
		}
		return nil
	})
}

func (r *rosterRepo) CreditGoalWeek(ctx context.Context, userID, weekID string) (bool, error) {
	return creditWeek(ctx, r.db, userID, weekID)
}

// creditWeek inserts a goal credit unless one exists for the same user and
// week.
func creditWeek(ctx context.Context, ex execer, userID, weekID string) (bool, error) {
	query, args := builder().Insert(tableGoalCredits).
		Columns("user_id", "week_id", "credited_at").
		Values(userID, weekID, time.Now().UTC()).
		OnConflict(entsql.ConflictColumns("user_id", "week_id"), entsql.DoNothing()).
		Query()

	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("credit goal week %s for %q: %w", weekID, userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("credit goal week: %w", err)
	}
	return n > 0, nil
}

// credits returns credited weeks per user, oldest credit first.
func (r *rosterRepo) credits(ctx context.Context, where *entsql.Predicate) (map[string][]string, error) {
	b := builder()
	sel := b.Select("user_id", "week_id").
		From(b.Table(tableGoalCredits)).
		OrderBy("id")
	if where != nil {
		sel.Where(where)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query goal credits: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var userID, weekID string
		if err := rows.Scan(&userID, &weekID); err != nil {
			return nil, fmt.Errorf("scan goal credit: %w", err)
		}
		out[userID] = append(out[userID], weekID)
	}
	return out, rows.Err()
}

func queryUsers(ctx context.Context, ex execer, query string, args []any) ([]readinglog.User, error) {
	rows, err := ex.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []readinglog.User
	for rows.Next() {
		var (
			u                  readinglog.User
			role               string
			goalType, goalWeek sql.NullString
			goalValue          sql.NullInt64
		)
		if err := rows.Scan(&u.ID, &role, &u.Name, &u.Avatar, &u.PasswordHash, &goalType, &goalValue, &goalWeek); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Role = readinglog.Role(role)
		if goalType.Valid {
			u.Goal = &readinglog.ReadingGoal{
				Type:   readinglog.GoalType(goalType.String),
				Value:  int(goalValue.Int64),
				WeekID: goalWeek.String,
			}
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
