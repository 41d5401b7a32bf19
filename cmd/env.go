package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ourclass/readlog/internal/classroom"
	"github.com/ourclass/readlog/internal/coach"
	"github.com/ourclass/readlog/internal/config"
	"github.com/ourclass/readlog/internal/leaderboard"
	"github.com/ourclass/readlog/internal/llm"
	"github.com/ourclass/readlog/internal/readinglog"
	"github.com/ourclass/readlog/internal/store"
)

// env is everything a command needs, opened from the resolved config.
type env struct {
	cfg     config.Config
	log     *slog.Logger
	store   *store.Store
	svc     *classroom.Service
	closers []io.Closer
}

// logFileName is written next to the database while the TUI owns the
// terminal.
const logFileName = "readlog.log"

// openEnv loads config, opens (and on first use seeds) the database and
// builds the classroom service. The leaderboard lives in Redis when
// READLOG_REDIS_URL is set and in memory otherwise. With toFile the log
// goes to readlog.log beside the database instead of stderr.
func openEnv(cmd *cobra.Command, toFile bool) (*env, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	e := &env{cfg: cfg}
	var out io.Writer = os.Stderr
	if toFile {
		f, err := os.OpenFile(filepath.Join(filepath.Dir(dbPath), logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		e.closers = append(e.closers, f)
	}
	logger := cfg.Logger(out)
	e.log = logger

	st, err := store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, st)

	ctx := cmd.Context()
	seeded, err := st.Seed(ctx)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("seed database: %w", err)
	}
	if seeded {
		logger.Info("seeded demo class", "db", dbPath)
	}

	var board leaderboard.Board = leaderboard.NewMemory()
	if cfg.RedisURL != "" {
		settings, err := st.SettingsRepo().ClassSettings(ctx)
		if err != nil {
			e.Close()
			return nil, err
		}
		rb, err := leaderboard.OpenRedis(ctx, cfg.RedisURL, settings.ClassCode)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Redis leaderboard unavailable, using in-memory ranking:", err)
		} else {
			board = rb
			e.closers = append(e.closers, rb)
		}
	}

	e.svc = classroom.NewService(classroom.Options{
		Logs:     st.LogRepo(),
		Roster:   st.RosterRepo(),
		Settings: st.SettingsRepo(),
		Board:    board,
		Logger:   logger,
	})
	return e, nil
}

// Close releases everything in reverse order of opening.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && e.log != nil {
			e.log.Warn("close", "error", err)
		}
	}
}

// coach builds the AI coach. Without a configured provider it still works,
// answering every request with its fallback text.
func (e *env) coach(ctx context.Context) *coach.Coach {
	opts := []coach.Option{coach.WithLogger(e.log)}

	cfg, err := llm.ResolveConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
		return coach.New(nil, opts...)
	}
	provider, err := llm.NewProvider(ctx, cfg, e.store.EventRepo(), e.log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider unavailable:", err)
		return coach.New(nil, opts...)
	}
	images, err := llm.NewImageGenerator(ctx, cfg)
	if err != nil {
		e.log.Warn("image generation unavailable", "error", err)
	} else if images != nil {
		opts = append(opts, coach.WithImages(images))
	}
	return coach.New(provider, opts...)
}

// resolveDBPath returns the configured path (--db, then READLOG_DB) or the
// default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// findStudent resolves ref as a student id or, failing that, a name in any
// case.
func findStudent(ctx context.Context, svc *classroom.Service, ref string) (readinglog.User, error) {
	students, err := svc.Students(ctx)
	if err != nil {
		return readinglog.User{}, err
	}
	ref = strings.TrimSpace(ref)
	for _, s := range students {
		if s.ID == ref {
			return s, nil
		}
	}
	var matches []readinglog.User
	for _, s := range students {
		if strings.EqualFold(s.Name, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return readinglog.User{}, fmt.Errorf("%w: %q", classroom.ErrStudentNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return readinglog.User{}, fmt.Errorf("%d students are named %q; use the id from `readlog roster list`", len(matches), ref)
	}
}
