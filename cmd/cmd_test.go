package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourclass/readlog/internal/readinglog"
	"github.com/ourclass/readlog/internal/store"
)

func TestCoverFileName(t *testing.T) {
	tests := []struct {
		title, mime, want string
	}{
		{"The Wild Robot", "image/jpeg", "the-wild-robot.jpg"},
		{"  Holes!  ", "image/png", "holes.png"},
		{"???", "", "cover.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, coverFileName(tt.title, tt.mime))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, err := parseTimestamp("2024-07-24T15:00:00.123456789Z")
	require.NoError(t, err)
	assert.Equal(t, 123456789, ts.Nanosecond())

	_, err = parseTimestamp("yesterday")
	assert.Error(t, err)
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	return rootCmd.Execute()
}

func TestRosterAndLogCommands(t *testing.T) {
	t.Setenv("READLOG_REDIS_URL", "")
	t.Setenv("READLOG_ENV_FILE", "")
	db := filepath.Join(t.TempDir(), "readlog.db")

	require.NoError(t, execute(t, "roster", "add", "Zed", "--password", "zebra", "--db", db))
	require.NoError(t, execute(t, "log", "add", "zed", "--db", db,
		"--title", "Holes", "--author", "Louis Sachar", "--rating", "4",
		"--genre", "Mystery", "--thought", "Stanley keeps digging every single day.",
		"--minutes", "20"))
	require.NoError(t, execute(t, "goal", "set", "Zed", "minutes", "60", "--db", db))
	require.NoError(t, execute(t, "class", "code", "owls1", "--db", db))

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	users, err := st.RosterRepo().All(ctx)
	require.NoError(t, err)
	var zed *readinglog.User
	for i := range users {
		if users[i].Name == "Zed" {
			zed = &users[i]
		}
	}
	require.NotNil(t, zed)
	require.NotNil(t, zed.Goal)
	assert.Equal(t, readinglog.GoalMinutes, zed.Goal.Type)
	assert.Equal(t, 60, zed.Goal.Value)

	logs, err := st.LogRepo().ForStudent(ctx, zed.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Holes", logs[0].BookTitle)
	assert.Equal(t, 20, logs[0].MinutesRead())

	cs, err := st.SettingsRepo().ClassSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OWLS1", cs.ClassCode)
}

func TestLogAddRejectsInvalidDraft(t *testing.T) {
	t.Setenv("READLOG_REDIS_URL", "")
	t.Setenv("READLOG_ENV_FILE", "")
	db := filepath.Join(t.TempDir(), "readlog.db")

	require.NoError(t, execute(t, "roster", "add", "Ann", "--password", "ant", "--db", db))
	err := execute(t, "log", "add", "Ann", "--db", db, "--title", "", "--author", "", "--thought", "short")
	assert.EqualError(t, err, "log not saved")
}

func TestUnknownStudent(t *testing.T) {
	t.Setenv("READLOG_REDIS_URL", "")
	t.Setenv("READLOG_ENV_FILE", "")
	db := filepath.Join(t.TempDir(), "readlog.db")

	err := execute(t, "goal", "set", "Nobody", "books", "2", "--db", db)
	assert.ErrorContains(t, err, "student not found")
}
