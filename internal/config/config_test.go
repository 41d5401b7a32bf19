package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points .env loading at an empty temp dir and clears settings.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range []string{"DB", "VERBOSE", "ENV_FILE", "TEACHER_PASSWORD", "REDIS_URL", "LOG_LEVEL"} {
		t.Setenv(EnvPrefix+"_"+k, "")
		os.Unsetenv(EnvPrefix + "_" + k)
	}
	return dir
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "", "")
	fs.Bool("verbose", false, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, DefaultTeacherPassword, cfg.TeacherPassword)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("READLOG_DB", "/tmp/class.db")
	t.Setenv("READLOG_TEACHER_PASSWORD", "owl")
	t.Setenv("READLOG_REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("READLOG_LOG_LEVEL", "WARN")

	cfg, err := Load(testFlags())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/class.db", cfg.DBPath)
	assert.Equal(t, "owl", cfg.TeacherPassword)
	assert.Equal(t, "redis://localhost:6379/2", cfg.RedisURL)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("READLOG_DB", "/tmp/env.db")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--db", "/tmp/flag.db", "--verbose"}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestDotEnvFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("READLOG_TEACHER_PASSWORD=fromfile\nREADLOG_REDIS_URL=redis://cache:6379\n"), 0o600))
	t.Setenv("READLOG_REDIS_URL", "redis://env:6379")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.TeacherPassword)
	assert.Equal(t, "redis://env:6379", cfg.RedisURL, "the environment wins over .env")
	os.Unsetenv("READLOG_TEACHER_PASSWORD")
}

func TestExplicitEnvFileMustExist(t *testing.T) {
	dir := isolate(t)
	t.Setenv("READLOG_ENV_FILE", filepath.Join(dir, "missing.env"))

	_, err := Load(nil)
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	isolate(t)
	t.Setenv("READLOG_LOG_LEVEL", "chatty")

	_, err := Load(nil)
	assert.ErrorContains(t, err, "chatty")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Config{LogLevel: slog.LevelWarn}.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown", "student", "s1")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "student=s1")
}
