// Package config gathers runtime settings from flags, the environment and
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every setting's environment variable.
const EnvPrefix = "READLOG"

// DefaultTeacherPassword is used when READLOG_TEACHER_PASSWORD is unset.
const DefaultTeacherPassword = "teach123"

// Setting keys. Each maps to READLOG_<KEY> and, where noted, a flag.
const (
	KeyDB              = "db"      // --db
	KeyVerbose         = "verbose" // --verbose
	KeyEnvFile         = "env_file"
	KeyTeacherPassword = "teacher_password"
	KeyRedisURL        = "redis_url"
	KeyLogLevel        = "log_level"
)

// Config is the resolved runtime configuration.
type Config struct {
	// DBPath is empty when the default XDG location should be used.
	DBPath          string
	TeacherPassword string
	RedisURL        string
	LogLevel        slog.Level
}

// Load reads the .env file (READLOG_ENV_FILE, default ".env", missing is
// fine), then resolves settings with flags taking precedence over the
// environment. flags may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyTeacherPassword, DefaultTeacherPassword)
	v.SetDefault(KeyLogLevel, "info")

	if flags != nil {
		for _, key := range []string{KeyDB, KeyVerbose} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind --%s: %w", key, err)
				}
			}
		}
	}

	level, err := ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, err
	}
	if v.GetBool(KeyVerbose) {
		level = slog.LevelDebug
	}

	cfg := Config{
		DBPath:          v.GetString(KeyDB),
		TeacherPassword: v.GetString(KeyTeacherPassword),
		RedisURL:        v.GetString(KeyRedisURL),
		LogLevel:        level,
	}
	if cfg.TeacherPassword == "" {
		return Config{}, fmt.Errorf("%s_%s must not be empty", EnvPrefix, strings.ToUpper(KeyTeacherPassword))
	}
	return cfg, nil
}

// loadDotEnv loads variables that are not already set from the .env file.
func loadDotEnv() error {
	path := os.Getenv(EnvPrefix + "_ENV_FILE")
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// Logger builds the process logger writing text records to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}
