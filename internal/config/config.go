package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultDBPath   = "quiz.db"
	DefaultAddr     = "127.0.0.1:8080"
	DefaultLogLevel = "info"
)

type Config struct {
	DBPath   string
	Addr     string
	LogLevel string
}

// RegisterFlags declares the shared command-line flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("db-path", DefaultDBPath, "SQLite database file")
	fs.String("addr", DefaultAddr, "HTTP listen address")
	fs.String("log-level", DefaultLogLevel, "log level (debug, info, warn, error)")
}

// Load resolves configuration from, lowest precedence first: defaults, an
// optional .env file in dir (DB_PATH, ADDR, LOG_LEVEL), QUIZ_* environment
// variables, and flags that were set explicitly on fs.
func Load(fs *pflag.FlagSet, dir string) (Config, error) {
	v := viper.New()
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("log_level", DefaultLogLevel)

	v.SetConfigName(".env")
	v.SetConfigType("env")
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)

	v.SetEnvPrefix("QUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if fs != nil {
		for key, flag := range map[string]string{
			"db_path":   "db-path",
			"addr":      "addr",
			"log_level": "log-level",
		} {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	cfg := Config{
		DBPath:   strings.TrimSpace(v.GetString("db_path")),
		Addr:     strings.TrimSpace(v.GetString("addr")),
		LogLevel: strings.TrimSpace(v.GetString("log_level")),
	}
	if cfg.DBPath == "" {
		return Config{}, errors.New("db_path must not be empty")
	}
	return cfg, nil
}
