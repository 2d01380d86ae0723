package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"quiz-studio/internal/cli"
	"quiz-studio/internal/config"
	"quiz-studio/internal/lib/slogcustom"
	"quiz-studio/internal/quiz"
	"quiz-studio/internal/quiz/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	fs := pflag.NewFlagSet("quiz-cli", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs, ".")
	if err != nil {
		return err
	}

	logger := slogcustom.New(os.Stderr, slogcustom.ParseLevel(cfg.LogLevel))

	ctx := context.Background()
	return sqlite.WithStore(ctx, cfg.DBPath, func(store *sqlite.SQLiteStore) error {
		logger.Debug("store opened", "path", cfg.DBPath)
		repo := quiz.NewRepository(store, logger)
		return cli.Run(ctx, repo, os.Stdin, os.Stdout, logger)
	})
}
