package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"quiz-studio/internal/config"
	"quiz-studio/internal/httpapi"
	"quiz-studio/internal/lib/slogcustom"
	"quiz-studio/internal/quiz"
	"quiz-studio/internal/quiz/sqlite"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	fs := pflag.NewFlagSet("quiz-service", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs, ".")
	if err != nil {
		return err
	}

	logger := slogcustom.New(os.Stdout, slogcustom.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.NewSQLiteStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(quiz.NewRepository(store, logger), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("quiz-service listening", "addr", cfg.Addr, "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
