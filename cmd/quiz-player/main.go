package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"quiz-studio/internal/playclient"
)

func main() {
	server := pflag.String("server", "http://127.0.0.1:8080", "quiz service base URL")
	timeout := pflag.Duration("timeout", 5*time.Second, "HTTP timeout")
	pflag.Parse()

	err := playclient.Run(context.Background(), os.Stdin, os.Stdout, playclient.Config{
		ServerURL:   *server,
		HTTPTimeout: *timeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
