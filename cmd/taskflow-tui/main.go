package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"taskflow/internal/client"
	"taskflow/internal/logger"
	"taskflow/internal/tui"
)

func main() {
	server := flag.String("server", envOr("TASKFLOW_SERVER", "http://localhost:3000"), "TaskFlow server base URL")
	flag.Parse()

	// keep log output off the screen the program draws
	var logOut io.Writer = io.Discard
	if path := os.Getenv("TASKFLOW_TUI_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "taskflow-tui:", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger.InitWriter(logOut, envOr("LOG_LEVEL", "info"), false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tui.Run(ctx, client.New(*server)); err != nil {
		fmt.Fprintln(os.Stderr, "taskflow-tui:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
