package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"taskflow/internal/db"
	"taskflow/internal/logger"
	"taskflow/internal/repository"
)

// Creates the task_audit_logs table ahead of the first server start, or
// prints the most recent entries with -tail.
func main() {
	logger.Init("info", false)

	dsn := os.Getenv("AUDIT_DATABASE_URL")
	if dsn == "" {
		logger.Fatal("AUDIT_DATABASE_URL not set")
	}

	apply := flag.Bool("apply", false, "create the audit table")
	tail := flag.Int("tail", 0, "print the N most recent audit entries")
	taskID := flag.String("task", "", "limit -tail to one task id")
	flag.Parse()

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewAuditRepository(pool)
	ctx := context.Background()

	if *apply {
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to apply audit schema", "error", err)
		}
		fmt.Println("applied task_audit_logs")
	}

	if *tail > 0 {
		entries, err := repo.Recent(ctx, *taskID, *tail)
		if err != nil {
			logger.Fatal("failed to read audit entries", "error", err)
		}
		for _, e := range entries {
			line, err := e.Line()
			if err != nil {
				continue
			}
			fmt.Print(line)
		}
	}
}
