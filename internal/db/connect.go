package db

import (
	"context"
	"time"

	"taskflow/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens the audit database pool and exits if it is unreachable:
// a configured audit database that cannot be written is a deployment error.
func Connect(dsn string) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	if err := db.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("audit database connected")
	return db
}
