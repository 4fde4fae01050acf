package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestAuditRepository_Append_Recent(t *testing.T) {
	dsn := os.Getenv("AUDIT_DATABASE_URL")
	if dsn == "" {
		t.Skip("AUDIT_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer db.Close()

	repo := repository.NewAuditRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	now := domain.Timestamp(time.Now())
	task := domain.Task{ID: uuid.NewString(), Title: "audited", Priority: domain.PriorityHigh, CreatedAt: now}
	for _, action := range []domain.AuditAction{domain.AuditActionCreated, domain.AuditActionPatched, domain.AuditActionDeleted} {
		if err := repo.Append(ctx, domain.AuditEntry{Time: now, Action: action, Task: task}); err != nil {
			t.Fatalf("append %s: %v", action, err)
		}
	}

	entries, err := repo.Recent(ctx, task.ID, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries got %d", len(entries))
	}
	if entries[0].Action != domain.AuditActionDeleted || entries[1].Action != domain.AuditActionPatched {
		t.Fatalf("entries should be newest first: %+v", entries)
	}
	if entries[0].Task.ID != task.ID || entries[0].Task.Title != "audited" || !entries[0].Time.Equal(now) {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}
