package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"taskflow/internal/domain"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS task_audit_logs (
	id         BIGSERIAL PRIMARY KEY,
	action     TEXT        NOT NULL,
	task_id    TEXT        NOT NULL,
	task       JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS task_audit_logs_task_id_idx ON task_audit_logs (task_id);
`

// AuditRepository appends audit entries to Postgres. The table is
// write-only from the service's point of view; Recent exists for operators
// and tests.
type AuditRepository struct {
	db      *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// EnsureSchema creates the audit table if it does not exist.
func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, auditSchema); err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

// Ping checks the connection, for the readiness probe.
func (r *AuditRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Append inserts a new audit log entry
func (r *AuditRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	taskJSON, err := json.Marshal(entry.Task)
	if err != nil {
		return fmt.Errorf("marshal audit task: %w", err)
	}

	query, args, err := r.builder.
		Insert("task_audit_logs").
		Columns("action", "task_id", "task", "created_at").
		Values(string(entry.Action), entry.Task.ID, taskJSON, entry.Time).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Recent returns the most recent audit entries, newest first. A non-empty
// taskID narrows the result to one task.
func (r *AuditRepository) Recent(ctx context.Context, taskID string, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	q := r.builder.
		Select("action", "task", "created_at").
		From("task_audit_logs").
		OrderBy("id DESC").
		Limit(uint64(limit))
	if taskID != "" {
		q = q.Where(squirrel.Eq{"task_id": taskID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

func scanAuditEntries(rows pgx.Rows) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			entry    domain.AuditEntry
			action   string
			taskJSON []byte
		)
		if err := rows.Scan(&action, &taskJSON, &entry.Time); err != nil {
			return nil, err
		}
		entry.Action = domain.AuditAction(action)
		if err := json.Unmarshal(taskJSON, &entry.Task); err != nil {
			return nil, fmt.Errorf("decode audit task: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
