package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/logger"
)

// AuditSink is a write-only append log of task mutations.
type AuditSink interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
}

// MultiSink fans an entry out to every sink and joins their errors.
type MultiSink []AuditSink

func (m MultiSink) Append(ctx context.Context, entry domain.AuditEntry) error {
	var errs []error
	for _, s := range m {
		if err := s.Append(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogAuditSink writes audit entries through a structured logger.
type LogAuditSink struct {
	Logger *slog.Logger
}

func (s LogAuditSink) Append(ctx context.Context, entry domain.AuditEntry) error {
	l := s.Logger
	if l == nil {
		l = logger.Get()
	}
	l.InfoContext(ctx, "audit",
		"action", string(entry.Action),
		"task_id", entry.Task.ID,
		"title", entry.Task.Title,
		"completed", entry.Task.Completed,
		"at", entry.Time,
	)
	return nil
}

// AuditService records task mutations. Failures are logged and counted but
// never returned: the primary response must not depend on the audit log.
type AuditService struct {
	sink    AuditSink
	now     func() time.Time
	timeout time.Duration
}

// AuditTimeout bounds each append so a stalled sink cannot hold a response.
const AuditTimeout = 2 * time.Second

// NewAuditService creates a new audit service. A nil sink disables auditing.
func NewAuditService(sink AuditSink) *AuditService {
	return &AuditService{sink: sink, now: time.Now, timeout: AuditTimeout}
}

// Record appends one entry for action on task.
func (s *AuditService) Record(ctx context.Context, action domain.AuditAction, task domain.Task) {
	if s == nil || s.sink == nil {
		return
	}
	entry := domain.AuditEntry{
		Time:   domain.Timestamp(s.now()),
		Action: action,
		Task:   task,
	}
	// the mutation already happened; a disconnecting caller must not lose its entry
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.sink.Append(ctx, entry); err != nil {
		AuditFailures.WithLabelValues(string(action)).Inc()
		logger.Error("failed to write audit log", "error", err, "action", action, "task_id", task.ID)
	}
}
