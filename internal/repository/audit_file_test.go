package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskflow/internal/domain"
)

func TestFileAuditSinkAppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.log")
	sink, err := OpenFileAuditSink(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	task := newTask("a")
	for _, action := range []domain.AuditAction{domain.AuditActionCreated, domain.AuditActionDeleted} {
		if err := sink.Append(context.Background(), domain.AuditEntry{Time: at, Action: action, Task: task}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), raw)
	}
	if !strings.HasPrefix(lines[0], "2024-05-01T10:00:00.000Z - Task created: {") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2024-05-01T10:00:00.000Z - Task deleted: {") {
		t.Fatalf("unexpected second line %q", lines[1])
	}

	// reopening appends rather than truncates
	sink, err = OpenFileAuditSink(path)
	if err != nil {
		t.Fatal(err)
	}
	sink.Append(context.Background(), domain.AuditEntry{Time: at, Action: domain.AuditActionPatched, Task: task})
	sink.Close()
	raw, _ = os.ReadFile(path)
	if n := strings.Count(string(raw), "\n"); n != 3 {
		t.Fatalf("expected 3 lines after reopen, got %d", n)
	}
}
