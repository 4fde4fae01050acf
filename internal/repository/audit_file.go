package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"taskflow/internal/domain"
)

// FileAuditSink appends one text line per mutation to a log file.
type FileAuditSink struct {
	mu   sync.Mutex
	file *os.File
}

// OpenFileAuditSink opens (creating parent directories) path for appending.
func OpenFileAuditSink(path string) (*FileAuditSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &FileAuditSink{file: f}, nil
}

func (s *FileAuditSink) Append(_ context.Context, entry domain.AuditEntry) error {
	line, err := entry.Line()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.WriteString(line); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

func (s *FileAuditSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
