package events

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONLSink appends one JSON object per line to a local file.
type JSONLSink struct {
	path string
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
}

func NewJSONLSink(path string) (*JSONLSink, error) {
	if path == "" {
		return nil, fmt.Errorf("jsonl sink: path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("jsonl sink: create dirs: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("jsonl sink: open: %w", err)
	}
	return &JSONLSink{path: path, file: f, buf: bufio.NewWriter(f)}, nil
}

func (s *JSONLSink) Name() string { return "file_jsonl:" + s.path }

func (s *JSONLSink) Deliver(_ context.Context, ev *Event) error {
	if ev == nil {
		return nil
	}
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.buf.Write(line); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	if err := s.buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return s.buf.Flush()
}

func (s *JSONLSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf != nil {
		_ = s.buf.Flush()
	}
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
