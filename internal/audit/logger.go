// Package audit appends collection dialogue events to a JSONL file. One
// event per line; the file is append-only so interleaved dialogues stay
// reconstructable by collection id.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	EventCollectStart  = "collect.start"
	EventPromptSent    = "prompt.sent"
	EventReplyReceived = "reply.received"
	EventCollectEnd    = "collect.end"

	defaultFileMode  = 0o600
	defaultDirMode   = 0o755
	defaultLineBreak = '\n'
)

type Event struct {
	Timestamp    time.Time      `json:"ts"`
	Type         string         `json:"type"`
	CollectionID string         `json:"collection_id,omitempty"`
	Command      string         `json:"command,omitempty"`
	UserID       string         `json:"user_id,omitempty"`
	Payload      map[string]any `json:"payload,omitempty"`
}

// Logger writes events to a single append-only file. Safe for concurrent
// use.
type Logger struct {
	path   string
	redact func(any) any
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
}

// NewLogger opens (or creates) the log file at path. redact, when non-nil,
// rewrites each event payload before it is written.
func NewLogger(path string, redact func(any) any) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return nil, err
	}
	if redact == nil {
		redact = func(v any) any { return v }
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, defaultFileMode)
	if err != nil {
		return nil, err
	}
	return &Logger{path: path, redact: redact, file: f, writer: bufio.NewWriterSize(f, 32*1024)}, nil
}

// LogEvent appends one event. The well-known keys collection_id, command
// and user_id are lifted out of fields into the event envelope; everything
// else lands in the payload.
func (l *Logger) LogEvent(ctx context.Context, eventType string, fields map[string]any) error {
	_ = ctx
	e := Event{Type: eventType, Timestamp: time.Now().UTC()}

	if len(fields) > 0 {
		if id, ok := fields["collection_id"].(string); ok {
			e.CollectionID = id
		}
		if command, ok := fields["command"].(string); ok {
			e.Command = command
		}
		if userID, ok := fields["user_id"].(string); ok {
			e.UserID = userID
		}
		payload := make(map[string]any)
		for k, v := range fields {
			if k == "collection_id" || k == "command" || k == "user_id" {
				continue
			}
			payload[k] = v
		}
		if len(payload) > 0 {
			if rv, ok := l.redact(payload).(map[string]any); ok {
				e.Payload = rv
			} else {
				e.Payload = payload
			}
		}
	}

	line, err := json.Marshal(e)
	if err != nil {
		return err
	}
	line = append(line, defaultLineBreak)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil || l.writer == nil {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, defaultFileMode)
		if err != nil {
			return err
		}
		l.file = f
		l.writer = bufio.NewWriterSize(f, 32*1024)
	}

	if _, err := l.writer.Write(line); err != nil {
		return err
	}
	if err := l.writer.Flush(); err != nil {
		return err
	}
	if eventType == EventCollectEnd {
		return l.file.Sync()
	}
	return nil
}

func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	if l.writer != nil {
		if err := l.writer.Flush(); err != nil {
			_ = l.file.Close()
			l.file = nil
			l.writer = nil
			return err
		}
	}
	if err := l.file.Sync(); err != nil {
		_ = l.file.Close()
		l.file = nil
		l.writer = nil
		return err
	}
	err := l.file.Close()
	l.file = nil
	l.writer = nil
	return err
}
