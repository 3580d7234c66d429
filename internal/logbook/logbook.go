// Package logbook records dashboard activity. The TUI owns stdout, so the
// default sink is a file the operator can inspect after quitting.
package logbook

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Level represents the severity of a log entry.
type Level = log.Level

const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
	LevelError = log.ErrorLevel
)

// Logbook writes leveled entries through charmbracelet/log. A nil *Logbook
// discards everything.
type Logbook struct {
	path   string
	mu     sync.Mutex
	file   *os.File
	logger *log.Logger
}

// New opens (or creates) the log file at path for appending.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logbook: open log file: %w", err)
	}
	book := NewWriter(f)
	book.path = path
	book.file = f
	return book, nil
}

// NewWriter logs to w. Tail is unavailable for writer-backed logbooks.
func NewWriter(w io.Writer) *Logbook {
	return &Logbook{logger: log.NewWithOptions(w, log.Options{
		Prefix:          "toolbox",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.InfoLevel,
	})}
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// SetLevel changes the minimum level written.
func (l *Logbook) SetLevel(level Level) {
	if l == nil {
		return
	}
	l.logger.SetLevel(level)
}

// Close releases the file handle.
func (l *Logbook) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.file.Close()
	l.file = nil
	return err
}

// Debug appends a debug entry.
func (l *Logbook) Debug(format string, args ...any) {
	if l == nil {
		return
	}
	l.logger.Debug(clean(format, args...))
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	if l == nil {
		return
	}
	l.logger.Info(clean(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	if l == nil {
		return
	}
	l.logger.Warn(clean(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	if l == nil {
		return
	}
	l.logger.Error(clean(format, args...))
}

func clean(format string, args ...any) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}

// Tail returns up to maxLines of the most recent entries and the total line
// count of the log file.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil || l.path == "" || maxLines <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	total := len(lines)
	if total == 0 {
		return nil, 0
	}
	if total > maxLines {
		lines = lines[total-maxLines:]
	}
	return lines, total
}
