package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/afc-network/afcctl/pkg/dispatch"
	"github.com/afc-network/afcctl/pkg/util"
)

// Logger defines the interface for audit logging backends
type Logger interface {
	Log(event *Event) error
	Query(filter Filter) ([]*Event, error)
	Close() error
}

// RotationConfig configures log file rotation
type RotationConfig struct {
	MaxSize    int64 // bytes; 0 disables rotation
	MaxBackups int   // rotated files kept; 0 keeps all
}

// FileLogger appends events to a JSON-lines file.
type FileLogger struct {
	path     string
	rotation RotationConfig

	mu      sync.RWMutex
	file    *os.File
	encoder *json.Encoder
}

// NewFileLogger opens (or creates) the audit file at path.
func NewFileLogger(path string, rotation RotationConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating audit log directory: %w", err)
	}
	l := &FileLogger{path: path, rotation: rotation}
	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

// Path returns the location of the active audit file.
func (l *FileLogger) Path() string {
	return l.path
}

func (l *FileLogger) open() error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	l.file = f
	l.encoder = json.NewEncoder(f)
	return nil
}

// Log appends one event, rotating first when the file is full.
func (l *FileLogger) Log(event *Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return fmt.Errorf("audit log %s is closed", l.path)
	}
	if l.rotation.MaxSize > 0 {
		if info, err := l.file.Stat(); err == nil && info.Size() >= l.rotation.MaxSize {
			if err := l.rotate(); err != nil {
				return fmt.Errorf("rotating audit log: %w", err)
			}
		}
	}
	return l.encoder.Encode(event)
}

// Query returns the events of the active file matching filter, oldest
// first. Malformed lines are skipped.
func (l *FileLogger) Query(filter Filter) ([]*Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return []*Event{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	events := []*Event{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			util.Warnf("audit: skipping malformed entry at line %d: %v", line, err)
			continue
		}
		if filter.matches(&e) {
			events = append(events, &e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return filter.page(events), nil
}

// Close closes the log file
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (f Filter) matches(e *Event) bool {
	switch {
	case f.Controller != "" && e.Controller != f.Controller:
		return false
	case f.User != "" && e.User != f.User:
		return false
	case f.Command != "" && e.Command != f.Command:
		return false
	case f.Operation != "" && e.Operation != f.Operation:
		return false
	case !f.StartTime.IsZero() && e.Timestamp.Before(f.StartTime):
		return false
	case !f.EndTime.IsZero() && e.Timestamp.After(f.EndTime):
		return false
	case f.SuccessOnly && !e.Success:
		return false
	case f.FailureOnly && e.Success:
		return false
	}
	return true
}

func (f Filter) page(events []*Event) []*Event {
	if f.Offset > 0 {
		if f.Offset >= len(events) {
			return []*Event{}
		}
		events = events[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(events) {
		events = events[:f.Limit]
	}
	return events
}

// rotate moves the active file aside under a timestamp suffix and starts a
// new one. Caller holds l.mu.
func (l *FileLogger) rotate() error {
	if err := l.file.Close(); err != nil {
		return err
	}
	rotated := l.path + "." + time.Now().Format("20060102-150405.000000")
	if err := os.Rename(l.path, rotated); err != nil {
		return err
	}
	if err := l.open(); err != nil {
		return err
	}
	if l.rotation.MaxBackups > 0 {
		l.pruneBackups()
	}
	return nil
}

func (l *FileLogger) pruneBackups() {
	matches, err := filepath.Glob(l.path + ".*")
	if err != nil || len(matches) <= l.rotation.MaxBackups {
		return
	}
	// Suffixes are timestamps, so lexical order is age order.
	sort.Strings(matches)
	for _, p := range matches[:len(matches)-l.rotation.MaxBackups] {
		if err := os.Remove(p); err != nil {
			util.Warnf("audit: removing old log %s: %v", p, err)
		}
	}
}

// Recorder appends one event per finished invocation. Write failures are
// logged and never change the invocation's outcome.
type Recorder struct {
	Logger Logger
	// Task, when set, is stamped on every event.
	Task string
}

// Record implements dispatch.Recorder.
func (r *Recorder) Record(report dispatch.Report) {
	if r == nil || r.Logger == nil {
		return
	}
	event := FromReport(report).WithTask(r.Task)
	if err := r.Logger.Log(event); err != nil {
		util.WithCommand(report.Command, report.Operation).Warnf("audit: %v", err)
	}
}
