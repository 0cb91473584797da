// Package logging provides levelled, structured JSON logging for the admin UI.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config value such as "debug" or "WARN" to a Level.
// Unknown or blank values fall back to INFO.
func ParseLevel(value string) Level {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Entry represents a single log entry with structured fields.
type Entry struct {
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Component  string         `json:"component,omitempty"`
	Category   string         `json:"category"`
	Message    string         `json:"message"`
	Fields     map[string]any `json:"fields,omitempty"`
	DispatchID string         `json:"dispatch_id,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	DurationMS *int64         `json:"duration_ms,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Logger is a structured logger that writes to multiple outputs.
type Logger struct {
	mu          sync.RWMutex
	minLevel    Level
	hasLevel    bool
	writers     []io.Writer
	component   string
	subscribers []chan<- Entry
	now         func() time.Time
	// parent is set on derived loggers, which write through it.
	parent *Logger
}

// New creates a Logger for the named component. Without writers it logs to stderr.
func New(component string, minLevel Level, writers ...io.Writer) *Logger {
	if len(writers) == 0 {
		writers = []io.Writer{os.Stderr}
	}
	return &Logger{
		minLevel:    minLevel,
		hasLevel:    true,
		writers:     writers,
		component:   component,
		subscribers: make([]chan<- Entry, 0),
		now:         time.Now,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New("", ERROR+1, io.Discard)
}

// Derive returns a logger that writes through l's writers and subscribers.
// Until SetLevel is called on it, it follows l's level; after that its level
// is its own and changing it never touches l.
func (l *Logger) Derive() *Logger {
	return &Logger{
		component: l.component,
		now:       l.now,
		parent:    l,
	}
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.minLevel = level
	l.hasLevel = true
	l.mu.Unlock()
}

// ClearLevel makes a derived logger follow its parent's level again. It is a
// no-op on loggers built with New.
func (l *Logger) ClearLevel() {
	if l.parent == nil {
		return
	}
	l.mu.Lock()
	l.hasLevel = false
	l.mu.Unlock()
}

// Level reports the current minimum level.
func (l *Logger) Level() Level {
	l.mu.RLock()
	level, own := l.minLevel, l.hasLevel
	l.mu.RUnlock()
	if !own && l.parent != nil {
		return l.parent.Level()
	}
	return level
}

// Enabled reports whether entries at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.Level()
}

// Subscribe adds a channel to receive log entries in real-time.
func (l *Logger) Subscribe(ch chan<- Entry) func() {
	if l.parent != nil {
		return l.parent.Subscribe(ch)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, ch)

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, sub := range l.subscribers {
			if sub == ch {
				l.subscribers = append(l.subscribers[:i], l.subscribers[i+1:]...)
				break
			}
		}
	}
}

// Log writes a log entry at the specified level.
func (l *Logger) Log(level Level, category, message string, fields map[string]any) {
	if !l.Enabled(level) {
		return
	}
	l.write(l.entry(level, category, message, fields))
}

// Debug logs a debug message.
func (l *Logger) Debug(category, message string, fields map[string]any) {
	l.Log(DEBUG, category, message, fields)
}

// Info logs an info message.
func (l *Logger) Info(category, message string, fields map[string]any) {
	l.Log(INFO, category, message, fields)
}

// Warn logs a warning message.
func (l *Logger) Warn(category, message string, fields map[string]any) {
	l.Log(WARN, category, message, fields)
}

// Error logs an error message.
func (l *Logger) Error(category, message string, err error, fields map[string]any) {
	if !l.Enabled(ERROR) {
		return
	}
	entry := l.entry(ERROR, category, message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	l.write(entry)
}

func (l *Logger) entry(level Level, category, message string, fields map[string]any) Entry {
	return Entry{
		Timestamp: l.now().UTC(),
		Level:     level.String(),
		Component: l.component,
		Category:  category,
		Message:   message,
		Fields:    fields,
	}
}

func (l *Logger) write(entry Entry) {
	if l.parent != nil {
		l.parent.write(entry)
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal log entry: %v\n", err)
		return
	}
	data = append(data, '\n')

	l.mu.RLock()
	writers := l.writers
	subscribersCopy := make([]chan<- Entry, len(l.subscribers))
	copy(subscribersCopy, l.subscribers)
	l.mu.RUnlock()

	for _, w := range writers {
		_, _ = w.Write(data)
	}

	// Subscribers never block the caller.
	for _, ch := range subscribersCopy {
		select {
		case ch <- entry:
		default:
		}
	}
}

// LogContext carries a dispatch ID, category and fields across several entries.
type LogContext struct {
	logger     *Logger
	dispatchID string
	category   string
	fields     map[string]any
}

// WithDispatchID creates a logging context tagged with a dispatch ID.
func (l *Logger) WithDispatchID(id string) *LogContext {
	return &LogContext{
		logger:     l,
		dispatchID: id,
		fields:     make(map[string]any),
	}
}

// WithCategory sets the category for this context.
func (c *LogContext) WithCategory(category string) *LogContext {
	c.category = category
	return c
}

// WithField adds a field to this context.
func (c *LogContext) WithField(key string, value any) *LogContext {
	if c.fields == nil {
		c.fields = make(map[string]any)
	}
	c.fields[key] = value
	return c
}

// Debug logs a debug message with the context's dispatch ID and fields.
func (c *LogContext) Debug(message string) {
	c.log(DEBUG, message, nil)
}

// Info logs an info message with the context's dispatch ID and fields.
func (c *LogContext) Info(message string) {
	c.log(INFO, message, nil)
}

// Warn logs a warning message with the context's dispatch ID and fields.
func (c *LogContext) Warn(message string) {
	c.log(WARN, message, nil)
}

// Error logs an error message with the context's dispatch ID and fields.
func (c *LogContext) Error(message string, err error) {
	c.log(ERROR, message, err)
}

func (c *LogContext) log(level Level, message string, err error) {
	if !c.logger.Enabled(level) {
		return
	}
	entry := c.logger.entry(level, c.category, message, c.fields)
	entry.DispatchID = c.dispatchID
	if err != nil {
		entry.Error = err.Error()
	}
	c.logger.write(entry)
}
