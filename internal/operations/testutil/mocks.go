package testutil

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"opsinsight/internal/analysis"
)

// MockResult is a result with a single one-cell table
type MockResult struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func (r *MockResult) AnalyzerName() string { return r.Name }

func (r *MockResult) Tables() []analysis.Table {
	return []analysis.Table{{
		Name:    r.Name,
		Title:   r.Name + ":",
		Columns: []string{"value"},
		Rows:    [][]interface{}{{r.Value}},
	}}
}

// MockAnalyzer is an analyzer with a programmable Execute
type MockAnalyzer struct {
	NameValue   string
	ExecuteFunc func(ctx context.Context) (analysis.Result, error)

	mu    sync.Mutex
	calls int
}

func (m *MockAnalyzer) Name() string {
	return m.NameValue
}

func (m *MockAnalyzer) Execute(ctx context.Context) (analysis.Result, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx)
	}
	return &MockResult{Name: m.NameValue}, nil
}

// GetExecuteCalls returns how many times Execute ran
func (m *MockAnalyzer) GetExecuteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockSlogHandler captures slog messages for testing
type MockSlogHandler struct {
	mu      sync.Mutex
	records []MockLogRecord
}

// MockLogRecord represents a captured slog record
type MockLogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]interface{}
	Time    time.Time
}

// NewMockSlogHandler creates a new mock slog handler
func NewMockSlogHandler() *MockSlogHandler {
	return &MockSlogHandler{
		records: make([]MockLogRecord, 0),
	}
}

// Handle implements slog.Handler interface
func (h *MockSlogHandler) Handle(ctx context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	attrs := make(map[string]interface{})
	record.Attrs(func(attr slog.Attr) bool {
		attrs[attr.Key] = attr.Value.Any()
		return true
	})

	h.records = append(h.records, MockLogRecord{
		Level:   record.Level,
		Message: record.Message,
		Attrs:   attrs,
		Time:    record.Time,
	})

	return nil
}

// Enabled implements slog.Handler interface
func (h *MockSlogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler interface; attributes are dropped
func (h *MockSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

// WithGroup implements slog.Handler interface; groups are dropped
func (h *MockSlogHandler) WithGroup(name string) slog.Handler {
	return h
}

// GetRecords returns all captured log records
func (h *MockSlogHandler) GetRecords() []MockLogRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	records := make([]MockLogRecord, len(h.records))
	copy(records, h.records)
	return records
}

// Messages returns the captured messages in order
func (h *MockSlogHandler) Messages() []string {
	records := h.GetRecords()
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Message
	}
	return out
}

// FindRecord returns the first record with message
func (h *MockSlogHandler) FindRecord(message string) (MockLogRecord, bool) {
	for _, r := range h.GetRecords() {
		if r.Message == message {
			return r, true
		}
	}
	return MockLogRecord{}, false
}

// HasMessage checks if any record contains the given message
func (h *MockSlogHandler) HasMessage(message string) bool {
	_, ok := h.FindRecord(message)
	return ok
}

// CreateTestSlogLogger creates a slog.Logger with MockSlogHandler for testing
func CreateTestSlogLogger() (*slog.Logger, *MockSlogHandler) {
	handler := NewMockSlogHandler()
	logger := slog.New(handler)
	return logger, handler
}
