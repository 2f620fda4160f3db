// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"slices"
	"time"

	"github.com/okatsu/loom/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the configured time forward.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// MockStore is an in-memory test double for domain.SnapshotStore.
// Fields are ordered to minimize memory padding.
type MockStore struct {
	LoadErr   error
	SaveErr   error
	Tasks     []domain.Task
	SaveCalls int
}

// NewMockStore creates a MockStore seeded with the given tasks.
func NewMockStore(tasks ...domain.Task) *MockStore {
	return &MockStore{Tasks: tasks}
}

// Load returns a copy of the stored snapshot.
func (m *MockStore) Load() ([]domain.Task, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return slices.Clone(m.Tasks), nil
}

// Save replaces the stored snapshot.
func (m *MockStore) Save(tasks []domain.Task) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Tasks = slices.Clone(tasks)
	return nil
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
}

// Initialize marks the store initialized.
func (m *MockStoreInitializer) Initialize() error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// IsInitialized reports whether Initialize has run.
func (m *MockStoreInitializer) IsInitialized() bool {
	return m.Initialized
}

// MockLogger is a test double for domain.Logger that records messages.
type MockLogger struct {
	Entries []string
}

// Debug records a debug message.
func (m *MockLogger) Debug(category, msg string) { m.record("DEBUG", category, msg) }

// Info records an info message.
func (m *MockLogger) Info(category, msg string) { m.record("INFO", category, msg) }

// Warn records a warning message.
func (m *MockLogger) Warn(category, msg string) { m.record("WARN", category, msg) }

// Error records an error message.
func (m *MockLogger) Error(category, msg string) { m.record("ERROR", category, msg) }

func (m *MockLogger) record(level, category, msg string) {
	m.Entries = append(m.Entries, "["+level+"] ["+category+"] "+msg)
}
