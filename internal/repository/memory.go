package repository

import (
	"context"
	"log/slog"
	"sync"

	"github.com/joseph-ayodele/health-summary/internal/entity"
)

var _ HistoryStore = (*MemoryHistory)(nil)

// MemoryHistory keeps the run log in process memory.
type MemoryHistory struct {
	mu      sync.RWMutex
	entries []entity.RunHistoryEntry
	logger  *slog.Logger
}

func NewMemoryHistory(logger *slog.Logger) *MemoryHistory {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryHistory{logger: logger}
}

func (m *MemoryHistory) Append(_ context.Context, entry entity.RunHistoryEntry) (entity.RunHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.Index = len(m.entries)
	m.entries = append(m.entries, entry)
	m.logger.Debug("history.append.ok", "backend", "memory", "index", entry.Index, "id", entry.ID)
	return entry, nil
}

func (m *MemoryHistory) UpdateFeedback(_ context.Context, index int, fb entity.Feedback, reward float64) (entity.RunHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.entries) {
		return entity.RunHistoryEntry{}, invalidIndex(index)
	}
	e := &m.entries[index]
	e.Feedback = &fb
	e.Reward = &reward
	return *e, nil
}

func (m *MemoryHistory) Get(_ context.Context, index int) (entity.RunHistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index < 0 || index >= len(m.entries) {
		return entity.RunHistoryEntry{}, notFound(index)
	}
	return m.entries[index], nil
}

func (m *MemoryHistory) List(_ context.Context) ([]entity.RunHistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entity.RunHistoryEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MemoryHistory) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func (m *MemoryHistory) Close() error { return nil }
