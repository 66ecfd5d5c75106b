// Package history keeps the bounded, newest-first log of past scans and
// persists it through the local store after every mutation.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/service"
)

// Clock returns the current time.
type Clock func() time.Time

// Manager owns the in-memory history and its persisted copy.
type Manager struct {
	store    service.Store
	logger   *slog.Logger
	now      Clock
	records  []model.ScanRecord
	lastID   int64
	capacity int
	mu       sync.RWMutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(m *Manager) {
		m.now = clock
	}
}

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates an empty manager. Call Load to read persisted history.
func NewManager(store service.Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		now:      time.Now,
		capacity: model.HistoryCapacity,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = common.LoggerOrDefault(m.logger)
	return m
}

// Load replaces the in-memory history with the persisted one. A missing or
// empty value yields an empty history. Corrupt data also leaves the history
// empty, but the error is returned so callers can tell the user.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = nil

	raw, ok, err := m.store.Get(ctx, service.KeyHistory)
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}

	var records []model.ScanRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		m.logger.Warn("discarding unreadable history", "error", err)
		return fmt.Errorf("%w: failed to decode history: %w", common.ErrPersistence, err)
	}

	if len(records) > m.capacity {
		records = records[:m.capacity]
	}
	for i := range records {
		records[i].Score = model.ClampScore(records[i].Score)
		if records[i].ID > m.lastID {
			m.lastID = records[i].ID
		}
	}
	m.records = records

	m.logger.Debug("history loaded", "records", len(records))
	return nil
}

// Append records a new scan at the front of the history, evicting the
// oldest entries beyond capacity.
func (m *Manager) Append(ctx context.Context, label string, score float64, text string) (model.ScanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	record := model.ScanRecord{
		ID:        m.nextID(now),
		Label:     label,
		Score:     model.ClampScore(score),
		Text:      text,
		CreatedAt: model.FormatCreatedAt(now),
	}

	next := make([]model.ScanRecord, 0, len(m.records)+1)
	next = append(next, record)
	next = append(next, m.records...)
	for len(next) > m.capacity {
		next = next[:len(next)-1]
	}

	previousID := m.lastID
	m.lastID = record.ID
	if err := m.commit(ctx, next); err != nil {
		m.lastID = previousID
		return model.ScanRecord{}, err
	}
	return record, nil
}

// nextID returns an id that is at least the current Unix millisecond and
// strictly greater than every id handed out before.
func (m *Manager) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	return id
}

// Find looks up a record by id.
func (m *Manager) Find(id int64) (model.ScanRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.ScanRecord{}, false
}

// List returns a copy of the history, newest first.
func (m *Manager) List() []model.ScanRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.ScanRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Len returns the number of records.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Rename replaces a record's label in place. It reports false without
// persisting when the record is absent or the trimmed label is empty.
func (m *Manager) Rename(ctx context.Context, id int64, label string) (bool, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	next := make([]model.ScanRecord, len(m.records))
	copy(next, m.records)
	next[idx].Label = label

	if err := m.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the record with id, if present, and persists the result
// either way. It reports whether a record was removed.
func (m *Manager) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]model.ScanRecord, 0, len(m.records))
	for _, r := range m.records {
		if r.ID != id {
			next = append(next, r)
		}
	}
	removed := len(next) != len(m.records)

	if err := m.commit(ctx, next); err != nil {
		return false, err
	}
	return removed, nil
}

// Clear empties the history.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.commit(ctx, []model.ScanRecord{})
}

func (m *Manager) indexOf(id int64) int {
	for i, r := range m.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// commit persists next and only then makes it the in-memory history.
// Callers must hold the write lock.
func (m *Manager) commit(ctx context.Context, next []model.ScanRecord) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("%w: failed to encode history: %w", common.ErrPersistence, err)
	}

	if err := m.store.Set(ctx, service.KeyHistory, string(data)); err != nil {
		m.logger.Error("failed to persist history", "error", err, "records", len(next))
		return err
	}

	m.records = next
	return nil
}
