package dashboard

import (
	"context"
	"encoding/json"
	"sync"
)

/* Snapshot is the whitelisted subset of engine state that survives a process
 * restart. Alerts, insights, notifications, comments, active users, exports
 * and datasets are intentionally absent: they reset on every fresh start.
 *
 * Fields marshal with omitempty so an older snapshot missing a field
 * rehydrates that field from compiled-in defaults instead of zeroing it. */
type Snapshot struct {
	Widgets       []Widget  `json:"widgets,omitempty"`
	CurrentLayout string    `json:"current_layout,omitempty"`
	CurrentTheme  string    `json:"current_theme,omitempty"`
	Settings      *Settings `json:"settings,omitempty"`
	Layouts       []Layout  `json:"layouts,omitempty"`
	Themes        []Theme   `json:"themes,omitempty"`
	Goals         []Goal    `json:"goals,omitempty"`
}

/* SnapshotStore persists one snapshot per namespace with last-write-wins
 * semantics. There is exactly one writer process, so no concurrency token
 * is carried. */
type SnapshotStore interface {
	/* Load returns the stored snapshot, or ok=false when none exists. */
	Load(ctx context.Context, namespace string) (*Snapshot, bool, error)
	Save(ctx context.Context, namespace string, snap *Snapshot) error
}

/* MemorySnapshotStore keeps JSON-encoded snapshots in process memory. It
 * backs tests and runs without a configured database. Encoding through JSON
 * keeps its behavior equivalent to the durable store, payload decoding
 * included. */
type MemorySnapshotStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{data: make(map[string][]byte)}
}

func (m *MemorySnapshotStore) Load(ctx context.Context, namespace string) (*Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.data[namespace]
	if !ok {
		return nil, false, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false, err
	}
	return &snap, true, nil
}

func (m *MemorySnapshotStore) Save(ctx context.Context, namespace string, snap *Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[namespace] = raw
	m.mu.Unlock()
	return nil
}
