package testing

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
	"github.com/kpivision/dashboard-engine/internal/logging"
)

/* TestEngine bundles a store with a fake clock and an in-memory snapshot
 * store, so engine behavior is deterministic and needs no database. */
type TestEngine struct {
	Store     *dashboard.Store
	Clock     *clockwork.FakeClock
	Snapshots *dashboard.MemorySnapshotStore
	Logger    *logging.Logger
}

/* NewTestEngine creates an engine fixture. The clock starts at a fixed
 * instant; advance it explicitly to trigger time-dependent behavior. */
func NewTestEngine(t *testing.T) *TestEngine {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	snapshots := dashboard.NewMemorySnapshotStore()
	logger := logging.NewLogger("error", "json", "stderr")

	store := dashboard.NewStore(dashboard.StoreConfig{
		Logger:    logger,
		Clock:     clock,
		Snapshots: snapshots,
		LoadDelay: 600 * time.Millisecond,
		ExportTTL: 24 * time.Hour,
	})

	return &TestEngine{
		Store:     store,
		Clock:     clock,
		Snapshots: snapshots,
		Logger:    logger,
	}
}

/* Reopen builds a fresh store over the same snapshot store, simulating a
 * process restart against persisted state. */
func (e *TestEngine) Reopen(t *testing.T) *dashboard.Store {
	t.Helper()
	return dashboard.NewStore(dashboard.StoreConfig{
		Logger:    e.Logger,
		Clock:     e.Clock,
		Snapshots: e.Snapshots,
		LoadDelay: 600 * time.Millisecond,
		ExportTTL: 24 * time.Hour,
	})
}
