package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kpivision/dashboard-engine/internal/logging"
)

func newStoreOver(t *testing.T, snapshots SnapshotStore, clock clockwork.Clock) *Store {
	t.Helper()
	return NewStore(StoreConfig{
		Logger:    logging.NewLogger("error", "json", "stderr"),
		Clock:     clock,
		Snapshots: snapshots,
	})
}

func TestSnapshotRoundTripRestoresWhitelistedState(t *testing.T) {
	snapshots := NewMemorySnapshotStore()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	store := newStoreOver(t, snapshots, clock)

	store.AddWidget(Widget{
		ID:      "kpi-restored",
		Kind:    KindKPICard,
		Title:   "Revenue",
		Payload: KPICardPayload{Label: "Revenue", Value: 42500, Unit: "$"},
	})
	store.SwitchLayout(LayoutExecutive)
	store.SwitchTheme(ThemeDark)
	interval := 45 * time.Second
	store.UpdateSettings(SettingsUpdate{RefreshInterval: &interval})
	goalID := store.AddGoal(Goal{
		Title:    "Quarterly revenue",
		Metric:   "revenue",
		Target:   100000,
		Current:  60000,
		Unit:     "$",
		Deadline: clock.Now().Add(90 * 24 * time.Hour),
	})
	themeID := store.CreateCustomTheme(Theme{
		Name:   "Midnight",
		Mode:   ModeDark,
		Colors: map[string]string{"background": "#0b0e14"},
	})

	reopened := newStoreOver(t, snapshots, clock)
	state := reopened.State()

	if state.CurrentLayout != LayoutExecutive {
		t.Errorf("current layout = %q, want %q", state.CurrentLayout, LayoutExecutive)
	}
	if state.CurrentTheme != ThemeDark {
		t.Errorf("current theme = %q, want %q", state.CurrentTheme, ThemeDark)
	}
	if state.Settings.RefreshInterval != interval {
		t.Errorf("refresh interval = %v, want %v", state.Settings.RefreshInterval, interval)
	}
	if state.Settings.Theme != ThemeDark {
		t.Errorf("settings theme = %q, want %q", state.Settings.Theme, ThemeDark)
	}

	foundGoal := false
	for _, g := range state.Goals {
		if g.ID == goalID {
			foundGoal = true
			if g.Current != 60000 {
				t.Errorf("goal current = %v, want 60000", g.Current)
			}
		}
	}
	if !foundGoal {
		t.Error("goal did not survive restart")
	}

	foundTheme := false
	for _, th := range state.Themes {
		if th.ID == themeID {
			foundTheme = true
		}
	}
	if !foundTheme {
		t.Error("custom theme did not survive restart")
	}
}

func TestSnapshotPreservesWidgetPayloadTypes(t *testing.T) {
	snapshots := NewMemorySnapshotStore()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	store := newStoreOver(t, snapshots, clock)

	store.AddWidget(Widget{
		ID:      "kpi-typed",
		Kind:    KindKPICard,
		Title:   "Orders",
		Payload: KPICardPayload{Label: "Orders", Value: 128},
	})

	reopened := newStoreOver(t, snapshots, clock)
	for _, w := range reopened.State().Widgets {
		if w.ID != "kpi-typed" {
			continue
		}
		payload, ok := w.Payload.(KPICardPayload)
		if !ok {
			t.Fatalf("payload decoded as %T, want KPICardPayload", w.Payload)
		}
		if payload.Value != 128 {
			t.Errorf("payload value = %v, want 128", payload.Value)
		}
		return
	}
	t.Fatal("widget kpi-typed did not survive restart")
}

func TestTransientCollectionsResetOnRestart(t *testing.T) {
	snapshots := NewMemorySnapshotStore()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	store := newStoreOver(t, snapshots, clock)

	seedAlerts := len(store.State().Alerts)

	store.AddAlert(Alert{Title: "Transient alert", Severity: SeverityWarning})
	store.AddNotification(Notification{Title: "Transient note", Type: NotifySystem})
	store.AddComment(Comment{WidgetID: "kpi-1", Content: "transient", UserName: "ana"})
	store.SetSearchQuery("revenue")
	store.AddDataset("uploads", []map[string]interface{}{{"v": 1.0}})
	store.ExportDashboard(ExportConfig{Format: FormatPDF})
	// something whitelisted must change for a snapshot to exist at all
	store.SwitchTheme(ThemeDark)

	state := newStoreOver(t, snapshots, clock).State()

	if len(state.Alerts) != seedAlerts {
		t.Errorf("alerts after restart = %d, want seed count %d", len(state.Alerts), seedAlerts)
	}
	if len(state.Comments) != 0 {
		t.Errorf("comments after restart = %d, want 0", len(state.Comments))
	}
	if state.SearchQuery != "" {
		t.Errorf("search query after restart = %q, want empty", state.SearchQuery)
	}
	if len(state.Datasets) != 0 {
		t.Errorf("datasets after restart = %d, want 0", len(state.Datasets))
	}
	if len(state.Exports) != 0 {
		t.Errorf("exports after restart = %d, want 0", len(state.Exports))
	}
	for _, n := range state.Notifications {
		if n.Title == "Transient note" {
			t.Error("notification survived restart")
		}
	}
}

func TestRehydrateKeepsDefaultsForMissingFields(t *testing.T) {
	snapshots := NewMemorySnapshotStore()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	// an older snapshot that only knows about the theme choice
	err := snapshots.Save(context.Background(), SnapshotNamespace, &Snapshot{
		CurrentTheme: ThemeDark,
	})
	if err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	state := newStoreOver(t, snapshots, clock).State()

	if state.CurrentTheme != ThemeDark {
		t.Errorf("current theme = %q, want %q", state.CurrentTheme, ThemeDark)
	}
	if len(state.Widgets) == 0 {
		t.Error("widgets zeroed by partial snapshot, want seeded defaults")
	}
	if len(state.Goals) == 0 {
		t.Error("goals zeroed by partial snapshot, want seeded defaults")
	}
	if len(state.Layouts) == 0 {
		t.Error("layouts zeroed by partial snapshot, want seeded defaults")
	}
	if state.Settings.RefreshInterval <= 0 {
		t.Errorf("settings zeroed by partial snapshot: refresh interval %v", state.Settings.RefreshInterval)
	}
}

func TestNonPersistedOperationsWriteNoSnapshot(t *testing.T) {
	snapshots := NewMemorySnapshotStore()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	store := newStoreOver(t, snapshots, clock)

	store.SetSearchQuery("orders")
	store.AddAlert(Alert{Title: "No persist", Severity: SeverityInfo})
	store.ToggleRealTime()

	_, ok, err := snapshots.Load(context.Background(), SnapshotNamespace)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Error("transient operations produced a snapshot")
	}
}
