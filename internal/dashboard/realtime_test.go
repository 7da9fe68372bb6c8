package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/kpivision/dashboard-engine/internal/logging"
)

func startScheduler(t *testing.T, sc *Scheduler) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sc.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

func TestSchedulerTickRefreshesGoalTracker(t *testing.T) {
	store, clock := newTestStore(t)
	sc := NewScheduler(store, clock, logging.NewLogger("error", "json", "stderr"), 30*time.Second)
	stop := startScheduler(t, sc)
	defer stop()

	before := goalTrackerPayload(t, store)

	clock.BlockUntil(1)
	clock.Advance(30 * time.Second)

	ok := waitFor(t, 2*time.Second, func() bool {
		after := goalTrackerPayload(t, store)
		return after.Summary.Total == len(store.State().Goals) && widgetLastUpdated(store, "3").After(before.lastUpdated)
	})
	if !ok {
		t.Fatal("goal tracker widget not refreshed after a tick")
	}
}

type trackerSnapshot struct {
	Summary     GoalSummary
	lastUpdated time.Time
}

func goalTrackerPayload(t *testing.T, store *Store) trackerSnapshot {
	t.Helper()
	for _, w := range store.State().Widgets {
		if w.Kind == KindGoalTracker {
			payload, _ := w.Payload.(GoalTrackerPayload)
			return trackerSnapshot{Summary: payload.Summary, lastUpdated: w.LastUpdated}
		}
	}
	t.Fatal("no goal tracker widget")
	return trackerSnapshot{}
}

func widgetLastUpdated(store *Store, id string) time.Time {
	for _, w := range store.State().Widgets {
		if w.ID == id {
			return w.LastUpdated
		}
	}
	return time.Time{}
}

func TestSchedulerRespectsDisabledPipeline(t *testing.T) {
	store, clock := newTestStore(t)
	sc := NewScheduler(store, clock, logging.NewLogger("error", "json", "stderr"), 30*time.Second)
	stop := startScheduler(t, sc)
	defer stop()

	if store.ToggleRealTime() {
		t.Fatal("toggle did not disable the pipeline")
	}

	notified := make(chan struct{}, 16)
	unsubscribe := store.Subscribe(func(State) {
		select {
		case notified <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	clock.BlockUntil(1)
	clock.Advance(30 * time.Second)
	clock.Advance(30 * time.Second)

	select {
	case <-notified:
		t.Fatal("disabled pipeline still produced state changes")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSchedulerReenableTakesEffectNextTick(t *testing.T) {
	store, clock := newTestStore(t)
	sc := NewScheduler(store, clock, logging.NewLogger("error", "json", "stderr"), 30*time.Second)
	stop := startScheduler(t, sc)
	defer stop()

	store.ToggleRealTime() // off
	clock.BlockUntil(1)
	clock.Advance(30 * time.Second)

	store.ToggleRealTime() // back on, no restart needed
	before := widgetLastUpdated(store, "3")
	clock.Advance(30 * time.Second)

	if !waitFor(t, 2*time.Second, func() bool {
		return widgetLastUpdated(store, "3").After(before)
	}) {
		t.Fatal("re-enabled pipeline did not resume on the next tick")
	}
}

func TestSchedulerStopIsTotal(t *testing.T) {
	store, clock := newTestStore(t)
	sc := NewScheduler(store, clock, logging.NewLogger("error", "json", "stderr"), 30*time.Second)

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		defer close(done)
		sc.Run(ctx)
	}()

	clock.BlockUntil(1)
	sc.Stop()
	<-done

	var notifications int
	unsubscribe := store.Subscribe(func(State) { notifications++ })
	defer unsubscribe()

	clock.Advance(30 * time.Second)
	clock.Advance(30 * time.Second)
	time.Sleep(50 * time.Millisecond)

	if notifications != 0 {
		t.Fatalf("stopped scheduler produced %d state changes", notifications)
	}

	// Stop is safe to call again.
	sc.Stop()
}

func TestRaiseNotificationsDedupes(t *testing.T) {
	store, clock := newTestStore(t)
	sc := NewScheduler(store, clock, logging.NewLogger("error", "json", "stderr"), 30*time.Second)

	// drop the seeded insights so only the entities created below can notify
	for _, in := range store.State().Insights {
		store.DismissInsight(in.ID)
	}

	alertID := store.AddAlert(Alert{Title: "latency", Severity: SeverityError, Priority: PriorityCritical})
	insightID := store.AddInsight(Insight{Title: "churn", Kind: InsightAnomaly, Confidence: 0.8, IsActionable: true})
	store.AddInsight(Insight{Title: "fyi", Kind: InsightTrend, Confidence: 0.5, IsActionable: false})

	sc.raiseNotifications(store.State())
	sc.raiseNotifications(store.State())
	sc.raiseNotifications(store.State())

	var alertNotes, insightNotes, other int
	for _, n := range store.State().Notifications {
		if n.RelatedEntity == nil {
			other++
			continue
		}
		switch {
		case n.RelatedEntity.Type == "alert" && n.RelatedEntity.ID == alertID:
			alertNotes++
		case n.RelatedEntity.Type == "insight" && n.RelatedEntity.ID == insightID:
			insightNotes++
		default:
			other++
		}
	}
	if alertNotes != 1 {
		t.Errorf("critical alert produced %d notifications, want 1", alertNotes)
	}
	if insightNotes != 1 {
		t.Errorf("actionable insight produced %d notifications, want 1", insightNotes)
	}
	if other != 0 {
		t.Errorf("unexpected extra notifications: %d", other)
	}
}

func TestRaiseNotificationsSkipsLowPriority(t *testing.T) {
	store, clock := newTestStore(t)
	sc := NewScheduler(store, clock, logging.NewLogger("error", "json", "stderr"), 30*time.Second)

	store.AddAlert(Alert{Title: "fine", Severity: SeverityInfo, Priority: PriorityLow})
	store.AddAlert(Alert{Title: "meh", Severity: SeverityInfo, Priority: PriorityMedium})

	sc.raiseNotifications(store.State())

	for _, n := range store.State().Notifications {
		if n.RelatedEntity != nil && n.RelatedEntity.Type == "alert" {
			t.Fatalf("low-priority alert produced notification %q", n.Title)
		}
	}
}

func TestRaiseNotificationsSurvivesRestart(t *testing.T) {
	store, clock := newTestStore(t)

	alertID := store.AddAlert(Alert{Title: "latency", Severity: SeverityError, Priority: PriorityHigh})

	first := NewScheduler(store, clock, logging.NewLogger("error", "json", "stderr"), 30*time.Second)
	first.raiseNotifications(store.State())

	// A fresh scheduler must learn existing notifications from state rather
	// than notify the same alert again.
	second := NewScheduler(store, clock, logging.NewLogger("error", "json", "stderr"), 30*time.Second)
	second.raiseNotifications(store.State())

	count := 0
	for _, n := range store.State().Notifications {
		if n.RelatedEntity != nil && n.RelatedEntity.ID == alertID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("alert notified %d times across scheduler restarts, want 1", count)
	}
}
