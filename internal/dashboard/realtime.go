package dashboard

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/kpivision/dashboard-engine/internal/logging"
)

/* Scheduler drives the real-time pipeline: on every tick it refreshes live
 * widget payloads, samples host health, and occasionally synthesizes alerts
 * and insights. The enabled flag and refresh settings are re-read each tick
 * so a toggle or a settings change takes effect on the next tick without a
 * restart. */
type Scheduler struct {
	store *Store
	clock clockwork.Clock
	log   *logging.Logger
	rng   *rand.Rand

	interval time.Duration

	mu       sync.Mutex
	notified map[string]bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewScheduler(store *Store, clock clockwork.Clock, log *logging.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Scheduler{
		store:    store,
		clock:    clock,
		log:      log,
		rng:      rand.New(rand.NewSource(clock.Now().UnixNano())),
		interval: interval,
		notified: make(map[string]bool),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

/* Run blocks until Stop is called or ctx is cancelled. Stop is total: once
 * it returns no further state mutations are produced by the scheduler. */
func (sc *Scheduler) Run(ctx context.Context) {
	ticker := sc.clock.NewTicker(sc.interval)
	defer ticker.Stop()
	defer close(sc.done)

	current := sc.interval
	for {
		select {
		case <-ctx.Done():
			return
		case <-sc.stop:
			return
		case <-ticker.Chan():
			if next := sc.tick(); next > 0 && next != current {
				current = next
				ticker.Reset(next)
			}
		}
	}
}

/* Stop halts the scheduler and waits for the loop to exit. Safe to call
 * more than once. */
func (sc *Scheduler) Stop() {
	sc.stopOnce.Do(func() { close(sc.stop) })
	<-sc.done
}

/* tick performs one pipeline pass and returns the interval the ticker
 * should use next, taken from live settings. */
func (sc *Scheduler) tick() time.Duration {
	settings := sc.store.Settings()
	next := settings.RefreshInterval
	if !sc.store.RealTimeEnabled() || !settings.AutoRefresh {
		return next
	}

	state := sc.store.State()
	now := sc.clock.Now()

	for _, w := range state.Widgets {
		switch w.Kind {
		case KindSystemHealth:
			sc.refreshSystemHealth(w.ID)
		case KindSalesOverview:
			sc.jitterSales(w)
		case KindGoalTracker:
			sc.store.UpdateWidget(w.ID, WidgetUpdate{Payload: GoalTrackerPayload{
				Goals:   state.Goals,
				Summary: SummarizeGoals(state.Goals, now),
			}})
		}
	}

	if sc.rng.Float64() < 0.25 {
		sc.synthesizeAlert()
	}
	if sc.rng.Float64() < 0.15 {
		sc.synthesizeInsight()
	}
	sc.raiseNotifications(sc.store.State())
	return next
}

/* refreshSystemHealth samples the host with gopsutil and writes the result
 * into the widget payload. Sampling errors skip the update rather than
 * publish partial numbers. */
func (sc *Scheduler) refreshSystemHealth(widgetID string) {
	cpuPercents, err := cpu.Percent(0, false)
	if err != nil || len(cpuPercents) == 0 {
		sc.log.Warn("Failed to sample CPU usage", map[string]interface{}{"error": fmt.Sprint(err)})
		return
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		sc.log.Warn("Failed to sample memory usage", map[string]interface{}{"error": err.Error()})
		return
	}
	uptime, err := host.Uptime()
	if err != nil {
		uptime = 0
	}
	sc.store.UpdateWidget(widgetID, WidgetUpdate{Payload: SystemHealthPayload{
		CPUPercent:    cpuPercents[0],
		MemoryPercent: vm.UsedPercent,
		MemoryUsedMB:  vm.Used / 1024 / 1024,
		MemoryTotalMB: vm.Total / 1024 / 1024,
		Uptime:        uptime,
		SampledAt:     sc.clock.Now(),
	}})
}

/* jitterSales nudges the live revenue figures so the overview widget shows
 * movement between real data refreshes. */
func (sc *Scheduler) jitterSales(w Widget) {
	payload, ok := w.Payload.(SalesOverviewPayload)
	if !ok {
		return
	}
	payload.CurrentMonth *= 1 + (sc.rng.Float64()-0.5)*0.02
	if payload.PreviousMonth > 0 {
		payload.Growth = (payload.CurrentMonth - payload.PreviousMonth) / payload.PreviousMonth * 100
	}
	sc.store.UpdateWidget(w.ID, WidgetUpdate{Payload: payload})
}

var syntheticAlerts = []Alert{
	{Title: "Revenue spike detected", Message: "Revenue is up 15% in the last hour", Severity: SeveritySuccess, Priority: PriorityMedium},
	{Title: "Conversion rate drop", Message: "Checkout conversion fell below the 7-day baseline", Severity: SeverityWarning, Priority: PriorityHigh},
	{Title: "API latency elevated", Message: "p95 latency exceeded 800ms for 5 minutes", Severity: SeverityError, Priority: PriorityCritical},
	{Title: "New enterprise signup", Message: "A new enterprise account was created", Severity: SeverityInfo, Priority: PriorityLow},
}

func (sc *Scheduler) synthesizeAlert() {
	a := syntheticAlerts[sc.rng.Intn(len(syntheticAlerts))]
	sc.store.AddAlert(a)
}

var syntheticInsights = []Insight{
	{Title: "Weekend traffic pattern", Description: "Mobile sessions now dominate weekend traffic; consider shifting ad spend", Kind: InsightTrend, Confidence: 0.81, Impact: "medium", IsActionable: true},
	{Title: "Churn risk cluster", Description: "A cohort of 40 accounts shows declining login frequency", Kind: InsightAnomaly, Confidence: 0.74, Impact: "high", IsActionable: true},
	{Title: "Q4 forecast update", Description: "Current trajectory projects 8% above the Q4 revenue target", Kind: InsightForecast, Confidence: 0.68, Impact: "low", IsActionable: false},
}

func (sc *Scheduler) synthesizeInsight() {
	in := syntheticInsights[sc.rng.Intn(len(syntheticInsights))]
	sc.store.AddInsight(in)
}

/* raiseNotifications creates inbox entries for high-priority alerts and
 * actionable insights. Each source entity notifies at most once, tracked by
 * its (type, id) reference. */
func (sc *Scheduler) raiseNotifications(state State) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for _, n := range state.Notifications {
		if n.RelatedEntity != nil {
			sc.notified[n.RelatedEntity.Type+":"+n.RelatedEntity.ID] = true
		}
	}

	for _, a := range state.Alerts {
		if a.Priority != PriorityHigh && a.Priority != PriorityCritical {
			continue
		}
		key := "alert:" + a.ID
		if sc.notified[key] {
			continue
		}
		sc.notified[key] = true
		sc.store.AddNotification(Notification{
			Type:          NotifyAlert,
			Title:         a.Title,
			Message:       a.Message,
			Priority:      a.Priority,
			RelatedEntity: &EntityRef{Type: "alert", ID: a.ID},
		})
	}

	for _, in := range state.Insights {
		if !in.IsActionable {
			continue
		}
		key := "insight:" + in.ID
		if sc.notified[key] {
			continue
		}
		sc.notified[key] = true
		sc.store.AddNotification(Notification{
			Type:          NotifyInsight,
			Title:         in.Title,
			Message:       in.Description,
			Priority:      PriorityMedium,
			RelatedEntity: &EntityRef{Type: "insight", ID: in.ID},
		})
	}
}
