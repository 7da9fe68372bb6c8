package dashboard

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/kpivision/dashboard-engine/internal/logging"
)

/* State is the full engine snapshot handed to readers and subscribers.
 * Collections are owned exclusively by the Store; consumers treat the copy
 * they receive as read-only. */
type State struct {
	Widgets       []Widget `json:"widgets"`
	Layouts       []Layout `json:"layouts"`
	CurrentLayout string   `json:"current_layout"`
	IsLoading     bool     `json:"is_loading"`
	Error         string   `json:"error,omitempty"`
	IsCustomizing bool     `json:"is_customizing"`

	Themes       []Theme `json:"themes"`
	CurrentTheme string  `json:"current_theme"`

	GlobalFilters []Filter `json:"global_filters"`
	SearchQuery   string   `json:"search_query,omitempty"`

	Alerts            []Alert        `json:"alerts"`
	Insights          []Insight      `json:"insights"`
	Notifications     []Notification `json:"notifications"`
	IsRealTimeEnabled bool           `json:"is_real_time_enabled"`
	LastUpdate        time.Time      `json:"last_update"`

	Comments    []Comment    `json:"comments"`
	ActiveUsers []ActiveUser `json:"active_users"`

	Goals    []Goal   `json:"goals"`
	Settings Settings `json:"settings"`

	ExpandedWidget string `json:"expanded_widget,omitempty"`

	Exports  []ExportJob `json:"exports"`
	Datasets []Dataset   `json:"datasets"`
}

func (s State) clone() State {
	out := s
	out.Widgets = cloneWidgets(s.Widgets)
	out.Layouts = cloneLayouts(s.Layouts)
	out.Themes = append([]Theme(nil), s.Themes...)
	out.GlobalFilters = append([]Filter(nil), s.GlobalFilters...)
	out.Alerts = append([]Alert(nil), s.Alerts...)
	out.Insights = append([]Insight(nil), s.Insights...)
	out.Notifications = append([]Notification(nil), s.Notifications...)
	out.Comments = append([]Comment(nil), s.Comments...)
	out.ActiveUsers = append([]ActiveUser(nil), s.ActiveUsers...)
	out.Goals = append([]Goal(nil), s.Goals...)
	out.Exports = append([]ExportJob(nil), s.Exports...)
	out.Datasets = append([]Dataset(nil), s.Datasets...)
	return out
}

func cloneLayouts(layouts []Layout) []Layout {
	out := append([]Layout(nil), layouts...)
	for i := range out {
		out[i].Widgets = cloneWidgets(out[i].Widgets)
	}
	return out
}

/* cloneWidgets deep-copies payloads so slices nested inside them never share
 * backing arrays with the store's own state. The round trip through the
 * payload codec reuses the per-kind decoding the registry already does. */
func cloneWidgets(widgets []Widget) []Widget {
	out := append([]Widget(nil), widgets...)
	for i := range out {
		out[i].Payload = clonePayload(out[i].Payload)
	}
	return out
}

func clonePayload(p WidgetPayload) WidgetPayload {
	if p == nil {
		return nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return p
	}
	cp, err := DecodePayload(p.PayloadKind(), raw)
	if err != nil {
		return p
	}
	return cp
}

/* StoreConfig configures a Store. Zero values fall back to production
 * defaults; tests inject a fake clock and a memory snapshot store. */
type StoreConfig struct {
	Logger    *logging.Logger
	Clock     clockwork.Clock
	Snapshots SnapshotStore
	Namespace string

	/* LoadDelay is the simulated latency of LoadDashboard. */
	LoadDelay time.Duration
	/* ExportTTL is how long a completed export stays downloadable. */
	ExportTTL time.Duration
}

/* Store is the orchestration engine: a single mutable snapshot plus a fixed
 * operation surface. Every operation validates input, computes the next
 * state, persists the whitelisted fields when they changed, and notifies
 * subscribers synchronously. Operations are total: domain errors are
 * silent no-ops, never panics. */
type Store struct {
	mu        sync.Mutex
	logger    *logging.Logger
	clock     clockwork.Clock
	snapshots SnapshotStore
	namespace string
	loadDelay time.Duration
	exportTTL time.Duration
	newID     func() string

	state   State
	subs    map[int]func(State)
	nextSub int

	exportc chan string
}

/* NewStore builds a store seeded from compiled-in defaults, then rehydrated
 * from the persisted snapshot when one exists. Non-whitelisted collections
 * always start from defaults. */
func NewStore(cfg StoreConfig) *Store {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewLogger("info", "json", "stdout")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Snapshots == nil {
		cfg.Snapshots = NewMemorySnapshotStore()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = SnapshotNamespace
	}
	if cfg.LoadDelay <= 0 {
		cfg.LoadDelay = 600 * time.Millisecond
	}
	if cfg.ExportTTL <= 0 {
		cfg.ExportTTL = 24 * time.Hour
	}

	s := &Store{
		logger:    cfg.Logger,
		clock:     cfg.Clock,
		snapshots: cfg.Snapshots,
		namespace: cfg.Namespace,
		loadDelay: cfg.LoadDelay,
		exportTTL: cfg.ExportTTL,
		newID:     func() string { return uuid.New().String() },
		subs:      make(map[int]func(State)),
		exportc:   make(chan string, 64),
	}

	now := s.clock.Now()
	s.state = State{
		Widgets:           DefaultWidgets(now),
		Layouts:           DefaultLayouts(now),
		CurrentLayout:     LayoutDefault,
		Themes:            DefaultThemes(),
		CurrentTheme:      ThemeLight,
		Alerts:            SeedAlerts(now),
		Insights:          SeedInsights(now),
		IsRealTimeEnabled: true,
		LastUpdate:        now,
		Goals:             SeedGoals(now),
		Settings:          DefaultSettings(),
	}
	s.rehydrate()
	return s
}

/* rehydrate overlays the persisted snapshot field by field, keeping defaults
 * for anything an older snapshot does not carry. */
func (s *Store) rehydrate() {
	snap, ok, err := s.snapshots.Load(context.Background(), s.namespace)
	if err != nil {
		s.logger.Error("Failed to load dashboard snapshot", err, map[string]interface{}{
			"namespace": s.namespace,
		})
		return
	}
	if !ok {
		return
	}
	if snap.Widgets != nil {
		s.state.Widgets = snap.Widgets
	}
	if snap.CurrentLayout != "" {
		s.state.CurrentLayout = snap.CurrentLayout
	}
	if snap.CurrentTheme != "" {
		s.state.CurrentTheme = snap.CurrentTheme
	}
	if snap.Settings != nil {
		s.state.Settings = *snap.Settings
	}
	if snap.Layouts != nil {
		s.state.Layouts = snap.Layouts
	}
	if snap.Themes != nil {
		s.state.Themes = snap.Themes
	}
	if snap.Goals != nil {
		s.state.Goals = snap.Goals
	}
}

/* Subscribe registers a synchronous observer of committed state. The
 * returned function removes the subscription. */
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

/* State returns a copy of the current snapshot. */
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

/* Now exposes the store clock so collaborators share one notion of time. */
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

/* commitLocked persists the whitelist (when asked) and returns the notifier
 * to run after the lock is released, so subscriber callbacks can re-enter
 * the store without deadlocking. Call with s.mu held. */
func (s *Store) commitLocked(persist bool) func() {
	if persist {
		snap := &Snapshot{
			Widgets:       s.state.Widgets,
			CurrentLayout: s.state.CurrentLayout,
			CurrentTheme:  s.state.CurrentTheme,
			Settings:      &s.state.Settings,
			Layouts:       s.state.Layouts,
			Themes:        s.state.Themes,
			Goals:         s.state.Goals,
		}
		if err := s.snapshots.Save(context.Background(), s.namespace, snap); err != nil {
			s.logger.Error("Failed to persist dashboard snapshot", err, map[string]interface{}{
				"namespace": s.namespace,
			})
		}
	}
	if len(s.subs) == 0 {
		return func() {}
	}
	state := s.state.clone()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(state)
		}
	}
}

/* LoadDashboard replaces the active widget collection with the current
 * layout's stored widgets after a simulated delay. Failures are recorded in
 * the error field and never propagate; the loading flag is always cleared. */
func (s *Store) LoadDashboard(ctx context.Context) {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()

	select {
	case <-ctx.Done():
		s.mu.Lock()
		s.state.IsLoading = false
		s.state.Error = "failed to load dashboard data"
		notify = s.commitLocked(false)
		s.mu.Unlock()
		notify()
		return
	case <-s.clock.After(s.loadDelay):
	}

	s.mu.Lock()
	now := s.clock.Now()
	if layout, ok := findLayout(s.state.Layouts, s.state.CurrentLayout); ok {
		s.state.Widgets = append([]Widget(nil), layout.Widgets...)
	} else {
		s.state.Widgets = DefaultWidgets(now)
	}
	s.state.IsLoading = false
	s.state.LastUpdate = now
	notify = s.commitLocked(true)
	s.mu.Unlock()
	notify()
}

func findLayout(layouts []Layout, id string) (Layout, bool) {
	for _, l := range layouts {
		if l.ID == id {
			return l, true
		}
	}
	return Layout{}, false
}

func widgetIndex(widgets []Widget, id string) int {
	for i := range widgets {
		if widgets[i].ID == id {
			return i
		}
	}
	return -1
}

/* AddWidget appends a widget to the active collection. A duplicate id is a
 * no-op: an add must never silently overwrite an unrelated widget. */
func (s *Store) AddWidget(w Widget) {
	s.mu.Lock()
	if w.ID == "" || widgetIndex(s.state.Widgets, w.ID) >= 0 {
		s.mu.Unlock()
		return
	}
	if w.Payload == nil {
		w.Payload = Lookup(w.Kind).DefaultPayload()
	}
	if w.LastUpdated.IsZero() {
		w.LastUpdated = s.clock.Now()
	}
	s.state.Widgets = append(s.state.Widgets, w)
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
}

/* RemoveWidget removes by id; absent ids are a no-op, so removal is
 * idempotent against stale references. */
func (s *Store) RemoveWidget(id string) {
	s.mu.Lock()
	i := widgetIndex(s.state.Widgets, id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.state.Widgets = append(s.state.Widgets[:i], s.state.Widgets[i+1:]...)
	if s.state.ExpandedWidget == id {
		s.state.ExpandedWidget = ""
	}
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
}

/* WidgetUpdate is a partial widget patch; nil fields stay untouched. */
type WidgetUpdate struct {
	Title           *string
	Width           *WidgetSize
	Height          *WidgetSize
	Position        *int
	Payload         WidgetPayload
	RefreshInterval *time.Duration
}

/* UpdateWidget applies a patch to one widget; unknown ids are a no-op. */
func (s *Store) UpdateWidget(id string, patch WidgetUpdate) {
	s.mu.Lock()
	i := widgetIndex(s.state.Widgets, id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	w := &s.state.Widgets[i]
	if patch.Title != nil {
		w.Title = *patch.Title
	}
	if patch.Width != nil {
		w.Width = *patch.Width
	}
	if patch.Height != nil {
		w.Height = *patch.Height
	}
	if patch.Position != nil {
		w.Position = *patch.Position
	}
	if patch.Payload != nil {
		w.Payload = patch.Payload
	}
	if patch.RefreshInterval != nil {
		w.RefreshInterval = *patch.RefreshInterval
	}
	w.LastUpdated = s.clock.Now()
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
}

/* ExpandWidget records the single expanded widget pointer. Expanding a
 * second widget replaces the first; this is UI focus, not data. */
func (s *Store) ExpandWidget(id string) {
	s.mu.Lock()
	if widgetIndex(s.state.Widgets, id) < 0 {
		s.mu.Unlock()
		return
	}
	s.state.ExpandedWidget = id
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
}

func (s *Store) CollapseWidget() {
	s.mu.Lock()
	s.state.ExpandedWidget = ""
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
}

/* UpdateWidgetPosition moves a widget to a new slot and renumbers positions
 * densely. Unknown ids are a no-op. */
func (s *Store) UpdateWidgetPosition(id string, position int) {
	s.mu.Lock()
	i := widgetIndex(s.state.Widgets, id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	moved := s.state.Widgets[i]
	rest := append(append([]Widget(nil), s.state.Widgets[:i]...), s.state.Widgets[i+1:]...)
	if position < 0 {
		position = 0
	}
	if position > len(rest) {
		position = len(rest)
	}
	widgets := append(rest[:position:position], append([]Widget{moved}, rest[position:]...)...)
	for j := range widgets {
		widgets[j].Position = j
	}
	s.state.Widgets = widgets
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
}

/* ReorderWidgets rebuilds the collection in the given id order. Ids that do
 * not resolve to a widget are dropped; positions are renumbered densely. */
func (s *Store) ReorderWidgets(ids []string) {
	s.mu.Lock()
	byID := make(map[string]Widget, len(s.state.Widgets))
	for _, w := range s.state.Widgets {
		byID[w.ID] = w
	}
	widgets := make([]Widget, 0, len(ids))
	for _, id := range ids {
		w, ok := byID[id]
		if !ok {
			continue
		}
		w.Position = len(widgets)
		widgets = append(widgets, w)
	}
	s.state.Widgets = widgets
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
}

/* CreateLayout stores a new named layout and returns its generated id. */
func (s *Store) CreateLayout(l Layout) string {
	s.mu.Lock()
	now := s.clock.Now()
	l.ID = s.newID()
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.IsDefault {
		for i := range s.state.Layouts {
			s.state.Layouts[i].IsDefault = false
		}
	}
	s.state.Layouts = append(s.state.Layouts, l)
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
	return l.ID
}

/* SwitchLayout atomically replaces the current layout pointer and the active
 * widget collection together. An unknown layout id changes nothing. */
func (s *Store) SwitchLayout(layoutID string) {
	s.mu.Lock()
	layout, ok := findLayout(s.state.Layouts, layoutID)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.state.CurrentLayout = layoutID
	s.state.Widgets = append([]Widget(nil), layout.Widgets...)
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
}

/* LayoutUpdate is a partial layout patch; nil fields stay untouched. */
type LayoutUpdate struct {
	Name        *string
	Description *string
	Widgets     []Widget
	GridConfig  *GridConfig
	IsDefault   *bool
}

/* UpdateLayout patches a stored layout and stamps UpdatedAt. Writing the
 * widget list here is the only way active-collection edits become durable
 * under a layout. */
func (s *Store) UpdateLayout(id string, patch LayoutUpdate) {
	s.mu.Lock()
	idx := -1
	for i := range s.state.Layouts {
		if s.state.Layouts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	l := &s.state.Layouts[idx]
	if patch.Name != nil {
		l.Name = *patch.Name
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	if patch.Widgets != nil {
		l.Widgets = append([]Widget(nil), patch.Widgets...)
	}
	if patch.GridConfig != nil {
		l.GridConfig = *patch.GridConfig
	}
	if patch.IsDefault != nil {
		if *patch.IsDefault {
			for i := range s.state.Layouts {
				s.state.Layouts[i].IsDefault = false
			}
		}
		l.IsDefault = *patch.IsDefault
	}
	l.UpdatedAt = s.clock.Now()
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
}

/* DeleteLayout removes a stored layout by id. The active widget collection
 * is untouched even when the current layout is deleted. */
func (s *Store) DeleteLayout(id string) {
	s.mu.Lock()
	kept := s.state.Layouts[:0:0]
	for _, l := range s.state.Layouts {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(s.state.Layouts) {
		s.mu.Unlock()
		return
	}
	s.state.Layouts = kept
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
}

/* SwitchTheme selects a theme and mirrors the choice into settings. */
func (s *Store) SwitchTheme(themeID string) {
	s.mu.Lock()
	found := false
	for _, t := range s.state.Themes {
		if t.ID == themeID {
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return
	}
	s.state.CurrentTheme = themeID
	s.state.Settings.Theme = themeID
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
}

/* CreateCustomTheme stores a user theme and returns its generated id. */
func (s *Store) CreateCustomTheme(t Theme) string {
	s.mu.Lock()
	t.ID = s.newID()
	s.state.Themes = append(s.state.Themes, t)
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
	return t.ID
}

/* AddGlobalFilter stores a filter predicate, generating an id when absent. */
func (s *Store) AddGlobalFilter(f Filter) string {
	s.mu.Lock()
	if f.ID == "" {
		f.ID = s.newID()
	}
	s.state.GlobalFilters = append(s.state.GlobalFilters, f)
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
	return f.ID
}

/* RemoveGlobalFilter removes by id, idempotently. */
func (s *Store) RemoveGlobalFilter(id string) {
	s.mu.Lock()
	kept := s.state.GlobalFilters[:0:0]
	for _, f := range s.state.GlobalFilters {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	s.state.GlobalFilters = kept
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
}

/* UpdateGlobalFilter replaces a stored filter's fields, preserving its id. */
func (s *Store) UpdateGlobalFilter(id string, f Filter) {
	s.mu.Lock()
	for i := range s.state.GlobalFilters {
		if s.state.GlobalFilters[i].ID == id {
			f.ID = id
			s.state.GlobalFilters[i] = f
			notify := s.commitLocked(false)
			s.mu.Unlock()
			notify()
			return
		}
	}
	s.mu.Unlock()
}

func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	s.state.SearchQuery = query
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
}

/* AddAlert stamps a generated id and the current time, then prepends so the
 * newest alert renders first. */
func (s *Store) AddAlert(a Alert) string {
	s.mu.Lock()
	a.ID = s.newID()
	a.Timestamp = s.clock.Now()
	s.state.Alerts = append([]Alert{a}, s.state.Alerts...)
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
	return a.ID
}

/* DismissAlert removes by id; dismissed alerts are gone, not archived. */
func (s *Store) DismissAlert(id string) {
	s.mu.Lock()
	kept := s.state.Alerts[:0:0]
	for _, a := range s.state.Alerts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.state.Alerts = kept
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
}

/* AddInsight stamps a generated id and timestamp. Confidence is fixed at
 * creation; no operation mutates it afterwards. */
func (s *Store) AddInsight(in Insight) string {
	s.mu.Lock()
	in.ID = s.newID()
	in.Timestamp = s.clock.Now()
	s.state.Insights = append([]Insight{in}, s.state.Insights...)
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
	return in.ID
}

func (s *Store) DismissInsight(id string) {
	s.mu.Lock()
	kept := s.state.Insights[:0:0]
	for _, in := range s.state.Insights {
		if in.ID != id {
			kept = append(kept, in)
		}
	}
	s.state.Insights = kept
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
}

/* ToggleRealTime flips the pipeline flag and returns the new value. The
 * scheduler re-reads the flag every tick rather than capturing it. */
func (s *Store) ToggleRealTime() bool {
	s.mu.Lock()
	s.state.IsRealTimeEnabled = !s.state.IsRealTimeEnabled
	enabled := s.state.IsRealTimeEnabled
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
	return enabled
}

func (s *Store) RealTimeEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsRealTimeEnabled
}

/* Settings returns a copy of the current settings. */
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

/* AddNotification stamps a generated id and timestamp. */
func (s *Store) AddNotification(n Notification) string {
	s.mu.Lock()
	n.ID = s.newID()
	n.Timestamp = s.clock.Now()
	n.IsRead = false
	s.state.Notifications = append([]Notification{n}, s.state.Notifications...)
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
	return n.ID
}

/* MarkNotificationRead transitions unread to read. The transition is
 * monotonic: nothing flips a notification back to unread. */
func (s *Store) MarkNotificationRead(id string) {
	s.mu.Lock()
	for i := range s.state.Notifications {
		if s.state.Notifications[i].ID == id {
			if !s.state.Notifications[i].IsRead {
				s.state.Notifications[i].IsRead = true
				notify := s.commitLocked(false)
				s.mu.Unlock()
				notify()
				return
			}
			break
		}
	}
	s.mu.Unlock()
}

func (s *Store) ClearAllNotifications() {
	s.mu.Lock()
	s.state.Notifications = nil
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
}

/* AddComment appends to the widget comment log. */
func (s *Store) AddComment(c Comment) string {
	s.mu.Lock()
	c.ID = s.newID()
	c.Timestamp = s.clock.Now()
	s.state.Comments = append(s.state.Comments, c)
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
	return c.ID
}

/* CommentUpdate is a partial comment patch. */
type CommentUpdate struct {
	Content    *string
	IsResolved *bool
}

func (s *Store) UpdateComment(id string, patch CommentUpdate) {
	s.mu.Lock()
	for i := range s.state.Comments {
		if s.state.Comments[i].ID == id {
			if patch.Content != nil {
				s.state.Comments[i].Content = *patch.Content
			}
			if patch.IsResolved != nil {
				s.state.Comments[i].IsResolved = *patch.IsResolved
			}
			notify := s.commitLocked(false)
			s.mu.Unlock()
			notify()
			return
		}
	}
	s.mu.Unlock()
}

func (s *Store) DeleteComment(id string) {
	s.mu.Lock()
	kept := s.state.Comments[:0:0]
	for _, c := range s.state.Comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.state.Comments = kept
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
}

/* TouchActiveUser upserts a presence record, refreshing LastSeen. */
func (s *Store) TouchActiveUser(u ActiveUser) {
	s.mu.Lock()
	u.LastSeen = s.clock.Now()
	found := false
	for i := range s.state.ActiveUsers {
		if s.state.ActiveUsers[i].ID == u.ID {
			s.state.ActiveUsers[i] = u
			found = true
			break
		}
	}
	if !found {
		s.state.ActiveUsers = append(s.state.ActiveUsers, u)
	}
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
}

/* SettingsUpdate is a partial settings patch; nil fields stay untouched. */
type SettingsUpdate struct {
	AutoRefresh     *bool
	RefreshInterval *time.Duration
	Theme           *string
	Layout          *string
	Timezone        *string
	DateFormat      *string
	NumberFormat    *string
	Currency        *string
	Language        *string
	Notifications   *NotificationPrefs
	Privacy         *PrivacyPrefs
	Accessibility   *AccessibilityPrefs
}

/* UpdateSettings merges a partial update. A non-positive refresh interval is
 * ignored while auto-refresh is on, preserving the settings invariant. */
func (s *Store) UpdateSettings(patch SettingsUpdate) {
	s.mu.Lock()
	cfg := &s.state.Settings
	if patch.AutoRefresh != nil {
		cfg.AutoRefresh = *patch.AutoRefresh
	}
	if patch.RefreshInterval != nil && (*patch.RefreshInterval > 0 || !cfg.AutoRefresh) {
		cfg.RefreshInterval = *patch.RefreshInterval
	}
	if patch.Theme != nil {
		cfg.Theme = *patch.Theme
		s.state.CurrentTheme = *patch.Theme
	}
	if patch.Layout != nil {
		cfg.Layout = *patch.Layout
	}
	if patch.Timezone != nil {
		cfg.Timezone = *patch.Timezone
	}
	if patch.DateFormat != nil {
		cfg.DateFormat = *patch.DateFormat
	}
	if patch.NumberFormat != nil {
		cfg.NumberFormat = *patch.NumberFormat
	}
	if patch.Currency != nil {
		cfg.Currency = *patch.Currency
	}
	if patch.Language != nil {
		cfg.Language = *patch.Language
	}
	if patch.Notifications != nil {
		cfg.Notifications = *patch.Notifications
	}
	if patch.Privacy != nil {
		cfg.Privacy = *patch.Privacy
	}
	if patch.Accessibility != nil {
		cfg.Accessibility = *patch.Accessibility
	}
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
}

/* StartCustomizing flags edit mode. The flag is advisory: callers gate
 * structural edits on it, the store does not enforce the gate. */
func (s *Store) StartCustomizing() {
	s.setCustomizing(true)
}

func (s *Store) StopCustomizing() {
	s.setCustomizing(false)
}

func (s *Store) setCustomizing(on bool) {
	s.mu.Lock()
	s.state.IsCustomizing = on
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
}

/* ResetToDefault restores the compiled-in widget set and default layout
 * pointer. Stored layouts, themes, goals and settings are untouched. */
func (s *Store) ResetToDefault() {
	s.mu.Lock()
	s.state.Widgets = DefaultWidgets(s.clock.Now())
	s.state.CurrentLayout = LayoutDefault
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
}

/* AddDataset wraps externally uploaded rows into a Dataset record. */
func (s *Store) AddDataset(name string, rows []map[string]interface{}) string {
	s.mu.Lock()
	d := Dataset{
		ID:         s.newID(),
		Name:       name,
		Rows:       rows,
		UploadedAt: s.clock.Now(),
	}
	s.state.Datasets = append(s.state.Datasets, d)
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
	return d.ID
}

func (s *Store) RemoveDataset(id string) {
	s.mu.Lock()
	kept := s.state.Datasets[:0:0]
	for _, d := range s.state.Datasets {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	s.state.Datasets = kept
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()
}
