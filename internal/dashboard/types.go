package dashboard

import (
	"encoding/json"
	"time"
)

/* WidgetKind identifies the visual module a widget instance renders as.
 * The enumeration is closed but extensible: kinds without a registry entry
 * degrade to the unimplemented placeholder instead of failing. */
type WidgetKind string

const (
	KindSalesOverview   WidgetKind = "SALES_OVERVIEW"
	KindAIInsights      WidgetKind = "AI_INSIGHTS"
	KindGoalTracker     WidgetKind = "GOAL_TRACKER"
	KindHeatmapCalendar WidgetKind = "HEATMAP_CALENDAR"
	KindTeamPerformance WidgetKind = "TEAM_PERFORMANCE"
	KindRealTimeAlerts  WidgetKind = "REAL_TIME_ALERTS"
	KindPieChart        WidgetKind = "PIE_CHART"
	KindLineChart       WidgetKind = "LINE_CHART"
	KindFunnelChart     WidgetKind = "FUNNEL_CHART"
	KindKPICard         WidgetKind = "KPI_CARD"
	KindDataTable       WidgetKind = "DATA_TABLE"
	KindSystemHealth    WidgetKind = "SYSTEM_HEALTH"
)

/* WidgetSize is a coarse width/height class interpreted by the grid. */
type WidgetSize string

const (
	SizeSmall  WidgetSize = "small"
	SizeMedium WidgetSize = "medium"
	SizeLarge  WidgetSize = "large"
	SizeFull   WidgetSize = "full"
	SizeXL     WidgetSize = "xl"
)

/* Widget is a configured instance of a visual module. Position is a render
 * ordinal only; gaps are tolerated. */
type Widget struct {
	ID              string        `json:"id"`
	Kind            WidgetKind    `json:"type"`
	Title           string        `json:"title"`
	Width           WidgetSize    `json:"width"`
	Height          WidgetSize    `json:"height"`
	Position        int           `json:"position"`
	Payload         WidgetPayload `json:"data,omitempty"`
	RefreshInterval time.Duration `json:"refresh_interval,omitempty"`
	LastUpdated     time.Time     `json:"last_updated"`
}

/* widgetAlias avoids UnmarshalJSON recursion while the payload is decoded
 * against the widget's declared kind. */
type widgetAlias struct {
	ID              string          `json:"id"`
	Kind            WidgetKind      `json:"type"`
	Title           string          `json:"title"`
	Width           WidgetSize      `json:"width"`
	Height          WidgetSize      `json:"height"`
	Position        int             `json:"position"`
	Payload         json.RawMessage `json:"data,omitempty"`
	RefreshInterval time.Duration   `json:"refresh_interval,omitempty"`
	LastUpdated     time.Time       `json:"last_updated"`
}

func (w *Widget) UnmarshalJSON(data []byte) error {
	var alias widgetAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	payload, err := DecodePayload(alias.Kind, alias.Payload)
	if err != nil {
		return err
	}
	*w = Widget{
		ID:              alias.ID,
		Kind:            alias.Kind,
		Title:           alias.Title,
		Width:           alias.Width,
		Height:          alias.Height,
		Position:        alias.Position,
		Payload:         payload,
		RefreshInterval: alias.RefreshInterval,
		LastUpdated:     alias.LastUpdated,
	}
	return nil
}

/* GridConfig describes the column grid a layout arranges widgets on. */
type GridConfig struct {
	Columns    int  `json:"columns"`
	Gap        int  `json:"gap"`
	Responsive bool `json:"responsive"`
}

/* Layout is a named, ordered collection of widgets plus grid configuration.
 * The stored widget list is a snapshot: edits to the active collection do not
 * write back unless UpdateLayout is issued explicitly. */
type Layout struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	IsDefault   bool       `json:"is_default"`
	Widgets     []Widget   `json:"widgets"`
	GridConfig  GridConfig `json:"grid_config"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

/* ThemeMode selects how a theme resolves against the OS preference. */
type ThemeMode string

const (
	ModeLight ThemeMode = "light"
	ModeDark  ThemeMode = "dark"
	ModeAuto  ThemeMode = "auto"
)

/* Theme is a named set of visual tokens. Token groups are flat maps so custom
 * themes can carry additional tokens without schema changes. */
type Theme struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Mode       ThemeMode         `json:"mode"`
	Colors     map[string]string `json:"colors"`
	Typography map[string]string `json:"typography,omitempty"`
	Spacing    map[string]string `json:"spacing,omitempty"`
}

/* FilterOperator is the closed set of predicate operators a global filter
 * may carry. The engine stores filters; widgets interpret them. */
type FilterOperator string

const (
	OpEquals   FilterOperator = "equals"
	OpContains FilterOperator = "contains"
	OpGreater  FilterOperator = "greater"
	OpLess     FilterOperator = "less"
	OpBetween  FilterOperator = "between"
	OpIn       FilterOperator = "in"
)

/* FilterValueType hints the UI control used to edit a filter value. */
type FilterValueType string

const (
	FilterText        FilterValueType = "text"
	FilterNumber      FilterValueType = "number"
	FilterDate        FilterValueType = "date"
	FilterSelect      FilterValueType = "select"
	FilterMultiSelect FilterValueType = "multiselect"
)

type Filter struct {
	ID        string          `json:"id"`
	Field     string          `json:"field"`
	Operator  FilterOperator  `json:"operator"`
	Value     interface{}     `json:"value"`
	Label     string          `json:"label"`
	ValueType FilterValueType `json:"value_type"`
}

/* Severity classifies alerts for presentation. */
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

/* Priority ranks alerts and notifications. */
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

/* Alert is a dismissible, priority-ranked actionable event. Dismissal removes
 * it from the active collection; there is no archive. */
type Alert struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Message       string        `json:"message"`
	Severity      Severity      `json:"type"`
	Priority      Priority      `json:"priority"`
	Timestamp     time.Time     `json:"timestamp"`
	IsRead        bool          `json:"is_read"`
	RelatedWidget string        `json:"related_widget,omitempty"`
	AutoHide      bool          `json:"auto_hide,omitempty"`
	Duration      time.Duration `json:"duration,omitempty"`
}

/* InsightKind classifies how an insight was derived. */
type InsightKind string

const (
	InsightTrend          InsightKind = "trend"
	InsightAnomaly        InsightKind = "anomaly"
	InsightRecommendation InsightKind = "recommendation"
	InsightForecast       InsightKind = "forecast"
)

/* Insight is a dismissible, confidence-scored informational finding.
 * Confidence is set at creation and never mutated afterwards. */
type Insight struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Kind         InsightKind `json:"type"`
	Confidence   float64     `json:"confidence"`
	Impact       string      `json:"impact"`
	Category     string      `json:"category,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	IsActionable bool        `json:"is_actionable"`
}

/* NotificationType says which event family produced an inbox entry. */
type NotificationType string

const (
	NotifyAlert   NotificationType = "alert"
	NotifyInsight NotificationType = "insight"
	NotifyComment NotificationType = "comment"
	NotifyShare   NotificationType = "share"
	NotifyGoal    NotificationType = "goal"
	NotifySystem  NotificationType = "system"
)

/* EntityRef is a soft reference to another entity by (type, id). */
type EntityRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

/* Notification is a read/unread inbox entry. The read transition is
 * one-directional: unread to read, never back. */
type Notification struct {
	ID            string           `json:"id"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	Timestamp     time.Time        `json:"timestamp"`
	IsRead        bool             `json:"is_read"`
	Priority      Priority         `json:"priority"`
	RelatedEntity *EntityRef       `json:"related_entity,omitempty"`
}

/* Comment is an append-only collaboration note attached to a widget. No
 * conflict resolution is attempted; last write wins. */
type Comment struct {
	ID         string    `json:"id"`
	WidgetID   string    `json:"widget_id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	IsResolved bool      `json:"is_resolved,omitempty"`
}

/* ActiveUser is a presence record for the collaboration sidebar. */
type ActiveUser struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar,omitempty"`
	LastSeen time.Time `json:"last_seen"`
}

/* GoalStatus is derived from current/target/deadline; it is never stored. */
type GoalStatus string

const (
	GoalCompleted GoalStatus = "completed"
	GoalOnTrack   GoalStatus = "on-track"
	GoalAtRisk    GoalStatus = "at-risk"
	GoalBehind    GoalStatus = "behind"
)

/* Milestone is an owned sub-record of a goal. */
type Milestone struct {
	Title     string    `json:"title"`
	Target    float64   `json:"target"`
	Deadline  time.Time `json:"deadline"`
	Completed bool      `json:"completed"`
}

/* Goal tracks a metric against a target. Status is intentionally absent from
 * the struct: compute it with StatusAt so it can never diverge from the
 * derivation rule. */
type Goal struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Metric      string      `json:"metric"`
	Target      float64     `json:"target"`
	Current     float64     `json:"current"`
	Unit        string      `json:"unit"`
	Deadline    time.Time   `json:"deadline"`
	Category    string      `json:"category,omitempty"`
	Priority    Priority    `json:"priority,omitempty"`
	Milestones  []Milestone `json:"milestones,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

/* ExportFormat enumerates supported export artifact formats. */
type ExportFormat string

const (
	FormatPDF   ExportFormat = "pdf"
	FormatExcel ExportFormat = "excel"
	FormatCSV   ExportFormat = "csv"
	FormatPNG   ExportFormat = "png"
	FormatSVG   ExportFormat = "svg"
)

/* ExportStatus transitions pending -> processing -> completed|failed and
 * never regresses. */
type ExportStatus string

const (
	ExportPending    ExportStatus = "pending"
	ExportProcessing ExportStatus = "processing"
	ExportCompleted  ExportStatus = "completed"
	ExportFailed     ExportStatus = "failed"
)

/* DateRange bounds the data included in an export. */
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

/* ExportConfig is the caller-supplied part of an export request. WidgetIDs
 * and Filters are captured as snapshots, not live references. */
type ExportConfig struct {
	Format    ExportFormat `json:"format"`
	WidgetIDs []string     `json:"widgets"`
	Filters   []Filter     `json:"filters,omitempty"`
	DateRange DateRange    `json:"date_range"`
}

/* ExportJob is an asynchronous request to materialize a dashboard snapshot
 * into a downloadable artifact. Jobs past ExpiresAt or in failed state are
 * retained for audit but are not downloadable. */
type ExportJob struct {
	ID          string       `json:"id"`
	Format      ExportFormat `json:"format"`
	WidgetIDs   []string     `json:"widgets"`
	Filters     []Filter     `json:"filters,omitempty"`
	DateRange   DateRange    `json:"date_range"`
	Status      ExportStatus `json:"status"`
	DownloadURL string       `json:"download_url,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

/* Downloadable reports whether the job artifact may still be served. */
func (j ExportJob) Downloadable(now time.Time) bool {
	return j.Status == ExportCompleted && now.Before(j.ExpiresAt)
}

/* Dataset wraps externally uploaded rows so widgets can reference them by
 * convention. There is no enforced foreign key to widget payloads. */
type Dataset struct {
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	Rows       []map[string]interface{} `json:"rows"`
	UploadedAt time.Time                `json:"uploaded_at"`
}

/* NotificationPrefs configures delivery channels for the inbox. */
type NotificationPrefs struct {
	Email     bool   `json:"email"`
	Push      bool   `json:"push"`
	InApp     bool   `json:"in_app"`
	Frequency string `json:"frequency"`
}

type PrivacyPrefs struct {
	ShareAnalytics bool `json:"share_analytics"`
	AllowTracking  bool `json:"allow_tracking"`
}

type AccessibilityPrefs struct {
	HighContrast  bool   `json:"high_contrast"`
	ReducedMotion bool   `json:"reduced_motion"`
	ScreenReader  bool   `json:"screen_reader"`
	FontSize      string `json:"font_size"`
}

/* Settings holds user preferences. RefreshInterval must be positive whenever
 * AutoRefresh is enabled. */
type Settings struct {
	AutoRefresh     bool               `json:"auto_refresh"`
	RefreshInterval time.Duration      `json:"refresh_interval"`
	Theme           string             `json:"theme"`
	Layout          string             `json:"layout"`
	Timezone        string             `json:"timezone"`
	DateFormat      string             `json:"date_format"`
	NumberFormat    string             `json:"number_format"`
	Currency        string             `json:"currency"`
	Language        string             `json:"language"`
	Notifications   NotificationPrefs  `json:"notifications"`
	Privacy         PrivacyPrefs       `json:"privacy"`
	Accessibility   AccessibilityPrefs `json:"accessibility"`
}
