package dashboard

import (
	"encoding/json"
	"time"
)

/* WidgetPayload is the tagged union of per-kind widget data. Each variant
 * carries the strongly-typed shape its renderer consumes; the registry
 * decodes raw JSON into the right variant by the widget's declared kind. */
type WidgetPayload interface {
	PayloadKind() WidgetKind
}

/* Trend is a coarse direction indicator attached to several payload shapes. */
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

/* MonthValue is one point of a by-month series. */
type MonthValue struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

/* SalesOverviewPayload summarizes sales for the current period. */
type SalesOverviewPayload struct {
	CurrentMonth  float64      `json:"current_month"`
	PreviousMonth float64      `json:"previous_month"`
	Growth        float64      `json:"growth"`
	ByMonth       []MonthValue `json:"by_month"`
}

func (SalesOverviewPayload) PayloadKind() WidgetKind { return KindSalesOverview }

/* MetricTrend is one tracked metric with its movement and confidence. */
type MetricTrend struct {
	Metric     string  `json:"metric"`
	Trend      Trend   `json:"trend"`
	Change     float64 `json:"change"`
	Confidence float64 `json:"confidence"`
}

/* MetricPrediction is a forecast value for a named metric. */
type MetricPrediction struct {
	Metric     string  `json:"metric"`
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
}

/* AIInsightsPayload carries derived findings plus trend/forecast summaries. */
type AIInsightsPayload struct {
	Insights    []Insight          `json:"insights"`
	Trends      []MetricTrend      `json:"trends,omitempty"`
	Predictions []MetricPrediction `json:"predictions,omitempty"`
}

func (AIInsightsPayload) PayloadKind() WidgetKind { return KindAIInsights }

/* GoalSummary is the aggregate bucket count shown by the goal tracker. */
type GoalSummary struct {
	Total           int     `json:"total"`
	OnTrack         int     `json:"on_track"`
	AtRisk          int     `json:"at_risk"`
	Behind          int     `json:"behind"`
	Completed       int     `json:"completed"`
	AverageProgress float64 `json:"average_progress"`
}

type GoalTrackerPayload struct {
	Goals   []Goal      `json:"goals"`
	Summary GoalSummary `json:"summary"`
}

func (GoalTrackerPayload) PayloadKind() WidgetKind { return KindGoalTracker }

/* HeatmapDay is one cell of the activity calendar. */
type HeatmapDay struct {
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
	Events int     `json:"events"`
}

type HeatmapMetrics struct {
	TotalEvents  int       `json:"total_events"`
	AverageDaily float64   `json:"average_daily"`
	PeakDay      string    `json:"peak_day"`
	PeakValue    float64   `json:"peak_value"`
	ComputedAt   time.Time `json:"computed_at,omitempty"`
}

type HeatmapCalendarPayload struct {
	Days    []HeatmapDay   `json:"days"`
	Metrics HeatmapMetrics `json:"metrics"`
}

func (HeatmapCalendarPayload) PayloadKind() WidgetKind { return KindHeatmapCalendar }

/* TeamScore is one team's performance against target. */
type TeamScore struct {
	Name        string  `json:"name"`
	Performance float64 `json:"performance"`
	Target      float64 `json:"target"`
	Members     int     `json:"members"`
	Trend       Trend   `json:"trend"`
}

type Performer struct {
	Name  string  `json:"name"`
	Team  string  `json:"team"`
	Score float64 `json:"score"`
}

type TeamPerformancePayload struct {
	Teams         []TeamScore `json:"teams"`
	TopPerformers []Performer `json:"top_performers,omitempty"`
}

func (TeamPerformancePayload) PayloadKind() WidgetKind { return KindTeamPerformance }

/* RealTimeAlertsPayload mirrors the active alert collection for the alert
 * feed widget. It is a snapshot handed to the renderer, not a live view. */
type RealTimeAlertsPayload struct {
	Alerts []Alert `json:"alerts"`
}

func (RealTimeAlertsPayload) PayloadKind() WidgetKind { return KindRealTimeAlerts }

/* PieSegment is one slice of a pie chart. */
type PieSegment struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Color      string  `json:"color,omitempty"`
	Percentage float64 `json:"percentage"`
	Trend      Trend   `json:"trend,omitempty"`
	Change     float64 `json:"change,omitempty"`
}

type PieChartPayload struct {
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle,omitempty"`
	Total    float64      `json:"total"`
	Segments []PieSegment `json:"segments"`
}

func (PieChartPayload) PayloadKind() WidgetKind { return KindPieChart }

/* SeriesPoint is one x/y pair of a line series. */
type SeriesPoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

type LineChartPayload struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle,omitempty"`
	Series   []ChartSeries `json:"datasets"`
}

/* ChartSeries is one named series of a line chart. */
type ChartSeries struct {
	Label  string        `json:"label"`
	Color  string        `json:"color,omitempty"`
	Trend  Trend         `json:"trend,omitempty"`
	Change float64       `json:"change,omitempty"`
	Points []SeriesPoint `json:"data"`
}

func (LineChartPayload) PayloadKind() WidgetKind { return KindLineChart }

/* FunnelStage is one conversion step of a funnel. */
type FunnelStage struct {
	Label          string  `json:"label"`
	Value          float64 `json:"value"`
	Percentage     float64 `json:"percentage"`
	Color          string  `json:"color,omitempty"`
	ConversionRate float64 `json:"conversion_rate"`
	Trend          Trend   `json:"trend,omitempty"`
	Change         float64 `json:"change,omitempty"`
}

type FunnelChartPayload struct {
	Title          string        `json:"title"`
	Subtitle       string        `json:"subtitle,omitempty"`
	TotalLeads     float64       `json:"total_leads"`
	ConversionRate float64       `json:"conversion_rate"`
	Stages         []FunnelStage `json:"stages"`
}

func (FunnelChartPayload) PayloadKind() WidgetKind { return KindFunnelChart }

/* KPICardPayload is a single headline number with its movement. */
type KPICardPayload struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit,omitempty"`
	Trend  Trend   `json:"trend,omitempty"`
	Change float64 `json:"change,omitempty"`
}

func (KPICardPayload) PayloadKind() WidgetKind { return KindKPICard }

/* DataTablePayload carries tabular rows, optionally sourced from an uploaded
 * dataset referenced by id. */
type DataTablePayload struct {
	Columns   []string                 `json:"columns"`
	Rows      []map[string]interface{} `json:"rows"`
	DatasetID string                   `json:"dataset_id,omitempty"`
}

func (DataTablePayload) PayloadKind() WidgetKind { return KindDataTable }

/* SystemHealthPayload is sampled host telemetry for the ops widget. */
type SystemHealthPayload struct {
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	MemoryUsedMB  uint64    `json:"memory_used_mb"`
	MemoryTotalMB uint64    `json:"memory_total_mb"`
	Uptime        uint64    `json:"uptime_seconds"`
	SampledAt     time.Time `json:"sampled_at"`
}

func (SystemHealthPayload) PayloadKind() WidgetKind { return KindSystemHealth }

/* PlaceholderPayload stands in for kinds with no registry entry. The raw
 * document is preserved so an undeclared kind survives a snapshot round-trip
 * without loss. */
type PlaceholderPayload struct {
	Kind WidgetKind
	Raw  map[string]interface{}
}

func (p PlaceholderPayload) PayloadKind() WidgetKind { return p.Kind }

func (p PlaceholderPayload) MarshalJSON() ([]byte, error) {
	if p.Raw == nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.Raw)
}
