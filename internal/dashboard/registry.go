package dashboard

import (
	"encoding/json"
	"fmt"
	"sort"
)

/* Descriptor pairs a widget kind with its default configuration and the
 * renderer component the UI mounts for it. */
type Descriptor struct {
	Kind          WidgetKind
	Name          string
	Renderer      string
	DefaultTitle  string
	DefaultWidth  WidgetSize
	DefaultHeight WidgetSize
	Implemented   bool

	/* DefaultPayload returns a fresh payload usable when a widget of this
	 * kind is created without explicit data. */
	DefaultPayload func() WidgetPayload
}

/* PlaceholderRenderer is the renderer the UI mounts for kinds that have no
 * registry entry. Looking one up never fails; it degrades to this. */
const PlaceholderRenderer = "UnimplementedWidget"

var registry = map[WidgetKind]Descriptor{
	KindSalesOverview: {
		Kind: KindSalesOverview, Name: "Sales Overview", Renderer: "SalesOverviewWidget",
		DefaultTitle: "Sales Overview", DefaultWidth: SizeMedium, DefaultHeight: SizeSmall,
		Implemented:    true,
		DefaultPayload: func() WidgetPayload { return SalesOverviewPayload{} },
	},
	KindAIInsights: {
		Kind: KindAIInsights, Name: "AI Insights", Renderer: "AIInsightsWidget",
		DefaultTitle: "AI Insights", DefaultWidth: SizeLarge, DefaultHeight: SizeMedium,
		Implemented:    true,
		DefaultPayload: func() WidgetPayload { return AIInsightsPayload{} },
	},
	KindGoalTracker: {
		Kind: KindGoalTracker, Name: "Goal Tracker", Renderer: "GoalTrackerWidget",
		DefaultTitle: "Goal Tracker", DefaultWidth: SizeMedium, DefaultHeight: SizeMedium,
		Implemented:    true,
		DefaultPayload: func() WidgetPayload { return GoalTrackerPayload{} },
	},
	KindHeatmapCalendar: {
		Kind: KindHeatmapCalendar, Name: "Activity Heatmap", Renderer: "HeatmapCalendarWidget",
		DefaultTitle: "Activity Heatmap", DefaultWidth: SizeLarge, DefaultHeight: SizeMedium,
		Implemented:    true,
		DefaultPayload: func() WidgetPayload { return HeatmapCalendarPayload{} },
	},
	KindTeamPerformance: {
		Kind: KindTeamPerformance, Name: "Team Performance", Renderer: "TeamPerformanceWidget",
		DefaultTitle: "Team Performance", DefaultWidth: SizeMedium, DefaultHeight: SizeMedium,
		Implemented:    true,
		DefaultPayload: func() WidgetPayload { return TeamPerformancePayload{} },
	},
	KindRealTimeAlerts: {
		Kind: KindRealTimeAlerts, Name: "Real-time Alerts", Renderer: "RealTimeAlertsWidget",
		DefaultTitle: "Real-time Alerts", DefaultWidth: SizeSmall, DefaultHeight: SizeMedium,
		Implemented:    true,
		DefaultPayload: func() WidgetPayload { return RealTimeAlertsPayload{} },
	},
	KindPieChart: {
		Kind: KindPieChart, Name: "Pie Chart", Renderer: "PieChartWidget",
		DefaultTitle: "Pie Chart", DefaultWidth: SizeMedium, DefaultHeight: SizeMedium,
		Implemented:    true,
		DefaultPayload: func() WidgetPayload { return PieChartPayload{} },
	},
	KindLineChart: {
		Kind: KindLineChart, Name: "Line Chart", Renderer: "LineChartWidget",
		DefaultTitle: "Line Chart", DefaultWidth: SizeLarge, DefaultHeight: SizeMedium,
		Implemented:    true,
		DefaultPayload: func() WidgetPayload { return LineChartPayload{} },
	},
	KindFunnelChart: {
		Kind: KindFunnelChart, Name: "Funnel Chart", Renderer: "FunnelChartWidget",
		DefaultTitle: "Funnel Chart", DefaultWidth: SizeMedium, DefaultHeight: SizeLarge,
		Implemented:    true,
		DefaultPayload: func() WidgetPayload { return FunnelChartPayload{} },
	},
	KindKPICard: {
		Kind: KindKPICard, Name: "KPI Card", Renderer: "KPICardWidget",
		DefaultTitle: "KPI", DefaultWidth: SizeSmall, DefaultHeight: SizeSmall,
		Implemented:    true,
		DefaultPayload: func() WidgetPayload { return KPICardPayload{} },
	},
	KindDataTable: {
		Kind: KindDataTable, Name: "Data Table", Renderer: "DataTableWidget",
		DefaultTitle: "Data Table", DefaultWidth: SizeFull, DefaultHeight: SizeMedium,
		Implemented:    true,
		DefaultPayload: func() WidgetPayload { return DataTablePayload{} },
	},
	KindSystemHealth: {
		Kind: KindSystemHealth, Name: "System Health", Renderer: "SystemHealthWidget",
		DefaultTitle: "System Health", DefaultWidth: SizeSmall, DefaultHeight: SizeSmall,
		Implemented:    true,
		DefaultPayload: func() WidgetPayload { return SystemHealthPayload{} },
	},
}

/* Lookup returns the descriptor for a kind. It is total: kinds without an
 * entry get an unimplemented placeholder descriptor so a new enum value
 * without a renderer degrades gracefully instead of crashing the dashboard. */
func Lookup(kind WidgetKind) Descriptor {
	if d, ok := registry[kind]; ok {
		return d
	}
	return Descriptor{
		Kind:          kind,
		Name:          string(kind),
		Renderer:      PlaceholderRenderer,
		DefaultTitle:  string(kind),
		DefaultWidth:  SizeMedium,
		DefaultHeight: SizeMedium,
		Implemented:   false,
		DefaultPayload: func() WidgetPayload {
			return PlaceholderPayload{Kind: kind}
		},
	}
}

/* Kinds lists the descriptor of every kind with a registry entry, ordered
 * by kind for stable API output. */
func Kinds() []Descriptor {
	kinds := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		kinds = append(kinds, d)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].Kind < kinds[j].Kind })
	return kinds
}

/* DecodePayload decodes a raw payload document against the declared kind.
 * Unknown kinds keep their document intact inside a placeholder. */
func DecodePayload(kind WidgetKind, raw json.RawMessage) (WidgetPayload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		d := Lookup(kind)
		return d.DefaultPayload(), nil
	}

	var (
		payload WidgetPayload
		err     error
	)

	switch kind {
	case KindSalesOverview:
		var p SalesOverviewPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindAIInsights:
		var p AIInsightsPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindGoalTracker:
		var p GoalTrackerPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindHeatmapCalendar:
		var p HeatmapCalendarPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindTeamPerformance:
		var p TeamPerformancePayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindRealTimeAlerts:
		var p RealTimeAlertsPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindPieChart:
		var p PieChartPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindLineChart:
		var p LineChartPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindFunnelChart:
		var p FunnelChartPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindKPICard:
		var p KPICardPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindDataTable:
		var p DataTablePayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindSystemHealth:
		var p SystemHealthPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	default:
		var doc map[string]interface{}
		err = json.Unmarshal(raw, &doc)
		payload = PlaceholderPayload{Kind: kind, Raw: doc}
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return payload, nil
}
