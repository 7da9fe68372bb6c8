package dashboard

import "time"

/* Snapshot namespace and built-in layout ids. */
const (
	SnapshotNamespace = "enhanced-dashboard-storage"

	LayoutDefault   = "default"
	LayoutExecutive = "executive"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

/* DefaultWidgets returns the compiled-in widget set for the default layout.
 * A fresh slice is returned on every call; seed data is never shared. */
func DefaultWidgets(now time.Time) []Widget {
	return []Widget{
		{
			ID: "1", Kind: KindSalesOverview, Title: "Sales Overview",
			Width: SizeMedium, Height: SizeSmall, Position: 0,
			RefreshInterval: 30 * time.Second, LastUpdated: now,
			Payload: SalesOverviewPayload{
				CurrentMonth: 427500, PreviousMonth: 380200, Growth: 12.4,
				ByMonth: []MonthValue{
					{Month: "Jan", Value: 320000}, {Month: "Feb", Value: 340000},
					{Month: "Mar", Value: 380200}, {Month: "Apr", Value: 427500},
					{Month: "May", Value: 450000}, {Month: "Jun", Value: 472000},
				},
			},
		},
		{
			ID: "2", Kind: KindAIInsights, Title: "AI Insights",
			Width: SizeLarge, Height: SizeMedium, Position: 1,
			RefreshInterval: time.Minute, LastUpdated: now,
			Payload: AIInsightsPayload{
				Insights: SeedInsights(now),
				Trends: []MetricTrend{
					{Metric: "Revenue", Trend: TrendUp, Change: 12.4, Confidence: 0.92},
					{Metric: "Customer Acquisition", Trend: TrendUp, Change: 8.7, Confidence: 0.85},
					{Metric: "Churn Rate", Trend: TrendDown, Change: -2.1, Confidence: 0.78},
				},
				Predictions: []MetricPrediction{
					{Metric: "Next Month Revenue", Value: 485000, Confidence: 0.89},
					{Metric: "Quarter End Revenue", Value: 1420000, Confidence: 0.82},
				},
			},
		},
		{
			ID: "3", Kind: KindGoalTracker, Title: "Goal Tracker",
			Width: SizeMedium, Height: SizeMedium, Position: 2,
			RefreshInterval: 5 * time.Minute, LastUpdated: now,
			Payload: GoalTrackerPayload{
				Goals:   SeedGoals(now),
				Summary: SummarizeGoals(SeedGoals(now), now),
			},
		},
		{
			ID: "4", Kind: KindHeatmapCalendar, Title: "Activity Heatmap",
			Width: SizeLarge, Height: SizeMedium, Position: 3,
			RefreshInterval: time.Hour, LastUpdated: now,
			Payload: HeatmapCalendarPayload{
				Days: seedHeatmapDays(now),
				Metrics: HeatmapMetrics{
					TotalEvents: 2847, AverageDaily: 7.8,
					PeakDay: now.AddDate(0, -2, 0).Format("2006-01-02"), PeakValue: 98,
				},
			},
		},
		{
			ID: "5", Kind: KindTeamPerformance, Title: "Team Performance",
			Width: SizeMedium, Height: SizeMedium, Position: 4,
			RefreshInterval: 5 * time.Minute, LastUpdated: now,
			Payload: TeamPerformancePayload{
				Teams: []TeamScore{
					{Name: "Sales", Performance: 92, Target: 100, Members: 12, Trend: TrendUp},
					{Name: "Marketing", Performance: 87, Target: 90, Members: 8, Trend: TrendUp},
					{Name: "Support", Performance: 95, Target: 95, Members: 15, Trend: TrendStable},
					{Name: "Development", Performance: 89, Target: 85, Members: 20, Trend: TrendUp},
				},
				TopPerformers: []Performer{
					{Name: "John Doe", Team: "Sales", Score: 98},
					{Name: "Jane Smith", Team: "Marketing", Score: 96},
					{Name: "Mike Johnson", Team: "Support", Score: 94},
				},
			},
		},
		{
			ID: "6", Kind: KindRealTimeAlerts, Title: "Real-time Alerts",
			Width: SizeSmall, Height: SizeMedium, Position: 5,
			RefreshInterval: 5 * time.Second, LastUpdated: now,
			Payload: RealTimeAlertsPayload{Alerts: SeedAlerts(now)},
		},
		{
			ID: "7", Kind: KindPieChart, Title: "Revenue Distribution",
			Width: SizeMedium, Height: SizeMedium, Position: 6,
			RefreshInterval: 5 * time.Minute, LastUpdated: now,
			Payload: PieChartPayload{
				Title: "Revenue by Product", Subtitle: "Quarterly Distribution", Total: 2450000,
				Segments: []PieSegment{
					{Label: "Software Licenses", Value: 980000, Color: "#3b82f6", Percentage: 40, Trend: TrendUp, Change: 12.5},
					{Label: "Professional Services", Value: 735000, Color: "#10b981", Percentage: 30, Trend: TrendUp, Change: 8.3},
					{Label: "Support & Maintenance", Value: 490000, Color: "#f59e0b", Percentage: 20, Trend: TrendStable, Change: 0.2},
					{Label: "Training", Value: 245000, Color: "#ef4444", Percentage: 10, Trend: TrendDown, Change: -3.1},
				},
			},
		},
		{
			ID: "8", Kind: KindLineChart, Title: "Revenue Trends",
			Width: SizeLarge, Height: SizeMedium, Position: 7,
			RefreshInterval: 5 * time.Minute, LastUpdated: now,
			Payload: LineChartPayload{
				Title: "Revenue Trends", Subtitle: "Monthly Performance",
				Series: []ChartSeries{
					{
						Label: "Current Year", Color: "#3b82f6", Trend: TrendUp, Change: 15.3,
						Points: []SeriesPoint{
							{X: "Jan", Y: 320}, {X: "Feb", Y: 340}, {X: "Mar", Y: 380},
							{X: "Apr", Y: 420}, {X: "May", Y: 450}, {X: "Jun", Y: 480},
							{X: "Jul", Y: 520}, {X: "Aug", Y: 490}, {X: "Sep", Y: 540},
							{X: "Oct", Y: 580}, {X: "Nov", Y: 620}, {X: "Dec", Y: 650},
						},
					},
					{
						Label: "Previous Year", Color: "#10b981", Trend: TrendUp, Change: 8.7,
						Points: []SeriesPoint{
							{X: "Jan", Y: 280}, {X: "Feb", Y: 290}, {X: "Mar", Y: 310},
							{X: "Apr", Y: 330}, {X: "May", Y: 350}, {X: "Jun", Y: 370},
							{X: "Jul", Y: 390}, {X: "Aug", Y: 410}, {X: "Sep", Y: 430},
							{X: "Oct", Y: 450}, {X: "Nov", Y: 470}, {X: "Dec", Y: 490},
						},
					},
				},
			},
		},
		{
			ID: "9", Kind: KindFunnelChart, Title: "Sales Funnel",
			Width: SizeMedium, Height: SizeLarge, Position: 8,
			RefreshInterval: 5 * time.Minute, LastUpdated: now,
			Payload: FunnelChartPayload{
				Title: "Sales Funnel", Subtitle: "Lead Conversion Pipeline",
				TotalLeads: 10000, ConversionRate: 12.5,
				Stages: []FunnelStage{
					{Label: "Website Visitors", Value: 10000, Percentage: 100, Color: "#3b82f6", ConversionRate: 100, Trend: TrendUp, Change: 8.5},
					{Label: "Leads Generated", Value: 3500, Percentage: 35, Color: "#10b981", ConversionRate: 35, Trend: TrendUp, Change: 12.3},
					{Label: "Qualified Leads", Value: 1750, Percentage: 17.5, Color: "#f59e0b", ConversionRate: 50, Trend: TrendStable, Change: 0.8},
					{Label: "Opportunities", Value: 875, Percentage: 8.75, Color: "#ef4444", ConversionRate: 50, Trend: TrendUp, Change: 5.2},
					{Label: "Customers", Value: 250, Percentage: 2.5, Color: "#8b5cf6", ConversionRate: 28.6, Trend: TrendUp, Change: 15.7},
				},
			},
		},
	}
}

func seedHeatmapDays(now time.Time) []HeatmapDay {
	start := now.AddDate(0, 0, -89)
	days := make([]HeatmapDay, 0, 90)
	for i := 0; i < 90; i++ {
		d := start.AddDate(0, 0, i)
		// Deterministic pseudo-activity so seeds are stable across runs.
		v := float64((i*37)%100 + 1)
		days = append(days, HeatmapDay{
			Date:   d.Format("2006-01-02"),
			Value:  v,
			Events: (i*7)%10 + 1,
		})
	}
	return days
}

/* DefaultLayouts returns the built-in layouts. The executive view is a
 * high-level subset of the default widget set. */
func DefaultLayouts(now time.Time) []Layout {
	widgets := DefaultWidgets(now)
	executive := make([]Widget, 0, 3)
	for _, w := range widgets {
		if w.ID == "1" || w.ID == "2" || w.ID == "3" {
			executive = append(executive, w)
		}
	}
	return []Layout{
		{
			ID: LayoutDefault, Name: "Default Layout",
			Description: "Standard dashboard layout with key metrics",
			IsDefault:   true, Widgets: widgets,
			GridConfig: GridConfig{Columns: 12, Gap: 16, Responsive: true},
			CreatedBy:  "system", CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: LayoutExecutive, Name: "Executive View",
			Description: "High-level overview for executives",
			Widgets:     executive,
			GridConfig:  GridConfig{Columns: 8, Gap: 24, Responsive: true},
			CreatedBy:   "system", CreatedAt: now, UpdatedAt: now,
		},
	}
}

/* DefaultThemes returns the built-in light and dark token sets. */
func DefaultThemes() []Theme {
	typography := map[string]string{
		"font_family": "Inter, system-ui, sans-serif",
		"xs":          "0.75rem", "sm": "0.875rem", "base": "1rem",
		"lg": "1.125rem", "xl": "1.25rem", "2xl": "1.5rem",
	}
	spacing := map[string]string{
		"xs": "0.25rem", "sm": "0.5rem", "md": "1rem", "lg": "1.5rem", "xl": "2rem",
	}
	return []Theme{
		{
			ID: ThemeLight, Name: "Light Theme", Mode: ModeLight,
			Colors: map[string]string{
				"primary": "#4f46e5", "secondary": "#6b7280", "accent": "#10b981",
				"background": "#ffffff", "surface": "#f9fafb", "text": "#111827",
				"text_secondary": "#6b7280", "border": "#e5e7eb",
				"success": "#10b981", "warning": "#f59e0b", "error": "#ef4444", "info": "#3b82f6",
			},
			Typography: typography, Spacing: spacing,
		},
		{
			ID: ThemeDark, Name: "Dark Theme", Mode: ModeDark,
			Colors: map[string]string{
				"primary": "#6366f1", "secondary": "#9ca3af", "accent": "#34d399",
				"background": "#111827", "surface": "#1f2937", "text": "#f9fafb",
				"text_secondary": "#9ca3af", "border": "#374151",
				"success": "#34d399", "warning": "#fbbf24", "error": "#f87171", "info": "#60a5fa",
			},
			Typography: typography, Spacing: spacing,
		},
	}
}

/* DefaultSettings returns the compiled-in user preferences. */
func DefaultSettings() Settings {
	return Settings{
		AutoRefresh:     true,
		RefreshInterval: 30 * time.Second,
		Theme:           ThemeLight,
		Layout:          LayoutDefault,
		Timezone:        "UTC",
		DateFormat:      "MM/DD/YYYY",
		NumberFormat:    "en-US",
		Currency:        "USD",
		Language:        "en",
		Notifications:   NotificationPrefs{Email: true, Push: true, InApp: true, Frequency: "immediate"},
		Privacy:         PrivacyPrefs{ShareAnalytics: true, AllowTracking: true},
		Accessibility:   AccessibilityPrefs{FontSize: "medium"},
	}
}

/* SeedGoals returns the starter goal set. */
func SeedGoals(now time.Time) []Goal {
	quarterEnd := now.AddDate(0, 3, 0)
	return []Goal{
		{
			ID:          "1",
			Title:       "Quarterly Revenue Target",
			Description: "Achieve $5M in revenue this quarter",
			Metric:      "revenue",
			Target:      5000000,
			Current:     4200000,
			Unit:        "USD",
			Deadline:    quarterEnd,
			Category:    "Sales",
			Priority:    PriorityHigh,
			Milestones: []Milestone{
				{Title: "Month One Target", Target: 1250000, Deadline: now.AddDate(0, 1, 0), Completed: true},
				{Title: "Month Two Target", Target: 2500000, Deadline: now.AddDate(0, 2, 0), Completed: true},
				{Title: "Quarter Target", Target: 5000000, Deadline: quarterEnd},
			},
			CreatedAt: now,
		},
	}
}

/* SeedAlerts returns the starter alert set. */
func SeedAlerts(now time.Time) []Alert {
	return []Alert{
		{
			ID:            "1",
			Title:         "Revenue Target Alert",
			Message:       "Monthly revenue target is 95% achieved with 3 days remaining.",
			Severity:      SeverityWarning,
			Priority:      PriorityMedium,
			Timestamp:     now,
			RelatedWidget: "1",
		},
	}
}

/* SeedInsights returns the starter insight set. */
func SeedInsights(now time.Time) []Insight {
	return []Insight{
		{
			ID:           "1",
			Title:        "Sales Trend Alert",
			Description:  "Sales have increased by 23% compared to last month, driven primarily by the North region.",
			Kind:         InsightTrend,
			Confidence:   0.92,
			Impact:       "high",
			Category:     "Sales",
			Timestamp:    now,
			IsActionable: true,
		},
		{
			ID:           "2",
			Title:        "Customer Churn Risk",
			Description:  "AI model detected 15 customers at high risk of churning in the next 30 days.",
			Kind:         InsightAnomaly,
			Confidence:   0.87,
			Impact:       "medium",
			Category:     "Customer Success",
			Timestamp:    now,
			IsActionable: true,
		},
	}
}
