package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
	"github.com/kpivision/dashboard-engine/internal/logging"
	"github.com/kpivision/dashboard-engine/internal/metrics"
	"github.com/kpivision/dashboard-engine/internal/middleware"
)

/* NewRouter assembles the full HTTP surface. The same router serves
 * production and the test harness so route coverage in tests is real. */
func NewRouter(store *dashboard.Store, logger *logging.Logger, rateLimiter *middleware.RateLimiter) *mux.Router {
	dashboardHandlers := NewDashboardHandlers(store, logger)
	widgetHandlers := NewWidgetHandlers(store, logger)
	layoutHandlers := NewLayoutHandlers(store, logger)
	themeHandlers := NewThemeHandlers(store, logger)
	filterHandlers := NewFilterHandlers(store, logger)
	alertHandlers := NewAlertHandlers(store, logger)
	notificationHandlers := NewNotificationHandlers(store, logger)
	commentHandlers := NewCommentHandlers(store, logger)
	goalHandlers := NewGoalHandlers(store, logger)
	exportHandlers := NewExportHandlers(store, logger)
	datasetHandlers := NewDatasetHandlers(store, logger)
	settingsHandlers := NewSettingsHandlers(store, logger)

	router := mux.NewRouter()

	// Middleware order matters: request id first so later stages can log it.
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "ok",
			"service":   "dashboard-engine",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods("GET")

	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	if rateLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(rateLimiter))
	}

	// State surface
	api.HandleFunc("/dashboard", dashboardHandlers.GetDashboard).Methods("GET")
	api.HandleFunc("/dashboard/load", dashboardHandlers.LoadDashboard).Methods("POST")
	api.HandleFunc("/dashboard/reset", dashboardHandlers.ResetDashboard).Methods("POST")
	api.HandleFunc("/dashboard/ws", dashboardHandlers.DashboardWebSocket).Methods("GET")
	api.HandleFunc("/dashboard/realtime/toggle", dashboardHandlers.ToggleRealTime).Methods("POST")
	api.HandleFunc("/dashboard/customize/start", dashboardHandlers.StartCustomizing).Methods("POST")
	api.HandleFunc("/dashboard/customize/stop", dashboardHandlers.StopCustomizing).Methods("POST")

	// Widgets
	api.HandleFunc("/widgets", widgetHandlers.ListWidgets).Methods("GET")
	api.HandleFunc("/widgets", widgetHandlers.CreateWidget).Methods("POST")
	api.HandleFunc("/widgets/kinds", widgetHandlers.ListWidgetKinds).Methods("GET")
	api.HandleFunc("/widgets/reorder", widgetHandlers.ReorderWidgets).Methods("PUT")
	api.HandleFunc("/widgets/collapse", widgetHandlers.CollapseWidget).Methods("POST")
	api.HandleFunc("/widgets/{id}", widgetHandlers.UpdateWidget).Methods("PUT")
	api.HandleFunc("/widgets/{id}", widgetHandlers.DeleteWidget).Methods("DELETE")
	api.HandleFunc("/widgets/{id}/position", widgetHandlers.MoveWidget).Methods("PUT")
	api.HandleFunc("/widgets/{id}/expand", widgetHandlers.ExpandWidget).Methods("POST")

	// Layouts
	api.HandleFunc("/layouts", layoutHandlers.ListLayouts).Methods("GET")
	api.HandleFunc("/layouts", layoutHandlers.CreateLayout).Methods("POST")
	api.HandleFunc("/layouts/current", layoutHandlers.SwitchLayout).Methods("PUT")
	api.HandleFunc("/layouts/{id}", layoutHandlers.UpdateLayout).Methods("PUT")
	api.HandleFunc("/layouts/{id}", layoutHandlers.DeleteLayout).Methods("DELETE")

	// Themes
	api.HandleFunc("/themes", themeHandlers.ListThemes).Methods("GET")
	api.HandleFunc("/themes", themeHandlers.CreateTheme).Methods("POST")
	api.HandleFunc("/themes/current", themeHandlers.SwitchTheme).Methods("PUT")

	// Filters and search
	api.HandleFunc("/filters", filterHandlers.ListFilters).Methods("GET")
	api.HandleFunc("/filters", filterHandlers.CreateFilter).Methods("POST")
	api.HandleFunc("/filters/search", filterHandlers.SetSearchQuery).Methods("PUT")
	api.HandleFunc("/filters/{id}", filterHandlers.UpdateFilter).Methods("PUT")
	api.HandleFunc("/filters/{id}", filterHandlers.DeleteFilter).Methods("DELETE")

	// Alerts and insights
	api.HandleFunc("/alerts", alertHandlers.ListAlerts).Methods("GET")
	api.HandleFunc("/alerts", alertHandlers.CreateAlert).Methods("POST")
	api.HandleFunc("/alerts/{id}", alertHandlers.DismissAlert).Methods("DELETE")
	api.HandleFunc("/insights", alertHandlers.ListInsights).Methods("GET")
	api.HandleFunc("/insights", alertHandlers.CreateInsight).Methods("POST")
	api.HandleFunc("/insights/{id}", alertHandlers.DismissInsight).Methods("DELETE")

	// Notifications
	api.HandleFunc("/notifications", notificationHandlers.ListNotifications).Methods("GET")
	api.HandleFunc("/notifications", notificationHandlers.CreateNotification).Methods("POST")
	api.HandleFunc("/notifications", notificationHandlers.ClearAll).Methods("DELETE")
	api.HandleFunc("/notifications/{id}/read", notificationHandlers.MarkRead).Methods("POST")

	// Comments and presence
	api.HandleFunc("/comments", commentHandlers.ListComments).Methods("GET")
	api.HandleFunc("/comments", commentHandlers.CreateComment).Methods("POST")
	api.HandleFunc("/comments/{id}", commentHandlers.UpdateComment).Methods("PUT")
	api.HandleFunc("/comments/{id}", commentHandlers.DeleteComment).Methods("DELETE")
	api.HandleFunc("/presence", commentHandlers.TouchPresence).Methods("POST")

	// Goals
	api.HandleFunc("/goals", goalHandlers.ListGoals).Methods("GET")
	api.HandleFunc("/goals", goalHandlers.CreateGoal).Methods("POST")
	api.HandleFunc("/goals/{id}", goalHandlers.GetGoal).Methods("GET")
	api.HandleFunc("/goals/{id}", goalHandlers.UpdateGoal).Methods("PUT")
	api.HandleFunc("/goals/{id}", goalHandlers.DeleteGoal).Methods("DELETE")

	// Exports
	api.HandleFunc("/exports", exportHandlers.ListExports).Methods("GET")
	api.HandleFunc("/exports", exportHandlers.CreateExport).Methods("POST")
	api.HandleFunc("/exports/{id}", exportHandlers.GetExport).Methods("GET")
	api.HandleFunc("/exports/{id}/download", exportHandlers.DownloadExport).Methods("GET")

	// Datasets
	api.HandleFunc("/datasets", datasetHandlers.ListDatasets).Methods("GET")
	api.HandleFunc("/datasets", datasetHandlers.CreateDataset).Methods("POST")
	api.HandleFunc("/datasets/upload", datasetHandlers.UploadDataset).Methods("POST")
	api.HandleFunc("/datasets/{id}", datasetHandlers.DeleteDataset).Methods("DELETE")

	// Settings
	api.HandleFunc("/settings", settingsHandlers.GetSettings).Methods("GET")
	api.HandleFunc("/settings", settingsHandlers.UpdateSettings).Methods("PUT")

	return router
}
