package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
	"github.com/kpivision/dashboard-engine/internal/logging"
	"github.com/kpivision/dashboard-engine/internal/metrics"
)

/* AlertHandlers manages alerts and insights. Both collections share the
 * dismiss-means-delete rule. */
type AlertHandlers struct {
	store  *dashboard.Store
	logger *logging.Logger
}

func NewAlertHandlers(store *dashboard.Store, logger *logging.Logger) *AlertHandlers {
	return &AlertHandlers{store: store, logger: logger}
}

func (h *AlertHandlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.store.State().Alerts, http.StatusOK)
}

func (h *AlertHandlers) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var alert dashboard.Alert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid alert: %w", err), nil)
		return
	}
	if alert.Title == "" {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("alert title is required"), nil)
		return
	}
	metrics.RecordStoreOperation("add_alert")
	id := h.store.AddAlert(alert)
	for _, a := range h.store.State().Alerts {
		if a.ID == id {
			WriteSuccess(w, a, http.StatusCreated)
			return
		}
	}
	WriteSuccess(w, map[string]interface{}{"id": id}, http.StatusCreated)
}

func (h *AlertHandlers) DismissAlert(w http.ResponseWriter, r *http.Request) {
	metrics.RecordStoreOperation("dismiss_alert")
	h.store.DismissAlert(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (h *AlertHandlers) ListInsights(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.store.State().Insights, http.StatusOK)
}

func (h *AlertHandlers) CreateInsight(w http.ResponseWriter, r *http.Request) {
	var insight dashboard.Insight
	if err := json.NewDecoder(r.Body).Decode(&insight); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid insight: %w", err), nil)
		return
	}
	if insight.Title == "" {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("insight title is required"), nil)
		return
	}
	if insight.Confidence < 0 || insight.Confidence > 1 {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("confidence must be between 0 and 1"), nil)
		return
	}
	metrics.RecordStoreOperation("add_insight")
	id := h.store.AddInsight(insight)
	for _, in := range h.store.State().Insights {
		if in.ID == id {
			WriteSuccess(w, in, http.StatusCreated)
			return
		}
	}
	WriteSuccess(w, map[string]interface{}{"id": id}, http.StatusCreated)
}

func (h *AlertHandlers) DismissInsight(w http.ResponseWriter, r *http.Request) {
	metrics.RecordStoreOperation("dismiss_insight")
	h.store.DismissInsight(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}
