package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
	"github.com/kpivision/dashboard-engine/internal/logging"
	"github.com/kpivision/dashboard-engine/internal/metrics"
)

/* ExportHandlers exposes the export job lifecycle. Creation is asynchronous:
 * the response carries a pending job and the client polls or watches the
 * feed for completion. */
type ExportHandlers struct {
	store  *dashboard.Store
	logger *logging.Logger
}

func NewExportHandlers(store *dashboard.Store, logger *logging.Logger) *ExportHandlers {
	return &ExportHandlers{store: store, logger: logger}
}

func (h *ExportHandlers) ListExports(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.store.State().Exports, http.StatusOK)
}

func (h *ExportHandlers) CreateExport(w http.ResponseWriter, r *http.Request) {
	var cfg dashboard.ExportConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid export request: %w", err), nil)
		return
	}
	if cfg.Format == "" {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("export format is required"), nil)
		return
	}
	metrics.RecordStoreOperation("export_dashboard")
	id := h.store.ExportDashboard(cfg)
	job, _ := h.store.Export(id)
	WriteSuccess(w, job, http.StatusAccepted)
}

func (h *ExportHandlers) GetExport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job, ok := h.store.Export(id)
	if !ok {
		WriteError(w, http.StatusNotFound, fmt.Errorf("export %s not found", id), nil)
		return
	}
	WriteSuccess(w, job, http.StatusOK)
}

/* DownloadExport serves the rendered artifact. Jobs that never completed,
 * failed, or aged past their expiry return 410 Gone; the job record itself
 * stays visible through GetExport for audit. */
func (h *ExportHandlers) DownloadExport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job, ok := h.store.Export(id)
	if !ok {
		WriteError(w, http.StatusNotFound, fmt.Errorf("export %s not found", id), nil)
		return
	}
	if !job.Downloadable(h.store.Now()) {
		WriteError(w, http.StatusGone, fmt.Errorf("export %s is not downloadable", id), map[string]interface{}{
			"status":     string(job.Status),
			"expires_at": job.ExpiresAt,
		})
		return
	}

	state := h.store.State()
	widgets := selectWidgets(state.Widgets, job.WidgetIDs)

	switch job.Format {
	case dashboard.FormatCSV, dashboard.FormatExcel:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=dashboard-%s.csv", id))
		cw := csv.NewWriter(w)
		cw.Write([]string{"id", "type", "title", "position", "last_updated"})
		for _, widget := range widgets {
			cw.Write([]string{
				widget.ID,
				string(widget.Kind),
				widget.Title,
				fmt.Sprintf("%d", widget.Position),
				widget.LastUpdated.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
		cw.Flush()
	default:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=dashboard-%s.json", id))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"format":     job.Format,
			"generated":  job.CreatedAt,
			"date_range": job.DateRange,
			"filters":    job.Filters,
			"widgets":    widgets,
		})
	}
}

func selectWidgets(widgets []dashboard.Widget, ids []string) []dashboard.Widget {
	if len(ids) == 0 {
		return widgets
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]dashboard.Widget, 0, len(ids))
	for _, widget := range widgets {
		if wanted[widget.ID] {
			out = append(out, widget)
		}
	}
	return out
}
