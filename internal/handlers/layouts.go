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

/* LayoutHandlers manages stored layouts and the current-layout pointer. */
type LayoutHandlers struct {
	store  *dashboard.Store
	logger *logging.Logger
}

func NewLayoutHandlers(store *dashboard.Store, logger *logging.Logger) *LayoutHandlers {
	return &LayoutHandlers{store: store, logger: logger}
}

func (h *LayoutHandlers) ListLayouts(w http.ResponseWriter, r *http.Request) {
	state := h.store.State()
	WriteSuccess(w, map[string]interface{}{
		"layouts": state.Layouts,
		"current": state.CurrentLayout,
	}, http.StatusOK)
}

func (h *LayoutHandlers) CreateLayout(w http.ResponseWriter, r *http.Request) {
	var layout dashboard.Layout
	if err := json.NewDecoder(r.Body).Decode(&layout); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid layout: %w", err), nil)
		return
	}
	if layout.Name == "" {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("layout name is required"), nil)
		return
	}
	metrics.RecordStoreOperation("create_layout")
	id := h.store.CreateLayout(layout)
	created, _ := h.findLayout(id)
	WriteSuccess(w, created, http.StatusCreated)
}

type switchLayoutRequest struct {
	ID string `json:"id"`
}

/* SwitchLayout swaps the layout pointer and the widget collection in one
 * step; the client never observes the pointer and widgets disagreeing. */
func (h *LayoutHandlers) SwitchLayout(w http.ResponseWriter, r *http.Request) {
	var req switchLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err), nil)
		return
	}
	if _, ok := h.findLayout(req.ID); !ok {
		WriteError(w, http.StatusNotFound, fmt.Errorf("layout %s not found", req.ID), nil)
		return
	}
	metrics.RecordStoreOperation("switch_layout")
	h.store.SwitchLayout(req.ID)
	WriteSuccess(w, h.store.State(), http.StatusOK)
}

type layoutUpdateRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Widgets     []dashboard.Widget    `json:"widgets"`
	GridConfig  *dashboard.GridConfig `json:"grid_config"`
	IsDefault   *bool                 `json:"is_default"`
}

func (h *LayoutHandlers) UpdateLayout(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := h.findLayout(id); !ok {
		WriteError(w, http.StatusNotFound, fmt.Errorf("layout %s not found", id), nil)
		return
	}
	var req layoutUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid layout update: %w", err), nil)
		return
	}
	metrics.RecordStoreOperation("update_layout")
	h.store.UpdateLayout(id, dashboard.LayoutUpdate{
		Name:        req.Name,
		Description: req.Description,
		Widgets:     req.Widgets,
		GridConfig:  req.GridConfig,
		IsDefault:   req.IsDefault,
	})
	updated, _ := h.findLayout(id)
	WriteSuccess(w, updated, http.StatusOK)
}

func (h *LayoutHandlers) DeleteLayout(w http.ResponseWriter, r *http.Request) {
	metrics.RecordStoreOperation("delete_layout")
	h.store.DeleteLayout(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (h *LayoutHandlers) findLayout(id string) (dashboard.Layout, bool) {
	for _, layout := range h.store.State().Layouts {
		if layout.ID == id {
			return layout, true
		}
	}
	return dashboard.Layout{}, false
}
