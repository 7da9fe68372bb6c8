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

/* FilterHandlers manages global filters and the search query. */
type FilterHandlers struct {
	store  *dashboard.Store
	logger *logging.Logger
}

func NewFilterHandlers(store *dashboard.Store, logger *logging.Logger) *FilterHandlers {
	return &FilterHandlers{store: store, logger: logger}
}

func (h *FilterHandlers) ListFilters(w http.ResponseWriter, r *http.Request) {
	state := h.store.State()
	WriteSuccess(w, map[string]interface{}{
		"filters":      state.GlobalFilters,
		"search_query": state.SearchQuery,
	}, http.StatusOK)
}

func (h *FilterHandlers) CreateFilter(w http.ResponseWriter, r *http.Request) {
	var filter dashboard.Filter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid filter: %w", err), nil)
		return
	}
	if filter.Field == "" || filter.Operator == "" {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("filter field and operator are required"), nil)
		return
	}
	metrics.RecordStoreOperation("add_global_filter")
	id := h.store.AddGlobalFilter(filter)
	filter.ID = id
	WriteSuccess(w, filter, http.StatusCreated)
}

func (h *FilterHandlers) UpdateFilter(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	exists := false
	for _, f := range h.store.State().GlobalFilters {
		if f.ID == id {
			exists = true
			break
		}
	}
	if !exists {
		WriteError(w, http.StatusNotFound, fmt.Errorf("filter %s not found", id), nil)
		return
	}
	var filter dashboard.Filter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid filter: %w", err), nil)
		return
	}
	metrics.RecordStoreOperation("update_global_filter")
	h.store.UpdateGlobalFilter(id, filter)
	filter.ID = id
	WriteSuccess(w, filter, http.StatusOK)
}

func (h *FilterHandlers) DeleteFilter(w http.ResponseWriter, r *http.Request) {
	metrics.RecordStoreOperation("remove_global_filter")
	h.store.RemoveGlobalFilter(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

type searchRequest struct {
	Query string `json:"query"`
}

func (h *FilterHandlers) SetSearchQuery(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err), nil)
		return
	}
	h.store.SetSearchQuery(req.Query)
	WriteSuccess(w, map[string]interface{}{"search_query": req.Query}, http.StatusOK)
}
