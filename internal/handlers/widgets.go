package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
	"github.com/kpivision/dashboard-engine/internal/logging"
	"github.com/kpivision/dashboard-engine/internal/metrics"
)

/* WidgetHandlers manages the active widget collection. */
type WidgetHandlers struct {
	store  *dashboard.Store
	logger *logging.Logger
}

func NewWidgetHandlers(store *dashboard.Store, logger *logging.Logger) *WidgetHandlers {
	return &WidgetHandlers{store: store, logger: logger}
}

/* ListWidgets returns the active collection. */
func (h *WidgetHandlers) ListWidgets(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.store.State().Widgets, http.StatusOK)
}

type widgetKindView struct {
	Kind          dashboard.WidgetKind `json:"type"`
	Name          string               `json:"name"`
	Renderer      string               `json:"renderer"`
	DefaultTitle  string               `json:"default_title"`
	DefaultWidth  dashboard.WidgetSize `json:"default_width"`
	DefaultHeight dashboard.WidgetSize `json:"default_height"`
	Implemented   bool                 `json:"implemented"`
}

/* ListWidgetKinds returns the renderer registry, including which kinds fall
 * back to the placeholder. */
func (h *WidgetHandlers) ListWidgetKinds(w http.ResponseWriter, r *http.Request) {
	descs := dashboard.Kinds()
	views := make([]widgetKindView, 0, len(descs))
	for _, d := range descs {
		views = append(views, widgetKindView{
			Kind:          d.Kind,
			Name:          d.Name,
			Renderer:      d.Renderer,
			DefaultTitle:  d.DefaultTitle,
			DefaultWidth:  d.DefaultWidth,
			DefaultHeight: d.DefaultHeight,
			Implemented:   d.Implemented,
		})
	}
	WriteSuccess(w, map[string]interface{}{"kinds": views}, http.StatusOK)
}

/* CreateWidget adds a widget. An omitted id gets a generated one; a
 * duplicate id is rejected so an add can never clobber an existing widget. */
func (h *WidgetHandlers) CreateWidget(w http.ResponseWriter, r *http.Request) {
	var widget dashboard.Widget
	if err := json.NewDecoder(r.Body).Decode(&widget); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid widget payload: %w", err), nil)
		return
	}
	if widget.Kind == "" {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("widget type is required"), nil)
		return
	}
	if widget.ID == "" {
		widget.ID = uuid.New().String()
	}
	if h.findWidget(widget.ID) != nil {
		WriteError(w, http.StatusConflict, fmt.Errorf("widget %s already exists", widget.ID), nil)
		return
	}

	metrics.RecordStoreOperation("add_widget")
	h.store.AddWidget(widget)
	created := h.findWidget(widget.ID)
	WriteSuccess(w, created, http.StatusCreated)
}

type widgetUpdateRequest struct {
	Title           *string                `json:"title"`
	Width           *dashboard.WidgetSize  `json:"width"`
	Height          *dashboard.WidgetSize  `json:"height"`
	Position        *int                   `json:"position"`
	Data            json.RawMessage        `json:"data"`
	RefreshInterval *time.Duration         `json:"refresh_interval"`
}

/* UpdateWidget patches a widget. The payload is decoded against the
 * widget's registered kind. */
func (h *WidgetHandlers) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	existing := h.findWidget(id)
	if existing == nil {
		WriteError(w, http.StatusNotFound, fmt.Errorf("widget %s not found", id), nil)
		return
	}

	var req widgetUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid widget update: %w", err), nil)
		return
	}

	patch := dashboard.WidgetUpdate{
		Title:           req.Title,
		Width:           req.Width,
		Height:          req.Height,
		Position:        req.Position,
		RefreshInterval: req.RefreshInterval,
	}
	if len(req.Data) > 0 {
		payload, err := dashboard.DecodePayload(existing.Kind, req.Data)
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid widget data: %w", err), nil)
			return
		}
		patch.Payload = payload
	}

	metrics.RecordStoreOperation("update_widget")
	h.store.UpdateWidget(id, patch)
	WriteSuccess(w, h.findWidget(id), http.StatusOK)
}

/* DeleteWidget removes a widget. Deleting an absent id still returns 204:
 * the end state is identical. */
func (h *WidgetHandlers) DeleteWidget(w http.ResponseWriter, r *http.Request) {
	metrics.RecordStoreOperation("remove_widget")
	h.store.RemoveWidget(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

type widgetPositionRequest struct {
	Position int `json:"position"`
}

/* MoveWidget relocates a widget within the collection order. */
func (h *WidgetHandlers) MoveWidget(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if h.findWidget(id) == nil {
		WriteError(w, http.StatusNotFound, fmt.Errorf("widget %s not found", id), nil)
		return
	}
	var req widgetPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid position: %w", err), nil)
		return
	}
	metrics.RecordStoreOperation("update_widget_position")
	h.store.UpdateWidgetPosition(id, req.Position)
	WriteSuccess(w, h.store.State().Widgets, http.StatusOK)
}

type widgetReorderRequest struct {
	IDs []string `json:"ids"`
}

/* ReorderWidgets rebuilds the collection in the requested order. Unknown
 * ids are dropped. */
func (h *WidgetHandlers) ReorderWidgets(w http.ResponseWriter, r *http.Request) {
	var req widgetReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid reorder request: %w", err), nil)
		return
	}
	metrics.RecordStoreOperation("reorder_widgets")
	h.store.ReorderWidgets(req.IDs)
	WriteSuccess(w, h.store.State().Widgets, http.StatusOK)
}

/* ExpandWidget sets the single expanded widget. */
func (h *WidgetHandlers) ExpandWidget(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if h.findWidget(id) == nil {
		WriteError(w, http.StatusNotFound, fmt.Errorf("widget %s not found", id), nil)
		return
	}
	h.store.ExpandWidget(id)
	WriteSuccess(w, map[string]interface{}{"expanded_widget": id}, http.StatusOK)
}

/* CollapseWidget clears the expanded widget pointer. */
func (h *WidgetHandlers) CollapseWidget(w http.ResponseWriter, r *http.Request) {
	h.store.CollapseWidget()
	WriteSuccess(w, map[string]interface{}{"expanded_widget": ""}, http.StatusOK)
}

func (h *WidgetHandlers) findWidget(id string) *dashboard.Widget {
	for _, widget := range h.store.State().Widgets {
		if widget.ID == id {
			return &widget
		}
	}
	return nil
}
