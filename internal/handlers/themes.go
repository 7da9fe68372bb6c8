package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
	"github.com/kpivision/dashboard-engine/internal/logging"
	"github.com/kpivision/dashboard-engine/internal/metrics"
)

/* ThemeHandlers manages themes and the current-theme pointer. */
type ThemeHandlers struct {
	store  *dashboard.Store
	logger *logging.Logger
}

func NewThemeHandlers(store *dashboard.Store, logger *logging.Logger) *ThemeHandlers {
	return &ThemeHandlers{store: store, logger: logger}
}

func (h *ThemeHandlers) ListThemes(w http.ResponseWriter, r *http.Request) {
	state := h.store.State()
	WriteSuccess(w, map[string]interface{}{
		"themes":  state.Themes,
		"current": state.CurrentTheme,
	}, http.StatusOK)
}

type switchThemeRequest struct {
	ID string `json:"id"`
}

/* SwitchTheme selects a theme; the choice is mirrored into settings so both
 * report the same theme. */
func (h *ThemeHandlers) SwitchTheme(w http.ResponseWriter, r *http.Request) {
	var req switchThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err), nil)
		return
	}
	found := false
	for _, t := range h.store.State().Themes {
		if t.ID == req.ID {
			found = true
			break
		}
	}
	if !found {
		WriteError(w, http.StatusNotFound, fmt.Errorf("theme %s not found", req.ID), nil)
		return
	}
	metrics.RecordStoreOperation("switch_theme")
	h.store.SwitchTheme(req.ID)
	state := h.store.State()
	WriteSuccess(w, map[string]interface{}{
		"current":  state.CurrentTheme,
		"settings": state.Settings,
	}, http.StatusOK)
}

/* CreateTheme registers a custom theme. */
func (h *ThemeHandlers) CreateTheme(w http.ResponseWriter, r *http.Request) {
	var theme dashboard.Theme
	if err := json.NewDecoder(r.Body).Decode(&theme); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid theme: %w", err), nil)
		return
	}
	if theme.Name == "" {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("theme name is required"), nil)
		return
	}
	metrics.RecordStoreOperation("create_custom_theme")
	id := h.store.CreateCustomTheme(theme)
	for _, t := range h.store.State().Themes {
		if t.ID == id {
			WriteSuccess(w, t, http.StatusCreated)
			return
		}
	}
	WriteSuccess(w, map[string]interface{}{"id": id}, http.StatusCreated)
}
