package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
	"github.com/kpivision/dashboard-engine/internal/logging"
	"github.com/kpivision/dashboard-engine/internal/metrics"
)

/* SettingsHandlers manages user settings. */
type SettingsHandlers struct {
	store  *dashboard.Store
	logger *logging.Logger
}

func NewSettingsHandlers(store *dashboard.Store, logger *logging.Logger) *SettingsHandlers {
	return &SettingsHandlers{store: store, logger: logger}
}

func (h *SettingsHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.store.Settings(), http.StatusOK)
}

type settingsUpdateRequest struct {
	AutoRefresh     *bool                         `json:"auto_refresh"`
	RefreshInterval *time.Duration                `json:"refresh_interval"`
	Theme           *string                       `json:"theme"`
	Layout          *string                       `json:"layout"`
	Timezone        *string                       `json:"timezone"`
	DateFormat      *string                       `json:"date_format"`
	NumberFormat    *string                       `json:"number_format"`
	Currency        *string                       `json:"currency"`
	Language        *string                       `json:"language"`
	Notifications   *dashboard.NotificationPrefs  `json:"notifications"`
	Privacy         *dashboard.PrivacyPrefs       `json:"privacy"`
	Accessibility   *dashboard.AccessibilityPrefs `json:"accessibility"`
}

/* UpdateSettings merges a partial update into settings. Omitted fields keep
 * their values. */
func (h *SettingsHandlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid settings update: %w", err), nil)
		return
	}
	if req.RefreshInterval != nil && *req.RefreshInterval <= 0 {
		autoRefresh := h.store.Settings().AutoRefresh
		if req.AutoRefresh != nil {
			autoRefresh = *req.AutoRefresh
		}
		if autoRefresh {
			WriteError(w, http.StatusBadRequest, fmt.Errorf("refresh_interval must be positive while auto_refresh is enabled"), nil)
			return
		}
	}
	metrics.RecordStoreOperation("update_settings")
	h.store.UpdateSettings(dashboard.SettingsUpdate{
		AutoRefresh:     req.AutoRefresh,
		RefreshInterval: req.RefreshInterval,
		Theme:           req.Theme,
		Layout:          req.Layout,
		Timezone:        req.Timezone,
		DateFormat:      req.DateFormat,
		NumberFormat:    req.NumberFormat,
		Currency:        req.Currency,
		Language:        req.Language,
		Notifications:   req.Notifications,
		Privacy:         req.Privacy,
		Accessibility:   req.Accessibility,
	})
	WriteSuccess(w, h.store.Settings(), http.StatusOK)
}
