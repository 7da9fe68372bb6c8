package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
	"github.com/kpivision/dashboard-engine/internal/logging"
	"github.com/kpivision/dashboard-engine/internal/metrics"
)

/* DashboardHandlers serves the engine state surface: the full snapshot, the
 * load/reset lifecycle, the pipeline toggle, and the websocket feed. */
type DashboardHandlers struct {
	store  *dashboard.Store
	logger *logging.Logger
}

/* NewDashboardHandlers creates new dashboard handlers */
func NewDashboardHandlers(store *dashboard.Store, logger *logging.Logger) *DashboardHandlers {
	return &DashboardHandlers{
		store:  store,
		logger: logger,
	}
}

/* GetDashboard returns the complete current state. */
func (h *DashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.store.State(), http.StatusOK)
}

/* LoadDashboard triggers the load sequence and returns the resulting state.
 * Load failures surface in the state error field, not as an HTTP error. */
func (h *DashboardHandlers) LoadDashboard(w http.ResponseWriter, r *http.Request) {
	metrics.RecordStoreOperation("load_dashboard")
	h.store.LoadDashboard(r.Context())
	WriteSuccess(w, h.store.State(), http.StatusOK)
}

/* ResetDashboard restores the built-in widget set and default layout. */
func (h *DashboardHandlers) ResetDashboard(w http.ResponseWriter, r *http.Request) {
	metrics.RecordStoreOperation("reset_to_default")
	h.store.ResetToDefault()
	WriteSuccess(w, h.store.State(), http.StatusOK)
}

/* ToggleRealTime flips the live pipeline flag. */
func (h *DashboardHandlers) ToggleRealTime(w http.ResponseWriter, r *http.Request) {
	metrics.RecordStoreOperation("toggle_real_time")
	enabled := h.store.ToggleRealTime()
	WriteSuccess(w, map[string]interface{}{"enabled": enabled}, http.StatusOK)
}

/* StartCustomizing enters edit mode. */
func (h *DashboardHandlers) StartCustomizing(w http.ResponseWriter, r *http.Request) {
	h.store.StartCustomizing()
	WriteSuccess(w, map[string]interface{}{"customizing": true}, http.StatusOK)
}

/* StopCustomizing leaves edit mode. */
func (h *DashboardHandlers) StopCustomizing(w http.ResponseWriter, r *http.Request) {
	h.store.StopCustomizing()
	WriteSuccess(w, map[string]interface{}{"customizing": false}, http.StatusOK)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

/* DashboardWebSocket streams every committed state to the client. The
 * subscriber pushes into a buffered channel; when the client cannot keep up
 * intermediate states are dropped and only the newest is delivered. */
func (h *DashboardHandlers) DashboardWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", err, nil)
		return
	}
	defer conn.Close()

	metrics.WebsocketClientConnected(1)
	defer metrics.WebsocketClientConnected(-1)

	updates := make(chan dashboard.State, 1)
	unsubscribe := h.store.Subscribe(func(state dashboard.State) {
		for {
			select {
			case updates <- state:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	defer unsubscribe()

	// Reader goroutine: detect client close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(map[string]interface{}{
		"type":  "state",
		"state": h.store.State(),
	}); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case state := <-updates:
			if err := conn.WriteJSON(map[string]interface{}{
				"type":  "state",
				"state": state,
			}); err != nil {
				return
			}
		}
	}
}
