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

/* NotificationHandlers manages the inbox. */
type NotificationHandlers struct {
	store  *dashboard.Store
	logger *logging.Logger
}

func NewNotificationHandlers(store *dashboard.Store, logger *logging.Logger) *NotificationHandlers {
	return &NotificationHandlers{store: store, logger: logger}
}

func (h *NotificationHandlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications := h.store.State().Notifications
	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}
	WriteSuccess(w, map[string]interface{}{
		"notifications": notifications,
		"unread":        unread,
	}, http.StatusOK)
}

func (h *NotificationHandlers) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var notification dashboard.Notification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid notification: %w", err), nil)
		return
	}
	if notification.Title == "" {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("notification title is required"), nil)
		return
	}
	metrics.RecordStoreOperation("add_notification")
	id := h.store.AddNotification(notification)
	WriteSuccess(w, map[string]interface{}{"id": id}, http.StatusCreated)
}

/* MarkRead flips a notification to read. Re-marking a read notification is
 * a no-op and still succeeds. */
func (h *NotificationHandlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	metrics.RecordStoreOperation("mark_notification_read")
	h.store.MarkNotificationRead(id)
	for _, n := range h.store.State().Notifications {
		if n.ID == id {
			WriteSuccess(w, n, http.StatusOK)
			return
		}
	}
	WriteError(w, http.StatusNotFound, fmt.Errorf("notification %s not found", id), nil)
}

func (h *NotificationHandlers) ClearAll(w http.ResponseWriter, r *http.Request) {
	metrics.RecordStoreOperation("clear_all_notifications")
	h.store.ClearAllNotifications()
	w.WriteHeader(http.StatusNoContent)
}
