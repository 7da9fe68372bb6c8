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

/* CommentHandlers manages widget comments and presence. */
type CommentHandlers struct {
	store  *dashboard.Store
	logger *logging.Logger
}

func NewCommentHandlers(store *dashboard.Store, logger *logging.Logger) *CommentHandlers {
	return &CommentHandlers{store: store, logger: logger}
}

/* ListComments returns all comments, optionally scoped to one widget via
 * the widget_id query parameter. */
func (h *CommentHandlers) ListComments(w http.ResponseWriter, r *http.Request) {
	comments := h.store.State().Comments
	if widgetID := r.URL.Query().Get("widget_id"); widgetID != "" {
		scoped := make([]dashboard.Comment, 0)
		for _, c := range comments {
			if c.WidgetID == widgetID {
				scoped = append(scoped, c)
			}
		}
		comments = scoped
	}
	WriteSuccess(w, comments, http.StatusOK)
}

func (h *CommentHandlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	var comment dashboard.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid comment: %w", err), nil)
		return
	}
	if comment.WidgetID == "" || comment.Content == "" {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("widget_id and content are required"), nil)
		return
	}
	metrics.RecordStoreOperation("add_comment")
	id := h.store.AddComment(comment)
	for _, c := range h.store.State().Comments {
		if c.ID == id {
			WriteSuccess(w, c, http.StatusCreated)
			return
		}
	}
	WriteSuccess(w, map[string]interface{}{"id": id}, http.StatusCreated)
}

type commentUpdateRequest struct {
	Content    *string `json:"content"`
	IsResolved *bool   `json:"is_resolved"`
}

func (h *CommentHandlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	found := false
	for _, c := range h.store.State().Comments {
		if c.ID == id {
			found = true
			break
		}
	}
	if !found {
		WriteError(w, http.StatusNotFound, fmt.Errorf("comment %s not found", id), nil)
		return
	}
	var req commentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid comment update: %w", err), nil)
		return
	}
	metrics.RecordStoreOperation("update_comment")
	h.store.UpdateComment(id, dashboard.CommentUpdate{
		Content:    req.Content,
		IsResolved: req.IsResolved,
	})
	for _, c := range h.store.State().Comments {
		if c.ID == id {
			WriteSuccess(w, c, http.StatusOK)
			return
		}
	}
}

func (h *CommentHandlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	metrics.RecordStoreOperation("delete_comment")
	h.store.DeleteComment(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

/* TouchPresence upserts an active-user record. */
func (h *CommentHandlers) TouchPresence(w http.ResponseWriter, r *http.Request) {
	var user dashboard.ActiveUser
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid user: %w", err), nil)
		return
	}
	if user.ID == "" {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("user id is required"), nil)
		return
	}
	h.store.TouchActiveUser(user)
	WriteSuccess(w, h.store.State().ActiveUsers, http.StatusOK)
}
