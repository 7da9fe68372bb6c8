package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
	"github.com/kpivision/dashboard-engine/internal/logging"
	"github.com/kpivision/dashboard-engine/internal/metrics"
)

/* GoalHandlers manages goals. Responses carry a status computed at read
 * time; status is never accepted from the client or stored. */
type GoalHandlers struct {
	store  *dashboard.Store
	logger *logging.Logger
}

func NewGoalHandlers(store *dashboard.Store, logger *logging.Logger) *GoalHandlers {
	return &GoalHandlers{store: store, logger: logger}
}

/* GoalView is a goal with its derived status attached. */
type GoalView struct {
	dashboard.Goal
	Status dashboard.GoalStatus `json:"status"`
}

func goalView(g dashboard.Goal, now time.Time) GoalView {
	return GoalView{Goal: g, Status: g.StatusAt(now)}
}

func (h *GoalHandlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	now := h.store.Now()
	goals := h.store.State().Goals
	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, goalView(g, now))
	}
	WriteSuccess(w, map[string]interface{}{
		"goals":   views,
		"summary": dashboard.SummarizeGoals(goals, now),
	}, http.StatusOK)
}

func (h *GoalHandlers) GetGoal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	for _, g := range h.store.State().Goals {
		if g.ID == id {
			WriteSuccess(w, goalView(g, h.store.Now()), http.StatusOK)
			return
		}
	}
	WriteError(w, http.StatusNotFound, fmt.Errorf("goal %s not found", id), nil)
}

func (h *GoalHandlers) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var goal dashboard.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid goal: %w", err), nil)
		return
	}
	if goal.Title == "" || goal.Metric == "" {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("goal title and metric are required"), nil)
		return
	}
	metrics.RecordStoreOperation("add_goal")
	id := h.store.AddGoal(goal)
	for _, g := range h.store.State().Goals {
		if g.ID == id {
			WriteSuccess(w, goalView(g, h.store.Now()), http.StatusCreated)
			return
		}
	}
	WriteSuccess(w, map[string]interface{}{"id": id}, http.StatusCreated)
}

type goalUpdateRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Metric      *string               `json:"metric"`
	Target      *float64              `json:"target"`
	Current     *float64              `json:"current"`
	Unit        *string               `json:"unit"`
	Deadline    *time.Time            `json:"deadline"`
	Category    *string               `json:"category"`
	Priority    *dashboard.Priority   `json:"priority"`
	Milestones  []dashboard.Milestone `json:"milestones"`
}

func (h *GoalHandlers) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	found := false
	for _, g := range h.store.State().Goals {
		if g.ID == id {
			found = true
			break
		}
	}
	if !found {
		WriteError(w, http.StatusNotFound, fmt.Errorf("goal %s not found", id), nil)
		return
	}
	var req goalUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid goal update: %w", err), nil)
		return
	}
	metrics.RecordStoreOperation("update_goal")
	h.store.UpdateGoal(id, dashboard.GoalUpdate{
		Title:       req.Title,
		Description: req.Description,
		Metric:      req.Metric,
		Target:      req.Target,
		Current:     req.Current,
		Unit:        req.Unit,
		Deadline:    req.Deadline,
		Category:    req.Category,
		Priority:    req.Priority,
		Milestones:  req.Milestones,
	})
	for _, g := range h.store.State().Goals {
		if g.ID == id {
			WriteSuccess(w, goalView(g, h.store.Now()), http.StatusOK)
			return
		}
	}
}

func (h *GoalHandlers) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	metrics.RecordStoreOperation("delete_goal")
	h.store.DeleteGoal(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}
