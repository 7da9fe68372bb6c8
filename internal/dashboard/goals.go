package dashboard

import "time"

/* Goal progress status is derived, never stored: persisting it would let a
 * snapshot replay a stale verdict after the deadline moved past. */

/* StatusAt computes the goal's standing at a point in time. A goal whose
 * current value has reached the target is completed regardless of deadline.
 * Past the deadline any incomplete goal is behind. Before the deadline the
 * progress ratio is compared against the elapsed share of the goal's
 * lifetime: roughly on pace is on-track, a modest lag is at-risk, a large
 * lag is behind. */
func (g Goal) StatusAt(now time.Time) GoalStatus {
	if g.Target > 0 && g.Current >= g.Target {
		return GoalCompleted
	}
	if !g.Deadline.IsZero() && now.After(g.Deadline) {
		return GoalBehind
	}

	progress := 0.0
	if g.Target > 0 {
		progress = g.Current / g.Target
	}

	expected := 0.0
	if !g.Deadline.IsZero() && !g.CreatedAt.IsZero() && g.Deadline.After(g.CreatedAt) {
		total := g.Deadline.Sub(g.CreatedAt)
		elapsed := now.Sub(g.CreatedAt)
		if elapsed < 0 {
			elapsed = 0
		}
		expected = float64(elapsed) / float64(total)
	}

	switch lag := progress - expected; {
	case lag >= -0.05:
		return GoalOnTrack
	case lag >= -0.20:
		return GoalAtRisk
	default:
		return GoalBehind
	}
}

/* SummarizeGoals aggregates counts and average progress for the goal
 * tracker widget. */
func SummarizeGoals(goals []Goal, now time.Time) GoalSummary {
	sum := GoalSummary{Total: len(goals)}
	if len(goals) == 0 {
		return sum
	}
	var progress float64
	for _, g := range goals {
		switch g.StatusAt(now) {
		case GoalCompleted:
			sum.Completed++
		case GoalOnTrack:
			sum.OnTrack++
		case GoalAtRisk:
			sum.AtRisk++
		case GoalBehind:
			sum.Behind++
		}
		if g.Target > 0 {
			p := g.Current / g.Target
			if p > 1 {
				p = 1
			}
			progress += p
		}
	}
	sum.AverageProgress = progress / float64(len(goals))
	return sum
}

/* AddGoal stores a new goal, stamping id and CreatedAt. */
func (s *Store) AddGoal(g Goal) string {
	s.mu.Lock()
	g.ID = s.newID()
	g.CreatedAt = s.clock.Now()
	s.state.Goals = append(s.state.Goals, g)
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
	return g.ID
}

/* GoalUpdate is a partial goal patch; nil fields stay untouched. */
type GoalUpdate struct {
	Title       *string
	Description *string
	Metric      *string
	Target      *float64
	Current     *float64
	Unit        *string
	Deadline    *time.Time
	Category    *string
	Priority    *Priority
	Milestones  []Milestone
}

func (s *Store) UpdateGoal(id string, patch GoalUpdate) {
	s.mu.Lock()
	for i := range s.state.Goals {
		if s.state.Goals[i].ID != id {
			continue
		}
		g := &s.state.Goals[i]
		if patch.Title != nil {
			g.Title = *patch.Title
		}
		if patch.Description != nil {
			g.Description = *patch.Description
		}
		if patch.Metric != nil {
			g.Metric = *patch.Metric
		}
		if patch.Target != nil {
			g.Target = *patch.Target
		}
		if patch.Current != nil {
			g.Current = *patch.Current
		}
		if patch.Unit != nil {
			g.Unit = *patch.Unit
		}
		if patch.Deadline != nil {
			g.Deadline = *patch.Deadline
		}
		if patch.Category != nil {
			g.Category = *patch.Category
		}
		if patch.Priority != nil {
			g.Priority = *patch.Priority
		}
		if patch.Milestones != nil {
			g.Milestones = append([]Milestone(nil), patch.Milestones...)
		}
		notify := s.commitLocked(true)
		s.mu.Unlock()
		notify()
		return
	}
	s.mu.Unlock()
}

func (s *Store) DeleteGoal(id string) {
	s.mu.Lock()
	kept := s.state.Goals[:0:0]
	for _, g := range s.state.Goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	s.state.Goals = kept
	notify := s.commitLocked(true)
	s.mu.Unlock()
	notify()
}
