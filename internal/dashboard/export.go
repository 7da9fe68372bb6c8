package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kpivision/dashboard-engine/internal/logging"
)

/* Export job lifecycle: pending -> processing -> completed | failed.
 * Transitions only move forward; a terminal job never changes again. */

var supportedExportFormats = map[ExportFormat]bool{
	FormatPDF:   true,
	FormatExcel: true,
	FormatCSV:   true,
	FormatPNG:   true,
	FormatSVG:   true,
}

/* ExportDashboard registers a pending job and queues it for the exporter.
 * The job id is returned immediately; progress is observed through state. */
func (s *Store) ExportDashboard(cfg ExportConfig) string {
	s.mu.Lock()
	now := s.clock.Now()
	job := ExportJob{
		ID:        s.newID(),
		Format:    cfg.Format,
		WidgetIDs: append([]string(nil), cfg.WidgetIDs...),
		Filters:   append([]Filter(nil), cfg.Filters...),
		DateRange: cfg.DateRange,
		Status:    ExportPending,
		CreatedAt: now,
		ExpiresAt: now.Add(s.exportTTL),
	}
	s.state.Exports = append(s.state.Exports, job)
	notify := s.commitLocked(false)
	s.mu.Unlock()
	notify()

	select {
	case s.exportc <- job.ID:
	default:
		s.logger.Warn("Export queue full, job will not be processed", map[string]interface{}{
			"job_id": job.ID,
		})
	}
	return job.ID
}

/* ExportQueue is consumed by the Exporter. */
func (s *Store) ExportQueue() <-chan string {
	return s.exportc
}

/* Export returns one job by id. */
func (s *Store) Export(id string) (ExportJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.state.Exports {
		if j.ID == id {
			return j, true
		}
	}
	return ExportJob{}, false
}

/* transitionExport advances a job when the move is legal under the forward-
 * only lifecycle. Returns false for unknown jobs and illegal moves. */
func (s *Store) transitionExport(id string, next ExportStatus, mutate func(*ExportJob)) bool {
	s.mu.Lock()
	for i := range s.state.Exports {
		j := &s.state.Exports[i]
		if j.ID != id {
			continue
		}
		legal := (j.Status == ExportPending && next == ExportProcessing) ||
			(j.Status == ExportProcessing && (next == ExportCompleted || next == ExportFailed))
		if !legal {
			s.mu.Unlock()
			return false
		}
		j.Status = next
		if mutate != nil {
			mutate(j)
		}
		notify := s.commitLocked(false)
		s.mu.Unlock()
		notify()
		return true
	}
	s.mu.Unlock()
	return false
}

/* Exporter drains the store's export queue and drives each job through the
 * lifecycle. Rendering is simulated with a clock delay so the state machine
 * is exercised end to end without an artifact backend. */
type Exporter struct {
	store *Store
	clock clockwork.Clock
	log   *logging.Logger

	/* Delay is the simulated render time per job. */
	Delay time.Duration

	/* OnTransition, when set, observes every status a job reaches. */
	OnTransition func(ExportStatus)
}

func NewExporter(store *Store, clock clockwork.Clock, log *logging.Logger) *Exporter {
	return &Exporter{
		store: store,
		clock: clock,
		log:   log,
		Delay: 3 * time.Second,
	}
}

/* Run blocks until ctx is cancelled, processing queued jobs one at a time. */
func (e *Exporter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-e.store.ExportQueue():
			e.process(ctx, id)
		}
	}
}

func (e *Exporter) process(ctx context.Context, id string) {
	job, ok := e.store.Export(id)
	if !ok {
		return
	}
	if !e.store.transitionExport(id, ExportProcessing, nil) {
		return
	}
	e.observe(ExportProcessing)

	if !supportedExportFormats[job.Format] {
		e.fail(id, fmt.Sprintf("unsupported export format: %s", job.Format))
		return
	}

	select {
	case <-ctx.Done():
		e.fail(id, "export cancelled during shutdown")
		return
	case <-e.clock.After(e.Delay):
	}

	url := fmt.Sprintf("/api/v1/exports/%s/download", id)
	if e.store.transitionExport(id, ExportCompleted, func(j *ExportJob) {
		j.DownloadURL = url
	}) {
		e.observe(ExportCompleted)
		e.log.Info("Export completed", map[string]interface{}{
			"job_id": id,
			"format": string(job.Format),
		})
	}
}

func (e *Exporter) fail(id, reason string) {
	if e.store.transitionExport(id, ExportFailed, func(j *ExportJob) {
		j.Error = reason
	}) {
		e.observe(ExportFailed)
		e.log.Warn("Export failed", map[string]interface{}{
			"job_id": id,
			"reason": reason,
		})
	}
}

func (e *Exporter) observe(status ExportStatus) {
	if e.OnTransition != nil {
		e.OnTransition(status)
	}
}
