package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/kpivision/dashboard-engine/internal/logging"
)

func waitForExportStatus(t *testing.T, store *Store, id string, want ExportStatus) ExportJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := store.Export(id)
		if ok && job.Status == want {
			return job
		}
		time.Sleep(time.Millisecond)
	}
	job, _ := store.Export(id)
	t.Fatalf("export %s never reached %s, stuck at %s", id, want, job.Status)
	return ExportJob{}
}

func TestExportLifecycle(t *testing.T) {
	store, clock := newTestStore(t)

	exporter := NewExporter(store, clock, logging.NewLogger("error", "json", "stderr"))
	var transitions []ExportStatus
	exporter.OnTransition = func(s ExportStatus) { transitions = append(transitions, s) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go exporter.Run(ctx)

	id := store.ExportDashboard(ExportConfig{Format: FormatPDF, WidgetIDs: []string{"1", "2"}})

	job, ok := store.Export(id)
	if !ok {
		t.Fatal("job not registered")
	}
	if job.Status != ExportPending && job.Status != ExportProcessing {
		t.Fatalf("fresh job in unexpected status %s", job.Status)
	}
	if !job.ExpiresAt.Equal(job.CreatedAt.Add(24 * time.Hour)) {
		t.Errorf("expiry not createdAt+24h: %v vs %v", job.ExpiresAt, job.CreatedAt)
	}

	waitForExportStatus(t, store, id, ExportProcessing)
	clock.BlockUntil(1)
	clock.Advance(3 * time.Second)

	job = waitForExportStatus(t, store, id, ExportCompleted)
	if job.DownloadURL == "" {
		t.Error("completed job has no download URL")
	}
	if job.Error != "" {
		t.Errorf("completed job carries error: %q", job.Error)
	}
}

func TestEveryDeclaredFormatIsSupported(t *testing.T) {
	for _, f := range []ExportFormat{FormatPDF, FormatExcel, FormatCSV, FormatPNG, FormatSVG} {
		if !supportedExportFormats[f] {
			t.Errorf("format %s missing from the support table", f)
		}
	}
	if len(supportedExportFormats) != 5 {
		t.Errorf("support table has %d entries, want 5", len(supportedExportFormats))
	}
}

func TestExportUnsupportedFormatFails(t *testing.T) {
	store, clock := newTestStore(t)

	exporter := NewExporter(store, clock, logging.NewLogger("error", "json", "stderr"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go exporter.Run(ctx)

	id := store.ExportDashboard(ExportConfig{Format: ExportFormat("docx")})

	job := waitForExportStatus(t, store, id, ExportFailed)
	if job.Error == "" {
		t.Error("failed job has no error message")
	}
	if job.DownloadURL != "" {
		t.Error("failed job has a download URL")
	}
}

func TestExportTransitionsNeverRegress(t *testing.T) {
	store, _ := newTestStore(t)

	id := store.ExportDashboard(ExportConfig{Format: FormatCSV})

	if !store.transitionExport(id, ExportProcessing, nil) {
		t.Fatal("pending -> processing rejected")
	}
	if !store.transitionExport(id, ExportCompleted, nil) {
		t.Fatal("processing -> completed rejected")
	}

	// Terminal states are final.
	if store.transitionExport(id, ExportProcessing, nil) {
		t.Error("completed -> processing allowed")
	}
	if store.transitionExport(id, ExportFailed, nil) {
		t.Error("completed -> failed allowed")
	}
	if store.transitionExport(id, ExportPending, nil) {
		t.Error("completed -> pending allowed")
	}
}

func TestExportIllegalFirstTransitions(t *testing.T) {
	store, _ := newTestStore(t)

	id := store.ExportDashboard(ExportConfig{Format: FormatCSV})

	if store.transitionExport(id, ExportCompleted, nil) {
		t.Error("pending -> completed allowed without processing")
	}
	if store.transitionExport(id, ExportFailed, nil) {
		t.Error("pending -> failed allowed without processing")
	}
	if store.transitionExport("no-such-job", ExportProcessing, nil) {
		t.Error("transition on unknown job reported success")
	}
}

func TestExportDownloadableWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	job := ExportJob{
		Status:    ExportCompleted,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}

	cases := []struct {
		name string
		job  ExportJob
		at   time.Time
		want bool
	}{
		{"fresh completed", job, now.Add(time.Hour), true},
		{"just before expiry", job, now.Add(24*time.Hour - time.Second), true},
		{"at expiry", job, now.Add(24 * time.Hour), false},
		{"after expiry", job, now.Add(25 * time.Hour), false},
		{"pending", ExportJob{Status: ExportPending, ExpiresAt: now.Add(time.Hour)}, now, false},
		{"failed", ExportJob{Status: ExportFailed, ExpiresAt: now.Add(time.Hour)}, now, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.job.Downloadable(tc.at); got != tc.want {
				t.Errorf("Downloadable(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}
