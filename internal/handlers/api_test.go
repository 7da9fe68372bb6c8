package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
	testutil "github.com/kpivision/dashboard-engine/internal/testing"
)

func TestHealthEndpoint(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Get(t, "/health")
	testutil.AssertStatus(t, resp, http.StatusOK)

	var body map[string]interface{}
	testutil.ParseResponse(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestGetDashboardReturnsFullState(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Get(t, "/api/v1/dashboard")
	testutil.AssertStatus(t, resp, http.StatusOK)

	var state dashboard.State
	testutil.ParseResponse(t, resp, &state)
	if len(state.Widgets) == 0 {
		t.Error("state has no widgets")
	}
	if len(state.Layouts) == 0 {
		t.Error("state has no layouts")
	}
	if state.CurrentTheme == "" {
		t.Error("state has no current theme")
	}
}

func TestToggleRealTime(t *testing.T) {
	tc := testutil.NewTestClient(t)

	before := tc.Store().RealTimeEnabled()
	resp := tc.Post(t, "/api/v1/dashboard/realtime/toggle", nil)
	testutil.AssertStatus(t, resp, http.StatusOK)

	var body struct {
		Enabled bool `json:"enabled"`
	}
	testutil.ParseResponse(t, resp, &body)
	if body.Enabled == before {
		t.Errorf("enabled = %v before and after toggle", before)
	}
}

func TestResetDashboardRestoresDefaults(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Delete(t, "/api/v1/widgets/" + tc.Store().State().Widgets[0].ID)
	testutil.DrainBody(resp)
	removed := len(tc.Store().State().Widgets)

	resp = tc.Post(t, "/api/v1/dashboard/reset", nil)
	testutil.AssertStatus(t, resp, http.StatusOK)

	var state dashboard.State
	testutil.ParseResponse(t, resp, &state)
	if len(state.Widgets) <= removed {
		t.Errorf("reset left %d widgets, want more than %d", len(state.Widgets), removed)
	}
	if state.CurrentLayout != "default" {
		t.Errorf("current layout = %q after reset, want default", state.CurrentLayout)
	}
}

func TestUpdateSettingsRejectsZeroIntervalWhileAutoRefresh(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Put(t, "/api/v1/settings", map[string]interface{}{
		"refresh_interval": 0,
	})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.DrainBody(resp)
}

func TestUpdateSettingsPartialMerge(t *testing.T) {
	tc := testutil.NewTestClient(t)

	before := tc.Store().Settings()
	resp := tc.Put(t, "/api/v1/settings", map[string]interface{}{
		"currency": "EUR",
	})
	testutil.AssertStatus(t, resp, http.StatusOK)

	var settings dashboard.Settings
	testutil.ParseResponse(t, resp, &settings)
	if settings.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", settings.Currency)
	}
	if settings.RefreshInterval != before.RefreshInterval {
		t.Errorf("refresh interval changed from %v to %v on unrelated update",
			before.RefreshInterval, settings.RefreshInterval)
	}
}

func TestNotificationLifecycle(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Post(t, "/api/v1/notifications", map[string]interface{}{
		"title": "Deployment done",
		"type":  "system",
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)
	var created struct {
		ID string `json:"id"`
	}
	testutil.ParseResponse(t, resp, &created)

	resp = tc.Get(t, "/api/v1/notifications")
	var list struct {
		Notifications []dashboard.Notification `json:"notifications"`
		Unread        int                      `json:"unread"`
	}
	testutil.ParseResponse(t, resp, &list)
	if list.Unread == 0 {
		t.Error("fresh notification not counted as unread")
	}

	resp = tc.Post(t, "/api/v1/notifications/"+created.ID+"/read", nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var read dashboard.Notification
	testutil.ParseResponse(t, resp, &read)
	if !read.IsRead {
		t.Error("notification not marked read")
	}

	resp = tc.Delete(t, "/api/v1/notifications")
	testutil.AssertStatus(t, resp, http.StatusNoContent)
	testutil.DrainBody(resp)
	if n := len(tc.Store().State().Notifications); n != 0 {
		t.Errorf("%d notifications left after clear", n)
	}
}

func TestGoalResponseCarriesDerivedStatus(t *testing.T) {
	tc := testutil.NewTestClient(t)

	deadline := tc.Store().Now().Add(90 * 24 * time.Hour)
	resp := tc.Post(t, "/api/v1/goals", map[string]interface{}{
		"title":    "Ship v2",
		"metric":   "milestones",
		"target":   10,
		"current":  10,
		"deadline": deadline.Format(time.RFC3339),
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)

	var goal struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	testutil.ParseResponse(t, resp, &goal)
	if goal.Status != "completed" {
		t.Errorf("status = %q, want completed", goal.Status)
	}

	resp = tc.Put(t, "/api/v1/goals/"+goal.ID, map[string]interface{}{"current": 1})
	testutil.AssertStatus(t, resp, http.StatusOK)
	var updated struct {
		Status string `json:"status"`
	}
	testutil.ParseResponse(t, resp, &updated)
	if updated.Status == "completed" {
		t.Error("status still completed after progress dropped")
	}
}

func TestGoalCreateRequiresTitleAndMetric(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Post(t, "/api/v1/goals", map[string]interface{}{"title": "No metric"})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.DrainBody(resp)
}

func TestListGoalsIncludesSummary(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Get(t, "/api/v1/goals")
	testutil.AssertStatus(t, resp, http.StatusOK)

	var body struct {
		Goals   []struct{ Status string } `json:"goals"`
		Summary dashboard.GoalSummary     `json:"summary"`
	}
	testutil.ParseResponse(t, resp, &body)
	if len(body.Goals) == 0 {
		t.Fatal("no seeded goals")
	}
	if body.Summary.Total != len(body.Goals) {
		t.Errorf("summary total = %d, want %d", body.Summary.Total, len(body.Goals))
	}
}

func TestDatasetUploadCSV(t *testing.T) {
	tc := testutil.NewTestClient(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("name", "regions")
	fw, err := mw.CreateFormFile("file", "regions.csv")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	fw.Write([]byte("region,revenue\nnorth,1200.5\nsouth,900\n"))
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, tc.Server.URL+"/api/v1/datasets/upload", &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	testutil.AssertStatus(t, resp, http.StatusCreated)

	var body struct {
		ID   string `json:"id"`
		Rows int    `json:"rows"`
	}
	testutil.ParseResponse(t, resp, &body)
	if body.Rows != 2 {
		t.Errorf("rows = %d, want 2", body.Rows)
	}

	for _, ds := range tc.Store().State().Datasets {
		if ds.ID != body.ID {
			continue
		}
		if v, ok := ds.Rows[0]["revenue"].(float64); !ok || v != 1200.5 {
			t.Errorf("revenue cell = %v, want numeric 1200.5", ds.Rows[0]["revenue"])
		}
		return
	}
	t.Fatal("uploaded dataset not in state")
}

func TestCommentScopedListing(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Post(t, "/api/v1/comments", map[string]interface{}{
		"widget_id": "w-1", "content": "check this spike", "user_name": "ana",
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)
	testutil.DrainBody(resp)
	resp = tc.Post(t, "/api/v1/comments", map[string]interface{}{
		"widget_id": "w-2", "content": "ok here", "user_name": "ben",
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)
	testutil.DrainBody(resp)

	resp = tc.Get(t, "/api/v1/comments?widget_id=w-1")
	testutil.AssertStatus(t, resp, http.StatusOK)
	var comments []dashboard.Comment
	testutil.ParseResponse(t, resp, &comments)
	if len(comments) != 1 {
		t.Fatalf("scoped listing returned %d comments, want 1", len(comments))
	}
	if comments[0].WidgetID != "w-1" {
		t.Errorf("comment scoped to %q, want w-1", comments[0].WidgetID)
	}
}

func TestFilterCreateRequiresFieldAndOperator(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Post(t, "/api/v1/filters", map[string]interface{}{"field": "region"})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.DrainBody(resp)
}

func TestSearchQueryRoundTrip(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Put(t, "/api/v1/filters/search", map[string]interface{}{"query": "revenue"})
	testutil.AssertStatus(t, resp, http.StatusOK)
	testutil.DrainBody(resp)

	if got := tc.Store().State().SearchQuery; got != "revenue" {
		t.Errorf("search query = %q, want revenue", got)
	}
}

func TestAlertCreateAndDismiss(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Post(t, "/api/v1/alerts", map[string]interface{}{
		"title": "CPU spike", "type": "warning",
	})
	testutil.AssertStatus(t, resp, http.StatusCreated)
	var alert dashboard.Alert
	testutil.ParseResponse(t, resp, &alert)
	if alert.ID == "" {
		t.Fatal("created alert has no id")
	}

	resp = tc.Delete(t, "/api/v1/alerts/"+alert.ID)
	testutil.AssertStatus(t, resp, http.StatusNoContent)
	testutil.DrainBody(resp)

	for _, a := range tc.Store().State().Alerts {
		if a.ID == alert.ID {
			t.Error("alert still present after dismiss")
		}
	}
}

func TestInsightConfidenceValidated(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Post(t, "/api/v1/insights", map[string]interface{}{
		"title": "Out of range", "confidence": 1.5,
	})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.DrainBody(resp)
}
