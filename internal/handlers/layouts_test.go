package handlers_test

import (
	"net/http"
	"testing"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
	testutil "github.com/kpivision/dashboard-engine/internal/testing"
)

func TestSwitchLayoutReturnsConsistentState(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Put(t, "/api/v1/layouts/current", map[string]interface{}{"id": "executive"})
	testutil.AssertStatus(t, resp, http.StatusOK)

	var state dashboard.State
	testutil.ParseResponse(t, resp, &state)
	if state.CurrentLayout != "executive" {
		t.Errorf("current layout = %q, want executive", state.CurrentLayout)
	}
	for _, layout := range state.Layouts {
		if layout.ID != "executive" {
			continue
		}
		if len(state.Widgets) != len(layout.Widgets) {
			t.Errorf("widgets = %d, layout carries %d; pointer and collection disagree",
				len(state.Widgets), len(layout.Widgets))
		}
	}
}

func TestSwitchLayoutUnknownIDReturns404(t *testing.T) {
	tc := testutil.NewTestClient(t)

	before := tc.Store().State().CurrentLayout
	resp := tc.Put(t, "/api/v1/layouts/current", map[string]interface{}{"id": "ghost"})
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	testutil.DrainBody(resp)

	if got := tc.Store().State().CurrentLayout; got != before {
		t.Errorf("current layout changed to %q on failed switch", got)
	}
}

func TestCreateLayoutRequiresName(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Post(t, "/api/v1/layouts", map[string]interface{}{"description": "anonymous"})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.DrainBody(resp)
}

func TestCreateAndDeleteLayout(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Post(t, "/api/v1/layouts", map[string]interface{}{"name": "Ops view"})
	testutil.AssertStatus(t, resp, http.StatusCreated)

	var created dashboard.Layout
	testutil.ParseResponse(t, resp, &created)
	if created.ID == "" {
		t.Fatal("created layout has no id")
	}

	resp = tc.Delete(t, "/api/v1/layouts/"+created.ID)
	testutil.AssertStatus(t, resp, http.StatusNoContent)
	testutil.DrainBody(resp)

	for _, layout := range tc.Store().State().Layouts {
		if layout.ID == created.ID {
			t.Error("layout still present after delete")
		}
	}
}

func TestSwitchThemeMirrorsSettings(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Put(t, "/api/v1/themes/current", map[string]interface{}{"id": "dark"})
	testutil.AssertStatus(t, resp, http.StatusOK)

	var body struct {
		Current  string             `json:"current"`
		Settings dashboard.Settings `json:"settings"`
	}
	testutil.ParseResponse(t, resp, &body)
	if body.Current != "dark" {
		t.Errorf("current theme = %q, want dark", body.Current)
	}
	if body.Settings.Theme != "dark" {
		t.Errorf("settings theme = %q, want dark", body.Settings.Theme)
	}
}

func TestSwitchThemeUnknownIDReturns404(t *testing.T) {
	tc := testutil.NewTestClient(t)

	resp := tc.Put(t, "/api/v1/themes/current", map[string]interface{}{"id": "neon"})
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	testutil.DrainBody(resp)
}
