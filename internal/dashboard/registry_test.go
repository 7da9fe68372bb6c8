package dashboard

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestLookupKnownKinds(t *testing.T) {
	for _, kind := range []WidgetKind{
		KindSalesOverview, KindAIInsights, KindGoalTracker, KindHeatmapCalendar,
		KindTeamPerformance, KindRealTimeAlerts, KindPieChart, KindLineChart,
		KindFunnelChart, KindKPICard, KindDataTable, KindSystemHealth,
	} {
		desc := Lookup(kind)
		if desc.Kind != kind {
			t.Errorf("Lookup(%s) returned descriptor for %s", kind, desc.Kind)
		}
		if !desc.Implemented {
			t.Errorf("Lookup(%s) reports unimplemented", kind)
		}
		if desc.Renderer == PlaceholderRenderer {
			t.Errorf("Lookup(%s) resolved to the placeholder renderer", kind)
		}
	}
}

/* Unknown kinds must resolve, not fail: the registry is total. */
func TestLookupUnknownKindFallsBack(t *testing.T) {
	desc := Lookup(WidgetKind("WEATHER_MAP"))
	if desc.Renderer != PlaceholderRenderer {
		t.Fatalf("unknown kind resolved to %q, want placeholder", desc.Renderer)
	}
	if desc.Implemented {
		t.Error("placeholder descriptor claims to be implemented")
	}
	if desc.Kind != WidgetKind("WEATHER_MAP") {
		t.Errorf("placeholder descriptor lost the kind: %q", desc.Kind)
	}
}

func TestDecodePayloadPerKind(t *testing.T) {
	cases := []struct {
		kind WidgetKind
		raw  string
		want interface{}
	}{
		{KindSalesOverview, `{"current_month":100,"previous_month":80,"growth":25}`,
			SalesOverviewPayload{CurrentMonth: 100, PreviousMonth: 80, Growth: 25}},
		{KindKPICard, `{"label":"MRR","value":42,"unit":"k$"}`,
			KPICardPayload{Label: "MRR", Value: 42, Unit: "k$"}},
		{KindPieChart, `{"segments":[{"label":"EU","value":60}]}`,
			PieChartPayload{Segments: []PieSegment{{Label: "EU", Value: 60}}}},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			got, err := DecodePayload(tc.kind, json.RawMessage(tc.raw))
			if err != nil {
				t.Fatalf("DecodePayload: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("DecodePayload = %#v, want %#v", got, tc.want)
			}
			if got.PayloadKind() != tc.kind {
				t.Errorf("PayloadKind = %s, want %s", got.PayloadKind(), tc.kind)
			}
		})
	}
}

/* Unknown-kind payloads keep their raw document intact through a decode and
 * re-encode cycle, so third-party widget configs survive persistence. */
func TestDecodePayloadUnknownKindPreservesDocument(t *testing.T) {
	raw := `{"lat":52.5,"lon":13.4,"layers":["wind","rain"]}`
	payload, err := DecodePayload(WidgetKind("WEATHER_MAP"), json.RawMessage(raw))
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}

	placeholder, ok := payload.(PlaceholderPayload)
	if !ok {
		t.Fatalf("unknown kind decoded to %T, want PlaceholderPayload", payload)
	}

	encoded, err := json.Marshal(placeholder)
	if err != nil {
		t.Fatalf("marshal placeholder: %v", err)
	}

	var original, roundTripped map[string]interface{}
	json.Unmarshal([]byte(raw), &original)
	json.Unmarshal(encoded, &roundTripped)
	if !reflect.DeepEqual(original, roundTripped) {
		t.Errorf("placeholder did not preserve document: %s vs %s", raw, encoded)
	}
}

func TestWidgetUnmarshalDecodesPayloadByKind(t *testing.T) {
	blob := `{
		"id": "w1",
		"type": "KPI_CARD",
		"title": "MRR",
		"data": {"label": "MRR", "value": 42}
	}`
	var w Widget
	if err := json.Unmarshal([]byte(blob), &w); err != nil {
		t.Fatalf("unmarshal widget: %v", err)
	}
	payload, ok := w.Payload.(KPICardPayload)
	if !ok {
		t.Fatalf("payload decoded to %T, want KPICardPayload", w.Payload)
	}
	if payload.Label != "MRR" || payload.Value != 42 {
		t.Errorf("payload fields wrong: %+v", payload)
	}
}

func TestKindsListsEveryRegisteredKind(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 12 {
		t.Fatalf("expected 12 registered kinds, got %d", len(kinds))
	}
	seen := map[WidgetKind]bool{}
	for _, desc := range kinds {
		if seen[desc.Kind] {
			t.Errorf("kind %s listed twice", desc.Kind)
		}
		seen[desc.Kind] = true
	}
}
