package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/motionkit/statechart/internal/app"
	"github.com/motionkit/statechart/internal/statechart"
	"github.com/motionkit/statechart/internal/statechart/cache"
	"github.com/motionkit/statechart/internal/statechart/chart"
	"github.com/motionkit/statechart/internal/transport/httptransport"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := app.NewService(chart.NewCompiler(), statechart.NewEngine(), cache.NewInMemory(16))
	h := httptransport.NewHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("/simulate", h.Simulate)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Post(srv.URL+"/simulate", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, out
}

func TestSimulate_EndToEnd_SequenceCompletes(t *testing.T) {
	srv := newServer(t)

	req := map[string]any{
		"chart_yaml": `
name: pick
tasks:
  - name: reach
  - name: grasp
sequences:
  - [reach, grasp]
`,
		"ticks": []map[string]bool{
			nil,
			{"reach": true},
			nil,
			{"grasp": true},
		},
		"chart_id":      "pick",
		"chart_version": "v1",
	}
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}

	status, out := post(t, srv, string(body))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %#v", status, out)
	}

	result, ok := out["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected result object, got %#v", out)
	}
	final, ok := result["final_states"].(map[string]any)
	if !ok {
		t.Fatalf("expected final_states, got %#v", result)
	}
	if final["reach"] != "ended" || final["grasp"] != "ended" {
		t.Fatalf("expected both tasks ended, got %#v", final)
	}

	info, ok := out["chart"].(map[string]any)
	if !ok || info["id"] != "pick" || info["version"] != "v1" {
		t.Fatalf("unexpected chart info: %#v", out["chart"])
	}
}

func TestSimulate_EndToEnd_DebugTraceShowsTransitions(t *testing.T) {
	srv := newServer(t)

	req := map[string]any{
		"chart_yaml": "tasks:\n  - name: t\n    end: \"done('t')\"\n",
		"ticks":      []map[string]bool{nil, {"t": true}},
		"debug":      true,
	}
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}

	status, out := post(t, srv, string(body))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %#v", status, out)
	}

	trace, ok := out["trace"].(map[string]any)
	if !ok {
		t.Fatalf("expected trace object, got %#v", out["trace"])
	}
	ticks, ok := trace["ticks"].([]any)
	if !ok || len(ticks) != 2 {
		t.Fatalf("expected 2 tick traces, got %#v", trace["ticks"])
	}
}

func TestSimulate_EndToEnd_ConstructionErrorsAre400(t *testing.T) {
	srv := newServer(t)

	cases := []struct {
		name string
		yaml string
	}{
		{"duplicate name", "tasks:\n  - name: grasp\n  - name: grasp\n"},
		{"unknown reference", "tasks:\n  - name: t\n    start: \"ended('ghost')\"\n"},
		{"goal without tasks", "tasks:\n  - name: t\ngoals:\n  - name: g\n"},
		{"malformed condition", "tasks:\n  - name: t\n    end: \"1 + 2\"\n"},
	}

	for _, tc := range cases {
		req := map[string]any{"chart_yaml": tc.yaml}
		body, err := json.Marshal(req)
		if err != nil {
			t.Fatal(err)
		}
		status, out := post(t, srv, string(body))
		if status != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %#v", tc.name, status, out)
		}
		if out["error"] != "simulate failed" {
			t.Fatalf("%s: unexpected error body: %#v", tc.name, out)
		}
	}
}

func TestSimulate_EndToEnd_RepeatedChartsHitTheCache(t *testing.T) {
	srv := newServer(t)

	req := map[string]any{
		"chart_yaml": "tasks:\n  - name: t\n",
		"ticks":      []map[string]bool{nil},
	}
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}

	// Same definition twice: the second run must start from Dormant again,
	// proving cached templates are not mutated across requests.
	for i := 0; i < 2; i++ {
		status, out := post(t, srv, string(body))
		if status != http.StatusOK {
			t.Fatalf("run %d: expected 200, got %d", i, status)
		}
		result := out["result"].(map[string]any)
		final := result["final_states"].(map[string]any)
		if final["t"] != "running" {
			t.Fatalf("run %d: expected t running after one tick, got %#v", i, final)
		}
	}
}
