package app

import (
	"fmt"
	"testing"

	"github.com/motionkit/statechart/internal/statechart"
	"github.com/motionkit/statechart/internal/statechart/chart"
)

type fakeCompiler struct {
	calls int
	err   error
}

func (f *fakeCompiler) Compile(src []byte) (*chart.Chart, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return chart.NewCompiler().Compile(src)
}

type passthroughCache struct {
	calls int
}

func (c *passthroughCache) GetOrCompute(def string, fn func() (*chart.Chart, error)) (*chart.Chart, error) {
	c.calls++
	return fn()
}

const seqChart = `
name: seq
tasks:
  - name: a
  - name: b
sequences:
  - [a, b]
`

func newService() (*Service, *fakeCompiler, *passthroughCache) {
	comp := &fakeCompiler{}
	c := &passthroughCache{}
	svc := NewService(comp, statechart.NewEngine(), c)
	return svc, comp, c
}

func TestService_Simulate_RequiresChart(t *testing.T) {
	svc, _, _ := newService()
	_, _, err := svc.Simulate("", nil, Options{})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestService_Simulate_RunsScriptedTicks(t *testing.T) {
	svc, _, _ := newService()

	script := []statechart.Observations{
		nil,
		{"a": true},
		nil,
	}
	result, info, err := svc.Simulate(seqChart, script, Options{ChartID: "seq-1"})
	if err != nil {
		t.Fatal(err)
	}

	if result.Ticks != 3 {
		t.Fatalf("expected 3 ticks, got %d", result.Ticks)
	}
	if result.Final["a"] != "ended" {
		t.Fatalf("expected a ended, got %q", result.Final["a"])
	}
	if result.Final["b"] != "running" {
		t.Fatalf("expected b running after its predecessor ended, got %q", result.Final["b"])
	}
	if len(result.Constraints) != 1 {
		t.Fatalf("expected 1 live constraint, got %d", len(result.Constraints))
	}
	if info.ID != "seq-1" || info.Name != "seq" || info.Nodes != 2 {
		t.Fatalf("unexpected chart info: %#v", info)
	}
}

func TestService_Simulate_FreeRunStopsWhenQuiescent(t *testing.T) {
	svc, _, _ := newService()

	// Without observations the chain starts a and then stalls: a never
	// reports done, so after two ticks nothing can transition.
	result, _, err := svc.Simulate(seqChart, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Quiescent {
		t.Fatalf("expected quiescent run")
	}
	if result.Final["a"] != "running" || result.Final["b"] != "dormant" {
		t.Fatalf("unexpected final states: %#v", result.Final)
	}
}

func TestService_Simulate_FreeRunHonorsMaxTicks(t *testing.T) {
	comp := &fakeCompiler{}
	svc := NewService(comp, statechart.NewEngine(), &passthroughCache{}, WithMaxTicks(3))

	// a flaps between Paused and Running forever, so the run never quiesces.
	flapping := `
tasks:
  - name: a
    pause: "not paused('a')"
`
	_, _, err := svc.Simulate(flapping, nil, Options{})
	if err == nil {
		t.Fatalf("expected maxTicks error")
	}
}

func TestService_Simulate_DoesNotMutateCachedTemplate(t *testing.T) {
	comp := &fakeCompiler{}
	template, err := chart.NewCompiler().Compile([]byte(seqChart))
	if err != nil {
		t.Fatal(err)
	}
	cache := &stickyCache{ch: template}
	svc := NewService(comp, statechart.NewEngine(), cache)

	for i := 0; i < 2; i++ {
		result, _, err := svc.Simulate(seqChart, []statechart.Observations{nil}, Options{})
		if err != nil {
			t.Fatal(err)
		}
		// A mutated template would already be Running and fire no
		// transition on the single tick of the second run.
		if result.Final["a"] != "running" {
			t.Fatalf("run %d: expected a running, got %q", i, result.Final["a"])
		}
	}

	a, _ := template.Registry().Resolve("a")
	if a.State() != statechart.Dormant {
		t.Fatalf("expected cached template untouched, got %v", a.State())
	}
}

type stickyCache struct {
	ch *chart.Chart
}

func (c *stickyCache) GetOrCompute(string, func() (*chart.Chart, error)) (*chart.Chart, error) {
	return c.ch, nil
}

func TestService_Simulate_BubblesCompileErrors(t *testing.T) {
	comp := &fakeCompiler{err: fmt.Errorf("compile fail")}
	svc := NewService(comp, statechart.NewEngine(), &passthroughCache{})

	_, _, err := svc.Simulate("tasks: []", nil, Options{})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestService_SimulateWithTrace_RecordsPerTickTransitions(t *testing.T) {
	svc, _, _ := newService()

	script := []statechart.Observations{
		nil,
		{"a": true},
	}
	_, trace, _, err := svc.SimulateWithTrace(seqChart, script, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(trace.Ticks) != 2 {
		t.Fatalf("expected 2 tick traces, got %d", len(trace.Ticks))
	}
	first := trace.Ticks[0]
	if len(first.Transitions) != 1 || first.Transitions[0].Node != "a" {
		t.Fatalf("unexpected first tick transitions: %#v", first.Transitions)
	}
	second := trace.Ticks[1]
	if len(second.Transitions) != 1 || second.Transitions[0].ToState != "ended" {
		t.Fatalf("unexpected second tick transitions: %#v", second.Transitions)
	}
}
