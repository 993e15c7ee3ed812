package statechart

import (
	"errors"
	"testing"
)

func TestArrangeInSequence_EmptyFails(t *testing.T) {
	err := ArrangeInSequence(nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	var empty *EmptySequenceError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptySequenceError, got %v", err)
	}
}

func TestArrangeInSequence_RunsStrictlyInOrder(t *testing.T) {
	reg := NewRegistry()
	a := NewTask("a", nil)
	b := NewTask("b", nil)
	c := NewTask("c", nil)
	nodes := []*Node{a, b, c}
	for _, n := range nodes {
		if err := reg.Register(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := ArrangeInSequence(nodes); err != nil {
		t.Fatal(err)
	}

	e := NewEngine()

	// Completion signals arrive a few ticks apart; the chain must never run
	// two nodes at once and must respect the order a, b, c.
	script := []Observations{
		nil,
		nil,
		{"a": true},
		nil,
		{"b": true},
		nil,
		{"c": true},
		nil,
	}

	var sawB, sawC bool
	for i, obs := range script {
		active, err := e.Tick(reg, obs)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if len(active) > 1 {
			t.Fatalf("tick %d: more than one chain node running: %v", i, active)
		}
		if b.State() == Running {
			if a.State() != Ended {
				t.Fatalf("tick %d: b running before a ended", i)
			}
			sawB = true
		}
		if c.State() == Running {
			if b.State() != Ended {
				t.Fatalf("tick %d: c running before b ended", i)
			}
			sawC = true
		}
	}

	if !sawB || !sawC {
		t.Fatalf("expected b and c to run (sawB=%v sawC=%v)", sawB, sawC)
	}
	for _, n := range nodes {
		if n.State() != Ended {
			t.Fatalf("expected %q Ended, got %v", n.Name, n.State())
		}
	}
}

func TestArrangeInSequence_StalledNodeBlocksTheChain(t *testing.T) {
	reg := NewRegistry()
	a := NewTask("a", nil)
	b := NewTask("b", nil)
	nodes := []*Node{a, b}
	for _, n := range nodes {
		if err := reg.Register(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := ArrangeInSequence(nodes); err != nil {
		t.Fatal(err)
	}

	e := NewEngine()
	// a never reports done.
	for i := 0; i < 5; i++ {
		if _, err := e.Tick(reg, nil); err != nil {
			t.Fatal(err)
		}
	}

	if a.State() != Running {
		t.Fatalf("expected a still Running, got %v", a.State())
	}
	if b.State() != Dormant {
		t.Fatalf("expected b blocked in Dormant, got %v", b.State())
	}
}

func TestArrangeInSequence_SingleNode(t *testing.T) {
	reg := NewRegistry()
	a := NewTask("a", nil)
	if err := reg.Register(a); err != nil {
		t.Fatal(err)
	}
	if err := ArrangeInSequence([]*Node{a}); err != nil {
		t.Fatal(err)
	}

	e := NewEngine()
	if _, err := e.Tick(reg, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Tick(reg, Observations{"a": true}); err != nil {
		t.Fatal(err)
	}
	if a.State() != Ended {
		t.Fatalf("expected Ended, got %v", a.State())
	}
}
