package statechart

import (
	"fmt"
	"time"
)

// Transition records one node's state change during a tick.
type Transition struct {
	Node string `json:"node"`
	From State  `json:"-"`
	To   State  `json:"-"`
	// FromState and ToState carry the readable forms for trace output.
	FromState string `json:"from"`
	ToState   string `json:"to"`
}

// TickReport is the outcome of one tick: the Running set in registration
// order and every transition that fired.
type TickReport struct {
	Active      []string
	Transitions []Transition
}

// Engine advances all registered nodes by one tick at a time. It is the only
// writer of node lifecycle states; the scheduling model is single-threaded
// and cooperative, one tick runs to completion before the next begins.
type Engine struct {
	tickObserver TickLatencyObserver
}

type EngineOption func(*Engine)

// WithTickLatencyObserver installs an observer called once per completed tick.
func WithTickLatencyObserver(observer TickLatencyObserver) EngineOption {
	return func(e *Engine) {
		e.tickObserver = observer
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tick runs one evaluation cycle and returns the names of nodes whose effect
// is active this cycle (the Running set), in registration order.
func (e *Engine) Tick(reg *Registry, obs Observations) ([]string, error) {
	report, err := e.TickWithTrace(reg, obs)
	if err != nil {
		return nil, err
	}
	return report.Active, nil
}

// TickWithTrace runs one evaluation cycle. All conditions are evaluated
// against a snapshot taken at tick start, then every resulting transition is
// applied at tick end, so results never depend on iteration order.
func (e *Engine) TickWithTrace(reg *Registry, obs Observations) (*TickReport, error) {
	started := time.Now()
	snap := reg.Snapshot(obs)

	next := make(map[string]State, reg.Len())
	for _, name := range reg.Names() {
		node, err := reg.Resolve(name)
		if err != nil {
			return nil, err
		}
		st, err := nextState(node, snap)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		next[name] = st
	}

	report := &TickReport{}
	for _, name := range reg.Names() {
		node, _ := reg.Resolve(name)
		from := node.state
		to := next[name]
		if to != from {
			node.state = to
			report.Transitions = append(report.Transitions, Transition{
				Node:      name,
				From:      from,
				To:        to,
				FromState: from.String(),
				ToState:   to.String(),
			})
		}
		if to == Running {
			report.Active = append(report.Active, name)
		}
	}

	if e.tickObserver != nil {
		e.tickObserver.ObserveTick(time.Since(started), len(report.Active))
	}
	return report, nil
}

// nextState applies the transition rules in precedence order, first match
// wins: Ended is absorbing; end beats pause; then start, pause, resume.
func nextState(n *Node, snap *Snapshot) (State, error) {
	switch n.state {
	case Ended:
		return Ended, nil

	case Running, Paused:
		end, err := n.End.Eval(snap)
		if err != nil {
			return n.state, err
		}
		if end {
			return Ended, nil
		}
		pause, err := n.Pause.Eval(snap)
		if err != nil {
			return n.state, err
		}
		if pause {
			return Paused, nil
		}
		return Running, nil

	case Dormant:
		start, err := n.Start.Eval(snap)
		if err != nil {
			return n.state, err
		}
		if start {
			return Running, nil
		}
		return Dormant, nil

	default:
		return n.state, fmt.Errorf("unknown lifecycle state %v", n.state)
	}
}
