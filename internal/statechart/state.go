// Package statechart implements the condition graph that schedules motion
// behavior nodes. Tasks, monitors and goals are registered under unique names;
// boolean conditions over other nodes' lifecycle states gate when each node
// starts, pauses and ends. A tick engine re-evaluates every condition once per
// control cycle against a stable snapshot and advances each node through
// Dormant -> Running -> {Paused <-> Running} -> Ended.
package statechart

import "fmt"

// State is the lifecycle state of a node. Ended is terminal.
type State int

const (
	Dormant State = iota
	Running
	Paused
	Ended
)

func (s State) String() string {
	switch s {
	case Dormant:
		return "dormant"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Predicate is the test a condition leaf applies to a referenced node.
// The lifecycle predicates read the node's State; IsDone reads the node's
// completion signal as observed by the world layer for the current tick.
type Predicate int

const (
	IsDormant Predicate = iota
	IsRunning
	IsPaused
	IsEnded
	IsDone
)

func (p Predicate) String() string {
	switch p {
	case IsDormant:
		return "dormant"
	case IsRunning:
		return "running"
	case IsPaused:
		return "paused"
	case IsEnded:
		return "ended"
	case IsDone:
		return "done"
	default:
		return fmt.Sprintf("predicate(%d)", int(p))
	}
}
