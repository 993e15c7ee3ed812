package statechart

import "fmt"

// DuplicateNodeNameError reports a second registration under an existing name.
type DuplicateNodeNameError struct {
	Name string
}

func (e *DuplicateNodeNameError) Error() string {
	return fmt.Sprintf("node %q is already registered", e.Name)
}

// UnresolvedReferenceError reports a condition leaf naming a node that is
// absent from the registry at evaluation time. This is a construction-order
// bug, never a transient condition.
type UnresolvedReferenceError struct {
	Name string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("condition references unknown node %q", e.Name)
}

// DuplicateConstraintError reports a task-name collision while merging the
// constraints of one goal into another.
type DuplicateConstraintError struct {
	Goal string
	Task string
}

func (e *DuplicateConstraintError) Error() string {
	return fmt.Sprintf("goal %q already owns a task named %q", e.Goal, e.Task)
}

// GoalInitializationError reports a goal finalized without any tasks.
type GoalInitializationError struct {
	Goal string
}

func (e *GoalInitializationError) Error() string {
	return fmt.Sprintf("goal %q has no tasks", e.Goal)
}

// EmptySequenceError reports sequence composition over zero nodes.
type EmptySequenceError struct{}

func (e *EmptySequenceError) Error() string {
	return "cannot arrange an empty list of nodes in sequence"
}
