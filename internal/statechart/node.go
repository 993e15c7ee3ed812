package statechart

// Kind distinguishes the three node flavors sharing the same lifecycle.
type Kind int

const (
	// KindTask contributes a named constraint to the active set while Running.
	KindTask Kind = iota
	// KindMonitor observes world state; its predicates gate other nodes.
	KindMonitor
	// KindGoal groups child tasks, monitors and nested goals under one name.
	KindGoal
)

func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindMonitor:
		return "monitor"
	case KindGoal:
		return "goal"
	default:
		return "node"
	}
}

// Node is the shared base of tasks, monitors and goals: a unique name, the
// three gate conditions and the current lifecycle state. Nodes are built and
// registered before the first tick; after that only the lifecycle state
// changes, and only the tick engine changes it.
type Node struct {
	Name string
	Kind Kind

	// Start gates Dormant -> Running. Default True: eligible immediately.
	Start Expr
	// Pause gates Running <-> Paused. Default False: never paused.
	Pause Expr
	// End gates {Running,Paused} -> Ended. The default False is a sentinel
	// meaning "never auto-end", not a criterion.
	End Expr

	// Constraint is the opaque handle a task contributes while Running.
	// Only its presence matters to this core. Nil for monitors and goals.
	Constraint any

	state State
}

func newNode(name string, kind Kind) *Node {
	return &Node{
		Name:  name,
		Kind:  kind,
		Start: True,
		Pause: False,
		End:   False,
	}
}

// NewTask returns a task node carrying the given constraint handle.
func NewTask(name string, constraint any) *Node {
	n := newNode(name, KindTask)
	n.Constraint = constraint
	return n
}

// NewMonitor returns a monitor node.
func NewMonitor(name string) *Node {
	return newNode(name, KindMonitor)
}

// State returns the node's current lifecycle state.
func (n *Node) State() State { return n.state }

// TightenStart conjoins cond onto the start condition. A start condition
// still at the default True is replaced outright, leaving no True-and noise.
func (n *Node) TightenStart(cond Expr) {
	n.Start = And(n.Start, cond)
}

// WidenPause disjoins cond onto the pause condition: every independent reason
// to pause is sufficient on its own. The default False is replaced outright.
func (n *Node) WidenPause(cond Expr) {
	n.Pause = Or(n.Pause, cond)
}

// TightenEnd conjoins cond onto the end condition, with two exceptions. An
// incoming False is ignored: forcing "never auto-end" is never implicit. An
// end condition still at the False sentinel means "no criterion yet" and is
// replaced by cond, since conjoining onto False would wrongly collapse the
// result to False.
func (n *Node) TightenEnd(cond Expr) {
	if cond == False {
		return
	}
	if n.End == False {
		n.End = cond
		return
	}
	n.End = And(n.End, cond)
}

// Clone returns a copy of the node with a fresh Dormant lifecycle state.
// Conditions are immutable values and are shared.
func (n *Node) Clone() *Node {
	c := *n
	c.state = Dormant
	return &c
}
