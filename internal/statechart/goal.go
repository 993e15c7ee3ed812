package statechart

// Goal groups child tasks, monitors and nested goals under one name. The
// children are independently registered; the goal holds references only.
// Whether a goal as a whole counts as ended is aggregate logic owned by the
// evaluating consumer; this core provides registration and condition
// propagation.
type Goal struct {
	Node

	Tasks    []*Node
	Monitors []*Node
	Goals    []*Goal
}

func NewGoal(name string) *Goal {
	return &Goal{Node: *newNode(name, KindGoal)}
}

// AddTask appends a task. No uniqueness check here: direct addition trusts
// the caller, only AddConstraintsOf guards against collisions.
func (g *Goal) AddTask(task *Node) {
	g.Tasks = append(g.Tasks, task)
}

func (g *Goal) AddMonitor(monitor *Node) {
	g.Monitors = append(g.Monitors, monitor)
}

func (g *Goal) AddGoal(sub *Goal) {
	g.Goals = append(g.Goals, sub)
}

// AddConstraintsOf merges every task of other into g. Two independently
// authored goals must not silently shadow each other's named constraints, so
// a task name g already owns fails with DuplicateConstraintError.
func (g *Goal) AddConstraintsOf(other *Goal) error {
	for _, task := range other.Tasks {
		if g.ownsTask(task.Name) {
			return &DuplicateConstraintError{Goal: g.Name, Task: task.Name}
		}
		g.Tasks = append(g.Tasks, task)
	}
	return nil
}

func (g *Goal) ownsTask(name string) bool {
	for _, t := range g.Tasks {
		if t.Name == name {
			return true
		}
	}
	return false
}

// ConnectStartToTasks conjoins cond onto every child task's start condition.
func (g *Goal) ConnectStartToTasks(cond Expr) {
	for _, task := range g.Tasks {
		task.TightenStart(cond)
	}
}

// ConnectPauseToTasks disjoins cond onto every child task's pause condition.
func (g *Goal) ConnectPauseToTasks(cond Expr) {
	for _, task := range g.Tasks {
		task.WidenPause(cond)
	}
}

// ConnectEndToTasks conjoins cond onto every child task's end condition,
// honoring the False sentinel rules of Node.TightenEnd.
func (g *Goal) ConnectEndToTasks(cond Expr) {
	for _, task := range g.Tasks {
		task.TightenEnd(cond)
	}
}

// ConnectToTasks injects all three gates at once.
func (g *Goal) ConnectToTasks(start, pause, end Expr) {
	g.ConnectStartToTasks(start)
	g.ConnectPauseToTasks(pause)
	g.ConnectEndToTasks(end)
}

// HasTasks reports whether the goal owns at least one task.
func (g *Goal) HasTasks() bool {
	return len(g.Tasks) > 0
}

// Finalize is the construction-time sanity check: a goal with no observable
// effect is a configuration error, not a silent no-op.
func (g *Goal) Finalize() error {
	if !g.HasTasks() {
		return &GoalInitializationError{Goal: g.Name}
	}
	return nil
}
