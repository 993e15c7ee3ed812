package statechart

// Observations carries the per-tick completion signals resolved by the world
// layer before the tick begins: node name -> whether its own completion
// criterion was observed true. Absent names read as false.
type Observations map[string]bool

// Registry is the sole source of truth mapping node names to nodes for one
// motion execution episode. It is passed explicitly to everything that needs
// to resolve a reference; there is no ambient global.
type Registry struct {
	nodes map[string]*Node
	order []string
}

func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]*Node)}
}

// Register adds a node under its name. A name collision is a construction
// bug and fails with DuplicateNodeNameError before any evaluation happens.
func (r *Registry) Register(n *Node) error {
	if _, ok := r.nodes[n.Name]; ok {
		return &DuplicateNodeNameError{Name: n.Name}
	}
	r.nodes[n.Name] = n
	r.order = append(r.order, n.Name)
	return nil
}

// Resolve returns the node registered under name.
func (r *Registry) Resolve(name string) (*Node, error) {
	n, ok := r.nodes[name]
	if !ok {
		return nil, &UnresolvedReferenceError{Name: name}
	}
	return n, nil
}

// Names returns all registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int { return len(r.nodes) }

// ValidateRefs checks that every reference leaf of e resolves against the
// registry. Called at construction time, after all nodes are registered, so
// that forward references are fine but typos fail before the first tick.
func (r *Registry) ValidateRefs(e Expr) error {
	for _, ref := range CollectRefs(e) {
		if _, ok := r.nodes[ref.Node]; !ok {
			return &UnresolvedReferenceError{Name: ref.Node}
		}
	}
	return nil
}

// Snapshot captures every node's lifecycle state plus the tick's observations.
// All conditions of one tick evaluate against the same snapshot, so a node
// evaluated first never sees a sibling's already-updated state.
type Snapshot struct {
	states   map[string]State
	observed Observations
}

// Snapshot reads the current states into an immutable view for one tick.
func (r *Registry) Snapshot(obs Observations) *Snapshot {
	states := make(map[string]State, len(r.nodes))
	for name, n := range r.nodes {
		states[name] = n.state
	}
	return &Snapshot{states: states, observed: obs}
}

// State returns the snapshotted lifecycle state of the named node.
func (s *Snapshot) State(name string) (State, bool) {
	st, ok := s.states[name]
	return st, ok
}

// Done returns the tick's completion observation for the named node.
func (s *Snapshot) Done(name string) bool {
	return s.observed[name]
}
