package statechart

import "fmt"

// Expr is an immutable boolean formula over node predicates. Evaluating an
// expression twice against the same snapshot yields the same result; nothing
// here has side effects.
type Expr interface {
	// Eval resolves every reference leaf against the snapshot.
	Eval(snap *Snapshot) (bool, error)
	// String renders the expression in the textual condition syntax accepted
	// by condparse, so composed expressions round-trip.
	String() string
}

// True and False are the identity literals. The smart constructors compare
// against them to keep the neutral-element collapses exact: a default end
// condition of False means "never auto-end" and must never be upgraded by
// composition.
var (
	True  Expr = literal(true)
	False Expr = literal(false)
)

type literal bool

func (l literal) Eval(*Snapshot) (bool, error) { return bool(l), nil }

func (l literal) String() string {
	if l {
		return "true"
	}
	return "false"
}

// Lit returns the literal expression for v.
func Lit(v bool) Expr {
	return literal(v)
}

type reference struct {
	node string
	pred Predicate
}

func (r reference) Eval(snap *Snapshot) (bool, error) {
	st, ok := snap.State(r.node)
	if !ok {
		return false, &UnresolvedReferenceError{Name: r.node}
	}
	switch r.pred {
	case IsDormant:
		return st == Dormant, nil
	case IsRunning:
		return st == Running, nil
	case IsPaused:
		return st == Paused, nil
	case IsEnded:
		return st == Ended, nil
	case IsDone:
		return snap.Done(r.node), nil
	default:
		return false, fmt.Errorf("unknown predicate %v on node %q", r.pred, r.node)
	}
}

func (r reference) String() string {
	return fmt.Sprintf("%s('%s')", r.pred, r.node)
}

// Ref returns the leaf expression testing pred on the named node.
func Ref(node string, pred Predicate) Expr {
	return reference{node: node, pred: pred}
}

type and struct{ left, right Expr }

func (a and) Eval(snap *Snapshot) (bool, error) {
	l, err := a.left.Eval(snap)
	if err != nil {
		return false, err
	}
	if !l {
		return false, nil
	}
	return a.right.Eval(snap)
}

func (a and) String() string {
	return fmt.Sprintf("(%s and %s)", a.left, a.right)
}

// And conjoins two expressions. Conjoining with True is a no-op and
// conjoining with False collapses the whole expression to False.
func And(a, b Expr) Expr {
	if a == True {
		return b
	}
	if b == True {
		return a
	}
	if a == False || b == False {
		return False
	}
	return and{left: a, right: b}
}

type or struct{ left, right Expr }

func (o or) Eval(snap *Snapshot) (bool, error) {
	l, err := o.left.Eval(snap)
	if err != nil {
		return false, err
	}
	if l {
		return true, nil
	}
	return o.right.Eval(snap)
}

func (o or) String() string {
	return fmt.Sprintf("(%s or %s)", o.left, o.right)
}

// Or disjoins two expressions. Disjoining with False is a no-op and
// disjoining with True collapses the whole expression to True.
func Or(a, b Expr) Expr {
	if a == False {
		return b
	}
	if b == False {
		return a
	}
	if a == True || b == True {
		return True
	}
	return or{left: a, right: b}
}

type not struct{ inner Expr }

func (n not) Eval(snap *Snapshot) (bool, error) {
	v, err := n.inner.Eval(snap)
	if err != nil {
		return false, err
	}
	return !v, nil
}

func (n not) String() string {
	return "not " + n.inner.String()
}

// Not negates an expression, folding literals.
func Not(e Expr) Expr {
	if e == True {
		return False
	}
	if e == False {
		return True
	}
	return not{inner: e}
}

// RefLeaf describes one reference leaf of an expression.
type RefLeaf struct {
	Node string
	Pred Predicate
}

// CollectRefs returns every reference leaf of e in left-to-right order.
// Used for construction-time validation and for rendering the graph.
func CollectRefs(e Expr) []RefLeaf {
	var out []RefLeaf
	collectRefs(e, &out)
	return out
}

func collectRefs(e Expr, out *[]RefLeaf) {
	switch v := e.(type) {
	case reference:
		*out = append(*out, RefLeaf{Node: v.node, Pred: v.pred})
	case and:
		collectRefs(v.left, out)
		collectRefs(v.right, out)
	case or:
		collectRefs(v.left, out)
		collectRefs(v.right, out)
	case not:
		collectRefs(v.inner, out)
	}
}
