package statechart

// ArrangeInSequence wires nodes into a strict chain: each node ends on its
// own completion signal (the done observation), and every node after the
// first starts only once its predecessor has ended. At most one node of the
// chain is Running at any tick. A node that never reports done blocks the
// rest of the chain; that is the caller's responsibility, not fixed here.
func ArrangeInSequence(nodes []*Node) error {
	if len(nodes) == 0 {
		return &EmptySequenceError{}
	}

	prev := nodes[0]
	prev.End = Ref(prev.Name, IsDone)
	for _, node := range nodes[1:] {
		node.Start = Ref(prev.Name, IsEnded)
		node.End = Ref(node.Name, IsDone)
		prev = node
	}
	return nil
}
