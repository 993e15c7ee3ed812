package chart

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"github.com/motionkit/statechart/internal/statechart"
)

// DOT renders the chart as a directed graph: one node per registered node,
// one edge per condition reference, pointing from the referenced node to the
// node it gates. Pause edges are dashed since they are widened, not
// tightened, by composition.
func (c *Chart) DOT() (string, error) {
	g := gographviz.NewGraph()

	graphName := c.name
	if graphName == "" {
		graphName = "statechart"
	}
	graphName = strconv.Quote(graphName)
	if err := g.SetName(graphName); err != nil {
		return "", fmt.Errorf("failed to name graph: %w", err)
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	for _, name := range c.reg.Names() {
		n, err := c.reg.Resolve(name)
		if err != nil {
			return "", err
		}
		attrs := map[string]string{
			"shape": shapeFor(n.Kind),
			"label": strconv.Quote(fmt.Sprintf("%s\\n[%s]", n.Name, n.Kind)),
		}
		if err := g.AddNode(graphName, strconv.Quote(name), attrs); err != nil {
			return "", fmt.Errorf("failed to add node %q: %w", name, err)
		}
	}

	for _, name := range c.reg.Names() {
		n, _ := c.reg.Resolve(name)
		gates := []struct {
			gate string
			cond statechart.Expr
		}{
			{"start", n.Start},
			{"pause", n.Pause},
			{"end", n.End},
		}
		for _, gc := range gates {
			for _, ref := range statechart.CollectRefs(gc.cond) {
				attrs := map[string]string{
					"label": strconv.Quote(fmt.Sprintf("%s: %s", gc.gate, ref.Pred)),
				}
				if gc.gate == "pause" {
					attrs["style"] = "dashed"
				}
				if err := g.AddEdge(strconv.Quote(ref.Node), strconv.Quote(name), true, attrs); err != nil {
					return "", fmt.Errorf("failed to add edge %s -> %s: %w", ref.Node, name, err)
				}
			}
		}
	}

	return g.String(), nil
}

func shapeFor(k statechart.Kind) string {
	switch k {
	case statechart.KindTask:
		return "box"
	case statechart.KindMonitor:
		return "ellipse"
	case statechart.KindGoal:
		return "folder"
	default:
		return "plaintext"
	}
}
