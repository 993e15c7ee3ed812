// Package chart compiles YAML statechart definitions into registered,
// validated condition graphs, and renders them as DOT for inspection.
package chart

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/motionkit/statechart/internal/statechart"
	"github.com/motionkit/statechart/internal/statechart/condparse"
)

// Definition is the YAML shape of a statechart.
type Definition struct {
	Name      string     `yaml:"name"`
	Tasks     []TaskDef  `yaml:"tasks"`
	Monitors  []NodeDef  `yaml:"monitors"`
	Goals     []GoalDef  `yaml:"goals"`
	Sequences [][]string `yaml:"sequences"`
}

// NodeDef carries a node name and its optional gate conditions. An absent
// condition keeps the node's default gate.
type NodeDef struct {
	Name  string `yaml:"name"`
	Start string `yaml:"start"`
	Pause string `yaml:"pause"`
	End   string `yaml:"end"`
}

// TaskDef adds the opaque constraint handle a task contributes while running.
type TaskDef struct {
	NodeDef    `yaml:",inline"`
	Constraint string `yaml:"constraint"`
}

// GoalDef lists the goal's children by name plus optional bulk-injected
// conditions for its tasks.
type GoalDef struct {
	NodeDef  `yaml:",inline"`
	Tasks    []string    `yaml:"tasks"`
	Monitors []string    `yaml:"monitors"`
	Goals    []string    `yaml:"goals"`
	Connect  *ConnectDef `yaml:"connect"`
}

// ConnectDef is bulk-condition injection onto every task of a goal: start and
// end conditions are conjoined, pause conditions are disjoined.
type ConnectDef struct {
	Start string `yaml:"start"`
	Pause string `yaml:"pause"`
	End   string `yaml:"end"`
}

// Chart is a compiled statechart: all nodes registered, conditions parsed,
// sequences arranged, goals finalized, references validated. A Chart is a
// template; run against a Clone so cached charts stay reusable.
type Chart struct {
	name  string
	reg   *statechart.Registry
	goals map[string]*statechart.Goal
}

func (c *Chart) Name() string { return c.name }

// Registry returns the chart's node registry.
func (c *Chart) Registry() *statechart.Registry { return c.reg }

// Goal returns the named goal, or nil.
func (c *Chart) Goal(name string) *statechart.Goal { return c.goals[name] }

// Compiler turns YAML definitions into validated charts.
type Compiler struct{}

func NewCompiler() *Compiler { return &Compiler{} }

// Compile parses and validates src. Every construction error surfaces here,
// before the first tick: duplicate names,
// unknown references, malformed conditions, goals without tasks, empty
// sequences.
func (c *Compiler) Compile(src []byte) (*Chart, error) {
	var def Definition
	if err := yaml.Unmarshal(src, &def); err != nil {
		return nil, fmt.Errorf("failed to parse chart definition: %w", err)
	}
	if len(def.Tasks) == 0 && len(def.Monitors) == 0 {
		return nil, fmt.Errorf("chart %q declares no tasks or monitors", def.Name)
	}

	ch := &Chart{
		name:  def.Name,
		reg:   statechart.NewRegistry(),
		goals: make(map[string]*statechart.Goal),
	}

	// Register everything first so conditions may reference forward.
	for _, td := range def.Tasks {
		if td.Name == "" {
			return nil, fmt.Errorf("task with empty name")
		}
		constraint := td.Constraint
		if constraint == "" {
			constraint = td.Name
		}
		if err := ch.reg.Register(statechart.NewTask(td.Name, constraint)); err != nil {
			return nil, err
		}
	}
	for _, md := range def.Monitors {
		if md.Name == "" {
			return nil, fmt.Errorf("monitor with empty name")
		}
		if err := ch.reg.Register(statechart.NewMonitor(md.Name)); err != nil {
			return nil, err
		}
	}
	for _, gd := range def.Goals {
		if gd.Name == "" {
			return nil, fmt.Errorf("goal with empty name")
		}
		goal := statechart.NewGoal(gd.Name)
		if err := ch.reg.Register(&goal.Node); err != nil {
			return nil, err
		}
		ch.goals[gd.Name] = goal
	}

	// Node-level conditions.
	for _, td := range def.Tasks {
		if err := applyConditions(ch.reg, td.NodeDef); err != nil {
			return nil, err
		}
	}
	for _, md := range def.Monitors {
		if err := applyConditions(ch.reg, md); err != nil {
			return nil, err
		}
	}
	for _, gd := range def.Goals {
		if err := applyConditions(ch.reg, gd.NodeDef); err != nil {
			return nil, err
		}
	}

	// Sequences rewrite start/end gates; goal injections then augment them.
	for i, names := range def.Sequences {
		nodes := make([]*statechart.Node, 0, len(names))
		for _, name := range names {
			n, err := ch.reg.Resolve(name)
			if err != nil {
				return nil, fmt.Errorf("sequence %d: %w", i, err)
			}
			nodes = append(nodes, n)
		}
		if err := statechart.ArrangeInSequence(nodes); err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i, err)
		}
	}

	for _, gd := range def.Goals {
		if err := c.buildGoal(ch, gd); err != nil {
			return nil, err
		}
	}

	return ch, c.validate(ch)
}

func (c *Compiler) buildGoal(ch *Chart, gd GoalDef) error {
	goal := ch.goals[gd.Name]

	for _, name := range gd.Tasks {
		n, err := ch.reg.Resolve(name)
		if err != nil {
			return fmt.Errorf("goal %q: %w", gd.Name, err)
		}
		if n.Kind != statechart.KindTask {
			return fmt.Errorf("goal %q: child %q is a %s, not a task", gd.Name, name, n.Kind)
		}
		goal.AddTask(n)
	}
	for _, name := range gd.Monitors {
		n, err := ch.reg.Resolve(name)
		if err != nil {
			return fmt.Errorf("goal %q: %w", gd.Name, err)
		}
		if n.Kind != statechart.KindMonitor {
			return fmt.Errorf("goal %q: child %q is a %s, not a monitor", gd.Name, name, n.Kind)
		}
		goal.AddMonitor(n)
	}
	for _, name := range gd.Goals {
		sub, ok := ch.goals[name]
		if !ok {
			return fmt.Errorf("goal %q: unknown child goal %q", gd.Name, name)
		}
		goal.AddGoal(sub)
	}

	if gd.Connect != nil {
		start, err := parseOrDefault(gd.Connect.Start, statechart.True)
		if err != nil {
			return fmt.Errorf("goal %q connect start: %w", gd.Name, err)
		}
		pause, err := parseOrDefault(gd.Connect.Pause, statechart.False)
		if err != nil {
			return fmt.Errorf("goal %q connect pause: %w", gd.Name, err)
		}
		end, err := parseOrDefault(gd.Connect.End, statechart.False)
		if err != nil {
			return fmt.Errorf("goal %q connect end: %w", gd.Name, err)
		}
		goal.ConnectToTasks(start, pause, end)
	}

	return nil
}

func (c *Compiler) validate(ch *Chart) error {
	for _, name := range ch.reg.Names() {
		n, err := ch.reg.Resolve(name)
		if err != nil {
			return err
		}
		for gate, cond := range map[string]statechart.Expr{
			"start": n.Start,
			"pause": n.Pause,
			"end":   n.End,
		} {
			if err := ch.reg.ValidateRefs(cond); err != nil {
				return fmt.Errorf("node %q %s condition: %w", name, gate, err)
			}
		}
	}
	for _, goal := range ch.goals {
		if err := goal.Finalize(); err != nil {
			return err
		}
	}
	return nil
}

func applyConditions(reg *statechart.Registry, nd NodeDef) error {
	n, err := reg.Resolve(nd.Name)
	if err != nil {
		return err
	}
	if nd.Start != "" {
		if n.Start, err = condparse.Parse(nd.Start); err != nil {
			return fmt.Errorf("node %q start: %w", nd.Name, err)
		}
	}
	if nd.Pause != "" {
		if n.Pause, err = condparse.Parse(nd.Pause); err != nil {
			return fmt.Errorf("node %q pause: %w", nd.Name, err)
		}
	}
	if nd.End != "" {
		if n.End, err = condparse.Parse(nd.End); err != nil {
			return fmt.Errorf("node %q end: %w", nd.Name, err)
		}
	}
	return nil
}

func parseOrDefault(cond string, def statechart.Expr) (statechart.Expr, error) {
	if cond == "" {
		return def, nil
	}
	return condparse.Parse(cond)
}

// Clone builds an independent copy of the chart with every node back in
// Dormant. Conditions are immutable and shared; lifecycle state is not.
func (c *Chart) Clone() *Chart {
	clone := &Chart{
		name:  c.name,
		reg:   statechart.NewRegistry(),
		goals: make(map[string]*statechart.Goal, len(c.goals)),
	}

	nodes := make(map[string]*statechart.Node, c.reg.Len())
	for _, name := range c.reg.Names() {
		n, _ := c.reg.Resolve(name)
		if goal, ok := c.goals[name]; ok {
			g := &statechart.Goal{Node: *goal.Node.Clone()}
			clone.goals[name] = g
			nodes[name] = &g.Node
		} else {
			nodes[name] = n.Clone()
		}
		// Registration cannot collide: names come from a valid registry.
		_ = clone.reg.Register(nodes[name])
	}

	for name, goal := range c.goals {
		g := clone.goals[name]
		for _, task := range goal.Tasks {
			g.AddTask(nodes[task.Name])
		}
		for _, monitor := range goal.Monitors {
			g.AddMonitor(nodes[monitor.Name])
		}
		for _, sub := range goal.Goals {
			g.AddGoal(clone.goals[sub.Name])
		}
	}

	return clone
}
