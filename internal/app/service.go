// Package app exposes the statechart core as a simulation service: compile a
// chart definition (cached), then drive it tick by tick with scripted world
// observations. This is the construction-time proving ground for a chart
// before it gates a live control loop.
package app

import (
	"fmt"

	"github.com/motionkit/statechart/internal/statechart"
	"github.com/motionkit/statechart/internal/statechart/chart"
)

type Compiler interface {
	Compile(src []byte) (*chart.Chart, error)
}

type Engine interface {
	TickWithTrace(reg *statechart.Registry, obs statechart.Observations) (*statechart.TickReport, error)
}

type Cache interface {
	GetOrCompute(def string, fn func() (*chart.Chart, error)) (*chart.Chart, error)
}

// Options carry caller metadata and limits for one simulation.
type Options struct {
	ChartID      string
	ChartVersion string
	// MaxTicks bounds free-running simulations (no scripted observations).
	// Zero means the service default.
	MaxTicks int
}

// ChartInfo identifies the compiled chart a result came from.
type ChartInfo struct {
	ID      string `json:"id,omitempty"`
	Version string `json:"version,omitempty"`
	Name    string `json:"name,omitempty"`
	Nodes   int    `json:"nodes"`
}

// Result is the outcome of a simulation run.
type Result struct {
	// Ticks is how many evaluation cycles ran.
	Ticks int `json:"ticks"`
	// Quiescent is true when the run stopped because a tick fired no
	// transitions and no further observations were scripted.
	Quiescent bool `json:"quiescent"`
	// Active holds the Running set of each tick, in tick order.
	Active [][]string `json:"active"`
	// Constraints holds the constraint handles live on the final tick.
	Constraints []any `json:"constraints"`
	// Final maps every node name to its lifecycle state after the last tick.
	Final map[string]string `json:"final_states"`
}

// Trace records every transition of every tick.
type Trace struct {
	Chart string      `json:"chart,omitempty"`
	Ticks []TickTrace `json:"ticks"`
}

type TickTrace struct {
	Tick        int                     `json:"tick"`
	Active      []string                `json:"active"`
	Transitions []statechart.Transition `json:"transitions,omitempty"`
	Observed    statechart.Observations `json:"observed,omitempty"`
}

const defaultMaxTicks = 10_000

type Service struct {
	compiler Compiler
	engine   Engine
	cache    Cache
	maxTicks int
}

type ServiceOption func(*Service)

// WithMaxTicks caps free-running simulations.
func WithMaxTicks(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxTicks = n
		}
	}
}

func NewService(compiler Compiler, engine Engine, cache Cache, opts ...ServiceOption) *Service {
	s := &Service{
		compiler: compiler,
		engine:   engine,
		cache:    cache,
		maxTicks: defaultMaxTicks,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate compiles chartYAML (cached) and runs one tick per scripted
// observation map. With no script, it runs with empty observations until a
// tick fires no transitions, bounded by MaxTicks.
func (s *Service) Simulate(chartYAML string, script []statechart.Observations, opts Options) (*Result, *ChartInfo, error) {
	result, _, info, err := s.run(chartYAML, script, opts, false)
	return result, info, err
}

// SimulateWithTrace additionally records every transition per tick.
func (s *Service) SimulateWithTrace(chartYAML string, script []statechart.Observations, opts Options) (*Result, *Trace, *ChartInfo, error) {
	return s.run(chartYAML, script, opts, true)
}

func (s *Service) run(chartYAML string, script []statechart.Observations, opts Options, traced bool) (*Result, *Trace, *ChartInfo, error) {
	if chartYAML == "" {
		return nil, nil, nil, fmt.Errorf("chart_yaml is required")
	}

	template, err := s.cache.GetOrCompute(chartYAML, func() (*chart.Chart, error) {
		return s.compiler.Compile([]byte(chartYAML))
	})
	if err != nil {
		return nil, nil, nil, err
	}

	info := &ChartInfo{
		ID:      opts.ChartID,
		Version: opts.ChartVersion,
		Name:    template.Name(),
		Nodes:   template.Registry().Len(),
	}

	// Cached charts are templates; each run gets a private copy so
	// concurrent simulations never share lifecycle state.
	ch := template.Clone()
	reg := ch.Registry()

	maxTicks := opts.MaxTicks
	if maxTicks <= 0 {
		maxTicks = s.maxTicks
	}

	result := &Result{Final: make(map[string]string, reg.Len())}
	var trace *Trace
	if traced {
		trace = &Trace{Chart: template.Name()}
	}

	freeRunning := len(script) == 0
	for tick := 0; ; tick++ {
		var obs statechart.Observations
		if !freeRunning {
			if tick >= len(script) {
				break
			}
			obs = script[tick]
		} else if tick >= maxTicks {
			return nil, trace, info, fmt.Errorf("maxTicks (%d) exceeded without quiescing", maxTicks)
		}

		report, err := s.engine.TickWithTrace(reg, obs)
		if err != nil {
			return nil, trace, info, err
		}

		result.Ticks++
		result.Active = append(result.Active, report.Active)
		if traced {
			trace.Ticks = append(trace.Ticks, TickTrace{
				Tick:        tick,
				Active:      report.Active,
				Transitions: report.Transitions,
				Observed:    obs,
			})
		}

		if freeRunning && len(report.Transitions) == 0 {
			result.Quiescent = true
			break
		}
	}

	for _, name := range reg.Names() {
		n, err := reg.Resolve(name)
		if err != nil {
			return nil, trace, info, err
		}
		result.Final[name] = n.State().String()
		if n.Kind == statechart.KindTask && n.State() == statechart.Running {
			result.Constraints = append(result.Constraints, n.Constraint)
		}
	}

	return result, trace, info, nil
}
