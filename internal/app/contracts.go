package app

import "github.com/motionkit/statechart/internal/statechart"

// SimService is the surface transports program against.
type SimService interface {
	Simulate(chartYAML string, script []statechart.Observations, opts Options) (*Result, *ChartInfo, error)
	SimulateWithTrace(chartYAML string, script []statechart.Observations, opts Options) (*Result, *Trace, *ChartInfo, error)
}
