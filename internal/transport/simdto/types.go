// Package simdto holds the wire types shared by the HTTP and Lambda
// transports.
package simdto

import (
	"github.com/motionkit/statechart/internal/app"
	"github.com/motionkit/statechart/internal/statechart"
)

type SimulateRequest struct {
	ChartYAML string                    `json:"chart_yaml"`
	Ticks     []statechart.Observations `json:"ticks,omitempty"`
	ChartID   string                    `json:"chart_id,omitempty"`
	Version   string                    `json:"chart_version,omitempty"`
	MaxTicks  int                       `json:"max_ticks,omitempty"`
	Debug     bool                      `json:"debug,omitempty"`
}

func (r SimulateRequest) Options() app.Options {
	return app.Options{
		ChartID:      r.ChartID,
		ChartVersion: r.Version,
		MaxTicks:     r.MaxTicks,
	}
}

type SimulateResponse struct {
	Result *app.Result    `json:"result"`
	Trace  *app.Trace     `json:"trace,omitempty"`
	Chart  *app.ChartInfo `json:"chart,omitempty"`
}
