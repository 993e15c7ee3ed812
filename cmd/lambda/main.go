package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/motionkit/statechart/internal/app"
	"github.com/motionkit/statechart/internal/config"
	"github.com/motionkit/statechart/internal/statechart"
	"github.com/motionkit/statechart/internal/statechart/cache"
	"github.com/motionkit/statechart/internal/statechart/chart"
	"github.com/motionkit/statechart/internal/transport/lambdatransport"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	tickObserver := statechart.NewAsyncTickLatencyObserver(statechart.NewTickLatencyLogger(logger), cfg.ObsBuffer)
	defer tickObserver.Close()

	engine := statechart.NewEngine(statechart.WithTickLatencyObserver(tickObserver))
	compiler := chart.NewCompiler()
	c := cache.NewInMemory(cfg.CacheMaxItems)

	svc := app.NewService(compiler, engine, c, app.WithMaxTicks(cfg.SimMaxTicks))
	h := lambdatransport.NewHandler(svc)

	lambda.Start(h.Simulate)
}
