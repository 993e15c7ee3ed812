package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/motionkit/statechart/internal/app"
	"github.com/motionkit/statechart/internal/config"
	"github.com/motionkit/statechart/internal/metrics"
	"github.com/motionkit/statechart/internal/statechart"
	"github.com/motionkit/statechart/internal/statechart/cache"
	"github.com/motionkit/statechart/internal/statechart/chart"
	"github.com/motionkit/statechart/internal/transport/httptransport"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	promReg := prometheus.NewRegistry()
	tickObserver := statechart.NewAsyncTickLatencyObserver(metrics.NewTickObserver(promReg), cfg.ObsBuffer)
	defer tickObserver.Close()

	engine := statechart.NewEngine(statechart.WithTickLatencyObserver(tickObserver))
	compiler := chart.NewCompiler()
	c := cache.NewInMemory(cfg.CacheMaxItems)

	svc := app.NewService(compiler, engine, c, app.WithMaxTicks(cfg.SimMaxTicks))
	h := httptransport.NewHandler(svc)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		logger.Info("metrics listening", "addr", cfg.MetricsAddr)
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/simulate", h.Simulate)

	logger.Info("listening", "addr", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
