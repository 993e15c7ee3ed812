package statechart

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// TickLatencyObserver receives the duration of each completed tick and the
// size of the Running set it produced.
type TickLatencyObserver interface {
	ObserveTick(duration time.Duration, active int)
}

// TickLatencyLogger logs tick latencies through slog.
type TickLatencyLogger struct {
	logger *slog.Logger
}

func NewTickLatencyLogger(logger *slog.Logger) *TickLatencyLogger {
	return &TickLatencyLogger{logger: logger}
}

func (l *TickLatencyLogger) ObserveTick(duration time.Duration, active int) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Info("statechart_tick",
		"duration_ms", float64(duration.Microseconds())/1000.0,
		"active", active,
	)
}

// AsyncTickLatencyObserver decouples observation from the tick loop through a
// buffered channel. Events are dropped, not blocked on, when the buffer is
// full; the control loop never waits on observability.
type AsyncTickLatencyObserver struct {
	next    TickLatencyObserver
	events  chan tickEvent
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type tickEvent struct {
	duration time.Duration
	active   int
}

func NewAsyncTickLatencyObserver(next TickLatencyObserver, buffer int) *AsyncTickLatencyObserver {
	if buffer <= 0 {
		buffer = 1
	}

	o := &AsyncTickLatencyObserver{
		next:   next,
		events: make(chan tickEvent, buffer),
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for ev := range o.events {
			if o.next == nil {
				continue
			}
			o.next.ObserveTick(ev.duration, ev.active)
		}
	}()

	return o
}

func (o *AsyncTickLatencyObserver) ObserveTick(duration time.Duration, active int) {
	if o == nil {
		return
	}
	o.mu.RLock()
	if o.closed {
		o.mu.RUnlock()
		o.dropped.Add(1)
		return
	}
	select {
	case o.events <- tickEvent{duration: duration, active: active}:
	default:
		o.dropped.Add(1)
	}
	o.mu.RUnlock()
}

// Dropped reports how many events were discarded because the buffer was full
// or the observer was closed.
func (o *AsyncTickLatencyObserver) Dropped() uint64 {
	if o == nil {
		return 0
	}
	return o.dropped.Load()
}

// Close drains pending events and stops the delivery goroutine.
func (o *AsyncTickLatencyObserver) Close() {
	if o == nil {
		return
	}
	o.once.Do(func() {
		o.mu.Lock()
		o.closed = true
		close(o.events)
		o.mu.Unlock()
		o.wg.Wait()
	})
}
