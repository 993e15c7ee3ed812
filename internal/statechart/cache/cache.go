// Package cache memoizes compiled chart templates by definition content.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/motionkit/statechart/internal/statechart/chart"
)

// InMemory caches compiled charts keyed by a hash of the definition source.
// Compilation errors are never cached; a panicking compile is converted into
// an error so waiters are not blocked.
type InMemory struct {
	mu    sync.RWMutex
	max   int
	items map[string]*chart.Chart
}

func NewInMemory(max int) *InMemory {
	return &InMemory{
		max:   max,
		items: make(map[string]*chart.Chart, max),
	}
}

func (c *InMemory) GetOrCompute(def string, fn func() (*chart.Chart, error)) (*chart.Chart, error) {
	key := hash(def)

	c.mu.RLock()
	if v, ok := c.items[key]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.items[key]; ok {
		return v, nil
	}

	ch, err := compute(fn)
	if err != nil {
		return nil, err
	}

	if len(c.items) < c.max {
		c.items[key] = ch
	}

	return ch, nil
}

func compute(fn func() (*chart.Chart, error)) (ch *chart.Chart, err error) {
	defer func() {
		if r := recover(); r != nil {
			ch = nil
			err = fmt.Errorf("chart compilation panicked: %v", r)
		}
	}()
	return fn()
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
