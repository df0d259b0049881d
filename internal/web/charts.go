package web

import (
	"encoding/json"
	"maps"
	"sync"
)

// ChartStore keeps the latest data of every chart, from the insights poller
// and the financial page, for the charting scripts.
type ChartStore struct {
	mu     sync.RWMutex
	charts map[string]json.RawMessage
}

// NewChartStore returns an empty store.
func NewChartStore() *ChartStore {
	return &ChartStore{charts: make(map[string]json.RawMessage)}
}

// RenderChart replaces the data of one chart.
func (c *ChartStore) RenderChart(name string, data json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.charts[name] = data
}

// Charts returns a copy of every chart's data.
func (c *ChartStore) Charts() map[string]json.RawMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.charts)
}
