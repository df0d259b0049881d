// Package insights keeps a periodically refreshed snapshot of the business
// health score and the four analytics payloads.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/trgovina/internal/metrics"
	"github.com/erazemk/trgovina/internal/model"
)

// DefaultInterval is the automatic refresh period.
const DefaultInterval = 5 * time.Minute

// Section names one refreshed payload.
type Section string

// Sections, in display order.
const (
	HealthScore        Section = "health-score"
	InventoryAnalysis  Section = "inventory-analysis"
	SalesAnalytics     Section = "sales-analytics"
	ProfitOptimization Section = "profit-optimization"
	TrendAnalysis      Section = "trend-analysis"
)

var titles = map[Section]string{
	HealthScore:        "Health score",
	InventoryAnalysis:  "Inventory analysis",
	SalesAnalytics:     "Sales analytics",
	ProfitOptimization: "Profit optimization",
	TrendAnalysis:      "Trend analysis",
}

// Title returns the display name of the section.
func (s Section) Title() string {
	if t, ok := titles[s]; ok {
		return t
	}
	return string(s)
}

// Sections lists every section in display order.
var Sections = []Section{HealthScore, InventoryAnalysis, SalesAnalytics, ProfitOptimization, TrendAnalysis}

// Charts maps each chart to the analysis section and key carrying its data.
var Charts = []struct {
	Name    string
	Section Section
}{
	{"inventory_distribution", InventoryAnalysis},
	{"category_performance", SalesAnalytics},
	{"seasonal_trends", TrendAnalysis},
}

// API is the insights part of the REST API.
type API interface {
	HealthScore(ctx context.Context) (*model.Overview, error)
	InventoryAnalysis(ctx context.Context) (model.Analysis, error)
	SalesAnalytics(ctx context.Context) (model.Analysis, error)
	ProfitOptimization(ctx context.Context) (model.Analysis, error)
	TrendAnalysis(ctx context.Context) (model.Analysis, error)
}

// ChartRenderer receives chart data after a successful refresh.
type ChartRenderer interface {
	RenderChart(name string, data json.RawMessage)
}

// Snapshot is an immutable view of the last refreshed data. Sections that
// never loaded are absent; the last error of each failed section is kept
// in Errors.
type Snapshot struct {
	Overview  *model.Overview
	Analyses  map[Section]model.Analysis
	Errors    map[Section]string
	UpdatedAt time.Time
}

// Analysis returns one section's payload, or nil.
func (s Snapshot) Analysis(sec Section) model.Analysis {
	return s.Analyses[sec]
}

// Error returns one section's last error text, or "".
func (s Snapshot) Error(sec Section) string {
	return s.Errors[sec]
}

// Loaded reports whether any refresh has completed.
func (s Snapshot) Loaded() bool {
	return !s.UpdatedAt.IsZero()
}

// Poller refreshes insights on a timer and on demand. A refresh already in
// progress turns further refresh requests into no-ops.
type Poller struct {
	api      API
	interval time.Duration
	charts   ChartRenderer
	metrics  *metrics.Metrics
	now      func() time.Time

	refreshing atomic.Bool

	mu   sync.RWMutex
	snap Snapshot
}

// NewPoller returns a poller. A zero interval selects DefaultInterval;
// charts and m may be nil.
func NewPoller(api API, interval time.Duration, charts ChartRenderer, m *metrics.Metrics) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		api:      api,
		interval: interval,
		charts:   charts,
		metrics:  m,
		now:      time.Now,
		snap: Snapshot{
			Analyses: map[Section]model.Analysis{},
			Errors:   map[Section]string{},
		},
	}
}

// Interval returns the refresh period.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run refreshes once and then every interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refreshing reports whether a refresh is in progress.
func (p *Poller) Refreshing() bool {
	return p.refreshing.Load()
}

// Refresh fetches every section concurrently. A failing section keeps its
// previous data and records its error; the others still update. It
// reports false without fetching when another refresh is in progress.
func (p *Poller) Refresh(ctx context.Context) bool {
	if !p.refreshing.CompareAndSwap(false, true) {
		slog.Info("insights refresh already in progress")
		return false
	}
	defer p.refreshing.Store(false)

	var (
		overview *model.Overview
		analyses = make(map[Section]model.Analysis, 4)
		failures = make(map[Section]error)
		mu       sync.Mutex
	)
	record := func(sec Section, err error) error {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			mu.Lock()
			failures[sec] = err
			mu.Unlock()
		}
		p.metrics.ObserveRefresh(string(sec), outcome)
		return err
	}

	// A plain group: one failing section must not cancel the others.
	var g errgroup.Group
	g.Go(func() error {
		o, err := p.api.HealthScore(ctx)
		if err == nil {
			overview = o
		}
		return record(HealthScore, err)
	})
	fetchers := map[Section]func(context.Context) (model.Analysis, error){
		InventoryAnalysis:  p.api.InventoryAnalysis,
		SalesAnalytics:     p.api.SalesAnalytics,
		ProfitOptimization: p.api.ProfitOptimization,
		TrendAnalysis:      p.api.TrendAnalysis,
	}
	for sec, fetch := range fetchers {
		g.Go(func() error {
			a, err := fetch(ctx)
			if err == nil {
				mu.Lock()
				analyses[sec] = a
				mu.Unlock()
			}
			return record(sec, err)
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("failed to refresh insights", "failed_sections", len(failures), "error", err)
	}

	p.publish(overview, analyses, failures)
	return true
}

func (p *Poller) publish(overview *model.Overview, analyses map[Section]model.Analysis, failures map[Section]error) {
	p.mu.Lock()
	next := Snapshot{
		Overview:  p.snap.Overview,
		Analyses:  maps.Clone(p.snap.Analyses),
		Errors:    make(map[Section]string, len(failures)),
		UpdatedAt: p.now(),
	}
	if overview != nil {
		next.Overview = overview
	}
	for sec, a := range analyses {
		next.Analyses[sec] = a
	}
	for sec, err := range failures {
		next.Errors[sec] = fmt.Sprintf("Failed to load %s", strings.ToLower(sec.Title()))
		slog.Error("failed to refresh insights section", "section", sec, "error", err)
	}
	p.snap = next
	p.mu.Unlock()

	if p.charts == nil {
		return
	}
	for _, c := range Charts {
		a, ok := analyses[c.Section]
		if !ok {
			continue
		}
		if data, ok := a[c.Name]; ok {
			p.charts.RenderChart(c.Name, data)
		}
	}
}

// Snapshot returns the current snapshot. Callers must not modify it.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}
