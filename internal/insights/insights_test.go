package insights

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/trgovina/internal/apiclient"
	"github.com/erazemk/trgovina/internal/fakeapi"
	"github.com/erazemk/trgovina/internal/metrics"
	"github.com/erazemk/trgovina/internal/model"
)

type chartRecorder struct {
	mu     sync.Mutex
	charts map[string]json.RawMessage
}

func (c *chartRecorder) RenderChart(name string, data json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.charts == nil {
		c.charts = map[string]json.RawMessage{}
	}
	c.charts[name] = data
}

func newFake(t *testing.T) (*fakeapi.Server, *apiclient.InsightsAPI) {
	t.Helper()
	fake := fakeapi.New()
	fake.SetOverview(model.Overview{
		HealthScore:   model.HealthScore{OverallScore: 72, Status: "Good"},
		QuickInsights: []model.QuickInsight{{Type: "warning", Title: "Slow movers", Message: "5 items unsold for 90 days"}},
	})
	fake.SetAnalysis("inventory-analysis", model.Analysis{
		"inventory_distribution": json.RawMessage(`{"dresses": 4, "tops": 2}`),
	})
	fake.SetAnalysis("trend-analysis", model.Analysis{
		"seasonal_trends": json.RawMessage(`[{"month": "Jan", "sales": 3}]`),
		"trend_insights":  json.RawMessage(`["Spring is busy"]`),
	})
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return fake, apiclient.New(srv.URL, "", 0, nil).Insights()
}

func TestRefreshLoadsEverySection(t *testing.T) {
	_, api := newFake(t)
	charts := &chartRecorder{}
	m := metrics.New()
	p := NewPoller(api, 0, charts, m)
	assert.Equal(t, DefaultInterval, p.Interval())
	assert.False(t, p.Snapshot().Loaded())

	require.True(t, p.Refresh(context.Background()))

	snap := p.Snapshot()
	assert.True(t, snap.Loaded())
	require.NotNil(t, snap.Overview)
	assert.Equal(t, 72.0, snap.Overview.HealthScore.OverallScore)
	assert.Len(t, snap.Analyses, 4)
	assert.Empty(t, snap.Errors)
	assert.Equal(t, []string{"Spring is busy"}, snap.Analysis(TrendAnalysis).Messages("trend_insights"))

	assert.JSONEq(t, `{"dresses": 4, "tops": 2}`, string(charts.charts["inventory_distribution"]))
	assert.Contains(t, charts.charts, "seasonal_trends")
	assert.NotContains(t, charts.charts, "category_performance")

	n, err := testutil.GatherAndCount(m.Registry, "trgovina_insights_refreshes_total")
	require.NoError(t, err)
	assert.Equal(t, len(Sections), n)
}

func TestFailingSectionDoesNotBlockOthers(t *testing.T) {
	fake, api := newFake(t)
	p := NewPoller(api, time.Minute, nil, nil)
	require.True(t, p.Refresh(context.Background()))

	fake.SetOverview(model.Overview{HealthScore: model.HealthScore{OverallScore: 80}})
	fake.Fail("GET /api/insights/{section}", http.StatusInternalServerError, "Analysis unavailable")
	require.True(t, p.Refresh(context.Background()))

	snap := p.Snapshot()
	assert.Equal(t, 80.0, snap.Overview.HealthScore.OverallScore)
	assert.Len(t, snap.Errors, 4)
	assert.Equal(t, "Failed to load sales analytics", snap.Error(SalesAnalytics))
	assert.Empty(t, snap.Error(HealthScore))
	// Data from the earlier refresh is kept.
	assert.Contains(t, snap.Analysis(InventoryAnalysis), "inventory_distribution")
}

type blockingAPI struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingAPI) HealthScore(ctx context.Context) (*model.Overview, error) {
	close(b.started)
	<-b.release
	return &model.Overview{}, nil
}

func (b *blockingAPI) InventoryAnalysis(context.Context) (model.Analysis, error) {
	return model.Analysis{}, nil
}

func (b *blockingAPI) SalesAnalytics(context.Context) (model.Analysis, error) {
	return nil, errors.New("boom")
}

func (b *blockingAPI) ProfitOptimization(context.Context) (model.Analysis, error) {
	return model.Analysis{}, nil
}

func (b *blockingAPI) TrendAnalysis(context.Context) (model.Analysis, error) {
	return model.Analysis{}, nil
}

func TestRefreshInProgressIsNoop(t *testing.T) {
	api := &blockingAPI{started: make(chan struct{}), release: make(chan struct{})}
	p := NewPoller(api, time.Minute, nil, nil)

	done := make(chan bool)
	go func() { done <- p.Refresh(context.Background()) }()
	<-api.started

	assert.True(t, p.Refreshing())
	assert.False(t, p.Refresh(context.Background()))

	close(api.release)
	assert.True(t, <-done)
	assert.False(t, p.Refreshing())
	assert.Equal(t, "Failed to load sales analytics", p.Snapshot().Error(SalesAnalytics))
}

func TestRunStopsOnCancel(t *testing.T) {
	_, api := newFake(t)
	p := NewPoller(api, 10*time.Millisecond, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, p.Snapshot().Loaded())
}

func TestSectionTitle(t *testing.T) {
	assert.Equal(t, "Profit optimization", ProfitOptimization.Title())
	assert.Equal(t, "other", Section("other").Title())
}

func TestEaseOutCubic(t *testing.T) {
	assert.Equal(t, 0.0, EaseOutCubic(0))
	assert.Equal(t, 1.0, EaseOutCubic(1))
	assert.InDelta(t, 0.875, EaseOutCubic(0.5), 1e-9)
}

func TestTween(t *testing.T) {
	counter := Tween{From: 0, To: 72, Round: true}
	assert.Equal(t, 0.0, counter.At(0))
	assert.Equal(t, 63.0, counter.At(500*time.Millisecond))
	assert.Equal(t, 72.0, counter.At(2*time.Second))

	width := Tween{From: 0, To: 33, Duration: time.Second}
	assert.InDelta(t, 28.875, width.At(500*time.Millisecond), 1e-9)

	frames := counter.Keyframes(4)
	require.Len(t, frames, 5)
	assert.Equal(t, 0.0, frames[0])
	assert.Equal(t, 72.0, frames[4])
	for i := 1; i < len(frames); i++ {
		assert.GreaterOrEqual(t, frames[i], frames[i-1])
	}
}
