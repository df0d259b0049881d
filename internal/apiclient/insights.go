package apiclient

import (
	"context"
	"net/http"

	"github.com/erazemk/trgovina/internal/model"
)

// InsightsAPI wraps /api/insights.
type InsightsAPI struct {
	c *Client
}

// HealthScore returns the business health score and quick insights.
func (a *InsightsAPI) HealthScore(ctx context.Context) (*model.Overview, error) {
	var out model.Overview
	if err := a.c.do(ctx, "insights.health_score", http.MethodGet, "/api/insights/health-score", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InventoryAnalysis returns slow movers, distribution and recommendations.
func (a *InsightsAPI) InventoryAnalysis(ctx context.Context) (model.Analysis, error) {
	return a.analysis(ctx, "insights.inventory_analysis", "/api/insights/inventory-analysis")
}

// SalesAnalytics returns category and price range performance.
func (a *InsightsAPI) SalesAnalytics(ctx context.Context) (model.Analysis, error) {
	return a.analysis(ctx, "insights.sales_analytics", "/api/insights/sales-analytics")
}

// ProfitOptimization returns pricing recommendations and margin analysis.
func (a *InsightsAPI) ProfitOptimization(ctx context.Context) (model.Analysis, error) {
	return a.analysis(ctx, "insights.profit_optimization", "/api/insights/profit-optimization")
}

// TrendAnalysis returns seasonal and brand trends.
func (a *InsightsAPI) TrendAnalysis(ctx context.Context) (model.Analysis, error) {
	return a.analysis(ctx, "insights.trend_analysis", "/api/insights/trend-analysis")
}

func (a *InsightsAPI) analysis(ctx context.Context, op, path string) (model.Analysis, error) {
	var out model.Analysis
	if err := a.c.do(ctx, op, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	delete(out, "success")
	delete(out, "error")
	return out, nil
}
