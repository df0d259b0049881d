package web

import (
	"net/http"

	webembed "github.com/erazemk/trgovina/web"
)

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", webembed.StaticHandler("/static/"))
	mux.HandleFunc("GET /healthz", s.Health)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("GET /{$}", s.DashboardPage)

	mux.HandleFunc("GET /inventory", s.InventoryPage)
	mux.HandleFunc("GET /inventory/rows", s.InventoryRows)
	mux.HandleFunc("POST /inventory", s.SaveItem)
	mux.HandleFunc("POST /inventory/categories", s.AddCategory)
	mux.HandleFunc("POST /inventory/conditions", s.AddCondition)
	mux.HandleFunc("POST /inventory/{sku}/sell", s.SellItem)
	mux.HandleFunc("POST /inventory/{sku}/delete", s.DeleteItem)

	mux.HandleFunc("GET /financial", s.FinancialPage)
	mux.HandleFunc("POST /financial/transactions", s.SaveTransaction)
	mux.HandleFunc("POST /financial/transactions/{id}/delete", s.DeleteTransaction)

	mux.HandleFunc("GET /assets", s.AssetsPage)
	mux.HandleFunc("POST /assets", s.SaveAsset)
	mux.HandleFunc("POST /assets/{id}/delete", s.DeleteAsset)

	mux.HandleFunc("GET /categories/{kind}/{category}", s.SubCategories)

	mux.HandleFunc("GET /insights", s.InsightsPage)
	mux.HandleFunc("POST /insights/refresh", s.RefreshInsights)
	mux.HandleFunc("GET /insights/data", s.InsightsData)

	var h http.Handler = recordPattern(mux)
	h = s.limitPosts(h)
	h = s.requireReady(h)
	h = s.withAlerts(h)
	h = s.recoverPanics(h)
	h = s.logRequests(h)
	return h
}
