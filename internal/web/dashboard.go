package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/trgovina/internal/apiclient"
	"github.com/erazemk/trgovina/internal/categories"
	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/notify"
)

const (
	dashboardPath      = "/"
	recentTransactions = 5
)

// DashboardPage handles GET /. The query modal=expense opens the quick-add
// expense modal.
func (s *Server) DashboardPage(w http.ResponseWriter, r *http.Request) {
	var modal entityModal
	if r.URL.Query().Get("modal") == "expense" {
		modal = entityModal{Kind: "create", State: s.transactions.ShowCreate(r.Context())}
	}
	s.renderDashboard(w, r, modal, http.StatusOK)
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, modal entityModal, status int) {
	ctx := r.Context()

	summary, err := s.client.Inventory().Summary(ctx)
	if err != nil {
		slog.Error("failed to load inventory summary", "error", err)
		notify.StackFrom(ctx).Add(notify.Alert{
			Kind:    notify.Warning,
			Message: apiclient.Message(err, "Error loading inventory summary"),
		})
	}

	var recent []model.Transaction
	page, err := s.client.Transactions().List(ctx, apiclient.TransactionQuery{Page: 1, PerPage: recentTransactions})
	if err != nil {
		slog.Error("failed to load recent transactions", "error", err)
	} else {
		recent = page.Transactions
	}

	snap := s.poller.Snapshot()

	data := struct {
		PageData
		Summary    model.Summary
		Overview   *model.Overview
		Recent     []model.Transaction
		Categories []string
		Modal      entityModal
		Return     string
	}{
		PageData:   s.page(r, "Dashboard", "dashboard"),
		Summary:    summary,
		Overview:   snap.Overview,
		Recent:     recent,
		Categories: categories.Categories(categories.Expense),
		Modal:      modal.withSubCategories(categories.Expense, "category"),
		Return:     dashboardPath,
	}
	s.templates.Render(w, status, "dashboard.html", data)
}
