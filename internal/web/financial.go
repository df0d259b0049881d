package web

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/erazemk/trgovina/internal/apiclient"
	"github.com/erazemk/trgovina/internal/categories"
	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/notify"
)

const (
	financialPath   = "/financial"
	transactionsPer = 25
)

// Financial page charts.
const (
	revenueExpensesChart   = "revenue_expenses"
	expenseCategoriesChart = "expense_categories"
)

// FinancialPage handles GET /financial.
func (s *Server) FinancialPage(w http.ResponseWriter, r *http.Request) {
	modal := modalFromQuery(r.Context(), s.transactions, r.URL.Query())
	s.renderFinancial(w, r, r.URL, modal, http.StatusOK)
}

func (s *Server) renderFinancial(w http.ResponseWriter, r *http.Request, pageURL *url.URL, modal entityModal, status int) {
	ctx := r.Context()
	q := pageURL.Query()

	query := apiclient.TransactionQuery{
		Page:     positive(q.Get("page"), 1),
		PerPage:  transactionsPer,
		Category: q.Get("category"),
		Year:     positive(q.Get("year"), 0),
		Month:    positive(q.Get("month"), 0),
	}

	var txs []model.Transaction
	var pagination model.Pagination
	page, err := s.client.Transactions().List(ctx, query)
	if err != nil {
		slog.Error("failed to load transactions", "error", err)
		notify.StackFrom(ctx).Add(notify.Alert{Kind: notify.Danger, Message: apiclient.Message(err, "Error loading transactions")})
	} else {
		txs = page.Transactions
		pagination = page.Pagination
	}

	report, charts := s.financialReport(ctx, query)

	keep := keepQuery(pageURL)
	rows, err := s.transactions.RenderTable(txs, keep)
	if err != nil {
		slog.Error("failed to render transactions table", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := struct {
		PageData
		Rows       template.HTML
		Pagination model.Pagination
		Query      apiclient.TransactionQuery
		Categories []string
		Modal      entityModal
		Keep       url.Values
		Return     string
		PrevURL    string
		NextURL    string
		Report     *model.FinancialReport
		Charts     map[string]string
	}{
		PageData:   s.page(r, "Financial", "financial"),
		Report:     report,
		Charts:     charts,
		Rows:       rows,
		Pagination: pagination,
		Query:      query,
		Categories: categories.Categories(categories.Expense),
		Modal:      modal.withSubCategories(categories.Expense, "category"),
		Keep:       keep,
		Return:     withKeep(financialPath, keep),
	}
	if pagination.HasPrev {
		data.PrevURL = pageLink(financialPath, keep, pagination.Page-1)
	}
	if pagination.HasNext {
		data.NextURL = pageLink(financialPath, keep, pagination.Page+1)
	}
	s.templates.Render(w, status, "financial.html", data)
}

// financialReport loads the totals for the filtered month, or the current
// one, and publishes its charts to the chart store.
func (s *Server) financialReport(ctx context.Context, query apiclient.TransactionQuery) (*model.FinancialReport, map[string]string) {
	now := s.now()
	year, month := query.Year, query.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 || month > 12 {
		month = int(now.Month())
	}

	report, err := s.client.Transactions().Summary(ctx, year, month)
	if err != nil {
		slog.Warn("failed to load financial summary", "year", year, "month", month, "error", err)
		return nil, nil
	}

	sum := report.Summary
	revenue := map[string]any{
		"labels": []string{"Revenue", "Expenses", "Profit"},
		"month":  []float64{sum.MonthlyRevenue, sum.MonthlyExpenses, sum.MonthlyProfit},
		"ytd":    []float64{sum.YTDRevenue, sum.YTDExpenses, sum.YTDProfit},
	}
	labels, values := []string{}, []float64{}
	for _, c := range report.Categories {
		if c.Expenses > 0 {
			labels = append(labels, c.Name)
			values = append(values, c.Expenses)
		}
	}
	expenses := map[string]any{"labels": labels, "values": values}

	charts := make(map[string]string, 2)
	for name, data := range map[string]any{revenueExpensesChart: revenue, expenseCategoriesChart: expenses} {
		b, err := json.Marshal(data)
		if err != nil {
			slog.Error("failed to encode chart", "chart", name, "error", err)
			continue
		}
		s.charts.RenderChart(name, b)
		charts[name] = string(b)
	}
	return report, charts
}

// SaveTransaction handles POST /financial/transactions. Expenses added
// from the dashboard return there.
func (s *Server) SaveTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	modal, outcome := saveEntity(r, s.transactions)
	if r.PostFormValue("return") == dashboardPath {
		if modal.Kind != "" {
			s.renderDashboard(w, r, modal, formStatus(modal.State.Errors))
			return
		}
		s.finish(w, r, outcome, dashboardPath)
		return
	}

	target := returnTo(r, financialPath)
	if modal.Kind != "" {
		s.renderFinancial(w, r, mustURL(target), modal, formStatus(modal.State.Errors))
		return
	}
	s.finish(w, r, outcome, target)
}

// DeleteTransaction handles POST /financial/transactions/{id}/delete.
func (s *Server) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	outcome := deleteEntity(r, s.transactions)
	s.finish(w, r, outcome, returnTo(r, financialPath))
}

// positive parses a positive integer query value, or returns def.
func positive(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func withKeep(path string, keep url.Values) string {
	if len(keep) == 0 {
		return path
	}
	return path + "?" + keep.Encode()
}

func pageLink(path string, keep url.Values, page int) string {
	q := url.Values{}
	for k, vs := range keep {
		q[k] = vs
	}
	q.Set("page", strconv.Itoa(page))
	return path + "?" + q.Encode()
}
