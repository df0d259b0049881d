package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/erazemk/trgovina/internal/model"
)

// MaxPerPage is the largest page size the transactions listing accepts.
const MaxPerPage = 100

// TransactionQuery filters and paginates the transaction listing. Zero
// values are omitted from the request.
type TransactionQuery struct {
	Page     int
	PerPage  int
	Type     string
	Category string
	Year     int
	Month    int
}

// Values encodes the query as URL parameters.
func (q TransactionQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(min(q.PerPage, MaxPerPage)))
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Year > 0 {
		v.Set("year", strconv.Itoa(q.Year))
	}
	if q.Month > 0 {
		v.Set("month", strconv.Itoa(q.Month))
	}
	return v
}

// TransactionsAPI wraps /api/transactions.
type TransactionsAPI struct {
	c *Client
}

// List returns one page of transactions.
func (a *TransactionsAPI) List(ctx context.Context, q TransactionQuery) (*model.TransactionPage, error) {
	path := "/api/transactions"
	if v := q.Values(); len(v) > 0 {
		path += "?" + v.Encode()
	}

	var out model.TransactionPage
	if err := a.c.do(ctx, "transactions.list", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summary returns the totals for the given month and its year, with the
// per-category breakdown of that month.
func (a *TransactionsAPI) Summary(ctx context.Context, year, month int) (*model.FinancialReport, error) {
	v := url.Values{}
	v.Set("year", strconv.Itoa(year))
	v.Set("month", strconv.Itoa(month))

	var out model.FinancialReport
	if err := a.c.do(ctx, "transactions.summary", http.MethodGet, "/api/transactions/summary?"+v.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns the transaction with the given ID.
func (a *TransactionsAPI) Get(ctx context.Context, id int64) (*model.Transaction, error) {
	var out struct {
		Transaction *model.Transaction `json:"transaction"`
	}
	if err := a.c.do(ctx, "transactions.get", http.MethodGet, "/api/transactions/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	if out.Transaction == nil {
		return nil, &APIError{Status: http.StatusOK, Message: "Transaction not found"}
	}
	return out.Transaction, nil
}

// Create records a new transaction.
func (a *TransactionsAPI) Create(ctx context.Context, in model.TransactionInput) (Result, error) {
	var out Result
	err := a.c.do(ctx, "transactions.create", http.MethodPost, "/api/transactions", in, &out)
	return out, err
}

// Update replaces the transaction with the given ID.
func (a *TransactionsAPI) Update(ctx context.Context, id int64, in model.TransactionInput) (Result, error) {
	var out Result
	err := a.c.do(ctx, "transactions.update", http.MethodPut, "/api/transactions/"+strconv.FormatInt(id, 10), in, &out)
	return out, err
}

// Delete removes the transaction with the given ID.
func (a *TransactionsAPI) Delete(ctx context.Context, id int64) (Result, error) {
	var out Result
	err := a.c.do(ctx, "transactions.delete", http.MethodDelete, "/api/transactions/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}
