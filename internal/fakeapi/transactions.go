package fakeapi

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/erazemk/trgovina/internal/model"
)

// SeedTransaction stores a transaction and assigns it the next ID.
func (s *Server) SeedTransaction(tx model.Transaction) model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.nextTxID
	s.nextTxID++
	s.transactions = append(s.transactions, tx)
	return tx
}

// Transactions returns every stored transaction.
func (s *Server) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transaction(nil), s.transactions...)
}

func (s *Server) findTransaction(r *http.Request) int {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return -1
	}
	return slices.IndexFunc(s.transactions, func(tx model.Transaction) bool { return tx.ID == id })
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage < 1 {
		perPage = 50
	}
	perPage = min(perPage, 100)

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []model.Transaction
	for i := len(s.transactions) - 1; i >= 0; i-- {
		tx := s.transactions[i]
		if v := q.Get("type"); v != "" && !strings.EqualFold(tx.TransactionType, v) {
			continue
		}
		if v := q.Get("category"); v != "" && tx.Category != v {
			continue
		}
		if v := q.Get("year"); v != "" && !strings.HasPrefix(tx.Date, v) {
			continue
		}
		if v := q.Get("month"); v != "" {
			m, _ := strconv.Atoi(v)
			if len(tx.Date) < 7 || tx.Date[5:7] != twoDigits(m) {
				continue
			}
		}
		matched = append(matched, tx)
	}

	total := len(matched)
	pages := (total + perPage - 1) / perPage
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	jsonResponse(w, http.StatusOK, map[string]any{
		"transactions": append([]model.Transaction{}, matched[start:end]...),
		"pagination": model.Pagination{
			Page:    page,
			Pages:   pages,
			PerPage: perPage,
			Total:   total,
			HasNext: page < pages,
			HasPrev: page > 1,
		},
	})
}

func (s *Server) transactionSummary(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		jsonError(w, http.StatusBadRequest, "Invalid month")
		return
	}
	yearPrefix := strconv.Itoa(year) + "-"
	monthPrefix := yearPrefix + twoDigits(month) + "-"

	s.mu.Lock()
	defer s.mu.Unlock()

	var sum model.FinancialSummary
	breakdown := []model.CategoryTotals{}
	for _, tx := range s.transactions {
		if !strings.HasPrefix(tx.Date, yearPrefix) {
			continue
		}
		income := strings.EqualFold(tx.TransactionType, model.TransactionIncome)
		inMonth := strings.HasPrefix(tx.Date, monthPrefix)
		if income {
			sum.YTDRevenue += tx.Amount
		} else {
			sum.YTDExpenses += tx.Amount
		}
		if !inMonth {
			continue
		}
		if income {
			sum.MonthlyRevenue += tx.Amount
		} else {
			sum.MonthlyExpenses += tx.Amount
		}

		i := slices.IndexFunc(breakdown, func(c model.CategoryTotals) bool { return c.Name == tx.Category })
		if i < 0 {
			breakdown = append(breakdown, model.CategoryTotals{Name: tx.Category})
			i = len(breakdown) - 1
		}
		if income {
			breakdown[i].Income += tx.Amount
			breakdown[i].Net += tx.Amount
		} else {
			breakdown[i].Expenses += tx.Amount
			breakdown[i].Net -= tx.Amount
		}
		breakdown[i].TransactionCount++
	}
	sum.MonthlyProfit = sum.MonthlyRevenue - sum.MonthlyExpenses
	sum.YTDProfit = sum.YTDRevenue - sum.YTDExpenses

	jsonResponse(w, http.StatusOK, map[string]any{
		"success":            true,
		"summary":            sum,
		"category_breakdown": breakdown,
	})
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findTransaction(r)
	if i < 0 {
		jsonError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"transaction": s.transactions[i]})
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var in model.TransactionInput
	if err := s.decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if in.Amount <= 0 {
		jsonError(w, http.StatusBadRequest, "Amount must be greater than 0")
		return
	}

	tx := s.SeedTransaction(transactionFromInput(in))
	jsonResponse(w, http.StatusCreated, map[string]any{
		"transaction": tx,
		"message":     "Transaction created successfully",
	})
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var in model.TransactionInput
	if err := s.decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "No data provided")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findTransaction(r)
	if i < 0 {
		jsonError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	tx := transactionFromInput(in)
	tx.ID = s.transactions[i].ID
	s.transactions[i] = tx

	jsonResponse(w, http.StatusOK, map[string]any{
		"transaction": tx,
		"message":     "Transaction updated successfully",
	})
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findTransaction(r)
	if i < 0 {
		jsonError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	s.transactions = slices.Delete(s.transactions, i, i+1)
	jsonResponse(w, http.StatusOK, map[string]any{"message": "Transaction deleted successfully"})
}

func transactionFromInput(in model.TransactionInput) model.Transaction {
	return model.Transaction{
		Date:            in.Date,
		Description:     in.Description,
		Amount:          in.Amount,
		Category:        in.Category,
		SubCategory:     in.SubCategory,
		TransactionType: in.TransactionType,
		AccountName:     in.AccountName,
		Notes:           in.Notes,
	}
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
