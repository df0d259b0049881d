package model

// Transaction is a business transaction. This front end only records expenses.
type Transaction struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`
	Description     string  `json:"description"`
	Amount          float64 `json:"amount"`
	Category        string  `json:"category"`
	SubCategory     string  `json:"sub_category,omitempty"`
	TransactionType string  `json:"transaction_type"`
	AccountName     string  `json:"account_name"`
	Vendor          string  `json:"vendor,omitempty"`
	InvoiceNumber   string  `json:"invoice_number,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

// TransactionInput is the request body for creating or updating a transaction.
type TransactionInput struct {
	Date            string  `json:"date" validate:"required"`
	Description     string  `json:"description" validate:"required"`
	Amount          float64 `json:"amount" validate:"gt=0"`
	Category        string  `json:"category" validate:"required"`
	SubCategory     string  `json:"sub_category"`
	TransactionType string  `json:"transaction_type" validate:"required"`
	AccountName     string  `json:"account_name"`
	Notes           string  `json:"notes"`
}

// Transaction types.
const (
	TransactionExpense = "Expense"
	TransactionIncome  = "Income"
)

// DefaultExpenseAccount is the account expenses are booked against by default.
const DefaultExpenseAccount = "Business Account"

// Pagination describes one page of a paginated listing.
type Pagination struct {
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// TransactionPage is one page of transactions.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Pagination   Pagination    `json:"pagination"`
}

// FinancialSummary holds the revenue, expense and profit totals for one
// month and for the year to date.
type FinancialSummary struct {
	MonthlyRevenue  float64 `json:"monthly_revenue"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	MonthlyProfit   float64 `json:"monthly_profit"`
	YTDRevenue      float64 `json:"ytd_revenue"`
	YTDExpenses     float64 `json:"ytd_expenses"`
	YTDProfit       float64 `json:"ytd_profit"`
}

// CategoryTotals is one row of the per-category breakdown.
type CategoryTotals struct {
	Name             string  `json:"name"`
	Income           float64 `json:"income"`
	Expenses         float64 `json:"expenses"`
	Net              float64 `json:"net"`
	TransactionCount int     `json:"transaction_count"`
}

// FinancialReport is the response of the transactions summary endpoint.
type FinancialReport struct {
	Summary    FinancialSummary `json:"summary"`
	Categories []CategoryTotals `json:"category_breakdown"`
}
