package editor

import (
	"fmt"

	"github.com/erazemk/trgovina/internal/apiclient"
	"github.com/erazemk/trgovina/internal/form"
	"github.com/erazemk/trgovina/internal/model"
)

// Transactions edits expenses.
type Transactions = Manager[model.Transaction, model.TransactionInput, int64]

// Assets edits assets.
type Assets = Manager[model.Asset, model.AssetInput, int64]

// NewTransactions returns the expense manager. Saves and deletes reload
// the page.
func NewTransactions(api *apiclient.TransactionsAPI, deps Deps) *Transactions {
	return New(Config[model.Transaction, model.TransactionInput, int64]{
		Noun:         "transaction",
		Store:        api,
		Form:         form.TransactionForm{},
		Table:        TransactionTable,
		DeletePrompt: "Are you sure you want to delete this transaction? This action cannot be undone.",
		AfterSave:    Reload,
		AfterDelete:  Reload,
		Saved: func(editing bool, in model.TransactionInput, _ apiclient.Result) string {
			if editing {
				return fmt.Sprintf(`Expense "%s" updated successfully!`, in.Description)
			}
			return fmt.Sprintf(`Expense "%s" added successfully!`, in.Description)
		},
		Deleted: func(res apiclient.Result) string {
			return orDefault(res.Message, "Transaction deleted successfully")
		},
	}, deps)
}

// NewAssets returns the asset manager. Saves and deletes reload the page.
func NewAssets(api *apiclient.AssetsAPI, deps Deps) *Assets {
	return New(Config[model.Asset, model.AssetInput, int64]{
		Noun:         "asset",
		Store:        api,
		Form:         form.AssetForm{},
		Table:        AssetTable,
		DeletePrompt: "Are you sure you want to delete this asset? This action cannot be undone.",
		AfterSave:    Reload,
		AfterDelete:  Reload,
		Saved: func(editing bool, _ model.AssetInput, res apiclient.Result) string {
			if editing {
				return orDefault(res.Message, "Asset updated successfully!")
			}
			return orDefault(res.Message, "Asset added successfully!")
		},
		Deleted: func(res apiclient.Result) string {
			return orDefault(res.Message, "Asset deleted successfully")
		},
	}, deps)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
