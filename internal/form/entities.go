package form

import (
	"strconv"
	"time"

	"github.com/erazemk/trgovina/internal/categories"
	"github.com/erazemk/trgovina/internal/model"
)

// ItemForm collects the inventory item form.
type ItemForm struct{}

var itemLabels = map[string]string{
	"name":            "Name",
	"brand":           "Brand",
	"item_type":       "Item type",
	"category":        "Category",
	"size":            "Size",
	"condition":       "Condition",
	"cost_of_item":    "Cost",
	"selling_price":   "Selling price",
	"collection_drop": "Collection drop",
	"listing_status":  "Listing status",
	"location":        "Location",
	"description":     "Description",
}

// Fields lists the item form fields in display order.
func (ItemForm) Fields() []string {
	return []string{
		"name", "brand", "item_type", "category", "size", "condition",
		"cost_of_item", "selling_price", "collection_drop", "listing_status",
		"location", "description",
	}
}

// Defaults returns the values of an empty create form.
func (ItemForm) Defaults(time.Time) Values {
	return Values{"listing_status": model.StatusInventory}
}

// Populate fills the form from an existing item.
func (ItemForm) Populate(it *model.Item) Values {
	return Values{
		"name":            it.Name,
		"brand":           it.Brand,
		"item_type":       it.ItemType,
		"category":        it.Category,
		"size":            it.Size,
		"condition":       it.Condition,
		"cost_of_item":    FormatAmount(it.CostOfItem),
		"selling_price":   FormatAmount(it.SellingPrice),
		"collection_drop": it.CollectionDrop,
		"listing_status":  it.ListingStatus,
		"location":        it.Location,
		"description":     it.Description,
	}
}

// Collect builds the request body and validates it.
func (ItemForm) Collect(v Values) (model.ItemInput, *Errors) {
	errs := NewErrors()
	in := model.ItemInput{
		Name:           v.Get("name"),
		Brand:          v.Get("brand"),
		ItemType:       v.Get("item_type"),
		Category:       v.Get("category"),
		Size:           v.Get("size"),
		Condition:      v.Get("condition"),
		CollectionDrop: v.Get("collection_drop"),
		ListingStatus:  v.Get("listing_status"),
		Location:       v.Get("location"),
		Description:    v.Get("description"),
	}
	if in.ListingStatus == "" {
		in.ListingStatus = model.StatusInventory
	}
	in.CostOfItem = number(v, "cost_of_item", itemLabels["cost_of_item"], errs)
	in.SellingPrice = number(v, "selling_price", itemLabels["selling_price"], errs)
	check(in, itemLabels, errs)
	return in, errs
}

// SaleForm collects the mark-as-sold form.
type SaleForm struct{}

var saleLabels = map[string]string{
	"final_price": "Final price",
	"sale_date":   "Sale date",
	"platform":    "Platform",
	"notes":       "Notes",
}

// Fields lists the sale form fields.
func (SaleForm) Fields() []string {
	return []string{"final_price", "sale_date", "platform", "notes"}
}

// Defaults prefills the sale form for it: its selling price, today's date
// and the default platform.
func (SaleForm) Defaults(now time.Time, it *model.Item) Values {
	v := Values{
		"sale_date": now.Format(DateLayout),
		"platform":  model.DefaultPlatform,
	}
	if it != nil {
		v["final_price"] = FormatAmount(it.SellingPrice)
	}
	return v
}

// Collect builds the sale request body and validates it.
func (SaleForm) Collect(v Values) (model.Sale, *Errors) {
	errs := NewErrors()
	sale := model.Sale{
		SaleDate: v.Get("sale_date"),
		Platform: v.Get("platform"),
		Notes:    v.Get("notes"),
	}
	if sale.Platform == "" {
		sale.Platform = model.DefaultPlatform
	}
	sale.FinalPrice = number(v, "final_price", saleLabels["final_price"], errs)
	check(sale, saleLabels, errs)
	return sale, errs
}

// TransactionForm collects the expense form.
type TransactionForm struct{}

var transactionLabels = map[string]string{
	"date":             "Date",
	"description":      "Description",
	"amount":           "Amount",
	"category":         "Category",
	"sub_category":     "Sub-category",
	"transaction_type": "Type",
	"account_name":     "Account",
	"notes":            "Notes",
}

// Fields lists the expense form fields.
func (TransactionForm) Fields() []string {
	return []string{
		"date", "description", "amount", "category", "sub_category",
		"transaction_type", "account_name", "notes",
	}
}

// Defaults returns today's date, the expense type and the default account.
func (TransactionForm) Defaults(now time.Time) Values {
	return Values{
		"date":             now.Format(DateLayout),
		"transaction_type": model.TransactionExpense,
		"account_name":     model.DefaultExpenseAccount,
	}
}

// Populate fills the form from an existing transaction.
func (TransactionForm) Populate(tx *model.Transaction) Values {
	return Values{
		"date":             tx.Date,
		"description":      tx.Description,
		"amount":           FormatAmount(tx.Amount),
		"category":         tx.Category,
		"sub_category":     tx.SubCategory,
		"transaction_type": tx.TransactionType,
		"account_name":     tx.AccountName,
		"notes":            tx.Notes,
	}
}

// Collect builds the transaction request body and validates it. The type is
// always Expense.
func (TransactionForm) Collect(v Values) (model.TransactionInput, *Errors) {
	errs := NewErrors()
	in := model.TransactionInput{
		Date:            v.Get("date"),
		Description:     v.Get("description"),
		Category:        v.Get("category"),
		SubCategory:     v.Get("sub_category"),
		TransactionType: model.TransactionExpense,
		AccountName:     v.Get("account_name"),
		Notes:           v.Get("notes"),
	}
	if in.AccountName == "" {
		in.AccountName = model.DefaultExpenseAccount
	}
	in.Amount = number(v, "amount", transactionLabels["amount"], errs)
	check(in, transactionLabels, errs)
	subCategory(categories.Expense, in.Category, in.SubCategory, errs)
	return in, errs
}

// AssetForm collects the asset form.
type AssetForm struct{}

var assetLabels = map[string]string{
	"name":                 "Name",
	"asset_type":           "Asset type",
	"purchase_date":        "Purchase date",
	"purchase_price":       "Purchase price",
	"expense_category":     "Expense category",
	"expense_sub_category": "Expense sub-category",
	"account_name":         "Account",
	"description":          "Description",
	"is_active":            "Active",
}

// Fields lists the asset form fields.
func (AssetForm) Fields() []string {
	return []string{
		"name", "asset_type", "purchase_date", "purchase_price",
		"expense_category", "expense_sub_category", "account_name",
		"description", "is_active",
	}
}

// Defaults returns the values of an empty asset form.
func (AssetForm) Defaults(now time.Time) Values {
	return Values{
		"purchase_date":        now.Format(DateLayout),
		"expense_category":     categories.DefaultAssetCategory,
		"expense_sub_category": categories.DefaultAssetSubCategory,
		"account_name":         model.DefaultAssetAccount,
		"is_active":            "true",
	}
}

// Populate fills the form from an existing asset.
func (AssetForm) Populate(a *model.Asset) Values {
	return Values{
		"name":                 a.Name,
		"asset_type":           a.AssetType,
		"purchase_date":        a.PurchaseDate,
		"purchase_price":       FormatAmount(a.PurchasePrice),
		"expense_category":     a.AssetCategory,
		"expense_sub_category": a.ExpenseSubCategory,
		"account_name":         a.AccountName,
		"description":          a.Description,
		"is_active":            strconv.FormatBool(a.IsActive),
	}
}

// Collect builds the asset request body and validates it.
func (AssetForm) Collect(v Values) (model.AssetInput, *Errors) {
	errs := NewErrors()
	in := model.AssetInput{
		Name:               v.Get("name"),
		AssetType:          v.Get("asset_type"),
		PurchaseDate:       v.Get("purchase_date"),
		ExpenseCategory:    v.Get("expense_category"),
		ExpenseSubCategory: v.Get("expense_sub_category"),
		AccountName:        v.Get("account_name"),
		Description:        v.Get("description"),
		IsActive:           checked(v.Get("is_active")),
	}
	if in.AccountName == "" {
		in.AccountName = model.DefaultAssetAccount
	}
	in.PurchasePrice = number(v, "purchase_price", assetLabels["purchase_price"], errs)
	check(in, assetLabels, errs)
	subCategory(categories.Asset, in.ExpenseCategory, in.ExpenseSubCategory, errs)
	return in, errs
}

// CatalogForm collects the add-category and add-condition forms.
type CatalogForm struct{}

// Fields lists the catalog form fields.
func (CatalogForm) Fields() []string {
	return []string{"name", "description"}
}

// Collect builds a catalog entry. Only the name is required.
func (CatalogForm) Collect(v Values) (model.CatalogEntry, *Errors) {
	errs := NewErrors()
	entry := model.CatalogEntry{Name: v.Get("name"), Description: v.Get("description")}
	if entry.Name == "" {
		errs.Add("name", "Name is required", true)
	}
	return entry, errs
}

func checked(s string) bool {
	switch s {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

// subCategory rejects a sub-category that does not belong to category.
func subCategory(kind categories.Kind, category, sub string, errs *Errors) {
	if category == "" || sub == "" {
		return
	}
	subs, ok := categories.SubCategories(kind, category)
	if !ok {
		return
	}
	for _, s := range subs {
		if s == sub {
			return
		}
	}
	errs.Add(subCategoryField(kind), "Sub-category does not belong to "+category, false)
}

func subCategoryField(kind categories.Kind) string {
	if kind == categories.Asset {
		return "expense_sub_category"
	}
	return "sub_category"
}
