package model

// Asset is a tracked business asset.
type Asset struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	AssetType          string  `json:"asset_type"`
	AssetCategory      string  `json:"asset_category"`
	ExpenseSubCategory string  `json:"expense_sub_category,omitempty"`
	AccountName        string  `json:"account_name,omitempty"`
	PurchaseDate       string  `json:"purchase_date"`
	PurchasePrice      float64 `json:"purchase_price"`
	Description        string  `json:"description,omitempty"`
	IsActive           bool    `json:"is_active"`
}

// AssetInput is the request body for creating or updating an asset.
type AssetInput struct {
	Name               string  `json:"name" validate:"required"`
	AssetType          string  `json:"asset_type" validate:"required"`
	PurchaseDate       string  `json:"purchase_date" validate:"required"`
	PurchasePrice      float64 `json:"purchase_price" validate:"gt=0"`
	ExpenseCategory    string  `json:"expense_category" validate:"required"`
	ExpenseSubCategory string  `json:"expense_sub_category"`
	AccountName        string  `json:"account_name"`
	Description        string  `json:"description"`
	IsActive           bool    `json:"is_active"`
}

// DefaultAssetAccount is the account assets are purchased from by default.
const DefaultAssetAccount = "Business Checking"
