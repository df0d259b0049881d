package model

// Item is an inventory item as returned by the inventory API. The SKU is
// assigned by the server and never changes.
type Item struct {
	SKU              string   `json:"sku"`
	Name             string   `json:"name"`
	Brand            string   `json:"brand,omitempty"`
	ItemType         string   `json:"item_type,omitempty"`
	Category         string   `json:"category"`
	Size             string   `json:"size,omitempty"`
	Condition        string   `json:"condition,omitempty"`
	CostOfItem       float64  `json:"cost_of_item"`
	SellingPrice     float64  `json:"selling_price"`
	SoldPrice        *float64 `json:"sold_price,omitempty"`
	CollectionDrop   string   `json:"collection_drop,omitempty"`
	ListingStatus    string   `json:"listing_status"`
	Location         string   `json:"location,omitempty"`
	Description      string   `json:"description,omitempty"`
	DateAdded        string   `json:"date_added,omitempty"`
	MarginPercentage float64  `json:"margin_percentage,omitempty"`
	ProfitAmount     float64  `json:"profit_amount,omitempty"`
}

// ItemInput is the request body for creating or updating an inventory item.
type ItemInput struct {
	Name           string  `json:"name" validate:"required"`
	Brand          string  `json:"brand" validate:"required"`
	ItemType       string  `json:"item_type" validate:"required"`
	Category       string  `json:"category" validate:"required"`
	Size           string  `json:"size" validate:"required"`
	Condition      string  `json:"condition" validate:"required"`
	CostOfItem     float64 `json:"cost_of_item" validate:"gte=0.01"`
	SellingPrice   float64 `json:"selling_price" validate:"gte=0.01"`
	CollectionDrop string  `json:"collection_drop"`
	ListingStatus  string  `json:"listing_status" validate:"required,oneof=inventory listed sold kept"`
	Location       string  `json:"location"`
	Description    string  `json:"description"`
}

// Sale is the request body for marking an item as sold.
type Sale struct {
	FinalPrice float64 `json:"final_price" validate:"gt=0"`
	SaleDate   string  `json:"sale_date" validate:"required"`
	Platform   string  `json:"platform" validate:"required"`
	Notes      string  `json:"notes"`
}

// Listing statuses.
const (
	StatusInventory = "inventory"
	StatusListed    = "listed"
	StatusSold      = "sold"
	StatusKept      = "kept"
)

// ListingStatuses lists every listing status in lifecycle order.
var ListingStatuses = []string{StatusInventory, StatusListed, StatusSold, StatusKept}

// Item conditions.
const (
	ConditionNWT  = "NWT"
	ConditionNWOT = "NWOT"
	ConditionGood = "good"
	ConditionFair = "fair"
	ConditionPoor = "poor"
)

// Sale platforms.
var Platforms = []string{"Facebook", "Instagram", "Poshmark", "F&F", "Other"}

// DefaultPlatform is used when a sale does not name a platform.
const DefaultPlatform = "Other"

// CanSell reports whether the item can still be marked as sold.
func (i Item) CanSell() bool {
	return i.ListingStatus != StatusSold
}

// StatusBadge returns the badge class for a listing status.
func StatusBadge(status string) string {
	switch status {
	case StatusSold:
		return "bg-success"
	case StatusListed:
		return "bg-info"
	case StatusInventory:
		return "bg-primary"
	case StatusKept:
		return "bg-warning"
	default:
		return "bg-secondary"
	}
}

// ConditionBadge returns the badge class for an item condition.
func ConditionBadge(condition string) string {
	switch condition {
	case ConditionNWT:
		return "bg-success"
	case ConditionNWOT:
		return "bg-info"
	case ConditionGood:
		return "bg-primary"
	case ConditionFair:
		return "bg-warning"
	case ConditionPoor:
		return "bg-danger"
	default:
		return "bg-secondary"
	}
}

// Summary holds server-computed inventory totals.
type Summary struct {
	TotalItems      int     `json:"total_items"`
	AvailableItems  int     `json:"available_items"`
	SoldItems       int     `json:"sold_items"`
	TotalCost       float64 `json:"total_cost"`
	TotalValue      float64 `json:"total_value"`
	PotentialProfit float64 `json:"potential_profit"`
}

// FilterOptions holds the values offered by the inventory filter dropdowns.
type FilterOptions struct {
	Categories []string `json:"categories"`
	Conditions []string `json:"conditions"`
	Brands     []string `json:"brands"`
	Statuses   []string `json:"statuses"`
	Drops      []string `json:"drops"`
}

// CatalogEntry is a named inventory category or condition.
type CatalogEntry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
