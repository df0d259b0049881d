// Package categories holds the fixed category to sub-category tables used
// by the expense and asset forms.
package categories

import "slices"

// Kind selects a category table.
type Kind string

// Category tables.
const (
	Expense Kind = "expense"
	Asset   Kind = "asset"
)

// Asset form defaults.
const (
	DefaultAssetCategory    = "Equipment & Supplies"
	DefaultAssetSubCategory = "Asset Purchase"
)

var expenseCategories = []string{
	"Cost of Goods Sold",
	"Operations",
	"Marketing",
	"Administrative",
	"Technology",
	"Travel",
	"Professional Services",
	"Equipment",
	"Utilities",
	"Office Expenses",
	"Insurance",
	"Other",
}

var expenseSubCategories = map[string][]string{
	"Cost of Goods Sold": {
		"Inventory Purchase", "Product Materials", "Shipping & Fulfillment",
		"Packaging Materials", "Product Photography", "Alterations & Repairs",
	},
	"Operations": {
		"Venue Rental", "Market Fees", "Storage", "Equipment Rental",
		"Pop-up Shop Costs", "Event Fees",
	},
	"Marketing": {
		"Social Media Ads", "Photography", "Website & E-commerce", "Print Materials",
		"Influencer Collaborations", "Content Creation", "Brand Development",
	},
	"Administrative": {
		"Banking Fees", "Legal & Professional", "Office Supplies",
		"Software Subscriptions", "Accounting Services", "Business Registration",
	},
	"Technology": {
		"POS System", "Website Hosting", "Software Licenses", "Equipment Purchase",
		"App Subscriptions", "Tech Support",
	},
	"Travel": {
		"Mileage", "Parking & Tolls", "Accommodation", "Meals", "Transportation",
		"Trade Show Travel",
	},
	"Professional Services": {
		"Accounting", "Legal Consultation", "Business Consulting",
		"Photography Services", "Design Services", "Marketing Consulting",
	},
	"Equipment": {
		"Display Equipment", "Storage Solutions", "POS Equipment",
		"Photography Equipment", "Packaging Supplies", "Tools & Accessories",
	},
	"Utilities": {
		"Internet", "Phone", "Electricity", "Water", "Cloud Storage",
		"Communication Tools",
	},
	"Office Expenses": {
		"Supplies", "Furniture", "Printing", "Stationery", "Organization Tools",
	},
	"Insurance": {
		"Business Insurance", "Product Liability", "Equipment Insurance",
		"Health Insurance",
	},
}

var assetCategories = []string{
	"Cost of Goods Sold",
	"Marketing & Advertising",
	"Operations",
	"Equipment & Supplies",
	"Professional Services",
	"Travel & Transport",
	"Other Expenses",
}

var assetSubCategories = map[string][]string{
	"Cost of Goods Sold": {
		"Inventory Purchase", "Raw Materials", "Direct Labor", "Manufacturing Costs",
	},
	"Marketing & Advertising": {
		"Online Advertising", "Print Advertising", "Social Media Marketing",
		"Website & SEO", "Business Cards", "Promotional Materials",
	},
	"Operations": {
		"Rent & Utilities", "Office Supplies", "Venue Rental", "Storage Costs",
		"Maintenance & Repairs",
	},
	"Equipment & Supplies": {
		"Computer Equipment", "Office Furniture", "POS Systems", "Software Licenses",
		"Tools & Equipment", "Asset Purchase",
	},
	"Professional Services": {
		"Legal Services", "Accounting Services", "Consulting", "Banking Fees",
		"Insurance",
	},
	"Travel & Transport": {
		"Business Travel", "Vehicle Expenses", "Shipping & Delivery", "Transportation",
	},
	"Other Expenses": {
		"Miscellaneous", "One-time Costs", "Unexpected Expenses",
	},
}

func tables(kind Kind) ([]string, map[string][]string) {
	switch kind {
	case Expense:
		return expenseCategories, expenseSubCategories
	case Asset:
		return assetCategories, assetSubCategories
	default:
		return nil, nil
	}
}

// Categories returns the top-level categories of kind in display order.
func Categories(kind Kind) []string {
	cats, _ := tables(kind)
	return slices.Clone(cats)
}

// SubCategories returns the sub-categories of category. The second result
// is false when the category has no sub-categories.
func SubCategories(kind Kind, category string) ([]string, bool) {
	_, subs := tables(kind)
	list, ok := subs[category]
	if !ok {
		return nil, false
	}
	return slices.Clone(list), true
}

// Keys returns every category of kind that has sub-categories.
func Keys(kind Kind) []string {
	cats, subs := tables(kind)
	var out []string
	for _, c := range cats {
		if _, ok := subs[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ParseKind converts a URL segment to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case Expense, Asset:
		return Kind(s), true
	default:
		return "", false
	}
}

// DefaultSubCategory returns the sub-category preselected when category is
// chosen, or "" when none is.
func DefaultSubCategory(kind Kind, category string) string {
	if kind == Asset && category == DefaultAssetCategory {
		return DefaultAssetSubCategory
	}
	return ""
}
