package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/erazemk/trgovina/internal/model"
)

// InventoryAPI wraps /api/inventory.
type InventoryAPI struct {
	c *Client
}

// List returns inventory items. Non-empty filters are sent as query
// parameters.
func (a *InventoryAPI) List(ctx context.Context, filters map[string]string) ([]model.Item, error) {
	path := "/api/inventory"
	q := url.Values{}
	for k, v := range filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out struct {
		Items []model.Item `json:"items"`
	}
	if err := a.c.do(ctx, "inventory.list", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Get returns the item with the given SKU.
func (a *InventoryAPI) Get(ctx context.Context, sku string) (*model.Item, error) {
	var out struct {
		Item *model.Item `json:"item"`
	}
	if err := a.c.do(ctx, "inventory.get", http.MethodGet, "/api/inventory/"+url.PathEscape(sku), nil, &out); err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, &APIError{Status: http.StatusOK, Message: "Item not found"}
	}
	return out.Item, nil
}

// Create adds a new item.
func (a *InventoryAPI) Create(ctx context.Context, in model.ItemInput) (Result, error) {
	var out Result
	err := a.c.do(ctx, "inventory.create", http.MethodPost, "/api/inventory", in, &out)
	return out, err
}

// Update replaces the item with the given SKU.
func (a *InventoryAPI) Update(ctx context.Context, sku string, in model.ItemInput) (Result, error) {
	var out Result
	err := a.c.do(ctx, "inventory.update", http.MethodPut, "/api/inventory/"+url.PathEscape(sku), in, &out)
	return out, err
}

// Delete removes the item with the given SKU.
func (a *InventoryAPI) Delete(ctx context.Context, sku string) (Result, error) {
	var out Result
	err := a.c.do(ctx, "inventory.delete", http.MethodDelete, "/api/inventory/"+url.PathEscape(sku), nil, &out)
	return out, err
}

// Sell marks the item with the given SKU as sold.
func (a *InventoryAPI) Sell(ctx context.Context, sku string, sale model.Sale) (Result, error) {
	var out Result
	err := a.c.do(ctx, "inventory.sell", http.MethodPost, "/api/inventory/"+url.PathEscape(sku)+"/sell", sale, &out)
	return out, err
}

// Search returns the items matching the given filters.
func (a *InventoryAPI) Search(ctx context.Context, filters map[string]string) ([]model.Item, error) {
	body := make(map[string]string, len(filters))
	for k, v := range filters {
		if v != "" {
			body[k] = v
		}
	}

	var out struct {
		Items []model.Item `json:"items"`
	}
	if err := a.c.do(ctx, "inventory.search", http.MethodPost, "/api/inventory/search", body, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Summary returns inventory totals. On failure it returns a zero summary
// along with the error so callers can render without checking.
func (a *InventoryAPI) Summary(ctx context.Context) (model.Summary, error) {
	var out struct {
		Summary *model.Summary `json:"summary"`
	}
	if err := a.c.do(ctx, "inventory.summary", http.MethodGet, "/api/inventory/summary", nil, &out); err != nil {
		return model.Summary{}, err
	}
	if out.Summary == nil {
		return model.Summary{}, nil
	}
	return *out.Summary, nil
}

// Brands returns the distinct brands in inventory, or an empty list on
// failure.
func (a *InventoryAPI) Brands(ctx context.Context) ([]string, error) {
	var out struct {
		Brands []string `json:"brands"`
	}
	if err := a.c.do(ctx, "inventory.brands", http.MethodGet, "/api/inventory/brands", nil, &out); err != nil {
		return []string{}, err
	}
	if out.Brands == nil {
		return []string{}, nil
	}
	return out.Brands, nil
}

// FilterOptions returns the values offered by the filter dropdowns.
func (a *InventoryAPI) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	var out model.FilterOptions
	if err := a.c.do(ctx, "inventory.filter_options", http.MethodGet, "/api/inventory/filter-options", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckEditPermissions reports whether the item may still be edited.
func (a *InventoryAPI) CheckEditPermissions(ctx context.Context, sku string) (bool, error) {
	var out struct {
		CanEdit bool `json:"can_edit"`
	}
	if err := a.c.do(ctx, "inventory.check_edit", http.MethodGet, "/api/inventory/check-edit-permissions/"+url.PathEscape(sku), nil, &out); err != nil {
		return false, err
	}
	return out.CanEdit, nil
}
