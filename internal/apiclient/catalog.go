package apiclient

import (
	"context"
	"net/http"

	"github.com/erazemk/trgovina/internal/model"
)

// CatalogAPI wraps the inventory category and condition endpoints.
type CatalogAPI struct {
	c *Client
}

// CategoriesAndConditions returns the categories and conditions offered in
// the inventory form.
func (a *CatalogAPI) CategoriesAndConditions(ctx context.Context) (categories, conditions []model.CatalogEntry, err error) {
	var out struct {
		Categories []model.CatalogEntry `json:"categories"`
		Conditions []model.CatalogEntry `json:"conditions"`
	}
	if err := a.c.do(ctx, "catalog.list", http.MethodGet, "/api/categories-and-conditions", nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Categories, out.Conditions, nil
}

// AddCategory creates an inventory category and returns the updated list.
func (a *CatalogAPI) AddCategory(ctx context.Context, entry model.CatalogEntry) ([]model.CatalogEntry, error) {
	var out struct {
		Categories []model.CatalogEntry `json:"categories"`
	}
	if err := a.c.do(ctx, "catalog.add_category", http.MethodPost, "/api/categories/inventory", entry, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// AddCondition creates an item condition and returns the updated list.
func (a *CatalogAPI) AddCondition(ctx context.Context, entry model.CatalogEntry) ([]model.CatalogEntry, error) {
	var out struct {
		Conditions []model.CatalogEntry `json:"conditions"`
	}
	if err := a.c.do(ctx, "catalog.add_condition", http.MethodPost, "/api/conditions", entry, &out); err != nil {
		return nil, err
	}
	return out.Conditions, nil
}
