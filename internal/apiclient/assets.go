package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/erazemk/trgovina/internal/model"
)

// AssetQuery filters the asset listing. The API lists active assets only
// unless IncludeInactive is set.
type AssetQuery struct {
	IncludeInactive bool
	Category        string
}

// AssetsAPI wraps /api/assets.
type AssetsAPI struct {
	c *Client
}

// List returns assets matching the query.
func (a *AssetsAPI) List(ctx context.Context, q AssetQuery) ([]model.Asset, error) {
	v := url.Values{}
	if q.IncludeInactive {
		v.Set("active_only", "false")
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	path := "/api/assets"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}

	var out struct {
		Assets []model.Asset `json:"assets"`
	}
	if err := a.c.do(ctx, "assets.list", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Assets, nil
}

// Get returns the asset with the given ID.
func (a *AssetsAPI) Get(ctx context.Context, id int64) (*model.Asset, error) {
	var out struct {
		Asset *model.Asset `json:"asset"`
	}
	if err := a.c.do(ctx, "assets.get", http.MethodGet, "/api/assets/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	if out.Asset == nil {
		return nil, &APIError{Status: http.StatusOK, Message: "Asset not found"}
	}
	return out.Asset, nil
}

// Create records a new asset.
func (a *AssetsAPI) Create(ctx context.Context, in model.AssetInput) (Result, error) {
	var out Result
	err := a.c.do(ctx, "assets.create", http.MethodPost, "/api/assets", in, &out)
	return out, err
}

// Update replaces the asset with the given ID.
func (a *AssetsAPI) Update(ctx context.Context, id int64, in model.AssetInput) (Result, error) {
	var out Result
	err := a.c.do(ctx, "assets.update", http.MethodPut, "/api/assets/"+strconv.FormatInt(id, 10), in, &out)
	return out, err
}

// Delete removes the asset with the given ID.
func (a *AssetsAPI) Delete(ctx context.Context, id int64) (Result, error) {
	var out Result
	err := a.c.do(ctx, "assets.delete", http.MethodDelete, "/api/assets/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}
