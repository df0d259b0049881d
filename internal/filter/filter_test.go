package filter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/trgovina/internal/apiclient"
	"github.com/erazemk/trgovina/internal/fakeapi"
	"github.com/erazemk/trgovina/internal/model"
)

func newAPI(t *testing.T) (*fakeapi.Server, *apiclient.InventoryAPI) {
	t.Helper()
	fake := fakeapi.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return fake, apiclient.New(srv.URL, "", 0, nil).Inventory()
}

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestLoadFromURL(t *testing.T) {
	_, api := newAPI(t)
	c := New(Navigate, "/inventory", api)
	c.Load(mustURL(t, "/inventory?status=listed&brand=Acme&page=3"))

	assert.Equal(t, "listed", c.Get("status"))
	assert.Equal(t, "Acme", c.Get("brand"))
	assert.Empty(t, c.Get("category"))
	assert.Equal(t, []string{"Status: listed", "Brand: Acme"}, c.Summary())
	assert.Equal(t, map[string]string{"status": "listed", "brand": "Acme"}, c.Values())
}

func TestNavigateApply(t *testing.T) {
	fake, api := newAPI(t)
	c := New(Navigate, "/inventory", api)
	require.True(t, c.Set("brand", "Acme & Co"))
	require.True(t, c.Set("search", "linen dress"))
	assert.False(t, c.Set("color", "red"))

	res, err := c.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/inventory?search=linen+dress&brand=Acme+%26+Co", res.URL)
	assert.Nil(t, res.Items)
	assert.Zero(t, fake.Calls("POST /api/inventory/search"))

	assert.Equal(t, []string{`Search: "linen dress"`, "Brand: Acme & Co"}, c.Summary())
}

func TestSearchApply(t *testing.T) {
	fake, api := newAPI(t)
	fake.SeedItem(model.Item{Name: "Linen dress", Brand: "Acme", Category: "dresses", ListingStatus: model.StatusListed})
	fake.SeedItem(model.Item{Name: "Wool coat", Brand: "Other", Category: "outerwear"})

	c := New(Search, "/inventory", api)
	c.Set("brand", "Acme")

	res, err := c.Apply(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.URL)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Linen dress", res.Items[0].Name)
	assert.Equal(t, 1, fake.Calls("POST /api/inventory/search"))
}

func TestSearchApplyFailure(t *testing.T) {
	fake, api := newAPI(t)
	fake.Fail("POST /api/inventory/search", http.StatusInternalServerError, "Search failed")

	_, err := New(Search, "/inventory", api).Apply(context.Background())
	assert.Equal(t, "Search failed", apiclient.Message(err, ""))
}

func TestClearAllAndRemove(t *testing.T) {
	_, api := newAPI(t)
	c := New(Navigate, "/inventory", api)
	c.Load(mustURL(t, "/inventory?status=sold&category=tops&drop=Spring"))

	assert.Equal(t, "/inventory?status=sold&drop=Spring", c.URLWithout("category"))
	assert.Equal(t, "tops", c.Get("category"))

	chips := c.Chips()
	require.Len(t, chips, 3)
	assert.Equal(t, Chip{Key: "drop", Label: "Collection: Spring", Remove: "/inventory?status=sold&category=tops"}, chips[2])

	c.Remove("status")
	assert.Equal(t, "/inventory?category=tops&drop=Spring", c.URL())

	assert.Equal(t, "/inventory", c.ClearAll())
	assert.False(t, c.Active())
	assert.Empty(t, c.Summary())
	assert.Equal(t, "/inventory", c.URL())
}

func TestLoadOptions(t *testing.T) {
	fake, api := newAPI(t)
	fake.SeedItem(model.Item{Name: "Dress", Brand: "Acme", Category: "dresses", Condition: model.ConditionNWT})
	c := New(Navigate, "/inventory", api)

	opts := c.LoadOptions(context.Background(), nil)
	assert.Equal(t, []string{"Acme"}, opts.Brands)
	assert.NotEmpty(t, opts.Statuses)
}

func TestLoadOptionsFallback(t *testing.T) {
	fake, api := newAPI(t)
	fake.Fail("GET /api/inventory/filter-options", http.StatusBadGateway, "")
	c := New(Navigate, "/inventory", api)

	items := []model.Item{
		{Brand: "Zeta", Category: "tops", CollectionDrop: "Spring"},
		{Brand: "Acme", Category: "tops", Condition: model.ConditionGood},
	}
	opts := c.LoadOptions(context.Background(), items)
	assert.Equal(t, []string{"Acme", "Zeta"}, opts.Brands)
	assert.Equal(t, []string{"tops"}, opts.Categories)
	assert.Equal(t, []string{model.ConditionGood}, opts.Conditions)
	assert.Equal(t, []string{"Spring"}, opts.Drops)
	assert.Equal(t, model.ListingStatuses, opts.Statuses)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Search")
	require.NoError(t, err)
	assert.Equal(t, Search, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Navigate, m)

	_, err = ParseMode("ajax")
	assert.Error(t, err)
}

func TestLoadOptionsFallbackKeepsBrands(t *testing.T) {
	fake, api := newAPI(t)
	fake.SeedItem(model.Item{Name: "Coat", Brand: "Nordic", Category: "coats"})
	fake.Fail("GET /api/inventory/filter-options", http.StatusInternalServerError, "")
	c := New(Navigate, "/inventory", api)

	opts := c.LoadOptions(context.Background(), []model.Item{{Brand: "Acme", Category: "tops"}})
	assert.Equal(t, []string{"Nordic"}, opts.Brands)
	assert.Equal(t, []string{"tops"}, opts.Categories)
	assert.Equal(t, 1, fake.Calls("GET /api/inventory/brands"))
}

func TestLoadOptionsFallbackWithoutBrands(t *testing.T) {
	fake, api := newAPI(t)
	fake.Fail("GET /api/inventory/filter-options", http.StatusInternalServerError, "")
	fake.Fail("GET /api/inventory/brands", http.StatusInternalServerError, "")
	c := New(Navigate, "/inventory", api)

	opts := c.LoadOptions(context.Background(), []model.Item{{Brand: "Acme"}})
	assert.Equal(t, []string{"Acme"}, opts.Brands)
}
