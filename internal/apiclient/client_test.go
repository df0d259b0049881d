package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/trgovina/internal/fakeapi"
	"github.com/erazemk/trgovina/internal/model"
)

func newFake(t *testing.T) (*fakeapi.Server, *Client) {
	t.Helper()
	fake := fakeapi.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return fake, New(srv.URL, "", 0, nil)
}

func stubServer(t *testing.T, status int, contentType, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, "", 0, nil)
}

func TestServerReportedErrorKeepsMessage(t *testing.T) {
	c := stubServer(t, http.StatusOK, "application/json", `{"success": false, "error": "Item is already sold"}`)

	_, err := c.Inventory().Sell(context.Background(), "A1", model.Sale{FinalPrice: 10, SaleDate: "2024-05-01", Platform: "Other"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Item is already sold", apiErr.Message)
	assert.Equal(t, "Item is already sold", Message(err, NetworkMessage))
}

func TestNon2xxWithErrorBodyIsAPIError(t *testing.T) {
	c := stubServer(t, http.StatusBadRequest, "application/json", `{"success": false, "error": "No data provided"}`)

	_, err := c.Transactions().Create(context.Background(), model.TransactionInput{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "No data provided", apiErr.Message)
}

func TestNon2xxWithoutJSONIsNetworkError(t *testing.T) {
	c := stubServer(t, http.StatusBadGateway, "text/html", "<html>bad gateway</html>")

	_, err := c.Inventory().List(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Equal(t, NetworkMessage, Message(err, NetworkMessage))
}

func TestStatusCheckedBeforeSuccessFlag(t *testing.T) {
	// A body claiming success does not override a failing status.
	c := stubServer(t, http.StatusInternalServerError, "application/json", `{"success": true}`)

	_, err := c.Assets().Delete(context.Background(), 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestMalformedJSONIsNetworkError(t *testing.T) {
	c := stubServer(t, http.StatusOK, "application/json", `{"success": tru`)

	_, err := c.Assets().Get(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestUnreachableServerIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, "", 0, nil)
	_, err := c.Inventory().Get(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestAPIKeyHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-API-Key")
		w.Write([]byte(`{"success": true, "brands": ["Acme"]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "secret-key", 0, nil)
	brands, err := c.Inventory().Brands(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme"}, brands)
	assert.Equal(t, "secret-key", got)
}

func TestFallbacksOnFailure(t *testing.T) {
	c := stubServer(t, http.StatusInternalServerError, "application/json", `{"success": false, "error": "boom"}`)
	ctx := context.Background()

	summary, err := c.Inventory().Summary(ctx)
	assert.Error(t, err)
	assert.Equal(t, model.Summary{}, summary)

	brands, err := c.Inventory().Brands(ctx)
	assert.Error(t, err)
	assert.NotNil(t, brands)
	assert.Empty(t, brands)

	canEdit, err := c.Inventory().CheckEditPermissions(ctx, "A1")
	assert.Error(t, err)
	assert.False(t, canEdit)
}

func TestInventoryRoundTrip(t *testing.T) {
	fake, c := newFake(t)
	ctx := context.Background()
	inv := c.Inventory()

	res, err := inv.Create(ctx, model.ItemInput{
		Name: "Linen dress", Brand: "Acme", ItemType: "dress", Category: "dresses",
		Size: "M", Condition: model.ConditionNWT, CostOfItem: 12, SellingPrice: 40,
		ListingStatus: model.StatusListed,
	})
	require.NoError(t, err)
	assert.Contains(t, res.Message, "created")
	assert.Equal(t, 1, fake.Calls("POST /api/inventory"))

	items, err := inv.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	sku := items[0].SKU

	item, err := inv.Get(ctx, sku)
	require.NoError(t, err)
	assert.Equal(t, "Linen dress", item.Name)

	found, err := inv.Search(ctx, map[string]string{"status": model.StatusListed, "brand": "Acme", "category": ""})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = inv.Sell(ctx, sku, model.Sale{FinalPrice: 35, SaleDate: "2024-05-01", Platform: "Instagram"})
	require.NoError(t, err)

	sold, _ := fake.Item(sku)
	assert.Equal(t, model.StatusSold, sold.ListingStatus)

	summary, err := inv.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SoldItems)

	_, err = inv.Delete(ctx, sku)
	require.NoError(t, err)
	_, err = inv.Get(ctx, sku)
	assert.Equal(t, "Item not found", Message(err, ""))
}

func TestTransactionQueryValues(t *testing.T) {
	q := TransactionQuery{Page: 2, PerPage: 500, Type: "expense", Month: 3}
	v := q.Values()

	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "100", v.Get("per_page"))
	assert.Equal(t, "expense", v.Get("type"))
	assert.Equal(t, "3", v.Get("month"))
	assert.False(t, v.Has("year"))
	assert.False(t, v.Has("category"))
}

func TestTransactionsListPagination(t *testing.T) {
	fake, c := newFake(t)
	for i := 0; i < 3; i++ {
		fake.SeedTransaction(model.Transaction{Date: "2024-03-01", Description: "Market fee", Amount: 25, Category: "Operations", TransactionType: model.TransactionExpense})
	}

	page, err := c.Transactions().List(context.Background(), TransactionQuery{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page.Transactions, 2)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.True(t, page.Pagination.HasNext)
	assert.False(t, page.Pagination.HasPrev)
}

func TestAssetsListActiveOnly(t *testing.T) {
	fake, c := newFake(t)
	fake.SeedAsset(model.Asset{Name: "Rack", IsActive: true})
	fake.SeedAsset(model.Asset{Name: "Old camera", IsActive: false})

	active, err := c.Assets().List(context.Background(), AssetQuery{})
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := c.Assets().List(context.Background(), AssetQuery{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalog(t *testing.T) {
	_, c := newFake(t)
	ctx := context.Background()

	cats, err := c.Catalog().AddCategory(ctx, model.CatalogEntry{Name: "knitwear", Description: "Sweaters"})
	require.NoError(t, err)
	assert.Equal(t, "knitwear", cats[len(cats)-1].Name)

	_, err = c.Catalog().AddCategory(ctx, model.CatalogEntry{Name: "Knitwear"})
	assert.Equal(t, "Category already exists", Message(err, ""))

	_, conds, err := c.Catalog().CategoriesAndConditions(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, conds)
}

func TestInsightsAnalysisDropsEnvelope(t *testing.T) {
	c := stubServer(t, http.StatusOK, "application/json",
		`{"success": true, "seasonal_trends": [{"month": "Jan", "sales": 4}], "trend_insights": ["Spring is busy"]}`)

	a, err := c.Insights().TrendAnalysis(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, a, "success")
	assert.Contains(t, a, "seasonal_trends")
	assert.Equal(t, []string{"Spring is busy"}, a.Messages("trend_insights"))
}
