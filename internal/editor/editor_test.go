package editor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/trgovina/internal/apiclient"
	"github.com/erazemk/trgovina/internal/categories"
	"github.com/erazemk/trgovina/internal/fakeapi"
	"github.com/erazemk/trgovina/internal/form"
	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/notify"
)

var today = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type env struct {
	fake   *fakeapi.Server
	client *apiclient.Client
	deps   Deps
}

func newEnv(t *testing.T) *env {
	t.Helper()
	fake := fakeapi.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return &env{
		fake:   fake,
		client: apiclient.New(srv.URL, "", 0, nil),
		deps: Deps{
			Tokens: NewTokens(0),
			Now:    func() time.Time { return today },
		},
	}
}

func withStack() (context.Context, *notify.Stack) {
	s := &notify.Stack{}
	return notify.WithStack(context.Background(), s), s
}

func validItem() form.Values {
	return form.Values{
		"name": "Linen dress", "brand": "Acme", "item_type": "dress",
		"category": "dresses", "size": "M", "condition": model.ConditionNWT,
		"cost_of_item": "12", "selling_price": "40", "listing_status": model.StatusListed,
	}
}

func TestSaveWithEmptyRequiredFieldSendsNothing(t *testing.T) {
	e := newEnv(t)
	inv := NewInventory(e.client.Inventory(), e.client.Catalog(), e.deps)
	ctx, stack := withStack()

	st := inv.ShowCreate(ctx)
	values := validItem()
	values["name"] = ""

	next, outcome := inv.Save(ctx, st, values)
	assert.Equal(t, None, outcome)
	assert.True(t, next.Open)
	assert.False(t, next.EditMode)
	assert.Equal(t, "Name is required", next.Errors.Get("name"))
	assert.NotEqual(t, st.Token, next.Token)
	assert.Zero(t, e.fake.Calls("POST /api/inventory"))

	alerts := stack.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, notify.Alert{Kind: notify.Danger, Message: form.MissingFieldsMessage, Duration: notify.DefaultDuration}, alerts[0])
}

func TestSuccessfulSaveClosesAndClears(t *testing.T) {
	e := newEnv(t)
	inv := NewInventory(e.client.Inventory(), e.client.Catalog(), e.deps)
	ctx, stack := withStack()

	st := inv.ShowCreate(ctx)
	assert.Equal(t, model.StatusInventory, st.Values.Get("listing_status"))

	next, outcome := inv.Save(ctx, st, validItem())
	assert.Equal(t, Refresh, outcome)
	assert.Equal(t, State[string]{}, next)
	assert.Equal(t, 1, e.fake.Calls("POST /api/inventory"))
	require.Equal(t, 1, stack.Len())
	assert.Equal(t, "Item saved successfully", stack.Alerts()[0].Message)
}

func TestEditUpdatesRecord(t *testing.T) {
	e := newEnv(t)
	item := e.fake.SeedItem(model.Item{
		Name: "Coat", Brand: "Acme", ItemType: "coat", Category: "outerwear", Size: "L",
		Condition: model.ConditionGood, CostOfItem: 20, SellingPrice: 60,
	})
	inv := NewInventory(e.client.Inventory(), e.client.Catalog(), e.deps)
	ctx, _ := withStack()

	st := inv.ShowEdit(ctx, item.SKU)
	require.True(t, st.Open)
	require.True(t, st.EditMode)
	assert.Equal(t, item.SKU, st.Key())
	assert.Equal(t, "60.00", st.Values.Get("selling_price"))
	assert.Empty(t, st.Values.Get("location"))

	values := st.Values.Clone()
	values["selling_price"] = "55"
	_, outcome := inv.Save(ctx, Submitted(true, item.SKU, st.Token), values)
	assert.Equal(t, Refresh, outcome)

	updated, _ := e.fake.Item(item.SKU)
	assert.Equal(t, 55.0, updated.SellingPrice)
}

func TestShowEditLockedItem(t *testing.T) {
	e := newEnv(t)
	item := e.fake.SeedItem(model.Item{Name: "Old", Category: "tops"})
	e.fake.LockItem(item.SKU)
	inv := NewInventory(e.client.Inventory(), e.client.Catalog(), e.deps)
	ctx, stack := withStack()

	st := inv.ShowEdit(ctx, item.SKU)
	assert.False(t, st.Open)
	require.Equal(t, 1, stack.Len())
	assert.Equal(t, notify.Warning, stack.Alerts()[0].Kind)
	assert.Zero(t, e.fake.Calls("GET /api/inventory/{sku}"))
}

func TestShowEditOpensWhenPermissionCheckFails(t *testing.T) {
	e := newEnv(t)
	item := e.fake.SeedItem(model.Item{Name: "Scarf", Category: "accessories"})
	e.fake.Fail("GET /api/inventory/check-edit-permissions/{sku}", http.StatusBadGateway, "")
	inv := NewInventory(e.client.Inventory(), e.client.Catalog(), e.deps)
	ctx, stack := withStack()

	st := inv.ShowEdit(ctx, item.SKU)
	assert.True(t, st.Open)
	assert.True(t, st.EditMode)
	assert.Equal(t, "Scarf", st.Values.Get("name"))
	assert.Zero(t, stack.Len())
	assert.Equal(t, 1, e.fake.Calls("GET /api/inventory/{sku}"))
}

func TestShowEditFailureAlerts(t *testing.T) {
	e := newEnv(t)
	tx := NewTransactions(e.client.Transactions(), e.deps)
	ctx, stack := withStack()

	st := tx.ShowEdit(ctx, 42)
	assert.Equal(t, State[int64]{}, st)
	require.Equal(t, 1, stack.Len())
	assert.Equal(t, notify.Danger, stack.Alerts()[0].Kind)
}

func TestNegativeAmountRejectedWithoutPost(t *testing.T) {
	e := newEnv(t)
	tx := NewTransactions(e.client.Transactions(), e.deps)
	ctx, stack := withStack()

	st := tx.ShowCreate(ctx)
	values := st.Values.Clone()
	values["description"] = "Market stall"
	values["category"] = "Operations"
	values["amount"] = "-5"

	next, outcome := tx.Save(ctx, st, values)
	assert.Equal(t, None, outcome)
	assert.True(t, next.Open)
	assert.Zero(t, e.fake.Calls("POST /api/transactions"))
	assert.Equal(t, "Amount must be greater than 0", stack.Alerts()[0].Message)
}

func TestTransactionSaveReloads(t *testing.T) {
	e := newEnv(t)
	tx := NewTransactions(e.client.Transactions(), e.deps)
	ctx, stack := withStack()

	st := tx.ShowCreate(ctx)
	values := st.Values.Clone()
	values["description"] = "Market stall"
	values["category"] = "Operations"
	values["sub_category"] = "Market Fees"
	values["amount"] = "25"

	_, outcome := tx.Save(ctx, st, values)
	assert.Equal(t, Reload, outcome)
	assert.Equal(t, `Expense "Market stall" added successfully!`, stack.Alerts()[0].Message)

	bodies := e.fake.Bodies("POST /api/transactions")
	require.Len(t, bodies, 1)
	assert.Equal(t, model.TransactionExpense, bodies[0]["transaction_type"])
	assert.Equal(t, model.DefaultExpenseAccount, bodies[0]["account_name"])
	assert.Equal(t, "2024-05-01", bodies[0]["date"])
}

func TestAssetSaveUnderRepeatedSubmits(t *testing.T) {
	e := newEnv(t)
	assets := NewAssets(e.client.Assets(), e.deps)
	ctx, stack := withStack()

	st := assets.ShowCreate(ctx)
	values := st.Values.Clone()
	values["name"] = "Clothing rack"
	values["asset_type"] = "equipment"
	values["purchase_price"] = "89.99"

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes []Outcome
		closed   int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next, o := assets.Save(ctx, st, values)
			mu.Lock()
			defer mu.Unlock()
			outcomes = append(outcomes, o)
			if !next.Open {
				closed++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, e.fake.Calls("POST /api/assets"))
	assert.Equal(t, 1, stack.Len())
	assert.Equal(t, notify.Success, stack.Alerts()[0].Kind)
	assert.Equal(t, 1, closed)

	var reloads, ignored int
	for _, o := range outcomes {
		switch o {
		case Reload:
			reloads++
		case Ignored:
			ignored++
		}
	}
	assert.Equal(t, 1, reloads)
	assert.Equal(t, 4, ignored)

	saved := e.fake.Assets()
	require.Len(t, saved, 1)
	assert.Equal(t, categories.DefaultAssetCategory, saved[0].AssetCategory)
}

func TestServerErrorKeepsModalOpen(t *testing.T) {
	e := newEnv(t)
	e.fake.Fail("POST /api/assets", http.StatusBadRequest, "Asset name already used")
	assets := NewAssets(e.client.Assets(), e.deps)
	ctx, stack := withStack()

	st := assets.ShowCreate(ctx)
	values := st.Values.Clone()
	values["name"] = "Rack"
	values["asset_type"] = "equipment"
	values["purchase_price"] = "10"

	next, outcome := assets.Save(ctx, st, values)
	assert.Equal(t, None, outcome)
	assert.True(t, next.Open)
	assert.NotEmpty(t, next.Token)
	assert.Equal(t, "Asset name already used", stack.Alerts()[0].Message)
}

func TestNetworkErrorMessage(t *testing.T) {
	e := newEnv(t)
	e.fake.Fail("DELETE /api/transactions/{id:[0-9]+}", http.StatusBadGateway, "")
	tx := NewTransactions(e.client.Transactions(), e.deps)
	ctx, stack := withStack()

	outcome := tx.Delete(WithConfirmation(ctx, true), 1)
	assert.Equal(t, None, outcome)
	assert.Equal(t, apiclient.NetworkMessage, stack.Alerts()[0].Message)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	e := newEnv(t)
	item := e.fake.SeedItem(model.Item{Name: "Scarf", Category: "tops"})
	var prompts []string
	e.deps.Confirmer = ConfirmFunc(func(_ context.Context, prompt string) bool {
		prompts = append(prompts, prompt)
		return len(prompts) > 1
	})
	inv := NewInventory(e.client.Inventory(), e.client.Catalog(), e.deps)
	ctx, stack := withStack()

	assert.Equal(t, None, inv.Delete(ctx, item.SKU))
	assert.Zero(t, e.fake.Calls("DELETE /api/inventory/{sku}"))
	assert.Zero(t, stack.Len())

	assert.Equal(t, Refresh, inv.Delete(ctx, item.SKU))
	assert.Equal(t, 1, e.fake.Calls("DELETE /api/inventory/{sku}"))
	assert.Equal(t, "Item deleted successfully", stack.Alerts()[0].Message)
	assert.Contains(t, prompts[0], "cannot be undone")
}

func TestContextConfirmer(t *testing.T) {
	ctx := context.Background()
	assert.False(t, ContextConfirmer{}.Confirm(ctx, "?"))
	assert.True(t, ContextConfirmer{}.Confirm(WithConfirmation(ctx, true), "?"))
}

func TestSell(t *testing.T) {
	e := newEnv(t)
	item := e.fake.SeedItem(model.Item{Name: "Skirt", Category: "tops", SellingPrice: 30, ListingStatus: model.StatusListed})
	inv := NewInventory(e.client.Inventory(), e.client.Catalog(), e.deps)
	ctx, stack := withStack()

	st := inv.ShowSell(ctx, item.SKU)
	require.True(t, st.Open)
	assert.Equal(t, "30.00", st.Values.Get("final_price"))
	assert.Equal(t, "2024-05-01", st.Values.Get("sale_date"))

	next, outcome := inv.Sell(ctx, item.SKU, st, st.Values)
	assert.Equal(t, Refresh, outcome)
	assert.False(t, next.Open)
	require.Equal(t, 1, stack.Len())
	assert.Equal(t, notify.Success, stack.Alerts()[0].Kind)

	sold, _ := e.fake.Item(item.SKU)
	assert.Equal(t, model.StatusSold, sold.ListingStatus)

	again := inv.ShowSell(ctx, item.SKU)
	assert.False(t, again.Open)
}

func TestSellValidation(t *testing.T) {
	e := newEnv(t)
	item := e.fake.SeedItem(model.Item{Name: "Skirt", Category: "tops", SellingPrice: 30})
	inv := NewInventory(e.client.Inventory(), e.client.Catalog(), e.deps)
	ctx, _ := withStack()

	st := inv.ShowSell(ctx, item.SKU)
	values := st.Values.Clone()
	values["sale_date"] = ""

	next, outcome := inv.Sell(ctx, item.SKU, st, values)
	assert.Equal(t, None, outcome)
	assert.True(t, next.Open)
	assert.Equal(t, "Sale date is required", next.Errors.Get("sale_date"))
	assert.Zero(t, e.fake.Calls("POST /api/inventory/{sku}/sell"))
}

func TestAddCategoryAndCondition(t *testing.T) {
	e := newEnv(t)
	inv := NewInventory(e.client.Inventory(), e.client.Catalog(), e.deps)
	ctx, stack := withStack()

	cats, ok := inv.AddCategory(ctx, form.Values{"name": "knitwear"})
	require.True(t, ok)
	assert.Equal(t, "knitwear", cats[len(cats)-1].Name)
	assert.Equal(t, `Category "knitwear" added successfully`, stack.Alerts()[0].Message)

	_, ok = inv.AddCondition(ctx, form.Values{"name": "NWT"})
	assert.False(t, ok)
	assert.Equal(t, "Condition already exists", stack.Alerts()[1].Message)

	_, ok = inv.AddCondition(ctx, form.Values{})
	assert.False(t, ok)
}

func TestRenderTableEscapes(t *testing.T) {
	e := newEnv(t)
	inv := NewInventory(e.client.Inventory(), e.client.Catalog(), e.deps)

	evil := `<img src=x onerror="alert('x')">&`
	out, err := inv.RenderTable([]model.Item{{
		SKU: "A1", Name: evil, Brand: evil, Category: "tops", Condition: evil,
		ListingStatus: model.StatusListed, Description: evil,
	}}, nil)
	require.NoError(t, err)

	html := string(out)
	assert.NotContains(t, html, "<img")
	assert.NotContains(t, html, `onerror="`)
	assert.NotContains(t, html, "'x'")
	assert.Contains(t, html, "&lt;img")
}

func TestRenderTableActionsByStatus(t *testing.T) {
	listed, err := InventoryTable.Render([]model.Item{{SKU: "A1", Name: "Dress", Category: "dresses", ListingStatus: model.StatusListed, CostOfItem: 5, SellingPrice: 12.5}}, url.Values{"status": {"listed"}})
	require.NoError(t, err)
	assert.Contains(t, string(listed), "btn-sell")
	assert.Contains(t, string(listed), "btn-edit")
	assert.Contains(t, string(listed), "btn-delete")
	assert.Contains(t, string(listed), "$12.50")
	assert.Contains(t, string(listed), "bg-info")
	assert.Contains(t, string(listed), "Dresses")
	assert.Contains(t, string(listed), "status=listed")

	sold, err := InventoryTable.Render([]model.Item{{SKU: "A2", Name: "Dress", ListingStatus: model.StatusSold}}, nil)
	require.NoError(t, err)
	assert.NotContains(t, string(sold), "btn-sell")
	assert.Contains(t, string(sold), "btn-edit")
	assert.Contains(t, string(sold), "btn-delete")
}

func TestRenderEmptyTables(t *testing.T) {
	tests := []struct {
		name string
		out  func() (string, error)
		want string
	}{
		{"inventory", func() (string, error) { h, err := InventoryTable.Render(nil, nil); return string(h), err }, "No inventory items found"},
		{"transactions", func() (string, error) { h, err := TransactionTable.Render(nil, nil); return string(h), err }, "No transactions found"},
		{"assets", func() (string, error) { h, err := AssetTable.Render(nil, nil); return string(h), err }, "No assets found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.out()
			require.NoError(t, err)
			assert.Equal(t, 1, strings.Count(out, "<tr"))
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestModalURL(t *testing.T) {
	got := ModalURL(url.Values{"brand": {"Acme"}, "modal": {"create"}}, "edit", "sku", "A1")
	assert.Equal(t, "?brand=Acme&modal=edit&sku=A1", got)
	assert.Equal(t, "?modal=create", ModalURL(nil, "create", "", nil))
}

func TestTokens(t *testing.T) {
	tokens := NewTokens(time.Minute)
	now := today
	tokens.now = func() time.Time { return now }

	a := tokens.Issue()
	assert.True(t, tokens.Consume(a))
	assert.False(t, tokens.Consume(a))
	assert.False(t, tokens.Consume(""))

	b := tokens.Issue()
	now = now.Add(2 * time.Minute)
	assert.False(t, tokens.Consume(b))

	tokens.Issue()
	tokens.Issue()
	now = now.Add(2 * time.Minute)
	tokens.Issue()
	assert.Equal(t, 1, tokens.Len())
}
