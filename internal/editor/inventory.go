package editor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/erazemk/trgovina/internal/apiclient"
	"github.com/erazemk/trgovina/internal/form"
	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/notify"
)

// LockedMessage is shown when the API refuses edits to an item.
const LockedMessage = "Item is locked (older than 1 month)"

// Inventory edits inventory items. Saves, sales and deletes refresh the
// table in place.
type Inventory struct {
	*Manager[model.Item, model.ItemInput, string]

	api     *apiclient.InventoryAPI
	catalog *apiclient.CatalogAPI
}

// NewInventory returns the inventory manager.
func NewInventory(api *apiclient.InventoryAPI, catalog *apiclient.CatalogAPI, deps Deps) *Inventory {
	m := New(Config[model.Item, model.ItemInput, string]{
		Noun:         "item",
		Store:        api,
		Form:         form.ItemForm{},
		Table:        InventoryTable,
		DeletePrompt: "Are you sure you want to delete this item? This action cannot be undone.",
		AfterSave:    Refresh,
		AfterDelete:  Refresh,
		Saved: func(_ bool, _ model.ItemInput, _ apiclient.Result) string {
			return "Item saved successfully"
		},
		Deleted: func(apiclient.Result) string {
			return "Item deleted successfully"
		},
	}, deps)
	return &Inventory{Manager: m, api: api, catalog: catalog}
}

// ShowEdit opens the edit modal unless the API says the item is locked. A
// failed permission check does not block editing.
func (inv *Inventory) ShowEdit(ctx context.Context, sku string) State[string] {
	ok, err := inv.api.CheckEditPermissions(ctx, sku)
	if err != nil {
		slog.Warn("failed to check edit permissions", "sku", sku, "error", err)
	} else if !ok {
		inv.notifier.Notify(ctx, notify.Warning, LockedMessage)
		return State[string]{}
	}
	return inv.Manager.ShowEdit(ctx, sku)
}

// SellState is the state of the mark-as-sold modal.
type SellState struct {
	Open   bool
	Item   *model.Item
	Values form.Values
	Errors *form.Errors
	Token  string
}

// ShowSell opens the sell modal for the item. Sold items cannot be sold
// again.
func (inv *Inventory) ShowSell(ctx context.Context, sku string) SellState {
	item, err := inv.api.Get(ctx, sku)
	if err != nil {
		slog.Error("failed to load item", "sku", sku, "error", err)
		inv.notifier.Notify(ctx, notify.Danger, apiclient.Message(err, "Error loading item data"))
		return SellState{}
	}
	if !item.CanSell() {
		inv.notifier.Notify(ctx, notify.Warning, "Item is already sold")
		return SellState{}
	}
	return SellState{
		Open:   true,
		Item:   item,
		Values: form.SaleForm{}.Defaults(inv.now(), item),
		Token:  inv.tokens.Issue(),
	}
}

// Sell marks the item as sold. Like Save it drops reused tokens and keeps
// the modal open on invalid input or failure.
func (inv *Inventory) Sell(ctx context.Context, sku string, st SellState, values form.Values) (SellState, Outcome) {
	if !inv.tokens.Consume(st.Token) {
		slog.Warn("ignoring duplicate submit", "entity", "sale", "sku", sku)
		return st, Ignored
	}
	st.Open = true
	st.Values = values
	st.Errors = nil

	sale, errs := form.SaleForm{}.Collect(values)
	if !errs.Empty() {
		st.Errors = errs
		st.Token = inv.tokens.Issue()
		inv.notifier.Notify(ctx, notify.Danger, errs.Message())
		return st, None
	}

	res, err := inv.api.Sell(ctx, sku, sale)
	if err != nil {
		slog.Error("failed to sell item", "sku", sku, "error", err)
		st.Token = inv.tokens.Issue()
		inv.notifier.Notify(ctx, notify.Danger, apiclient.Message(err, "Error selling item"))
		return st, None
	}

	inv.notifier.Notify(ctx, notify.Success, orDefault(res.Message, "Item sold successfully"))
	return SellState{}, Refresh
}

// AddCategory adds an inventory category and returns the updated list.
func (inv *Inventory) AddCategory(ctx context.Context, values form.Values) ([]model.CatalogEntry, bool) {
	return inv.addEntry(ctx, "category", values, inv.catalog.AddCategory)
}

// AddCondition adds an item condition and returns the updated list.
func (inv *Inventory) AddCondition(ctx context.Context, values form.Values) ([]model.CatalogEntry, bool) {
	return inv.addEntry(ctx, "condition", values, inv.catalog.AddCondition)
}

func (inv *Inventory) addEntry(ctx context.Context, noun string, values form.Values,
	add func(context.Context, model.CatalogEntry) ([]model.CatalogEntry, error)) ([]model.CatalogEntry, bool) {
	entry, errs := form.CatalogForm{}.Collect(values)
	if !errs.Empty() {
		inv.notifier.Notify(ctx, notify.Danger, errs.Message())
		return nil, false
	}

	entries, err := add(ctx, entry)
	if err != nil {
		slog.Error("failed to add "+noun, "name", entry.Name, "error", err)
		inv.notifier.Notify(ctx, notify.Danger, apiclient.Message(err, "Failed to add "+noun))
		return nil, false
	}

	inv.notifier.Notify(ctx, notify.Success, fmt.Sprintf(`%s "%s" added successfully`, Capitalize(noun), entry.Name))
	return entries, true
}
