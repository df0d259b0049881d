package web

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/erazemk/trgovina/internal/apiclient"
	"github.com/erazemk/trgovina/internal/editor"
	"github.com/erazemk/trgovina/internal/filter"
	"github.com/erazemk/trgovina/internal/form"
	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/notify"
)

const inventoryPath = "/inventory"

// inventoryModal is the modal open on the inventory page. Kind is one of
// create, edit, sell, delete, category and condition, or "" for none.
type inventoryModal struct {
	Kind   string
	SKU    string
	Item   editor.State[string]
	Sell   editor.SellState
	Entry  form.Values
	Prompt string
}

type inventoryPage struct {
	PageData
	Filter      *filter.Controller
	Search      bool
	SearchDelay int64
	Options     model.FilterOptions
	Summary     model.Summary
	Rows        template.HTML
	Count       int
	Categories  []model.CatalogEntry
	Conditions  []model.CatalogEntry
	Statuses    []string
	Platforms   []string
	Modal       inventoryModal
	Preview     form.Preview
	Keep        url.Values
	Return      string
}

// InventoryPage handles GET /inventory.
func (s *Server) InventoryPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	sku := q.Get("sku")

	var modal inventoryModal
	switch kind := q.Get("modal"); kind {
	case "create":
		modal = inventoryModal{Kind: kind, Item: s.inventory.ShowCreate(ctx)}
	case "edit":
		if st := s.inventory.ShowEdit(ctx, sku); st.Open {
			modal = inventoryModal{Kind: kind, SKU: sku, Item: st}
		}
	case "sell":
		if st := s.inventory.ShowSell(ctx, sku); st.Open {
			modal = inventoryModal{Kind: kind, SKU: sku, Sell: st}
		}
	case "delete":
		if sku != "" {
			modal = inventoryModal{Kind: kind, SKU: sku, Prompt: s.inventory.DeletePrompt()}
		}
	case "category", "condition":
		modal = inventoryModal{Kind: kind, Entry: form.Values{}}
	}

	s.renderInventory(w, r, r.URL, modal, http.StatusOK)
}

// renderInventory renders the inventory page for the filters in pageURL.
func (s *Server) renderInventory(w http.ResponseWriter, r *http.Request, pageURL *url.URL, modal inventoryModal, status int) {
	ctx := r.Context()
	inv := s.client.Inventory()

	fc := filter.New(s.filterMode, inventoryPath, inv)
	fc.Load(pageURL)

	items, err := s.inventoryItems(ctx, fc)
	if err != nil {
		slog.Error("failed to load inventory", "error", err)
		notify.StackFrom(ctx).Add(notify.Alert{Kind: notify.Danger, Message: apiclient.Message(err, "Error loading inventory")})
	}

	summary, err := inv.Summary(ctx)
	if err != nil {
		slog.Error("failed to load inventory summary", "error", err)
	}

	cats, conds, err := s.client.Catalog().CategoriesAndConditions(ctx)
	if err != nil {
		slog.Error("failed to load categories and conditions", "error", err)
	}

	keep := keepQuery(pageURL)
	rows, err := s.inventory.RenderTable(items, keep)
	if err != nil {
		slog.Error("failed to render inventory table", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var preview form.Preview
	switch modal.Kind {
	case "create", "edit":
		preview = form.ProfitPreview(modal.Item.Values.Get("cost_of_item"), modal.Item.Values.Get("selling_price"))
	case "sell":
		if modal.Sell.Item != nil {
			preview = form.ProfitPreview(form.FormatAmount(modal.Sell.Item.CostOfItem), modal.Sell.Values.Get("final_price"))
		}
	}

	data := inventoryPage{
		PageData:    s.page(r, "Inventory", "inventory"),
		Filter:      fc,
		Search:      fc.Mode() == filter.Search,
		SearchDelay: filter.SearchDelay.Milliseconds(),
		Options:     fc.LoadOptions(ctx, items),
		Summary:     summary,
		Rows:        rows,
		Count:       len(items),
		Categories:  cats,
		Conditions:  conds,
		Statuses:    model.ListingStatuses,
		Platforms:   model.Platforms,
		Modal:       modal,
		Preview:     preview,
		Keep:        keep,
		Return:      fc.URL(),
	}
	s.templates.Render(w, status, "inventory.html", data)
}

// inventoryItems lists the items matching the filters. Without filters the
// full listing is used in either mode.
func (s *Server) inventoryItems(ctx context.Context, fc *filter.Controller) ([]model.Item, error) {
	if !fc.Active() {
		return s.client.Inventory().List(ctx, nil)
	}
	if fc.Mode() == filter.Navigate {
		return s.client.Inventory().List(ctx, fc.Values())
	}
	res, err := fc.Apply(ctx)
	return res.Items, err
}

// InventoryRows handles GET /inventory/rows, the table body for a search.
func (s *Server) InventoryRows(w http.ResponseWriter, r *http.Request) {
	fc := filter.New(filter.Search, inventoryPath, s.client.Inventory())
	fc.Load(r.URL)

	items, err := s.inventoryItems(r.Context(), fc)
	if err != nil {
		slog.Error("failed to search inventory", "error", err)
		http.Error(w, apiclient.Message(err, "Error searching inventory"), http.StatusBadGateway)
		return
	}

	rows, err := s.inventory.RenderTable(items, keepQuery(r.URL))
	if err != nil {
		slog.Error("failed to render inventory table", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Item-Count", strconv.Itoa(len(items)))
	w.Header().Set("X-Filter-Summary", strings.Join(fc.Summary(), "; "))
	w.Write([]byte(rows))
}

// SaveItem handles POST /inventory.
func (s *Server) SaveItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	editMode := r.PostFormValue("edit_mode") == "true"
	sku := r.PostFormValue("sku")
	values := form.FromRequest(r.PostForm, s.inventory.Fields())
	st, outcome := s.inventory.Save(r.Context(), editor.Submitted(editMode, sku, r.PostFormValue("token")), values)

	target := returnTo(r, inventoryPath)
	if outcome == editor.None {
		kind := "create"
		if editMode {
			kind = "edit"
		}
		s.renderInventory(w, r, mustURL(target), inventoryModal{Kind: kind, SKU: sku, Item: st}, formStatus(st.Errors))
		return
	}
	s.finish(w, r, outcome, target)
}

// SellItem handles POST /inventory/{sku}/sell.
func (s *Server) SellItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sku := r.PathValue("sku")
	values := form.FromRequest(r.PostForm, form.SaleForm{}.Fields())
	st, outcome := s.inventory.Sell(r.Context(), sku, editor.SellState{Open: true, Token: r.PostFormValue("token")}, values)

	target := returnTo(r, inventoryPath)
	if outcome == editor.None {
		s.renderInventory(w, r, mustURL(target), inventoryModal{Kind: "sell", SKU: sku, Sell: st}, formStatus(st.Errors))
		return
	}
	s.finish(w, r, outcome, target)
}

// DeleteItem handles POST /inventory/{sku}/delete.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := editor.WithConfirmation(r.Context(), r.FormValue("confirm") == "yes")
	outcome := s.inventory.Delete(ctx, r.PathValue("sku"))
	s.finish(w, r, outcome, returnTo(r, inventoryPath))
}

// AddCategory handles POST /inventory/categories.
func (s *Server) AddCategory(w http.ResponseWriter, r *http.Request) {
	s.addCatalogEntry(w, r, "category", s.inventory.AddCategory)
}

// AddCondition handles POST /inventory/conditions.
func (s *Server) AddCondition(w http.ResponseWriter, r *http.Request) {
	s.addCatalogEntry(w, r, "condition", s.inventory.AddCondition)
}

func (s *Server) addCatalogEntry(w http.ResponseWriter, r *http.Request, kind string,
	add func(context.Context, form.Values) ([]model.CatalogEntry, bool)) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	values := form.FromRequest(r.PostForm, form.CatalogForm{}.Fields())
	target := returnTo(r, inventoryPath)
	if _, ok := add(r.Context(), values); !ok {
		s.renderInventory(w, r, mustURL(target), inventoryModal{Kind: kind, Entry: values}, http.StatusUnprocessableEntity)
		return
	}
	s.redirect(w, r, target)
}

// formStatus is the status of a page re-rendered after a failed submit.
func formStatus(errs *form.Errors) int {
	if !errs.Empty() {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

// mustURL parses a URL built by returnTo.
func mustURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{Path: raw}
	}
	return u
}
