package fakeapi

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/erazemk/trgovina/internal/model"
)

// SeedItem stores an item as-is. An empty SKU is assigned the next number.
func (s *Server) SeedItem(item model.Item) model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.SKU == "" {
		item.SKU = strconv.Itoa(s.nextSKU)
		s.nextSKU++
	}
	if item.ListingStatus == "" {
		item.ListingStatus = model.StatusInventory
	}
	s.items = append(s.items, item)
	return item
}

// Item returns the stored item with the given SKU.
func (s *Server) Item(sku string) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findItem(sku)
	if i < 0 {
		return model.Item{}, false
	}
	return s.items[i], true
}

// LockItem makes the edit permission check deny the item.
func (s *Server) LockItem(sku string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked[sku] = true
}

func (s *Server) findItem(sku string) int {
	return slices.IndexFunc(s.items, func(it model.Item) bool { return it.SKU == sku })
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := make(map[string]string)
	for _, k := range []string{"search", "status", "category", "condition", "brand", "drop"} {
		if v := q.Get(k); v != "" {
			filters[k] = v
		}
	}

	s.mu.Lock()
	items := s.matching(filters)
	s.mu.Unlock()

	jsonResponse(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (s *Server) searchItems(w http.ResponseWriter, r *http.Request) {
	var filters map[string]string
	if err := s.decodeJSON(r, &filters); err != nil {
		jsonError(w, http.StatusBadRequest, "No data provided")
		return
	}

	s.mu.Lock()
	items := s.matching(filters)
	s.mu.Unlock()

	jsonResponse(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// matching returns items passing every non-empty filter, newest first.
// Callers hold s.mu.
func (s *Server) matching(filters map[string]string) []model.Item {
	items := []model.Item{}
	for i := len(s.items) - 1; i >= 0; i-- {
		it := s.items[i]
		if v := filters["status"]; v != "" && it.ListingStatus != v {
			continue
		}
		if v := filters["category"]; v != "" && it.Category != v {
			continue
		}
		if v := filters["condition"]; v != "" && it.Condition != v {
			continue
		}
		if v := filters["brand"]; v != "" && it.Brand != v {
			continue
		}
		if v := filters["drop"]; v != "" && it.CollectionDrop != v {
			continue
		}
		if v := strings.ToLower(filters["search"]); v != "" {
			hay := strings.ToLower(it.Name + " " + it.Description + " " + it.SKU + " " + it.Brand)
			if !strings.Contains(hay, v) {
				continue
			}
		}
		items = append(items, it)
	}
	return items
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findItem(mux.Vars(r)["sku"])
	if i < 0 {
		jsonError(w, http.StatusNotFound, "Item not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"item": s.items[i]})
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var in model.ItemInput
	if err := s.decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if in.Name == "" {
		jsonError(w, http.StatusBadRequest, "Item name is required")
		return
	}

	item := itemFromInput(in)
	item.DateAdded = time.Now().Format("2006-01-02")
	item = s.SeedItem(item)

	jsonResponse(w, http.StatusCreated, map[string]any{
		"item":    item,
		"message": "Item " + item.SKU + " created successfully",
	})
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	sku := mux.Vars(r)["sku"]
	var in model.ItemInput
	if err := s.decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "No data provided")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findItem(sku)
	if i < 0 {
		jsonError(w, http.StatusBadRequest, "Item not found")
		return
	}
	item := itemFromInput(in)
	item.SKU = sku
	item.DateAdded = s.items[i].DateAdded
	s.items[i] = item

	jsonResponse(w, http.StatusOK, map[string]any{
		"item":    item,
		"message": "Item " + sku + " updated successfully",
	})
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	sku := mux.Vars(r)["sku"]

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findItem(sku)
	if i < 0 {
		jsonError(w, http.StatusBadRequest, "Item not found")
		return
	}
	s.items = slices.Delete(s.items, i, i+1)

	jsonResponse(w, http.StatusOK, map[string]any{"message": "Item " + sku + " deleted successfully"})
}

func (s *Server) sellItem(w http.ResponseWriter, r *http.Request) {
	sku := mux.Vars(r)["sku"]
	var sale model.Sale
	if err := s.decodeJSON(r, &sale); err != nil {
		jsonError(w, http.StatusBadRequest, "No sale data provided")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findItem(sku)
	if i < 0 {
		jsonError(w, http.StatusBadRequest, "Item not found")
		return
	}
	if s.items[i].ListingStatus == model.StatusSold {
		jsonError(w, http.StatusBadRequest, "Item is already sold")
		return
	}
	price := sale.FinalPrice
	s.items[i].ListingStatus = model.StatusSold
	s.items[i].SoldPrice = &price

	jsonResponse(w, http.StatusOK, map[string]any{"message": "Item " + sku + " sold successfully"})
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum model.Summary
	for _, it := range s.items {
		sum.TotalItems++
		if it.ListingStatus == model.StatusSold {
			sum.SoldItems++
			continue
		}
		sum.AvailableItems++
		sum.TotalCost += it.CostOfItem
		sum.TotalValue += it.SellingPrice
	}
	sum.PotentialProfit = sum.TotalValue - sum.TotalCost

	jsonResponse(w, http.StatusOK, map[string]any{"summary": sum})
}

func (s *Server) brands(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jsonResponse(w, http.StatusOK, map[string]any{"brands": s.distinct(func(it model.Item) string { return it.Brand })})
}

func (s *Server) filterOptions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jsonResponse(w, http.StatusOK, map[string]any{
		"categories": s.distinct(func(it model.Item) string { return it.Category }),
		"conditions": s.distinct(func(it model.Item) string { return it.Condition }),
		"brands":     s.distinct(func(it model.Item) string { return it.Brand }),
		"drops":      s.distinct(func(it model.Item) string { return it.CollectionDrop }),
		"statuses":   model.ListingStatuses,
	})
}

// distinct returns the sorted non-empty values of field. Callers hold s.mu.
func (s *Server) distinct(field func(model.Item) string) []string {
	out := []string{}
	for _, it := range s.items {
		if v := field(it); v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

func (s *Server) checkEdit(w http.ResponseWriter, r *http.Request) {
	sku := mux.Vars(r)["sku"]

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findItem(sku) < 0 {
		jsonError(w, http.StatusNotFound, "Item not found")
		return
	}
	canEdit := !s.locked[sku]
	msg := "Item can be edited"
	if !canEdit {
		msg = "Item is locked (older than 1 month)"
	}
	jsonResponse(w, http.StatusOK, map[string]any{"can_edit": canEdit, "message": msg})
}

func itemFromInput(in model.ItemInput) model.Item {
	return model.Item{
		Name:           in.Name,
		Brand:          in.Brand,
		ItemType:       in.ItemType,
		Category:       in.Category,
		Size:           in.Size,
		Condition:      in.Condition,
		CostOfItem:     in.CostOfItem,
		SellingPrice:   in.SellingPrice,
		CollectionDrop: in.CollectionDrop,
		ListingStatus:  in.ListingStatus,
		Location:       in.Location,
		Description:    in.Description,
	}
}
