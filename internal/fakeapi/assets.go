package fakeapi

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/erazemk/trgovina/internal/model"
)

// SeedAsset stores an asset and assigns it the next ID.
func (s *Server) SeedAsset(a model.Asset) model.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextAssetID
	s.nextAssetID++
	s.assets = append(s.assets, a)
	return a
}

// Assets returns every stored asset.
func (s *Server) Assets() []model.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Asset(nil), s.assets...)
}

func (s *Server) findAsset(r *http.Request) int {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return -1
	}
	return slices.IndexFunc(s.assets, func(a model.Asset) bool { return a.ID == id })
}

func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activeOnly := q.Get("active_only") != "false"
	category := q.Get("category")

	s.mu.Lock()
	defer s.mu.Unlock()

	assets := []model.Asset{}
	for _, a := range s.assets {
		if activeOnly && !a.IsActive {
			continue
		}
		if category != "" && a.AssetCategory != category {
			continue
		}
		assets = append(assets, a)
	}
	jsonResponse(w, http.StatusOK, map[string]any{"assets": assets, "count": len(assets)})
}

func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findAsset(r)
	if i < 0 {
		jsonError(w, http.StatusNotFound, "Asset not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"asset": s.assets[i]})
}

func (s *Server) createAsset(w http.ResponseWriter, r *http.Request) {
	var in model.AssetInput
	if err := s.decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if in.Name == "" {
		jsonError(w, http.StatusBadRequest, "Asset name is required")
		return
	}

	a := s.SeedAsset(assetFromInput(in))
	jsonResponse(w, http.StatusCreated, map[string]any{
		"asset":   a,
		"message": "Asset created successfully",
	})
}

func (s *Server) updateAsset(w http.ResponseWriter, r *http.Request) {
	var in model.AssetInput
	if err := s.decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "No data provided")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findAsset(r)
	if i < 0 {
		jsonError(w, http.StatusNotFound, "Asset not found")
		return
	}
	a := assetFromInput(in)
	a.ID = s.assets[i].ID
	s.assets[i] = a

	jsonResponse(w, http.StatusOK, map[string]any{
		"asset":   a,
		"message": "Asset updated successfully",
	})
}

func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findAsset(r)
	if i < 0 {
		jsonError(w, http.StatusNotFound, "Asset not found")
		return
	}
	s.assets = slices.Delete(s.assets, i, i+1)
	jsonResponse(w, http.StatusOK, map[string]any{"message": "Asset deleted successfully"})
}

func assetFromInput(in model.AssetInput) model.Asset {
	return model.Asset{
		Name:               in.Name,
		AssetType:          in.AssetType,
		AssetCategory:      in.ExpenseCategory,
		ExpenseSubCategory: in.ExpenseSubCategory,
		AccountName:        in.AccountName,
		PurchaseDate:       in.PurchaseDate,
		PurchasePrice:      in.PurchasePrice,
		Description:        in.Description,
		IsActive:           in.IsActive,
	}
}
