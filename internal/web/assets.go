package web

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/erazemk/trgovina/internal/apiclient"
	"github.com/erazemk/trgovina/internal/categories"
	"github.com/erazemk/trgovina/internal/notify"
)

const assetsPath = "/assets"

// AssetsPage handles GET /assets.
func (s *Server) AssetsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("modal") == "details" {
		s.renderAssets(w, r, r.URL, s.assetDetails(r.Context(), q.Get("id")), http.StatusOK)
		return
	}
	modal := modalFromQuery(r.Context(), s.assets, q)
	s.renderAssets(w, r, r.URL, modal, http.StatusOK)
}

// assetDetails opens the read-only details modal for the asset with the
// given id.
func (s *Server) assetDetails(ctx context.Context, rawID string) entityModal {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return entityModal{}
	}
	asset, err := s.client.Assets().Get(ctx, id)
	if err != nil {
		slog.Error("failed to load asset", "id", id, "error", err)
		notify.StackFrom(ctx).Add(notify.Alert{Kind: notify.Danger, Message: apiclient.Message(err, "Error loading asset details")})
		return entityModal{}
	}
	return entityModal{Kind: "details", ID: id, Asset: asset}
}

func (s *Server) renderAssets(w http.ResponseWriter, r *http.Request, pageURL *url.URL, modal entityModal, status int) {
	ctx := r.Context()
	q := pageURL.Query()

	query := apiclient.AssetQuery{
		IncludeInactive: q.Get("inactive") == "1",
		Category:        q.Get("category"),
	}

	assets, err := s.client.Assets().List(ctx, query)
	if err != nil {
		slog.Error("failed to load assets", "error", err)
		notify.StackFrom(ctx).Add(notify.Alert{Kind: notify.Danger, Message: apiclient.Message(err, "Error loading assets")})
	}

	keep := keepQuery(pageURL)
	rows, err := s.assets.RenderTable(assets, keep)
	if err != nil {
		slog.Error("failed to render assets table", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := struct {
		PageData
		Rows       template.HTML
		Count      int
		Query      apiclient.AssetQuery
		Categories []string
		Modal      entityModal
		Keep       url.Values
		Return     string
	}{
		PageData:   s.page(r, "Assets", "assets"),
		Rows:       rows,
		Count:      len(assets),
		Query:      query,
		Categories: categories.Categories(categories.Asset),
		Modal:      modal.withSubCategories(categories.Asset, "expense_category"),
		Keep:       keep,
		Return:     withKeep(assetsPath, keep),
	}
	s.templates.Render(w, status, "assets.html", data)
}

// SaveAsset handles POST /assets.
func (s *Server) SaveAsset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	modal, outcome := saveEntity(r, s.assets)
	target := returnTo(r, assetsPath)
	if modal.Kind != "" {
		s.renderAssets(w, r, mustURL(target), modal, formStatus(modal.State.Errors))
		return
	}
	s.finish(w, r, outcome, target)
}

// DeleteAsset handles POST /assets/{id}/delete.
func (s *Server) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	outcome := deleteEntity(r, s.assets)
	s.finish(w, r, outcome, returnTo(r, assetsPath))
}

// SubCategories handles GET /categories/{kind}/{category}.
func (s *Server) SubCategories(w http.ResponseWriter, r *http.Request) {
	kind, ok := categories.ParseKind(r.PathValue("kind"))
	if !ok {
		jsonError(w, http.StatusNotFound, "Unknown category kind")
		return
	}

	category := r.PathValue("category")
	subs, ok := categories.SubCategories(kind, category)
	if !ok {
		// Categories without sub-categories, like "Other", get an empty list.
		if !slices.Contains(categories.Categories(kind), category) {
			jsonError(w, http.StatusNotFound, "Unknown category")
			return
		}
		subs = []string{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"success":        true,
		"sub_categories": subs,
		"default":        categories.DefaultSubCategory(kind, category),
	})
}

