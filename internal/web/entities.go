package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/erazemk/trgovina/internal/categories"
	"github.com/erazemk/trgovina/internal/editor"
	"github.com/erazemk/trgovina/internal/form"
	"github.com/erazemk/trgovina/internal/model"
)

// entityModal is the modal open on the expense or asset page. Kind is one
// of create, edit, delete and details, or "" for none.
type entityModal struct {
	Kind          string
	ID            int64
	State         editor.State[int64]
	Prompt        string
	SubCategories []string
	Asset         *model.Asset
}

// modalFromQuery opens the modal named by the page's query.
func modalFromQuery[R, P any](ctx context.Context, m *editor.Manager[R, P, int64], q url.Values) entityModal {
	id, err := strconv.ParseInt(q.Get("id"), 10, 64)
	hasID := err == nil && id > 0

	switch kind := q.Get("modal"); kind {
	case "create":
		return entityModal{Kind: kind, State: m.ShowCreate(ctx)}
	case "edit":
		if !hasID {
			return entityModal{}
		}
		if st := m.ShowEdit(ctx, id); st.Open {
			return entityModal{Kind: kind, ID: id, State: st}
		}
	case "delete":
		if hasID {
			return entityModal{Kind: kind, ID: id, Prompt: m.DeletePrompt()}
		}
	}
	return entityModal{}
}

// saveEntity runs a submitted create or edit modal. The returned modal is
// only open when the page has to be shown again.
func saveEntity[R, P any](r *http.Request, m *editor.Manager[R, P, int64]) (entityModal, editor.Outcome) {
	editMode := r.PostFormValue("edit_mode") == "true"
	id, _ := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	values := form.FromRequest(r.PostForm, m.Fields())

	st, outcome := m.Save(r.Context(), editor.Submitted(editMode, id, r.PostFormValue("token")), values)
	if outcome != editor.None {
		return entityModal{}, outcome
	}

	kind := "create"
	if editMode {
		kind = "edit"
	}
	return entityModal{Kind: kind, ID: id, State: st}, outcome
}

// deleteEntity deletes the record named by the {id} path value once the
// form confirms it.
func deleteEntity[R, P any](r *http.Request, m *editor.Manager[R, P, int64]) editor.Outcome {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return editor.None
	}
	ctx := editor.WithConfirmation(r.Context(), r.FormValue("confirm") == "yes")
	return m.Delete(ctx, id)
}

// withSubCategories fills the sub-category options for the modal's
// selected category.
func (m entityModal) withSubCategories(kind categories.Kind, field string) entityModal {
	if m.State.Values == nil {
		return m
	}
	m.SubCategories, _ = categories.SubCategories(kind, m.State.Values.Get(field))
	return m
}
