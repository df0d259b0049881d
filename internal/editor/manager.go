package editor

import (
	"context"
	"html/template"
	"log/slog"
	"net/url"
	"time"

	"github.com/erazemk/trgovina/internal/apiclient"
	"github.com/erazemk/trgovina/internal/form"
	"github.com/erazemk/trgovina/internal/notify"
)

// Store is the API surface a Manager edits through.
type Store[R, P any, ID comparable] interface {
	Get(ctx context.Context, id ID) (*R, error)
	Create(ctx context.Context, in P) (apiclient.Result, error)
	Update(ctx context.Context, id ID, in P) (apiclient.Result, error)
	Delete(ctx context.Context, id ID) (apiclient.Result, error)
}

// Form turns records and submitted values into request bodies.
type Form[R, P any] interface {
	Fields() []string
	Defaults(now time.Time) form.Values
	Populate(r *R) form.Values
	Collect(v form.Values) (P, *form.Errors)
}

// Deps are the collaborators shared by every manager.
type Deps struct {
	Notifier  notify.Notifier
	Confirmer Confirmer
	Tokens    *Tokens
	Now       func() time.Time
}

// Config describes one entity.
type Config[R, P any, ID comparable] struct {
	// Noun names the entity in logs and fallback messages, e.g. "asset".
	Noun         string
	Store        Store[R, P, ID]
	Form         Form[R, P]
	Table        *Table[R]
	DeletePrompt string

	AfterSave   Outcome
	AfterDelete Outcome

	// Saved and Deleted build success messages.
	Saved   func(editing bool, in P, res apiclient.Result) string
	Deleted func(res apiclient.Result) string
}

// Manager runs the modal lifecycle of one entity.
type Manager[R, P any, ID comparable] struct {
	cfg       Config[R, P, ID]
	notifier  notify.Notifier
	confirmer Confirmer
	tokens    *Tokens
	now       func() time.Time
}

// New returns a manager for cfg.
func New[R, P any, ID comparable](cfg Config[R, P, ID], deps Deps) *Manager[R, P, ID] {
	if deps.Notifier == nil {
		deps.Notifier = notify.ContextNotifier{}
	}
	if deps.Confirmer == nil {
		deps.Confirmer = ContextConfirmer{}
	}
	if deps.Tokens == nil {
		deps.Tokens = NewTokens(0)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Manager[R, P, ID]{
		cfg:       cfg,
		notifier:  deps.Notifier,
		confirmer: deps.Confirmer,
		tokens:    deps.Tokens,
		now:       deps.Now,
	}
}

// Fields lists the modal's form fields.
func (m *Manager[R, P, ID]) Fields() []string {
	return m.cfg.Form.Fields()
}

// DeletePrompt is the question asked before deleting.
func (m *Manager[R, P, ID]) DeletePrompt() string {
	return m.cfg.DeletePrompt
}

// ShowCreate opens an empty modal with defaults applied.
func (m *Manager[R, P, ID]) ShowCreate(ctx context.Context) State[ID] {
	return State[ID]{
		Open:   true,
		Values: m.cfg.Form.Defaults(m.now()),
		Token:  m.tokens.Issue(),
	}
}

// ShowEdit opens the modal populated from the record with the given id. A
// failed fetch shows an alert and returns a closed state.
func (m *Manager[R, P, ID]) ShowEdit(ctx context.Context, id ID) State[ID] {
	rec, err := m.cfg.Store.Get(ctx, id)
	if err != nil {
		slog.Error("failed to load "+m.cfg.Noun, "id", id, "error", err)
		m.notifier.Notify(ctx, notify.Danger, apiclient.Message(err, "Error loading "+m.cfg.Noun+" data"))
		return State[ID]{}
	}
	return State[ID]{
		Open:     true,
		EditMode: true,
		ID:       id,
		Values:   m.cfg.Form.Populate(rec),
		Token:    m.tokens.Issue(),
	}
}

// Save validates values and creates or updates the record. Invalid input
// keeps the modal open without sending a request. A token that was already
// used yields Ignored with no request and no alert.
func (m *Manager[R, P, ID]) Save(ctx context.Context, st State[ID], values form.Values) (State[ID], Outcome) {
	if !st.Open || !m.tokens.Consume(st.Token) {
		slog.Warn("ignoring duplicate submit", "entity", m.cfg.Noun, "id", st.Key())
		return st, Ignored
	}
	st.Values = values
	st.Errors = nil

	in, errs := m.cfg.Form.Collect(values)
	if !errs.Empty() {
		st.Errors = errs
		st.Token = m.tokens.Issue()
		m.notifier.Notify(ctx, notify.Danger, errs.Message())
		return st, None
	}

	var (
		res apiclient.Result
		err error
	)
	if st.EditMode {
		res, err = m.cfg.Store.Update(ctx, st.ID, in)
	} else {
		res, err = m.cfg.Store.Create(ctx, in)
	}
	if err != nil {
		slog.Error("failed to save "+m.cfg.Noun, "id", st.Key(), "error", err)
		st.Token = m.tokens.Issue()
		m.notifier.Notify(ctx, notify.Danger, apiclient.Message(err, apiclient.NetworkMessage))
		return st, None
	}

	m.notifier.Notify(ctx, notify.Success, m.cfg.Saved(st.EditMode, in, res))
	return State[ID]{}, m.cfg.AfterSave
}

// Delete removes the record after the user confirms.
func (m *Manager[R, P, ID]) Delete(ctx context.Context, id ID) Outcome {
	if !m.confirmer.Confirm(ctx, m.cfg.DeletePrompt) {
		return None
	}

	res, err := m.cfg.Store.Delete(ctx, id)
	if err != nil {
		slog.Error("failed to delete "+m.cfg.Noun, "id", id, "error", err)
		m.notifier.Notify(ctx, notify.Danger, apiclient.Message(err, apiclient.NetworkMessage))
		return None
	}

	m.notifier.Notify(ctx, notify.Success, m.cfg.Deleted(res))
	return m.cfg.AfterDelete
}

// RenderTable renders the table rows for records. keep holds the page's
// query so row actions preserve it.
func (m *Manager[R, P, ID]) RenderTable(records []R, keep url.Values) (template.HTML, error) {
	return m.cfg.Table.Render(records, keep)
}
