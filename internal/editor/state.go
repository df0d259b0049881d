// Package editor implements the create, edit, delete and table rendering
// flow shared by the inventory, expense and asset pages.
package editor

import (
	"fmt"

	"github.com/erazemk/trgovina/internal/form"
)

// Outcome tells the caller how to present the page after an operation.
type Outcome int

const (
	// None leaves the page as it is. Alerts may have been shown.
	None Outcome = iota
	// Ignored means a duplicate submit was dropped without a request.
	Ignored
	// Refresh re-renders the table for the current filters.
	Refresh
	// Reload reloads the whole page after a short delay.
	Reload
)

func (o Outcome) String() string {
	switch o {
	case None:
		return "none"
	case Ignored:
		return "ignored"
	case Refresh:
		return "refresh"
	case Reload:
		return "reload"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// State is the state of one entity modal. EditMode implies Open, and a
// closed state is always the zero value.
type State[ID comparable] struct {
	Open     bool
	EditMode bool
	ID       ID
	Values   form.Values
	Errors   *form.Errors
	Token    string
}

// Key returns the edited record's id as text, or "" in create mode.
func (s State[ID]) Key() string {
	if !s.EditMode {
		return ""
	}
	return fmt.Sprint(s.ID)
}

// Submitted rebuilds an open state from the hidden fields of a submitted
// modal form.
func Submitted[ID comparable](editMode bool, id ID, token string) State[ID] {
	return State[ID]{Open: true, EditMode: editMode, ID: id, Token: token}
}
