package dialog

import (
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

// Mode is the dialog currently open for an entity collection. At most one is open.
type Mode int

const (
	Closed Mode = iota
	CreateOpen
	EditOpen
	DeleteConfirmOpen
)

func (m Mode) String() string {
	switch m {
	case Closed:
		return "closed"
	case CreateOpen:
		return "create"
	case EditOpen:
		return "edit"
	case DeleteConfirmOpen:
		return "delete"
	default:
		return "unknown"
	}
}

var (
	// ErrDialogBusy is returned when opening a dialog while another one is open
	ErrDialogBusy = goerr.New("another dialog is open")
	// ErrNoSelection is returned when an edit or delete target is requested but none is selected
	ErrNoSelection = goerr.New("no entity is selected")
)

// Context keys for error values
const (
	ModeKey    = "dialog_mode"
	CurrentKey = "current_mode"
)

// Entity is anything a dialog can target
type Entity interface {
	EntityID() string
}

// State is a point-in-time view of a Machine
type State[T Entity] struct {
	Mode         Mode
	selected     T
	hasSelection bool
}

// Selected returns the entity targeted by an edit or delete dialog
func (s State[T]) Selected() (T, bool) {
	return s.selected, s.hasSelection
}

// Machine tracks which dialog is open and which entity it targets
type Machine[T Entity] struct {
	mu    sync.Mutex
	state State[T]
}

// New returns a machine with every dialog closed
func New[T Entity]() *Machine[T] {
	return &Machine[T]{}
}

// State returns the current state
func (m *Machine[T]) State() State[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine[T]) open(mode Mode, target T, hasTarget bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Mode != Closed {
		return goerr.Wrap(ErrDialogBusy, "cannot open dialog",
			goerr.V(ModeKey, mode.String()),
			goerr.V(CurrentKey, m.state.Mode.String()))
	}
	m.state = State[T]{Mode: mode, selected: target, hasSelection: hasTarget}
	return nil
}

// OpenCreate opens the create dialog; nothing is selected
func (m *Machine[T]) OpenCreate() error {
	var zero T
	return m.open(CreateOpen, zero, false)
}

// OpenEdit opens the edit dialog targeting e
func (m *Machine[T]) OpenEdit(e T) error {
	return m.open(EditOpen, e, true)
}

// OpenDelete opens the delete confirmation targeting e
func (m *Machine[T]) OpenDelete(e T) error {
	return m.open(DeleteConfirmOpen, e, true)
}

// Cancel closes whatever dialog is open and clears the selection
func (m *Machine[T]) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State[T]{}
}

// Complete closes the dialog after a successful submission. It does nothing when the
// open dialog is not mode, so a late completion cannot close a newer dialog.
func (m *Machine[T]) Complete(mode Mode) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Mode != mode {
		return false
	}
	m.state = State[T]{}
	return true
}

// Target returns the selected entity when the dialog of mode is open
func (m *Machine[T]) Target(mode Mode) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if m.state.Mode != mode || !m.state.hasSelection {
		return zero, goerr.Wrap(ErrNoSelection, "dialog has no target",
			goerr.V(ModeKey, mode.String()),
			goerr.V(CurrentKey, m.state.Mode.String()))
	}
	return m.state.selected, nil
}

// Reconcile closes the dialog when its target is no longer present in the
// collection, returning the removed target.
func (m *Machine[T]) Reconcile(present func(id string) bool) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if !m.state.hasSelection || present(m.state.selected.EntityID()) {
		return zero, false
	}
	removed := m.state.selected
	m.state = State[T]{}
	return removed, true
}
