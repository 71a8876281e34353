package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/console/cache"
	"github.com/secmon-lab/docdesk/pkg/console/dialog"
	"github.com/secmon-lab/docdesk/pkg/domain/interfaces"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
	"github.com/secmon-lab/docdesk/pkg/utils/errutil"
	"github.com/secmon-lab/docdesk/pkg/utils/logging"
)

// Invalidator marks cache keys stale
type Invalidator interface {
	Invalidate(ctx context.Context, key cache.Key)
}

// Validator is implemented by payloads that can be checked before sending
type Validator interface {
	Validate() error
}

// Mutation runs create, update and delete for one entity collection. The cache is
// never written directly: a successful mutation invalidates the keys covering the
// collection and the next observation refetches the authoritative state.
type Mutation[T dialog.Entity, P any] struct {
	label    string
	service  interfaces.CollectionService[T, P]
	dialog   *dialog.Machine[T]
	cache    Invalidator
	notifier interfaces.Notifier
	keys     []cache.Key
}

// NewMutation creates a coordinator. label names the entity in messages ("source");
// keys are invalidated once each after every successful mutation.
func NewMutation[T dialog.Entity, P any](
	label string,
	service interfaces.CollectionService[T, P],
	machine *dialog.Machine[T],
	invalidator Invalidator,
	notifier interfaces.Notifier,
	keys ...cache.Key,
) *Mutation[T, P] {
	return &Mutation[T, P]{
		label:    label,
		service:  service,
		dialog:   machine,
		cache:    invalidator,
		notifier: notifier,
		keys:     keys,
	}
}

// Label returns the entity name used in messages
func (m *Mutation[T, P]) Label() string {
	return m.label
}

// Create sends a new entity. On success the create dialog is closed.
func (m *Mutation[T, P]) Create(ctx context.Context, input P) (T, error) {
	var zero T
	if err := m.validate(ctx, "create", input); err != nil {
		return zero, err
	}

	created, err := m.service.Create(ctx, input)
	if err != nil {
		return zero, m.fail(ctx, "create", err)
	}

	m.succeed(ctx, dialog.CreateOpen, "created", created.EntityID())
	return created, nil
}

// Update replaces the attributes of id, which must be the target of the open edit dialog
func (m *Mutation[T, P]) Update(ctx context.Context, id string, input P) (T, error) {
	var zero T
	if err := m.require(ctx, dialog.EditOpen, "update", id); err != nil {
		return zero, err
	}
	if err := m.validate(ctx, "update", input); err != nil {
		return zero, err
	}

	updated, err := m.service.Update(ctx, id, input)
	if err != nil {
		return zero, m.fail(ctx, "update", err)
	}

	m.succeed(ctx, dialog.EditOpen, "updated", id)
	return updated, nil
}

// Delete removes id, which must be the target of the open delete confirmation
func (m *Mutation[T, P]) Delete(ctx context.Context, id string) error {
	if err := m.require(ctx, dialog.DeleteConfirmOpen, "delete", id); err != nil {
		return err
	}

	if err := m.service.Delete(ctx, id); err != nil {
		return m.fail(ctx, "delete", err)
	}

	m.succeed(ctx, dialog.DeleteConfirmOpen, "deleted", id)
	return nil
}

// require checks that id is the entity selected by the dialog of mode. A mismatch
// is a caller defect and is reported, not notified.
func (m *Mutation[T, P]) require(ctx context.Context, mode dialog.Mode, op, id string) error {
	target, err := m.dialog.Target(mode)
	if err != nil {
		return errutil.Report(ctx, goerr.Wrap(ErrPrecondition, "no entity selected for "+op,
			goerr.V(EntityKey, m.label),
			goerr.V(EntityIDKey, id),
			goerr.V(OperationKey, op),
			goerr.V("cause", err.Error())),
			"mutation called without selection")
	}
	if target.EntityID() != id {
		return errutil.Report(ctx, goerr.Wrap(ErrPrecondition, "mutation target is not the selected entity",
			goerr.V(EntityKey, m.label),
			goerr.V(EntityIDKey, id),
			goerr.V(SelectedKey, target.EntityID()),
			goerr.V(OperationKey, op)),
			"mutation called for unselected entity")
	}
	return nil
}

func (m *Mutation[T, P]) validate(ctx context.Context, op string, input P) error {
	v, ok := any(input).(Validator)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		msg := validationMessage(err, "invalid "+m.label)
		m.notifier.Notify(ctx, model.NewError(msg))
		return goerr.Wrap(ErrValidation, "failed to "+op+" "+m.label,
			goerr.V(EntityKey, m.label),
			goerr.V("cause", err.Error()))
	}
	return nil
}

func (m *Mutation[T, P]) fail(ctx context.Context, op string, err error) error {
	msg := ResolveMessage(err, "failed to "+op+" "+m.label)
	logging.From(ctx).Warn("mutation failed",
		EntityKey, m.label,
		OperationKey, op,
		"message", msg,
		"error", err)
	m.notifier.Notify(ctx, model.NewError(msg))
	return goerr.Wrap(err, "failed to "+op+" "+m.label, goerr.V(EntityKey, m.label))
}

func (m *Mutation[T, P]) succeed(ctx context.Context, mode dialog.Mode, verb, id string) {
	// close first so the refetch triggered below never sees the dialog still open
	m.dialog.Complete(mode)
	for _, key := range m.keys {
		m.cache.Invalidate(ctx, key)
	}

	logging.From(ctx).Info("mutation succeeded",
		EntityKey, m.label,
		EntityIDKey, id,
		"result", verb)
	m.notifier.Notify(ctx, model.NewSuccess(m.label+" "+verb))
}
