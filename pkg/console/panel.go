package console

import (
	"context"
	"log/slog"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/console/cache"
	"github.com/secmon-lab/docdesk/pkg/console/dialog"
	"github.com/secmon-lab/docdesk/pkg/domain/interfaces"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
	"github.com/secmon-lab/docdesk/pkg/usecase"
	"github.com/secmon-lab/docdesk/pkg/utils/errutil"
	"github.com/secmon-lab/docdesk/pkg/utils/logging"
)

// Panel is the list view of one editable collection: it observes the cached
// collection, owns the dialog machine and submits through the mutation coordinator.
type Panel[T dialog.Entity, P any] struct {
	key      cache.Key
	cache    *cache.Cache[T]
	dialog   *dialog.Machine[T]
	mutation *usecase.Mutation[T, P]
	notifier interfaces.Notifier

	mu       sync.Mutex
	observer *cache.Observer[T]
	watching chan struct{}
}

func newPanel[T dialog.Entity, P any](
	key cache.Key,
	c *cache.Cache[T],
	machine *dialog.Machine[T],
	mutation *usecase.Mutation[T, P],
	notifier interfaces.Notifier,
) *Panel[T, P] {
	return &Panel[T, P]{
		key:      key,
		cache:    c,
		dialog:   machine,
		mutation: mutation,
		notifier: notifier,
	}
}

// Key returns the cache key the panel lists
func (p *Panel[T, P]) Key() cache.Key {
	return p.key
}

// Mount starts observing the collection. Mounting twice is a no-op.
func (p *Panel[T, P]) Mount(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.observer != nil {
		return
	}

	p.observer = p.cache.Observe(ctx, p.key)
	p.watching = make(chan struct{})
	go p.watch(ctx, p.observer, p.watching)
}

// Unmount stops observing. A fetch still in flight is not applied when no other
// view observes the collection.
func (p *Panel[T, P]) Unmount() {
	p.mu.Lock()
	observer, watching := p.observer, p.watching
	p.observer, p.watching = nil, nil
	p.mu.Unlock()

	if observer == nil {
		return
	}
	observer.Close()
	<-watching
}

func (p *Panel[T, P]) watch(ctx context.Context, o *cache.Observer[T], done chan struct{}) {
	defer close(done)
	for snap := range o.Updates() {
		if snap.Err != nil && !snap.Loading {
			logging.From(ctx).Warn("collection fetch failed",
				slog.String("key", p.key.String()),
				slog.Bool("has_value", snap.HasValue),
				slog.Any("error", snap.Err))
			continue
		}
		if snap.HasValue && !snap.Loading {
			p.reconcile(ctx, snap.Items)
		}
	}
}

// reconcile closes the dialog when its target disappeared from a refreshed collection
func (p *Panel[T, P]) reconcile(ctx context.Context, items []T) {
	present := make(map[string]struct{}, len(items))
	for _, item := range items {
		present[item.EntityID()] = struct{}{}
	}

	removed, ok := p.dialog.Reconcile(func(id string) bool {
		_, found := present[id]
		return found
	})
	if !ok {
		return
	}

	logging.From(ctx).Info("dialog target no longer exists, closing dialog",
		slog.String("key", p.key.String()),
		slog.String("id", removed.EntityID()))
	p.notifier.Notify(ctx, model.NewError(p.mutation.Label()+" no longer exists"))
}

// Snapshot returns the collection as currently shown, including loading and error flags
func (p *Panel[T, P]) Snapshot() cache.Snapshot[T] {
	p.mu.Lock()
	observer := p.observer
	p.mu.Unlock()

	if observer == nil {
		return p.cache.Peek(p.key)
	}
	return observer.Snapshot()
}

// Items returns the collection, fetching it when it is missing or stale
func (p *Panel[T, P]) Items(ctx context.Context) ([]T, error) {
	items, err := p.cache.Fetch(ctx, p.key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list "+p.mutation.Label())
	}
	return items, nil
}

// Find returns the entity with id from the collection
func (p *Panel[T, P]) Find(ctx context.Context, id string) (T, error) {
	var zero T
	items, err := p.Items(ctx)
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if item.EntityID() == id {
			return item, nil
		}
	}
	return zero, goerr.New(p.mutation.Label()+" not found", goerr.V(usecase.EntityIDKey, id))
}

// Refresh invalidates the collection, the retry action after a fetch error
func (p *Panel[T, P]) Refresh(ctx context.Context) {
	p.cache.Invalidate(ctx, p.key)
}

// State returns the dialog state
func (p *Panel[T, P]) State() dialog.State[T] {
	return p.dialog.State()
}

// New opens the create dialog
func (p *Panel[T, P]) New() error {
	return p.dialog.OpenCreate()
}

// Edit opens the edit dialog for e
func (p *Panel[T, P]) Edit(e T) error {
	return p.dialog.OpenEdit(e)
}

// ConfirmDelete opens the delete confirmation for e
func (p *Panel[T, P]) ConfirmDelete(e T) error {
	return p.dialog.OpenDelete(e)
}

// Cancel closes the open dialog without notifying
func (p *Panel[T, P]) Cancel() {
	p.dialog.Cancel()
}

// Submit sends the form of the open create or edit dialog
func (p *Panel[T, P]) Submit(ctx context.Context, input P) (T, error) {
	st := p.dialog.State()
	switch st.Mode {
	case dialog.CreateOpen:
		return p.mutation.Create(ctx, input)
	case dialog.EditOpen:
		selected, _ := st.Selected()
		return p.mutation.Update(ctx, selected.EntityID(), input)
	default:
		var zero T
		return zero, errutil.Report(ctx, goerr.Wrap(usecase.ErrPrecondition, "no form dialog is open",
			goerr.V(usecase.EntityKey, p.mutation.Label()),
			goerr.V("mode", st.Mode.String())),
			"submit called without form dialog")
	}
}

// Delete confirms the open delete dialog
func (p *Panel[T, P]) Delete(ctx context.Context) error {
	var id string
	if target, err := p.dialog.Target(dialog.DeleteConfirmOpen); err == nil {
		id = target.EntityID()
	}
	return p.mutation.Delete(ctx, id)
}

// SourcePanel lists and edits sources
type SourcePanel = Panel[*model.Source, model.SourceInput]

// ModelPanel lists and edits model configs, with kind/scenario filtering
type ModelPanel struct {
	*Panel[*model.ModelConfig, model.ModelConfigInput]
}

// Filter returns the configs matching the encoded filter key, along with the counts
// of every filter key over the whole collection
func (p *ModelPanel) Filter(ctx context.Context, key string) ([]*model.ModelConfig, model.FilterCounts, error) {
	sel, err := model.DecodeFilter(key)
	if err != nil {
		return nil, nil, err
	}

	items, err := p.Items(ctx)
	if err != nil {
		return nil, nil, err
	}
	return model.ApplyFilter(items, sel), model.CountModelConfigs(items), nil
}

// Rows returns the filter rows to display for the current collection
func (p *ModelPanel) Rows(ctx context.Context, hideEmptyScenarios bool) ([]model.FilterRow, error) {
	items, err := p.Items(ctx)
	if err != nil {
		return nil, err
	}
	return model.FilterRows(model.CountModelConfigs(items), hideEmptyScenarios), nil
}
