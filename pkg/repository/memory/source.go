package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
)

type sourceService struct {
	mu      sync.RWMutex
	sources map[model.SourceID]*model.Source
}

func newSourceService() *sourceService {
	return &sourceService{
		sources: make(map[model.SourceID]*model.Source),
	}
}

// copySource creates a deep copy of a source
func copySource(source *model.Source) *model.Source {
	copied := *source
	if source.Config != nil {
		copied.Config = maps.Clone(source.Config)
	}
	return &copied
}

func (r *sourceService) List(ctx context.Context) ([]*model.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := make([]*model.Source, 0, len(r.sources))
	for _, source := range r.sources {
		sources = append(sources, copySource(source))
	}
	slices.SortFunc(sources, func(a, b *model.Source) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return sources, nil
}

func (r *sourceService) Create(ctx context.Context, input model.SourceInput) (*model.Source, error) {
	if err := input.Validate(); err != nil {
		return nil, goerr.Wrap(invalid(err), "rejected source payload")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := &model.Source{
		ID:          model.NewSourceID(),
		Name:        input.Name,
		SourceType:  input.SourceType,
		Description: input.Description,
		Enabled:     input.Enabled,
		Config:      maps.Clone(input.Config),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.sources[created.ID] = created
	return copySource(created), nil
}

func (r *sourceService) Update(ctx context.Context, id string, input model.SourceInput) (*model.Source, error) {
	if err := input.Validate(); err != nil {
		return nil, goerr.Wrap(invalid(err), "rejected source payload")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.sources[model.SourceID(id)]
	if !exists {
		return nil, goerr.Wrap(notFound("source not found"), "failed to update source", goerr.V("id", id))
	}

	updated := copySource(existing)
	updated.Name = input.Name
	updated.SourceType = input.SourceType
	updated.Description = input.Description
	updated.Enabled = input.Enabled
	updated.Config = maps.Clone(input.Config)
	updated.UpdatedAt = time.Now().UTC()

	r.sources[updated.ID] = updated
	return copySource(updated), nil
}

func (r *sourceService) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.sources[model.SourceID(id)]
	if !exists {
		return goerr.Wrap(notFound("source not found"), "failed to delete source", goerr.V("id", id))
	}
	if existing.DocumentCount > 0 {
		return goerr.Wrap(conflict("source is in use"), "failed to delete source",
			goerr.V("id", id),
			goerr.V("document_count", existing.DocumentCount))
	}

	delete(r.sources, existing.ID)
	return nil
}

// SetDocumentCount records ingested documents for a source, standing in for the
// ingestion pipeline of the real service
func (m *Remote) SetDocumentCount(id model.SourceID, count int) error {
	m.source.mu.Lock()
	defer m.source.mu.Unlock()

	source, exists := m.source.sources[id]
	if !exists {
		return goerr.Wrap(notFound("source not found"), "failed to set document count", goerr.V("id", id))
	}
	source.DocumentCount = count
	return nil
}
