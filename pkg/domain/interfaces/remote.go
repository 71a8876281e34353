package interfaces

import (
	"context"

	"github.com/secmon-lab/docdesk/pkg/domain/model"
)

// CollectionService is the kind-parameterized REST contract of an editable entity
// collection owned by the remote service
type CollectionService[T any, P any] interface {
	// List retrieves the whole collection
	List(ctx context.Context) ([]T, error)

	// Create creates a new entity from the editable attribute payload
	Create(ctx context.Context, input P) (T, error)

	// Update replaces the editable attributes of an existing entity
	Update(ctx context.Context, id string, input P) (T, error)

	// Delete deletes an entity by ID
	Delete(ctx context.Context, id string) error
}

// SourceService manages sources
type SourceService = CollectionService[*model.Source, model.SourceInput]

// ModelConfigService manages model configurations
type ModelConfigService = CollectionService[*model.ModelConfig, model.ModelConfigInput]

// SectionService reads the sections of an article
type SectionService interface {
	// ListByArticle retrieves the sections belonging to an article
	ListByArticle(ctx context.Context, articleID string) ([]*model.ArticleSection, error)
}

// SearchService runs searches and returns the analysis payload
type SearchService interface {
	Search(ctx context.Context, query string) (*model.SearchAnalysis, error)
}

// Remote is the remote service acting as the system of record
type Remote interface {
	Source() SourceService
	ModelConfig() ModelConfigService
	Section() SectionService
	Search() SearchService
}

// Notifier receives success and error events for an external presentation surface
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}
