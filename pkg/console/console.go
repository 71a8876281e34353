package console

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/console/analysis"
	"github.com/secmon-lab/docdesk/pkg/console/cache"
	"github.com/secmon-lab/docdesk/pkg/console/dialog"
	"github.com/secmon-lab/docdesk/pkg/domain/interfaces"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
	"github.com/secmon-lab/docdesk/pkg/usecase"
	"github.com/secmon-lab/docdesk/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Cache keys of the console collections
var (
	SourcesKey      = cache.NewKey("sources")
	ModelConfigsKey = cache.NewKey("models")
)

// SectionsKey returns the cache key of the sections of an article
func SectionsKey(articleID string) cache.Key {
	return cache.NewKey("sections", articleID)
}

// Console wires the caches, panels and presenters over one remote service
type Console struct {
	remote   interfaces.Remote
	notifier interfaces.Notifier

	Sources      *cache.Cache[*model.Source]
	ModelConfigs *cache.Cache[*model.ModelConfig]
	Sections     *cache.Cache[*model.ArticleSection]

	SourcePanel *SourcePanel
	ModelPanel  *ModelPanel
}

// New creates a console backed by remote, reporting outcomes to notifier
func New(remote interfaces.Remote, notifier interfaces.Notifier) *Console {
	c := &Console{
		remote:   remote,
		notifier: notifier,
		Sources: cache.New("sources", func(ctx context.Context, _ cache.Key) ([]*model.Source, error) {
			return remote.Source().List(ctx)
		}),
		ModelConfigs: cache.New("models", func(ctx context.Context, _ cache.Key) ([]*model.ModelConfig, error) {
			return remote.ModelConfig().List(ctx)
		}),
		Sections: cache.New("sections", func(ctx context.Context, key cache.Key) ([]*model.ArticleSection, error) {
			return remote.Section().ListByArticle(ctx, key.Param)
		}),
	}

	sourceDialog := dialog.New[*model.Source]()
	c.SourcePanel = newPanel(SourcesKey, c.Sources, sourceDialog,
		usecase.NewSourceMutation(remote, sourceDialog, c.Sources, notifier, SourcesKey),
		notifier)

	modelDialog := dialog.New[*model.ModelConfig]()
	c.ModelPanel = &ModelPanel{
		Panel: newPanel(ModelConfigsKey, c.ModelConfigs, modelDialog,
			usecase.NewModelConfigMutation(remote, modelDialog, c.ModelConfigs, notifier, ModelConfigsKey),
			notifier),
	}

	return c
}

// Prefetch loads the source and model config collections in parallel
func (c *Console) Prefetch(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		_, err := c.Sources.Fetch(ctx, SourcesKey)
		return err
	})
	eg.Go(func() error {
		_, err := c.ModelConfigs.Fetch(ctx, ModelConfigsKey)
		return err
	})
	if err := eg.Wait(); err != nil {
		return goerr.Wrap(err, "failed to prefetch collections")
	}
	return nil
}

// OpenSections opens the section drawer of an article
func (c *Console) OpenSections(ctx context.Context, articleID string) *SectionDrawer {
	key := SectionsKey(articleID)
	return &SectionDrawer{
		articleID: articleID,
		key:       key,
		cache:     c.Sections,
		observer:  c.Sections.Observe(ctx, key),
	}
}

// Analysis is the outcome of a search
type Analysis struct {
	// View is nil when the analysis has nothing to show
	View *analysis.View
	Hits []model.SearchHit
}

// Analyze runs a search and prepares its analysis for display
func (c *Console) Analyze(ctx context.Context, query string) (*Analysis, error) {
	result, err := c.remote.Search().Search(ctx, query)
	if err != nil {
		c.notifier.Notify(ctx, model.NewError(usecase.ResolveMessage(err, "failed to search")))
		return nil, goerr.Wrap(err, "failed to search", goerr.V("query", query))
	}

	view, shown := analysis.Present(result)
	logging.From(ctx).Debug("search analyzed",
		"query", query,
		"hits", len(result.Hits),
		"analysis_shown", shown)

	return &Analysis{View: view, Hits: result.Hits}, nil
}
