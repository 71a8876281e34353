package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
	"github.com/secmon-lab/docdesk/pkg/domain/types"
)

type modelConfigService struct {
	mu      sync.RWMutex
	configs map[model.ModelConfigID]*model.ModelConfig
}

func newModelConfigService() *modelConfigService {
	return &modelConfigService{
		configs: make(map[model.ModelConfigID]*model.ModelConfig),
	}
}

func copyModelConfig(cfg *model.ModelConfig) *model.ModelConfig {
	copied := *cfg
	return &copied
}

func (r *modelConfigService) List(ctx context.Context) ([]*model.ModelConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configs := make([]*model.ModelConfig, 0, len(r.configs))
	for _, cfg := range r.configs {
		configs = append(configs, copyModelConfig(cfg))
	}
	slices.SortFunc(configs, func(a, b *model.ModelConfig) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return configs, nil
}

func (r *modelConfigService) Create(ctx context.Context, input model.ModelConfigInput) (*model.ModelConfig, error) {
	if err := input.Validate(); err != nil {
		return nil, goerr.Wrap(invalid(err), "rejected model config payload")
	}
	input = input.Normalized()

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := &model.ModelConfig{
		ID:        model.NewModelConfigID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyModelConfigInput(created, input)
	if created.IsDefault {
		r.clearDefault(created.Kind, created.Scenario)
	}

	r.configs[created.ID] = created
	return copyModelConfig(created), nil
}

func (r *modelConfigService) Update(ctx context.Context, id string, input model.ModelConfigInput) (*model.ModelConfig, error) {
	if err := input.Validate(); err != nil {
		return nil, goerr.Wrap(invalid(err), "rejected model config payload")
	}
	input = input.Normalized()

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.configs[model.ModelConfigID(id)]
	if !exists {
		return nil, goerr.Wrap(notFound("model config not found"), "failed to update model config", goerr.V("id", id))
	}

	updated := copyModelConfig(existing)
	applyModelConfigInput(updated, input)
	updated.UpdatedAt = time.Now().UTC()
	if updated.IsDefault {
		r.clearDefault(updated.Kind, updated.Scenario)
	}

	r.configs[updated.ID] = updated
	return copyModelConfig(updated), nil
}

func (r *modelConfigService) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[model.ModelConfigID(id)]; !exists {
		return goerr.Wrap(notFound("model config not found"), "failed to delete model config", goerr.V("id", id))
	}
	delete(r.configs, model.ModelConfigID(id))
	return nil
}

// clearDefault keeps at most one default per kind and scenario. Caller holds the lock.
func (r *modelConfigService) clearDefault(kind types.ModelKind, scenario types.Scenario) {
	for _, cfg := range r.configs {
		if cfg.Kind == kind && cfg.Scenario == scenario {
			cfg.IsDefault = false
		}
	}
}

func applyModelConfigInput(cfg *model.ModelConfig, input model.ModelConfigInput) {
	cfg.Name = input.Name
	cfg.Kind = input.Kind
	cfg.Scenario = input.Scenario
	cfg.Provider = input.Provider
	cfg.Model = input.Model
	cfg.BaseURL = input.BaseURL
	cfg.APIKey = input.APIKey
	cfg.IsDefault = input.IsDefault
}
