package repository_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
	"github.com/secmon-lab/docdesk/pkg/domain/types"
)

func runModelConfigContractTest(t *testing.T, newBackend newBackend) {
	t.Helper()

	t.Run("Create fills default scenario", func(t *testing.T) {
		b := newBackend(t)
		created, err := b.remote.ModelConfig().Create(context.Background(), model.ModelConfigInput{
			Name:     "embed",
			Kind:     types.ModelKindEmbedding,
			Provider: "openai",
			Model:    "text-embedding-3-small",
		})
		gt.NoError(t, err).Required()
		gt.String(t, string(created.ID)).NotEqual("")
		gt.Value(t, created.Scenario).Equal(types.ScenarioGeneral)
		gt.Value(t, created.Provider).Equal("openai")
	})

	t.Run("Create rejects scenario not available for kind", func(t *testing.T) {
		b := newBackend(t)
		_, err := b.remote.ModelConfig().Create(context.Background(), model.ModelConfigInput{
			Name:     "embed",
			Kind:     types.ModelKindEmbedding,
			Scenario: types.ScenarioExtract,
		})
		assertAPIError(t, err, http.StatusBadRequest, "")
	})

	t.Run("Only one default per kind and scenario", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		first, err := b.remote.ModelConfig().Create(ctx, model.ModelConfigInput{Name: "a", Kind: types.ModelKindLLM, Scenario: types.ScenarioChat, IsDefault: true})
		gt.NoError(t, err).Required()
		other, err := b.remote.ModelConfig().Create(ctx, model.ModelConfigInput{Name: "c", Kind: types.ModelKindLLM, Scenario: types.ScenarioSummary, IsDefault: true})
		gt.NoError(t, err).Required()
		second, err := b.remote.ModelConfig().Create(ctx, model.ModelConfigInput{Name: "b", Kind: types.ModelKindLLM, Scenario: types.ScenarioChat, IsDefault: true})
		gt.NoError(t, err).Required()

		configs, err := b.remote.ModelConfig().List(ctx)
		gt.NoError(t, err).Required()
		defaults := map[model.ModelConfigID]bool{}
		for _, c := range configs {
			defaults[c.ID] = c.IsDefault
		}
		gt.Bool(t, defaults[first.ID]).False()
		gt.Bool(t, defaults[second.ID]).True()
		gt.Bool(t, defaults[other.ID]).True()
	})

	t.Run("Update and Delete", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		created, err := b.remote.ModelConfig().Create(ctx, model.ModelConfigInput{Name: "gpt", Kind: types.ModelKindLLM})
		gt.NoError(t, err).Required()

		input := created.InputOf()
		input.Scenario = types.ScenarioSearch
		updated, err := b.remote.ModelConfig().Update(ctx, created.EntityID(), input)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Scenario).Equal(types.ScenarioSearch)

		gt.NoError(t, b.remote.ModelConfig().Delete(ctx, created.EntityID())).Required()
		err = b.remote.ModelConfig().Delete(ctx, created.EntityID())
		assertAPIError(t, err, http.StatusNotFound, "")
	})
}

func TestModelConfigContract(t *testing.T) {
	runAll(t, runModelConfigContractTest)
}
