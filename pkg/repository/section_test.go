package repository_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
)

func runSectionContractTest(t *testing.T, newBackend newBackend) {
	t.Helper()

	t.Run("ListByArticle returns seeded sections", func(t *testing.T) {
		b := newBackend(t)
		heading := "Intro"
		b.store.PutSections("a1",
			&model.ArticleSection{ID: "s2", Content: "second", Rank: 20, ExtraData: map[string]any{"type": "paragraph"}},
			&model.ArticleSection{ID: "s1", Heading: &heading, Content: "first", Rank: 10},
		)

		sections, err := b.remote.Section().ListByArticle(context.Background(), "a1")
		gt.NoError(t, err).Required()
		gt.Array(t, sections).Length(2).Required()

		sorted := model.SortSections(sections)
		gt.Value(t, sorted[0].Title()).Equal("Intro")
		gt.Value(t, sorted[0].ArticleID).Equal("a1")
		gt.Value(t, sorted[1].Type()).Equal("paragraph")
		gt.Bool(t, sorted[1].CreatedTime.IsZero()).False()
	})

	t.Run("ListByArticle of unknown article", func(t *testing.T) {
		b := newBackend(t)
		_, err := b.remote.Section().ListByArticle(context.Background(), "missing")
		assertAPIError(t, err, http.StatusNotFound, "article not found")
	})
}

func runSearchContractTest(t *testing.T, newBackend newBackend) {
	t.Helper()

	t.Run("seeded analysis", func(t *testing.T) {
		b := newBackend(t)
		final := "find the domestic cat"
		b.store.PutSearchAnalysis(&model.SearchAnalysis{
			OriginQuery:   "find cat",
			FinalQuery:    &final,
			QueryEntities: []model.QueryEntity{{Name: "cat", Weight: 1}, {Name: "domestic", Weight: 3}},
		})

		result, err := b.remote.Search().Search(context.Background(), "find cat")
		gt.NoError(t, err).Required()
		gt.Value(t, result.FinalQuery).NotNil().Required()
		gt.Value(t, *result.FinalQuery).Equal(final)
		gt.Array(t, result.QueryEntities).Length(2).Required()
		gt.Value(t, result.QueryEntities[1].Name).Equal("domestic")
	})

	t.Run("substring match over sections", func(t *testing.T) {
		b := newBackend(t)
		heading := "Cats"
		b.store.PutSections("a1", &model.ArticleSection{ID: "s1", Heading: &heading, Content: "cats and more cats"})
		b.store.PutSections("a2", &model.ArticleSection{ID: "s2", Content: "dogs only"})

		result, err := b.remote.Search().Search(context.Background(), "cat")
		gt.NoError(t, err).Required()
		gt.Value(t, result.OriginQuery).Equal("cat")
		gt.Value(t, result.FinalQuery).Nil()
		gt.Array(t, result.Hits).Length(1).Required()
		gt.Value(t, result.Hits[0].DocumentID).Equal("a1")
	})
}

func TestSectionContract(t *testing.T) {
	runAll(t, runSectionContractTest)
}

func TestSearchContract(t *testing.T) {
	runAll(t, runSearchContractTest)
}
