package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/docdesk/pkg/cli"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
	"github.com/secmon-lab/docdesk/pkg/domain/types"
	"github.com/secmon-lab/docdesk/pkg/repository/memory"
	"github.com/secmon-lab/docdesk/pkg/service/remote/remotetest"
)

type harness struct {
	backend *memory.Remote
	url     string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := memory.New()
	srv := remotetest.NewServer(backend)
	t.Cleanup(srv.Close)
	return &harness{backend: backend, url: srv.URL}
}

// run executes one docdesk invocation against the fake remote
func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := cli.NewApp("test", &out, &errOut)

	argv := append([]string{"docdesk", "--log-level", "error", "--base-url", h.url}, args...)
	err := app.Run(context.Background(), argv)
	return out.String(), errOut.String(), err
}

func TestSourceCommands(t *testing.T) {
	h := newHarness(t)

	out, errOut, err := h.run(t, "source", "create", "--name", "Docs", "--type", "web", "--config", "url=https://example.com")
	gt.NoError(t, err).Required()
	id := strings.TrimSpace(out)
	gt.String(t, id).NotEqual("")
	gt.String(t, errOut).Contains("✓ source created")

	out, _, err = h.run(t, "source", "list")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("NAME")
	gt.String(t, out).Contains("Docs")
	gt.String(t, out).Contains(id)

	t.Run("update keeps attributes not given", func(t *testing.T) {
		_, errOut, err := h.run(t, "source", "update", "--id", id, "--description", "handbook")
		gt.NoError(t, err).Required()
		gt.String(t, errOut).Contains("✓ source updated")

		sources, err := h.backend.Source().List(context.Background())
		gt.NoError(t, err).Required()
		gt.Array(t, sources).Length(1).Required()
		gt.Value(t, sources[0].Name).Equal("Docs")
		gt.Value(t, sources[0].Description).Equal("handbook")
		gt.Value(t, sources[0].SourceType).Equal(types.SourceTypeWeb)
		gt.Value(t, sources[0].Config["url"]).Equal("https://example.com")
	})

	t.Run("delete fails while in use", func(t *testing.T) {
		gt.NoError(t, h.backend.SetDocumentCount(model.SourceID(id), 2)).Required()

		_, errOut, err := h.run(t, "source", "delete", "--id", id)
		gt.Value(t, err).NotNil()
		gt.String(t, errOut).Contains("✗ source is in use")
	})

	t.Run("delete", func(t *testing.T) {
		gt.NoError(t, h.backend.SetDocumentCount(model.SourceID(id), 0)).Required()

		_, errOut, err := h.run(t, "source", "delete", "--id", id)
		gt.NoError(t, err).Required()
		gt.String(t, errOut).Contains("✓ source deleted")
	})

	t.Run("unknown id", func(t *testing.T) {
		_, _, err := h.run(t, "source", "delete", "--id", "missing")
		gt.Value(t, err).NotNil()
	})

	t.Run("missing name is rejected locally", func(t *testing.T) {
		_, errOut, err := h.run(t, "source", "create", "--type", "web")
		gt.Value(t, err).NotNil()
		gt.String(t, errOut).Contains("✗ name is required")
	})

	t.Run("malformed config", func(t *testing.T) {
		_, _, err := h.run(t, "source", "create", "--name", "x", "--config", "novalue")
		gt.Value(t, err).NotNil()
	})
}

func TestModelCommands(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "model", "create", "--name", "chat", "--kind", "llm", "--scenario", "chat", "--api-key", "sk-secret")
	gt.NoError(t, err).Required()
	_, _, err = h.run(t, "model", "create", "--name", "embed", "--kind", "embedding")
	gt.NoError(t, err).Required()

	t.Run("unsupported scenario", func(t *testing.T) {
		_, errOut, err := h.run(t, "model", "create", "--name", "bad", "--kind", "embedding", "--scenario", "extract")
		gt.Value(t, err).NotNil()
		gt.String(t, errOut).Contains("scenario is not available for this model kind")
	})

	t.Run("filter", func(t *testing.T) {
		out, _, err := h.run(t, "model", "list", "--filter", "llm:chat")
		gt.NoError(t, err).Required()
		gt.String(t, out).Contains("chat")
		gt.Bool(t, strings.Contains(out, "embed")).False()
	})

	t.Run("invalid filter", func(t *testing.T) {
		_, _, err := h.run(t, "model", "list", "--filter", "embedding:extract")
		gt.Error(t, err).Is(model.ErrInvalidFilter)
	})

	t.Run("counts", func(t *testing.T) {
		out, _, err := h.run(t, "model", "list", "--counts", "--hide-empty")
		gt.NoError(t, err).Required()
		gt.String(t, out).Contains("llm:chat")
		gt.String(t, out).Contains("embedding:general")
		gt.Bool(t, strings.Contains(out, "llm:summary")).False()
	})
}

func TestSectionsCommand(t *testing.T) {
	h := newHarness(t)
	heading := "Overview"
	h.backend.PutSections("a1",
		&model.ArticleSection{ID: "s2", Content: strings.Repeat("b", 700), Rank: 2},
		&model.ArticleSection{ID: "s1", Heading: &heading, Content: "intro", Rank: 1},
		&model.ArticleSection{ID: "s3", Content: strings.Repeat("c", 700), Rank: 3},
	)

	out, _, err := h.run(t, "sections", "--article", "a1", "--expand", "s3")
	gt.NoError(t, err).Required()

	gt.Bool(t, strings.Index(out, "Overview") < strings.Index(out, "s2")).True()
	gt.String(t, out).Contains(strings.Repeat("b", 500) + "…")
	gt.Bool(t, strings.Contains(out, strings.Repeat("b", 501))).False()
	gt.String(t, out).Contains(strings.Repeat("c", 700))
	gt.String(t, out).Contains("s2 (collapsed)")
}

func TestSearchCommand(t *testing.T) {
	h := newHarness(t)
	final := "find the domestic cat"
	h.backend.PutSearchAnalysis(&model.SearchAnalysis{
		OriginQuery: "find cat",
		FinalQuery:  &final,
		QueryEntities: []model.QueryEntity{
			{Name: "cat", Weight: 1},
			{Name: "domestic", Weight: 3},
		},
		Hits: []model.SearchHit{{DocumentID: "doc-1", Title: "Cats", Score: 1.5}},
	})

	out, _, err := h.run(t, "search", "-q", "find cat")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("AI analysis")
	gt.String(t, out).Contains("find cat → find the domestic cat")
	gt.String(t, out).Contains("domestic ×3")
	gt.String(t, out).Contains("doc-1")

	t.Run("nothing to analyze", func(t *testing.T) {
		out, _, err := h.run(t, "search", "-q", "dog")
		gt.NoError(t, err).Required()
		gt.Bool(t, strings.Contains(out, "AI analysis")).False()
	})
}
