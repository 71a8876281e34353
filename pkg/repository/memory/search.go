package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/secmon-lab/docdesk/pkg/domain/model"
)

const searchSnippetLength = 120

type searchService struct {
	mu       sync.RWMutex
	analyses map[string]*model.SearchAnalysis
	sections *sectionService
}

func newSearchService(sections *sectionService) *searchService {
	return &searchService{
		analyses: make(map[string]*model.SearchAnalysis),
		sections: sections,
	}
}

// Search returns a seeded analysis for query when present, otherwise an unrewritten
// analysis with hits from a case-insensitive substring match over stored sections.
func (r *searchService) Search(ctx context.Context, query string) (*model.SearchAnalysis, error) {
	r.mu.RLock()
	seeded, ok := r.analyses[query]
	r.mu.RUnlock()

	if ok {
		copied := *seeded
		copied.QueryEntities = slices.Clone(seeded.QueryEntities)
		copied.Hits = slices.Clone(seeded.Hits)
		return &copied, nil
	}

	result := &model.SearchAnalysis{OriginQuery: query}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return result, nil
	}

	for _, s := range r.sections.all() {
		content := strings.ToLower(s.Content)
		if !strings.Contains(content, needle) && !strings.Contains(strings.ToLower(s.Title()), needle) {
			continue
		}
		result.Hits = append(result.Hits, model.SearchHit{
			DocumentID: s.ArticleID,
			Title:      s.Title(),
			Snippet:    snippet(s.Content),
			Score:      float64(strings.Count(content, needle)),
		})
	}
	slices.SortStableFunc(result.Hits, func(a, b model.SearchHit) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return result, nil
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= searchSnippetLength {
		return content
	}
	return string(runes[:searchSnippetLength]) + "…"
}

// PutSearchAnalysis seeds the analysis returned for an exact query, standing in for
// the query rewriting and entity extraction of the real service
func (m *Remote) PutSearchAnalysis(analysis *model.SearchAnalysis) {
	m.search.mu.Lock()
	defer m.search.mu.Unlock()

	copied := *analysis
	m.search.analyses[analysis.OriginQuery] = &copied
}
