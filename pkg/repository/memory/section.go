package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/secmon-lab/docdesk/pkg/domain/model"
)

type sectionService struct {
	mu       sync.RWMutex
	sections map[string][]*model.ArticleSection
}

func newSectionService() *sectionService {
	return &sectionService{
		sections: make(map[string][]*model.ArticleSection),
	}
}

func copySection(s *model.ArticleSection) *model.ArticleSection {
	copied := *s
	if s.Heading != nil {
		heading := *s.Heading
		copied.Heading = &heading
	}
	if s.ExtraData != nil {
		copied.ExtraData = maps.Clone(s.ExtraData)
	}
	return &copied
}

// ListByArticle returns sections in storage order; callers sort by rank
func (r *sectionService) ListByArticle(ctx context.Context, articleID string) ([]*model.ArticleSection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.sections[articleID]
	if !exists {
		return nil, notFound("article not found")
	}

	sections := make([]*model.ArticleSection, 0, len(stored))
	for _, s := range stored {
		sections = append(sections, copySection(s))
	}
	return sections, nil
}

func (r *sectionService) all() []*model.ArticleSection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sections []*model.ArticleSection
	for _, stored := range r.sections {
		for _, s := range stored {
			sections = append(sections, copySection(s))
		}
	}
	return sections
}

// PutSections replaces the sections of an article. Sections are owned by the
// ingestion side of the service, so this is the only way to seed them.
func (m *Remote) PutSections(articleID string, sections ...*model.ArticleSection) {
	m.section.mu.Lock()
	defer m.section.mu.Unlock()

	now := time.Now().UTC()
	stored := make([]*model.ArticleSection, 0, len(sections))
	for _, s := range sections {
		copied := copySection(s)
		copied.ArticleID = articleID
		if copied.CreatedTime.IsZero() {
			copied.CreatedTime = now
		}
		stored = append(stored, copied)
	}
	m.section.sections[articleID] = stored
}
