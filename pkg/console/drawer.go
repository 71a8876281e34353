package console

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/console/cache"
	"github.com/secmon-lab/docdesk/pkg/console/expansion"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
)

// SectionDrawer shows the sections of one article. Its expansion state lives only as
// long as the drawer is open.
type SectionDrawer struct {
	articleID string
	key       cache.Key
	cache     *cache.Cache[*model.ArticleSection]
	observer  *cache.Observer[*model.ArticleSection]

	mu       sync.Mutex
	expanded expansion.Set
	closed   bool
}

// ArticleID returns the article the drawer was opened on
func (d *SectionDrawer) ArticleID() string {
	return d.articleID
}

// Sections returns the article sections in reading order
func (d *SectionDrawer) Sections(ctx context.Context) ([]*model.ArticleSection, error) {
	sections, err := d.cache.Fetch(ctx, d.key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sections", goerr.V("article_id", d.articleID))
	}
	return model.SortSections(sections), nil
}

// Snapshot returns the observed sections in reading order
func (d *SectionDrawer) Snapshot() cache.Snapshot[*model.ArticleSection] {
	snap := d.observer.Snapshot()
	snap.Items = model.SortSections(snap.Items)
	return snap
}

// Toggle expands or collapses s. Sections too short to collapse are left alone
// and false is returned.
func (d *SectionDrawer) Toggle(s *model.ArticleSection) bool {
	if s == nil || !expansion.Expandable(s.Content) {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	d.expanded = d.expanded.Toggle(s.EntityID())
	return true
}

// IsExpanded reports whether s is shown in full
func (d *SectionDrawer) IsExpanded(s *model.ArticleSection) bool {
	if s == nil {
		return false
	}
	if !expansion.Expandable(s.Content) {
		return true
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.expanded.Has(s.EntityID())
}

// Expanded returns the current expansion set
func (d *SectionDrawer) Expanded() expansion.Set {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.expanded
}

// Preview returns the content of s as displayed: in full when short or expanded,
// otherwise cut at the expansion threshold.
func (d *SectionDrawer) Preview(s *model.ArticleSection) string {
	if s == nil {
		return ""
	}
	if d.IsExpanded(s) {
		return s.Content
	}
	runes := []rune(s.Content)
	return string(runes[:expansion.Threshold]) + "…"
}

// Close unmounts the drawer and discards its expansion state
func (d *SectionDrawer) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.expanded = expansion.Set{}
	d.mu.Unlock()

	d.observer.Close()
}
