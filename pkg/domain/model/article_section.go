package model

import (
	"cmp"
	"slices"
	"time"
)

// ArticleSectionID identifies a section within its parent article
type ArticleSectionID string

// ArticleSection is an ordered content fragment of a parent article.
// Rank defines the reading order and need not be contiguous.
type ArticleSection struct {
	ID          ArticleSectionID `json:"id"`
	ArticleID   string           `json:"article_id"`
	Heading     *string          `json:"heading,omitempty"`
	Content     string           `json:"content"`
	Rank        int              `json:"rank"`
	CreatedTime time.Time        `json:"created_time"`
	ExtraData   map[string]any   `json:"extra_data,omitempty"`
}

// EntityID returns the section identifier
func (s *ArticleSection) EntityID() string {
	return string(s.ID)
}

// Type returns the optional `type` tag carried in ExtraData
func (s *ArticleSection) Type() string {
	if s.ExtraData == nil {
		return ""
	}
	if v, ok := s.ExtraData["type"].(string); ok {
		return v
	}
	return ""
}

// Title returns the heading, or an empty string when the section has none
func (s *ArticleSection) Title() string {
	if s.Heading == nil {
		return ""
	}
	return *s.Heading
}

// SortSections returns a copy of sections in canonical reading order (ascending rank).
// Sections sharing a rank keep their relative input order.
func SortSections(sections []*ArticleSection) []*ArticleSection {
	sorted := slices.Clone(sections)
	slices.SortStableFunc(sorted, func(a, b *ArticleSection) int {
		return cmp.Compare(a.Rank, b.Rank)
	})
	return sorted
}
