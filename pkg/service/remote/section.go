package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/secmon-lab/docdesk/pkg/domain/model"
)

type sectionClient struct {
	client *Client
}

// SectionsPath returns the list endpoint of an article's sections
func SectionsPath(articleID string) string {
	return PathArticles + "/" + url.PathEscape(articleID) + "/sections"
}

func (s *sectionClient) ListByArticle(ctx context.Context, articleID string) ([]*model.ArticleSection, error) {
	var resp ListResponse[*model.ArticleSection]
	if err := s.client.do(ctx, "list sections", http.MethodGet, SectionsPath(articleID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

type searchClient struct {
	client *Client
}

func (s *searchClient) Search(ctx context.Context, query string) (*model.SearchAnalysis, error) {
	var analysis model.SearchAnalysis
	if err := s.client.do(ctx, "search", http.MethodPost, PathSearch, model.SearchRequest{Query: query}, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}
