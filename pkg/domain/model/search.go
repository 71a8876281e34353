package model

// QueryEntity is a named, typed, weighted term extracted from a search query
type QueryEntity struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// SearchHit is a single document matched by a search request
type SearchHit struct {
	DocumentID string  `json:"document_id"`
	SourceID   string  `json:"source_id,omitempty"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet,omitempty"`
	Score      float64 `json:"score"`
}

// SearchAnalysis is the payload returned by the remote search endpoint.
// FinalQuery is nil when the service did not produce a rewritten query.
type SearchAnalysis struct {
	OriginQuery   string        `json:"origin_query"`
	FinalQuery    *string       `json:"final_query,omitempty"`
	QueryEntities []QueryEntity `json:"query_entities"`
	Hits          []SearchHit   `json:"hits,omitempty"`
}

// SearchRequest is the body sent to the search endpoint
type SearchRequest struct {
	Query string `json:"query"`
}
