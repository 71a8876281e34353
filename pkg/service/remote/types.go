package remote

// REST paths of the remote service, relative to the base URL
const (
	PathSources  = "/api/sources"
	PathModels   = "/api/models"
	PathArticles = "/api/articles"
	PathSearch   = "/api/search"
)

// ListResponse is the envelope of every list endpoint
type ListResponse[T any] struct {
	Items []T `json:"items"`
}

// ErrorResponse is the body of a non-2xx response. Older endpoints put the text
// in "error" instead of "message".
type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (r ErrorResponse) text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}
