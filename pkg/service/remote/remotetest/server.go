// Package remotetest serves an interfaces.Remote over the REST contract so the HTTP
// client and the command line can be exercised without the real service.
package remotetest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/docdesk/pkg/domain/interfaces"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
	"github.com/secmon-lab/docdesk/pkg/service/remote"
)

// Server is a test REST server backed by an interfaces.Remote
type Server struct {
	*httptest.Server
	requests atomic.Int64
}

// NewServer starts a server routing the REST contract to backend
func NewServer(backend interfaces.Remote) *Server {
	s := &Server{}
	s.Server = httptest.NewServer(s.count(Handler(backend)))
	return s
}

// Requests returns the number of requests served so far
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

// Handler returns the chi router implementing the REST contract over backend
func Handler(backend interfaces.Remote) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	mountCollection(r, remote.PathSources, backend.Source())
	mountCollection(r, remote.PathModels, backend.ModelConfig())

	r.Get(remote.PathArticles+"/{articleID}/sections", func(w http.ResponseWriter, r *http.Request) {
		sections, err := backend.Section().ListByArticle(r.Context(), chi.URLParam(r, "articleID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, remote.ListResponse[*model.ArticleSection]{Items: sections})
	})

	r.Post(remote.PathSearch, func(w http.ResponseWriter, r *http.Request) {
		var req model.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, remote.ErrorResponse{Message: "invalid request body"})
			return
		}
		analysis, err := backend.Search().Search(r.Context(), req.Query)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, analysis)
	})

	return r
}

func mountCollection[T any, P any](r chi.Router, path string, svc interfaces.CollectionService[T, P]) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			items, err := svc.List(r.Context())
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, remote.ListResponse[T]{Items: items})
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var input P
			if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
				writeJSON(w, http.StatusBadRequest, remote.ErrorResponse{Message: "invalid request body"})
				return
			}
			created, err := svc.Create(r.Context(), input)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, created)
		})
		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			var input P
			if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
				writeJSON(w, http.StatusBadRequest, remote.ErrorResponse{Message: "invalid request body"})
				return
			}
			updated, err := svc.Update(r.Context(), chi.URLParam(r, "id"), input)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, updated)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

func writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		writeJSON(w, apiErr.Status, remote.ErrorResponse{Message: apiErr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, remote.ErrorResponse{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
