// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package gateway

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/leafmark/leafmark/internal/platform/middleware"
	requestutil "github.com/leafmark/leafmark/internal/platform/request"
	"github.com/leafmark/leafmark/internal/platform/respond"
)

// # Definitions & Constructors

// Handler exposes the asynchronous gateway over HTTP.
type Handler struct {
	gatewayService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{gatewayService: service}
}

// Routes returns a [chi.Router] with the async proxy endpoints.
//
// # Endpoints
//   - GET /books        : Catalogue listing through the gateway.
//   - GET /books/{isbn} : Single book through the gateway.
//   - GET /search       : Catalogue search through the gateway.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/books", handler.listBooks)
	router.Get("/books/{isbn}", handler.getBook)
	router.Get("/search", handler.search)

	return router
}

/*
ListBooks proxies the catalogue listing.

GET /api/v1/async/books

Response:
  - 2xx: Verbatim downstream payload
  - 429: ErrRateLimited: Window quota exhausted (Retry-After set)
  - 502/504: Downstream failure classification
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	handler.proxy(writer, request, "/api/v1/books", nil)
}

/*
GetBook proxies a single book lookup.

GET /api/v1/async/books/{isbn}

Response:
  - 2xx: Verbatim downstream payload
  - 404: Downstream not-found passed through with its original body
  - 429: ErrRateLimited: Window quota exhausted (Retry-After set)
*/
func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	handler.proxy(writer, request, "/api/v1/books/"+requestutil.Param(request, "isbn"), nil)
}

/*
Search proxies the catalogue search with its q parameter.

GET /api/v1/async/search?q=...
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	query := url.Values{}
	if q := request.URL.Query().Get("q"); q != "" {
		query.Set("q", q)
	}

	handler.proxy(writer, request, "/api/v1/search", query)
}

// proxy runs one Fetch keyed by the caller's IP and writes the outcome.
func (handler *Handler) proxy(writer http.ResponseWriter, request *http.Request, path string, query url.Values) {
	result, err := handler.gatewayService.Fetch(
		request.Context(), path, query, middleware.RealIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Raw(writer, result.Status, result.ContentType, result.Body)
}
