// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/leafmark/leafmark/internal/platform/request"
	"github.com/leafmark/leafmark/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements catalogue-related HTTP endpoints.
type Handler struct {
	catalogService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{catalogService: service}
}

// Register attaches the catalogue endpoints to a books-scoped router.
//
// # Endpoints
//   - GET /        : Lists the whole catalogue.
//   - GET /{isbn}  : Fetches one book.
func (handler *Handler) Register(router chi.Router) {
	router.Get("/", handler.list)
	router.Get("/{isbn}", handler.get)
}

/*
List returns the whole catalogue.

GET /api/v1/books

Response:
  - 200: {books, total}
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	books, err := handler.catalogService.ListBooks(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldBooks: books,
		FieldTotal: len(books),
	})
}

/*
Get fetches a single book by ISBN.

GET /api/v1/books/{isbn}

Response:
  - 200: Book
  - 404: ErrNotFound: Unknown ISBN
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	book, err := handler.catalogService.GetBook(
		request.Context(), requestutil.Param(request, FieldISBN))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

/*
Search returns books matching the q query parameter against title or author.

GET /api/v1/search?q=...

Description: Registered at the API root rather than under /books, so the
server wires this method directly.

Response:
  - 200: {books, total} (empty list when nothing matches)
*/
func (handler *Handler) Search(writer http.ResponseWriter, request *http.Request) {
	books, err := handler.catalogService.Search(
		request.Context(), request.URL.Query().Get(FieldQuery))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldBooks: books,
		FieldTotal: len(books),
	})
}
