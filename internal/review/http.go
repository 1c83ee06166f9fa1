// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leafmark/leafmark/internal/platform/middleware"
	requestutil "github.com/leafmark/leafmark/internal/platform/request"
	"github.com/leafmark/leafmark/internal/platform/respond"
	"github.com/leafmark/leafmark/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements review-related HTTP endpoints.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

// Register attaches the review endpoints to a books-scoped router.
//
// # Endpoints
//   - PUT    /{isbn}/review  : Writes or replaces the caller's review (authenticated).
//   - DELETE /{isbn}/review  : Removes the caller's review (authenticated).
//   - GET    /{isbn}/reviews : Lists every review of a book (public).
func (handler *Handler) Register(router chi.Router) {

	// Public endpoints
	router.Get("/{isbn}/reviews", handler.list)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Put("/{isbn}/review", handler.upsert)
		r.Delete("/{isbn}/review", handler.remove)
	})
}

// # Request Payloads

type upsertRequest struct {
	Text string `json:"text"`
}

/*
Upsert writes or replaces the caller's review of a book.

PUT /api/v1/books/{isbn}/review

Description: The review is keyed by (isbn, resolved username). A repeat
write replaces the stored text in place.

Request:
  - Path: isbn
  - Body: upsertRequest (Text)

Response:
  - 200: Review: The stored review
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 401: ErrUnauthorized: No valid session or token
  - 404: ErrNotFound: Unknown ISBN
*/
func (handler *Handler) upsert(writer http.ResponseWriter, request *http.Request) {
	username, err := requestutil.RequiredUsername(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input upsertRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text).
		MaxLen(FieldText, input.Text, MaxReviewLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stored, err := handler.reviewService.Upsert(
		request.Context(), requestutil.Param(request, FieldISBN), username, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stored)
}

/*
Remove deletes the caller's review of a book.

DELETE /api/v1/books/{isbn}/review

Description: Removal is scoped to the resolved identity — a caller cannot
touch anyone else's review, regardless of request content.

Response:
  - 204: No Content: Review removed
  - 401: ErrUnauthorized: No valid session or token
  - 404: ErrNotFound: Unknown ISBN or no review by this caller
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	username, err := requestutil.RequiredUsername(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.reviewService.Delete(
		request.Context(), requestutil.Param(request, FieldISBN), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
List returns every review of a book, keyed by author username.

GET /api/v1/books/{isbn}/reviews

Response:
  - 200: map[username]Review (empty object when unreviewed)
  - 404: ErrNotFound: Unknown ISBN
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	reviews, err := handler.reviewService.ListFor(
		request.Context(), requestutil.Param(request, FieldISBN))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldReviews: reviews,
	})
}
