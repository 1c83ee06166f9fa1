// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

/*
Package gateway implements the rate-limited asynchronous read gateway.

The gateway proxies catalogue reads and searches through a second internal
hop. It owns none of the catalogue logic: every response body passes
through verbatim. What it adds is admission control (the exact
sliding-window quota) and a strict failure taxonomy for the downstream
call.

Architecture:

  - Service: Admission, the bounded downstream GET, and classification.
  - Handler: Thin HTTP layer mapping /async/* routes onto Fetch.
*/
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/leafmark/leafmark/internal/platform/apperr"
	"github.com/leafmark/leafmark/internal/ratelimit"
)

// # Contracts & Types

// Admitter is the admission-control contract the gateway depends on.
type Admitter interface {
	// Admit decides whether one request from the client may proceed now.
	Admit(clientID string) ratelimit.Decision
}

// Result is a downstream success passed through untransformed.
type Result struct {
	Status      int
	ContentType string
	Body        []byte
}

// Service performs admission-gated, timeout-bounded downstream fetches.
type Service struct {
	baseURL    string
	limiter    Admitter
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// NewService constructs a gateway [Service].
//
// # Parameters
//   - baseURL: Root of the downstream service (no trailing slash).
//   - limiter: The sliding-window admission controller.
//   - timeout: Upper bound on one downstream round trip.
func NewService(baseURL string, limiter Admitter, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		baseURL:    baseURL,
		limiter:    limiter,
		httpClient: &http.Client{},
		timeout:    timeout,
		logger:     logger,
	}
}

/*
Fetch performs one admission-gated downstream GET.

Description: Admission runs first — a denied client costs the downstream
nothing and receives the window's retry-after hint. The call itself is
bounded by the gateway timeout and never retried. Failures classify into
exactly one of: rate limited, timeout, unreachable, upstream client error
(status and body preserved), upstream server error.

Parameters:
  - ctx: context.Context
  - path: string (downstream path, e.g. "/api/v1/books")
  - query: url.Values (nil for none)
  - clientID: string (admission key, usually the caller's IP)

Returns:
  - *Result: Verbatim downstream payload on 2xx/3xx
  - error: One apperr classification per the taxonomy above
*/
func (service *Service) Fetch(ctx context.Context, path string, query url.Values, clientID string) (*Result, error) {

	// 1. Admission before anything touches the network.
	decision := service.limiter.Admit(clientID)
	if !decision.Allowed {
		service.logger.InfoContext(ctx, "gateway admission denied",
			slog.String("client", clientID),
			slog.Duration("retry_after", decision.RetryAfter))
		return nil, apperr.RateLimited(decision.RetryAfter)
	}

	// 2. Build the downstream URL.
	target := service.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	// 3. Bound the whole round trip.
	callContext, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(callContext, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("gateway_request_build_failed: %w", err))
	}

	// 4. Single attempt, no retries.
	response, err := service.httpClient.Do(request)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		// A read cut short mid-body counts the same as the dial phase.
		return nil, classifyTransportError(err)
	}

	// 5. Status classification.
	switch {
	case response.StatusCode >= http.StatusInternalServerError:
		return nil, apperr.UpstreamServerError(response.StatusCode)
	case response.StatusCode >= http.StatusBadRequest:
		return nil, apperr.UpstreamClientError(response.StatusCode, string(body))
	}

	return &Result{
		Status:      response.StatusCode,
		ContentType: response.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// classifyTransportError splits network failures into the timeout and
// unreachable classes.
func classifyTransportError(err error) *apperr.AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.UpstreamTimeout(err)
	}

	var urlError *url.Error
	if errors.As(err, &urlError) && urlError.Timeout() {
		return apperr.UpstreamTimeout(err)
	}

	return apperr.UpstreamUnreachable(err)
}
