// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package gateway_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafmark/leafmark/internal/gateway"
	"github.com/leafmark/leafmark/internal/platform/apperr"
	"github.com/leafmark/leafmark/internal/ratelimit"
)

// stubAdmitter returns a canned admission decision.
type stubAdmitter struct {
	decision ratelimit.Decision
}

func (admitter *stubAdmitter) Admit(string) ratelimit.Decision {
	return admitter.decision
}

func allowAll() *stubAdmitter {
	return &stubAdmitter{decision: ratelimit.Decision{Allowed: true}}
}

func denyAll(retryAfter time.Duration) *stubAdmitter {
	return &stubAdmitter{decision: ratelimit.Decision{Allowed: false, RetryAfter: retryAfter}}
}

func newService(baseURL string, admitter gateway.Admitter, timeout time.Duration) *gateway.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return gateway.NewService(baseURL, admitter, timeout, logger)
}

/*
TestFetch_PassThrough verifies a downstream success arrives verbatim:
status, content type, and body untouched.
*/
func TestFetch_PassThrough(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/books", r.URL.Path)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"data":{"books":[],"total":0}}`))
	}))
	defer downstream.Close()

	service := newService(downstream.URL, allowAll(), time.Second)

	result, err := service.Fetch(context.Background(), "/api/v1/books", nil, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, "application/json; charset=utf-8", result.ContentType)
	assert.JSONEq(t, `{"data":{"books":[],"total":0}}`, string(result.Body))
}

/*
TestFetch_QueryForwarding verifies query parameters reach the downstream
encoded.
*/
func TestFetch_QueryForwarding(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "garcía márquez", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer downstream.Close()

	service := newService(downstream.URL, allowAll(), time.Second)

	query := url.Values{}
	query.Set("q", "garcía márquez")

	_, err := service.Fetch(context.Background(), "/api/v1/search", query, "10.0.0.1")
	require.NoError(t, err)
}

/*
TestFetch_RateLimited verifies a denied admission short-circuits: the
caller gets the retry-after hint and the downstream is never contacted.
*/
func TestFetch_RateLimited(t *testing.T) {
	var hits atomic.Int64
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer downstream.Close()

	service := newService(downstream.URL, denyAll(30*time.Second), time.Second)

	_, err := service.Fetch(context.Background(), "/api/v1/books", nil, "10.0.0.1")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "RATE_LIMITED", ae.Code)
	assert.Equal(t, 30*time.Second, ae.RetryAfter)
	assert.Zero(t, hits.Load())
}

/*
TestFetch_Timeout verifies a downstream that stalls past the bound is
classified as a timeout, not as unreachable.
*/
func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer downstream.Close()

	service := newService(downstream.URL, allowAll(), 50*time.Millisecond)

	_, err := service.Fetch(context.Background(), "/api/v1/books", nil, "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_TIMEOUT", apperr.As(err).Code)
}

/*
TestFetch_Unreachable verifies a refused connection is classified as
unreachable.
*/
func TestFetch_Unreachable(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	downstream.Close() // nothing is listening anymore

	service := newService(downstream.URL, allowAll(), time.Second)

	_, err := service.Fetch(context.Background(), "/api/v1/books", nil, "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_UNREACHABLE", apperr.As(err).Code)
}

/*
TestFetch_UpstreamClientError verifies a downstream 4xx surfaces with its
original status and body.
*/
func TestFetch_UpstreamClientError(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Book not found","code":"NOT_FOUND"}`))
	}))
	defer downstream.Close()

	service := newService(downstream.URL, allowAll(), time.Second)

	_, err := service.Fetch(context.Background(), "/api/v1/books/000", nil, "10.0.0.1")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UPSTREAM_CLIENT_ERROR", ae.Code)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	assert.Contains(t, ae.Message, "Book not found")
}

/*
TestFetch_UpstreamServerError verifies a downstream 5xx maps to the server
error class without leaking the downstream body.
*/
func TestFetch_UpstreamServerError(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("stack trace goes here"))
	}))
	defer downstream.Close()

	service := newService(downstream.URL, allowAll(), time.Second)

	_, err := service.Fetch(context.Background(), "/api/v1/books", nil, "10.0.0.1")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UPSTREAM_SERVER_ERROR", ae.Code)
	assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)
	assert.NotContains(t, ae.Message, "stack trace")
}

/*
TestFetch_NoRetries verifies a failed call is attempted exactly once.
*/
func TestFetch_NoRetries(t *testing.T) {
	var hits atomic.Int64
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer downstream.Close()

	service := newService(downstream.URL, allowAll(), time.Second)

	_, err := service.Fetch(context.Background(), "/api/v1/books", nil, "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, int64(1), hits.Load())
}
