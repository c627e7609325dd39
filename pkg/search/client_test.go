package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClientFor(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testConfig()
	cfg.BaseURL = server.URL
	opts = append([]Option{WithHTTPClient(server.Client())}, opts...)
	return NewClient(cfg, opts...), server
}

func TestClientSearch(t *testing.T) {
	client, _ := testClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lamppu", r.URL.Query().Get("q"))
		w.Write([]byte(`{"total": 2, "products": [{"title": "A", "price": 1.5}, {"title": "B"}]}`))
	})

	result, err := client.Search(context.Background(), Query{Term: "lamppu", Limit: 10, Sort: SortRelevance})
	require.NoError(t, err)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 2, result.TotalFound)
}

func TestClientSearchTruncatesToLimit(t *testing.T) {
	client, _ := testClientFor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"total": 50, "products": [{"title": "A"}, {"title": "B"}, {"title": "C"}]}`))
	})

	result, err := client.Search(context.Background(), Query{Term: "lamppu", Limit: 2, Sort: SortRelevance})
	require.NoError(t, err)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 50, result.TotalFound)
}

func TestClientSearchZeroLimitKeepsVendorTotal(t *testing.T) {
	client, _ := testClientFor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"total": 50, "products": [{"title": "A"}]}`))
	})

	result, err := client.Search(context.Background(), Query{Term: "lamppu", Limit: 0, Sort: SortRelevance})
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Equal(t, 50, result.TotalFound)
}

func TestClientSearchValidatesBeforeFetching(t *testing.T) {
	var called atomic.Bool
	client, _ := testClientFor(t, func(w http.ResponseWriter, _ *http.Request) {
		called.Store(true)
		w.Write([]byte(`{}`))
	})

	_, err := client.Search(context.Background(), Query{Term: "", Limit: 10, Sort: SortRelevance})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.False(t, called.Load())
}

func TestClientSearchUpstreamError(t *testing.T) {
	client, _ := testClientFor(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	})

	_, err := client.Search(context.Background(), Query{Term: "lamppu", Limit: 10, Sort: SortRelevance})
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.StatusCode)
	assert.Contains(t, upstreamErr.BodyExcerpt, "service unavailable")
}

func TestClientSearchParseError(t *testing.T) {
	client, _ := testClientFor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.Search(context.Background(), Query{Term: "lamppu", Limit: 10, Sort: SortRelevance})
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestClientSearchNetworkError(t *testing.T) {
	client, server := testClientFor(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	})
	server.Close()

	_, err := client.Search(context.Background(), Query{Term: "lamppu", Limit: 10, Sort: SortRelevance})
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestClientSearchTimeout(t *testing.T) {
	client, _ := testClientFor(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}, WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))

	_, err := client.Search(context.Background(), Query{Term: "lamppu", Limit: 10, Sort: SortRelevance})
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestClientRetriesTransportFailures(t *testing.T) {
	var calls atomic.Int32
	client, _ := testClientFor(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			// Drop the connection so the client sees a transport error.
			hj, ok := w.(http.Hijacker)
			if assert.True(t, ok) {
				conn, _, err := hj.Hijack()
				if assert.NoError(t, err) {
					conn.Close()
				}
			}
			return
		}
		w.Write([]byte(`{"total": 1, "products": [{"title": "A"}]}`))
	}, WithRetries(2))

	result, err := client.Search(context.Background(), Query{Term: "lamppu", Limit: 10, Sort: SortRelevance})
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientDoesNotRetryUpstreamErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := testClientFor(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusBadGateway)
	}, WithRetries(3))

	_, err := client.Search(context.Background(), Query{Term: "lamppu", Limit: 10, Sort: SortRelevance})
	var upstreamErr *UpstreamError
	assert.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, int32(1), calls.Load())
}
