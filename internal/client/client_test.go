package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	c := NewClient(baseURL, "test-key", 5*time.Second)
	c.retryDelay = 10 * time.Millisecond
	return c
}

func TestGet_RetriesRetryableStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"), "API key header should be set")
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("7"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	week, err := c.FetchCurrentWeek(context.Background())
	require.NoError(t, err, "Retryable status should be retried to success")
	assert.Equal(t, 7, week)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "One retry after the 503")
}

func TestGet_DoesNotRetryAuthErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.FetchCurrentWeek(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "Auth errors must not be retried")
}

func TestGet_ReturnsRateLimiterTokensAcrossRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.FetchCurrentWeek(context.Background())
	require.Error(t, err, "All attempts exhausted")

	// Every attempt must return its token before the call finishes; a leak
	// here would starve concurrent callers after enough retried calls.
	assert.Equal(t, cap(c.rateLimiter), len(c.rateLimiter), "All rate-limiter tokens should be back")
}

func TestFetchWeekSchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/scores/json/SchedulesByWeek/2025/1"), "unexpected path %s", r.URL.Path)
		w.Write([]byte(`[{"Season":2025,"Week":1,"HomeTeam":"KC","AwayTeam":"BAL","DateTime":"2025-09-04T20:20:00Z"}]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	matchups, err := c.FetchWeekSchedule(context.Background(), 2025, 1)
	require.NoError(t, err)
	require.Len(t, matchups, 1)
	assert.Equal(t, "KC", matchups[0].HomeTeam)
	assert.Equal(t, 2025, matchups[0].Season)
	assert.Equal(t, 1, matchups[0].Week)
}
