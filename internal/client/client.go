// Package client implements the live schedule API collaborator, the
// authoritative but network-bound secondary source for weekly matchups.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nfl_v1/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// Client is the schedule API client
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter chan struct{} // Rate limiting semaphore
	maxRetries  int
	retryDelay  time.Duration
}

// NewClient creates a new schedule API client with connection pooling,
// retry with backoff, and a concurrency cap.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	// Max 20 concurrent requests
	rateLimiter := make(chan struct{}, 20)
	for i := 0; i < 20; i++ {
		rateLimiter <- struct{}{}
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rateLimiter,
		maxRetries:  3,
		retryDelay:  1 * time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request with retry logic and rate limiting
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, retryable, err := c.doRequest(ctx, url, attempt)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		if attempt < c.maxRetries {
			log.Warn().
				Err(err).
				Str("url", url).
				Int("attempt", attempt+1).
				Msg("Received retryable error, will retry")
		}
	}

	return nil, lastErr
}

// doRequest performs one attempt. The rate-limiter token is returned and the
// response body closed before the next attempt starts, so retries never hold
// more than one token or open body. The boolean reports whether the failure
// is worth retrying.
func (c *Client) doRequest(ctx context.Context, url string, attempt int) ([]byte, bool, error) {
	// Rate limiting: acquire semaphore
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-c.rateLimiter:
	}
	defer func() { c.rateLimiter <- struct{}{} }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "NFL-v1.0/1.0")

	log.Debug().
		Str("url", url).
		Int("attempt", attempt+1).
		Msg("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		log.Debug().
			Str("url", url).
			Int("status", resp.StatusCode).
			Int("size", len(body)).
			Msg("API request successful")
		return body, false, nil

	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return nil, true, fmt.Errorf("API returned retryable status %d: %s", resp.StatusCode, string(body))

	case http.StatusUnauthorized, http.StatusForbidden:
		// Don't retry auth errors
		return nil, false, fmt.Errorf("API authentication failed (status %d): %s", resp.StatusCode, string(body))

	default:
		return nil, false, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
}

// FetchWeekSchedule fetches the matchup schedule for a season week
func (c *Client) FetchWeekSchedule(ctx context.Context, season, week int) ([]*models.Matchup, error) {
	path := fmt.Sprintf("scores/json/SchedulesByWeek/%d/%d", season, week)
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch week schedule: %w", err)
	}

	var inputs []models.MatchupInput
	if err := json.Unmarshal(body, &inputs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal week schedule: %w", err)
	}

	matchups := make([]*models.Matchup, 0, len(inputs))
	for _, in := range inputs {
		m := in.ToMatchup()
		m.Season = season
		m.Week = week
		matchups = append(matchups, m)
	}

	return matchups, nil
}

// FetchCurrentWeek fetches the current week number
func (c *Client) FetchCurrentWeek(ctx context.Context) (int, error) {
	body, err := c.get(ctx, "scores/json/CurrentWeek")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch current week: %w", err)
	}

	var week int
	if err := json.Unmarshal(body, &week); err != nil {
		return 0, fmt.Errorf("failed to unmarshal week: %w", err)
	}

	return week, nil
}

// FetchCurrentSeason fetches the current season year
func (c *Client) FetchCurrentSeason(ctx context.Context) (int, error) {
	body, err := c.get(ctx, "scores/json/CurrentSeason")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch current season: %w", err)
	}

	var season int
	if err := json.Unmarshal(body, &season); err != nil {
		return 0, fmt.Errorf("failed to unmarshal season: %w", err)
	}

	return season, nil
}
