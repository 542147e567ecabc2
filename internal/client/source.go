package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nfl_v1/ingestion/internal/cache"
	"nfl_v1/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// ScheduleSource adapts the API client into a matchup source for the hybrid
// loader, with an optional Redis cache in front of it. The cache is
// best-effort: a cache failure never blocks the fetch.
type ScheduleSource struct {
	client *Client
	cache  *cache.RedisCache // nil when caching is disabled
	ttl    time.Duration
}

// NewScheduleSource wraps the client. redisCache may be nil.
func NewScheduleSource(c *Client, redisCache *cache.RedisCache, ttl time.Duration) *ScheduleSource {
	return &ScheduleSource{
		client: c,
		cache:  redisCache,
		ttl:    ttl,
	}
}

// Name identifies the source in fallback logs.
func (s *ScheduleSource) Name() string {
	return "schedule-api"
}

// Fetch returns the week's matchups, serving from cache when possible.
func (s *ScheduleSource) Fetch(ctx context.Context, season, week int) ([]*models.Matchup, error) {
	key := fmt.Sprintf("schedule:%d:%d", season, week)

	if s.cache != nil {
		if raw, hit, err := s.cache.Get(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Schedule cache read failed")
		} else if hit {
			var matchups []*models.Matchup
			if err := json.Unmarshal([]byte(raw), &matchups); err == nil {
				log.Debug().Str("key", key).Int("count", len(matchups)).Msg("Schedule served from cache")
				return matchups, nil
			}
			log.Warn().Str("key", key).Msg("Corrupt schedule cache entry, evicting and refetching")
			if err := s.cache.Delete(ctx, key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Failed to evict corrupt cache entry")
			}
		}
	}

	matchups, err := s.client.FetchWeekSchedule(ctx, season, week)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(matchups); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Schedule cache write failed")
			}
		}
	}

	return matchups, nil
}
