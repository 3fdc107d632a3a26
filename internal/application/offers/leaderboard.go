package offers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const leaderboardCacheKey = "leaderboard:cache"

// LeaderboardEntry is one ranked producer. TotalEnergySold sums the remaining
// energyAmount of all the producer's offers (the value clients have always
// ranked by); EnergySold is the cumulative amount actually purchased.
type LeaderboardEntry struct {
	Producer        string  `json:"_id" gorm:"column:producer"`
	TotalEnergySold float64 `json:"totalEnergySold" gorm:"column:total_energy_sold"`
	EnergySold      float64 `json:"energySold" gorm:"column:energy_sold"`
}

// Leaderboard ranks producers by TotalEnergySold, highest first.
func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if entries, ok := s.Cache.Get(ctx); ok {
		return entries, nil
	}

	entries := []LeaderboardEntry{}
	err := s.DB.WithContext(ctx).
		Table("energy_offers AS o").
		Select("o.producer AS producer, SUM(o.energy_amount) AS total_energy_sold, COALESCE(MAX(ps.energy_sold), 0) AS energy_sold").
		Joins("LEFT JOIN producer_stats AS ps ON ps.producer = o.producer").
		Group("o.producer").
		Order("total_energy_sold DESC").Order("o.producer ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("Error fetching leaderboard: %w", err)
	}

	s.Cache.Set(ctx, entries)
	return entries, nil
}

// LeaderboardCache keeps the last computed leaderboard in Redis. A nil cache
// is valid and never hits.
type LeaderboardCache struct {
	Rdb *redis.Client
	TTL time.Duration
}

func (c *LeaderboardCache) enabled() bool {
	return c != nil && c.Rdb != nil && c.TTL > 0
}

func (c *LeaderboardCache) Get(ctx context.Context) ([]LeaderboardEntry, bool) {
	if !c.enabled() {
		return nil, false
	}
	b, err := c.Rdb.Get(ctx, leaderboardCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("leaderboard cache read failed")
		}
		return nil, false
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		log.Warn().Err(err).Msg("leaderboard cache entry is corrupt")
		return nil, false
	}
	return entries, true
}

func (c *LeaderboardCache) Set(ctx context.Context, entries []LeaderboardEntry) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.Rdb.Set(ctx, leaderboardCacheKey, b, c.TTL).Err(); err != nil {
		log.Warn().Err(err).Msg("leaderboard cache write failed")
	}
}

// Invalidate drops the cached leaderboard after offers change.
func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.Rdb.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("leaderboard cache invalidation failed")
	}
}
