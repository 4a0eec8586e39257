package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edulane/edulane-api/internal/dto"
	"github.com/edulane/edulane-api/internal/models"
	"github.com/edulane/edulane-api/internal/repository"
)

// ErrUnknownScoreMetric indicates a ranking query used an unsupported metric.
var ErrUnknownScoreMetric = errors.New("unknown score metric")

// LeaderboardService provides read-only ranking views over the ledger.
//
// The two views deliberately use different tie semantics, matching the
// behaviour this system has always had: Top assigns positions by sort
// order (tied students get distinct positions), while MyStats computes
// competition ranks (1 + count of strictly greater entries, so tied
// students share a rank and the next rank skips).
type LeaderboardService interface {
	Top(ctx context.Context, metric string, limit int) ([]dto.LeaderboardEntry, error)
	MyStats(ctx context.Context, studentID uint) (dto.LeaderboardStats, error)
}

type leaderboardService struct {
	scores       repository.ScoreRepository
	ledger       LedgerService
	cache        *redis.Client
	cacheTTL     time.Duration
	weeklyWindow time.Duration
	defaultLimit int
	logger       zerolog.Logger
	now          func() time.Time
}

// NewLeaderboardService builds the ranking query service. The cache client
// may be nil to disable caching.
func NewLeaderboardService(
	scores repository.ScoreRepository,
	ledger LedgerService,
	cache *redis.Client,
	cacheTTL time.Duration,
	weeklyWindow time.Duration,
	defaultLimit int,
	logger zerolog.Logger,
) LeaderboardService {
	if weeklyWindow <= 0 {
		weeklyWindow = 7 * 24 * time.Hour
	}
	if defaultLimit <= 0 {
		defaultLimit = 100
	}

	return &leaderboardService{
		scores:       scores,
		ledger:       ledger,
		cache:        cache,
		cacheTTL:     cacheTTL,
		weeklyWindow: weeklyWindow,
		defaultLimit: defaultLimit,
		logger:       logger.With().Str("component", "leaderboard_service").Logger(),
		now:          time.Now,
	}
}

func (s *leaderboardService) Top(ctx context.Context, metric string, limit int) ([]dto.LeaderboardEntry, error) {
	if metric != models.ScoreMetricTotal && metric != models.ScoreMetricWeekly {
		return nil, ErrUnknownScoreMetric
	}
	if limit <= 0 || limit > s.defaultLimit {
		limit = s.defaultLimit
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%d", metric, limit)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var entries []dto.LeaderboardEntry
			if unmarshalErr := json.Unmarshal([]byte(cached), &entries); unmarshalErr == nil {
				s.logger.Debug().Str("metric", metric).Msg("leaderboard cache hit")
				return entries, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard cache")
		}
	}

	// Stale weekly points must never leak into a weekly ranking, so expired
	// windows are reset in bulk before reading.
	if metric == models.ScoreMetricWeekly {
		now := s.now()
		if _, err := s.scores.ResetStaleWeekly(ctx, now.Add(-s.weeklyWindow), now); err != nil {
			return nil, err
		}
	}

	top, err := s.scores.ListTop(ctx, metric, limit)
	if err != nil {
		return nil, err
	}

	entries := dto.NewLeaderboardEntries(top)

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store leaderboard cache")
			}
		}
	}

	return entries, nil
}

func (s *leaderboardService) MyStats(ctx context.Context, studentID uint) (dto.LeaderboardStats, error) {
	entry, err := s.ledger.GetOrCreate(ctx, studentID)
	if err != nil {
		return dto.LeaderboardStats{}, err
	}

	higherTotal, err := s.scores.CountGreater(ctx, models.ScoreMetricTotal, entry.TotalPoints)
	if err != nil {
		return dto.LeaderboardStats{}, err
	}

	higherWeekly, err := s.scores.CountGreater(ctx, models.ScoreMetricWeekly, entry.WeeklyPoints)
	if err != nil {
		return dto.LeaderboardStats{}, err
	}

	return dto.LeaderboardStats{
		Student:          dto.NewStudentLite(entry.Student),
		QuizPoints:       entry.QuizPoints,
		AssignmentPoints: entry.AssignmentPoints,
		TotalPoints:      entry.TotalPoints,
		WeeklyPoints:     entry.WeeklyPoints,
		LastWeeklyReset:  entry.LastWeeklyReset,
		OverallRank:      higherTotal + 1,
		WeeklyRank:       higherWeekly + 1,
	}, nil
}
