package service

import (
	"context"
	"lingo_backend/internal/repository"
	"strconv"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const leaderboardKey = "leaderboard:points"

// LeaderboardEntry is one ranked row, 1-based rank.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   uint   `json:"userId"`
	UserName string `json:"userName"`
	Points   int    `json:"points"`
}

// LeaderboardService keeps a points-ordered ranking in a Redis sorted set,
// falling back to the database when Redis is unavailable.
type LeaderboardService struct {
	Redis        *redis.Client
	ProgressRepo *repository.UserProgressRepository
	UserRepo     *repository.UserRepository
	Logger       *zap.Logger
}

func NewLeaderboardService(
	rdb *redis.Client,
	progressRepo *repository.UserProgressRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		Redis:        rdb,
		ProgressRepo: progressRepo,
		UserRepo:     userRepo,
		Logger:       logger,
	}
}

// PublishPoints records a user's new points total in the sorted set. Failures
// are logged and swallowed: the ranking is a cache, the database holds truth.
func (s *LeaderboardService) PublishPoints(userID uint, userName string, points int) {
	if s.Redis == nil {
		return
	}

	ctx := context.Background()
	member := strconv.FormatUint(uint64(userID), 10)
	if err := s.Redis.ZAdd(ctx, leaderboardKey, &redis.Z{
		Score:  float64(points),
		Member: member,
	}).Err(); err != nil {
		s.Logger.Warn("leaderboard update failed", zap.Uint("userID", userID), zap.Error(err))
	}
}

// Top returns the highest-scoring users. Redis serves the ranking when
// reachable; a failed read or an empty sorted set (lost cache after a Redis
// restart) falls back to the points column.
func (s *LeaderboardService) Top(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	if s.Redis != nil {
		entries, err := s.topFromRedis(limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			s.Logger.Warn("leaderboard read from redis failed, falling back to database", zap.Error(err))
		}
	}

	return s.topFromDB(limit)
}

func (s *LeaderboardService) topFromRedis(limit int) ([]LeaderboardEntry, error) {
	ctx := context.Background()
	results, err := s.Redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}

		name := ""
		if user, err := s.UserRepo.FindByID(uint(id)); err == nil {
			name = user.Name
		}

		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			UserID:   uint(id),
			UserName: name,
			Points:   int(z.Score),
		})
	}
	return entries, nil
}

func (s *LeaderboardService) topFromDB(limit int) ([]LeaderboardEntry, error) {
	rows, err := s.ProgressRepo.TopByPoints(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		name := ""
		if user, err := s.UserRepo.FindByID(row.UserID); err == nil {
			name = user.Name
		}
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			UserID:   row.UserID,
			UserName: name,
			Points:   row.Points,
		})
	}
	return entries, nil
}
