package service

import (
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return NewLeaderboardService(
		rdb,
		repository.NewUserProgressRepository(db),
		repository.NewUserRepository(db),
		zap.NewNop(),
	)
}

func seedStandings(t *testing.T, db *gorm.DB, standings map[string]int) map[string]uint {
	t.Helper()
	ids := make(map[string]uint, len(standings))
	for name, points := range standings {
		user := &model.User{Name: name, Email: name + "@example.com", Password: "x"}
		if err := db.Create(user).Error; err != nil {
			t.Fatalf("seeding user: %v", err)
		}
		progress := &model.UserProgress{UserID: user.ID, UserName: name, Hearts: model.MaxHearts, Points: points}
		if err := db.Create(progress).Error; err != nil {
			t.Fatalf("seeding progress: %v", err)
		}
		ids[name] = user.ID
	}
	return ids
}

func TestTopServesRedisRanking(t *testing.T) {
	db := newTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc := newLeaderboardService(db, rdb)
	ids := seedStandings(t, db, map[string]int{"Ana": 30, "Ben": 90})

	svc.PublishPoints(ids["Ana"], "Ana", 30)
	svc.PublishPoints(ids["Ben"], "Ben", 90)

	entries, err := svc.Top(10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(entries))
	}
	if entries[0].UserName != "Ben" || entries[0].Points != 90 || entries[0].Rank != 1 {
		t.Fatalf("unexpected leader: %+v", entries[0])
	}
	if entries[1].UserName != "Ana" || entries[1].Rank != 2 {
		t.Fatalf("unexpected runner-up: %+v", entries[1])
	}
}

func TestTopFallsBackWhenRedisEmpty(t *testing.T) {
	db := newTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc := newLeaderboardService(db, rdb)
	seedStandings(t, db, map[string]int{"Ana": 30, "Ben": 90})

	// Redis is reachable but holds no ranking, as after a cache restart.
	// The database still has the real standings.
	entries, err := svc.Top(10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entry count = %d, want 2: fallback did not reach the database", len(entries))
	}
	if entries[0].UserName != "Ben" || entries[1].UserName != "Ana" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}

func TestTopWithoutRedisScansDatabase(t *testing.T) {
	db := newTestDB(t)

	svc := newLeaderboardService(db, nil)
	seedStandings(t, db, map[string]int{"Ana": 30, "Ben": 90, "Cai": 60})

	entries, err := svc.Top(2)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entry count = %d, want limit 2", len(entries))
	}
	if entries[0].UserName != "Ben" || entries[1].UserName != "Cai" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}
