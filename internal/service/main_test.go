package service

import (
	"lingo_backend/internal/model"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Unit{},
		&model.Lesson{},
		&model.Challenge{},
		&model.ChallengeOption{},
		&model.ChallengeProgress{},
		&model.UserProgress{},
		&model.UserSubscription{},
		&model.UserStreak{},
		&model.StreakActivity{},
		&model.StreakMilestone{},
	)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	return db
}

// fixedClock pins a service clock to a specific calendar day.
func fixedClock(day string) func() time.Time {
	return func() time.Time {
		t, _ := time.Parse("2006-01-02", day)
		return t.Add(12 * time.Hour)
	}
}
