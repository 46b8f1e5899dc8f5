package database

import (
	"fmt"
	"lingo_backend/internal/config"
	"lingo_backend/internal/model"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate runs AutoMigrate for the whole schema and seeds the course
// catalogue when it is empty.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
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
		return err
	}

	log.Println("Database migration completed")

	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count == 0 {
		defaultCourses := []model.Course{
			{Title: "Spanish", ImageSrc: "/es.svg"},
			{Title: "French", ImageSrc: "/fr.svg"},
			{Title: "Italian", ImageSrc: "/it.svg"},
			{Title: "Croatian", ImageSrc: "/hr.svg"},
			{Title: "Japanese", ImageSrc: "/jp.svg"},
		}
		for i := range defaultCourses {
			db.Create(&defaultCourses[i])
		}
		log.Println("Seeded default courses")
	}

	return nil
}
