// Seeds a demo unit with lessons and challenges into the Spanish course.
//
// Course rows themselves are seeded by the regular migration; this script
// fills one course with enough content to click through the quiz flow
// without calling the AI generator.
//
// Usage: go run scripts/seed_demo.go
package main

import (
	"lingo_backend/internal/config"
	"lingo_backend/internal/model"
	"lingo_backend/pkg/database"
	"lingo_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("cannot read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("cannot parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	var course model.Course
	if err := db.Where("title = ?", "Spanish").First(&course).Error; err != nil {
		log.Fatalf("Spanish course not found, run migrations first: %v", err)
	}

	var count int64
	db.Model(&model.Unit{}).Where("course_id = ?", course.ID).Count(&count)
	if count > 0 {
		log.Println("Course already has units, nothing to do")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		unit := &model.Unit{
			CourseID:    course.ID,
			Title:       "Unit 1",
			Description: "Learn the basics of Spanish",
			Order:       1,
		}
		if err := tx.Create(unit).Error; err != nil {
			return err
		}

		lessons := []struct {
			title      string
			challenges []demoChallenge
		}{
			{"Nouns", []demoChallenge{
				{model.ChallengeSelect, `Which one of these is "the man"?`, []demoOption{
					{"el hombre", true}, {"la mujer", false}, {"el robot", false},
				}},
				{model.ChallengeAssist, `"the man"`, []demoOption{
					{"el hombre", true}, {"la mujer", false}, {"el robot", false},
				}},
			}},
			{"Verbs", []demoChallenge{
				{model.ChallengeSelect, `Which one of these is "to eat"?`, []demoOption{
					{"comer", true}, {"beber", false}, {"correr", false},
				}},
			}},
		}

		for i, l := range lessons {
			lesson := &model.Lesson{UnitID: unit.ID, Title: l.title, Order: i + 1}
			if err := tx.Create(lesson).Error; err != nil {
				return err
			}
			for j, c := range l.challenges {
				challenge := &model.Challenge{
					LessonID: lesson.ID,
					Type:     c.kind,
					Question: c.question,
					Order:    j + 1,
				}
				if err := tx.Create(challenge).Error; err != nil {
					return err
				}
				for _, o := range c.options {
					option := &model.ChallengeOption{
						ChallengeID: challenge.ID,
						Text:        o.text,
						Correct:     o.correct,
					}
					if err := tx.Create(option).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	log.Println("Demo content seeded")
}

type demoOption struct {
	text    string
	correct bool
}

type demoChallenge struct {
	kind     model.ChallengeType
	question string
	options  []demoOption
}
