package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

// FindByIDWithChallenges loads a lesson with ordered challenges and their
// options.
func (r *LessonRepository) FindByIDWithChallenges(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.
		Preload("Challenges", func(db *gorm.DB) *gorm.DB {
			return db.Order("challenges.item_order ASC")
		}).
		Preload("Challenges.Options").
		First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) FirstByUnit(unitID uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Where("unit_id = ?", unitID).Order("item_order ASC").First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}
