package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.First(&challenge, id).Error
	return &challenge, err
}

func (r *ChallengeRepository) ListByLesson(lessonID uint) ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Where("lesson_id = ?", lessonID).
		Order("item_order ASC").
		Preload("Options").
		Find(&challenges).Error
	return challenges, err
}

func (r *ChallengeRepository) CreateOption(option *model.ChallengeOption) error {
	return r.DB.Create(option).Error
}
