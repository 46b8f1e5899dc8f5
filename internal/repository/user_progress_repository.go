package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
)

type UserProgressRepository struct {
	DB *gorm.DB
}

func NewUserProgressRepository(db *gorm.DB) *UserProgressRepository {
	return &UserProgressRepository{DB: db}
}

func (r *UserProgressRepository) FindByUser(userID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ?", userID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *UserProgressRepository) Create(progress *model.UserProgress) error {
	return r.DB.Create(progress).Error
}

func (r *UserProgressRepository) Update(progress *model.UserProgress) error {
	return r.DB.Save(progress).Error
}

// TopByPoints is the database fallback for the leaderboard when Redis has no
// entries yet.
func (r *UserProgressRepository) TopByPoints(limit int) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := r.DB.Order("points DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
