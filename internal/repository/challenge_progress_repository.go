package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeProgressRepository struct {
	DB *gorm.DB
}

func NewChallengeProgressRepository(db *gorm.DB) *ChallengeProgressRepository {
	return &ChallengeProgressRepository{DB: db}
}

func (r *ChallengeProgressRepository) FindByUserAndChallenge(userID, challengeID uint) (*model.ChallengeProgress, error) {
	var progress model.ChallengeProgress
	err := r.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ChallengeProgressRepository) ListByUserAndChallenges(userID uint, challengeIDs []uint) ([]model.ChallengeProgress, error) {
	var progress []model.ChallengeProgress
	err := r.DB.Where("user_id = ? AND challenge_id IN ?", userID, challengeIDs).Find(&progress).Error
	return progress, err
}

func (r *ChallengeProgressRepository) Create(progress *model.ChallengeProgress) error {
	return r.DB.Create(progress).Error
}

func (r *ChallengeProgressRepository) Update(progress *model.ChallengeProgress) error {
	return r.DB.Save(progress).Error
}
