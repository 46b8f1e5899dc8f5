package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
)

type StreakRepository struct {
	DB *gorm.DB
}

func NewStreakRepository(db *gorm.DB) *StreakRepository {
	return &StreakRepository{DB: db}
}

func (r *StreakRepository) FindByUser(userID uint) (*model.UserStreak, error) {
	var streak model.UserStreak
	err := r.DB.Where("user_id = ?", userID).First(&streak).Error
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

func (r *StreakRepository) Create(streak *model.UserStreak) error {
	return r.DB.Create(streak).Error
}

func (r *StreakRepository) Update(streak *model.UserStreak) error {
	return r.DB.Save(streak).Error
}

func (r *StreakRepository) FindActivity(userID uint, date string) (*model.StreakActivity, error) {
	var activity model.StreakActivity
	err := r.DB.Where("user_id = ? AND date = ?", userID, date).First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *StreakRepository) CreateActivity(activity *model.StreakActivity) error {
	return r.DB.Create(activity).Error
}

func (r *StreakRepository) UpdateActivity(activity *model.StreakActivity) error {
	return r.DB.Save(activity).Error
}

// ListActivitiesSince returns activity rows on or after the given date,
// newest first.
func (r *StreakRepository) ListActivitiesSince(userID uint, date string) ([]model.StreakActivity, error) {
	var activities []model.StreakActivity
	err := r.DB.Where("user_id = ? AND date >= ?", userID, date).
		Order("date DESC").
		Find(&activities).Error
	return activities, err
}

func (r *StreakRepository) FindMilestone(userID uint, streakLength int) (*model.StreakMilestone, error) {
	var milestone model.StreakMilestone
	err := r.DB.Where("user_id = ? AND streak_length = ?", userID, streakLength).First(&milestone).Error
	if err != nil {
		return nil, err
	}
	return &milestone, nil
}

func (r *StreakRepository) CreateMilestone(milestone *model.StreakMilestone) error {
	return r.DB.Create(milestone).Error
}

func (r *StreakRepository) ListMilestones(userID uint) ([]model.StreakMilestone, error) {
	var milestones []model.StreakMilestone
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&milestones).Error
	return milestones, err
}
