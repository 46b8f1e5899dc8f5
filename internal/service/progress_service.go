package service

import (
	"errors"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"

	"gorm.io/gorm"
)

// Attempt signals: recoverable business-rule rejections returned as data so
// the client can branch, not as Go errors.
const (
	SignalHearts       = "hearts"
	SignalPractice     = "practice"
	SignalSubscription = "subscription"
)

type AttemptResult struct {
	Error  string `json:"error,omitempty"`
	Hearts int    `json:"hearts"`
	Points int    `json:"points"`
}

// PointsPublisher receives every points change, e.g. for the leaderboard.
type PointsPublisher interface {
	PublishPoints(userID uint, userName string, points int)
}

type ProgressService struct {
	ChallengeRepo *repository.ChallengeRepository
	AttemptRepo   *repository.ChallengeProgressRepository
	UserRepo      *repository.UserProgressRepository
	CourseRepo    *repository.CourseRepository
	Subscription  *SubscriptionService
	Publisher     PointsPublisher
	DB            *gorm.DB
}

func NewProgressService(
	challengeRepo *repository.ChallengeRepository,
	attemptRepo *repository.ChallengeProgressRepository,
	userRepo *repository.UserProgressRepository,
	courseRepo *repository.CourseRepository,
	subscription *SubscriptionService,
	publisher PointsPublisher,
	db *gorm.DB,
) *ProgressService {
	return &ProgressService{
		ChallengeRepo: challengeRepo,
		AttemptRepo:   attemptRepo,
		UserRepo:      userRepo,
		CourseRepo:    courseRepo,
		Subscription:  subscription,
		Publisher:     publisher,
		DB:            db,
	}
}

// UpsertUserProgress selects the user's active course, creating the per-user
// aggregate row on first selection.
func (s *ProgressService) UpsertUserProgress(userID, courseID uint, userName string) (*model.UserProgress, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	progress, err := s.UserRepo.FindByUser(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		progress = &model.UserProgress{
			UserID:         userID,
			ActiveCourseID: &courseID,
			Hearts:         model.MaxHearts,
		}
		if userName != "" {
			progress.UserName = userName
		}
		if err := s.UserRepo.Create(progress); err != nil {
			return nil, err
		}
		return progress, nil
	}

	progress.ActiveCourseID = &courseID
	if userName != "" {
		progress.UserName = userName
	}
	if err := s.UserRepo.Update(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *ProgressService) GetUserProgress(userID uint) (*model.UserProgress, error) {
	progress, err := s.UserRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgressNotFound
		}
		return nil, err
	}
	return progress, nil
}

// UpsertChallengeProgress records a correct answer. A repeat attempt counts
// as practice: it restores one heart (capped) on top of the point reward.
// A fresh attempt with an empty heart budget and no subscription is rejected
// with the hearts signal and no mutation.
func (s *ProgressService) UpsertChallengeProgress(userID, challengeID uint) (*AttemptResult, error) {
	if _, err := s.ChallengeRepo.FindByID(challengeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}

	progress, err := s.GetUserProgress(userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.AttemptRepo.FindByUserAndChallenge(userID, challengeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	isPractice := existing != nil

	if progress.Hearts == 0 && !isPractice && !s.Subscription.IsActive(userID) {
		return &AttemptResult{Error: SignalHearts, Hearts: 0, Points: progress.Points}, nil
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if isPractice {
			existing.Completed = true
			existing.Attempted = true
			if err := tx.Save(existing).Error; err != nil {
				return err
			}
			progress.Hearts = min(progress.Hearts+1, model.MaxHearts)
		} else {
			attempt := &model.ChallengeProgress{
				UserID:      userID,
				ChallengeID: challengeID,
				Completed:   true,
				Attempted:   true,
			}
			if err := tx.Create(attempt).Error; err != nil {
				return err
			}
		}
		progress.Points += model.PointsPerChallenge
		return tx.Save(progress).Error
	})
	if err != nil {
		return nil, err
	}

	s.publishPoints(progress)
	return &AttemptResult{Hearts: progress.Hearts, Points: progress.Points}, nil
}

// ReduceHearts records a wrong answer. The attempt row is written first so
// assessments and practice detection see it; practice and subscription
// attempts leave the heart budget untouched.
func (s *ProgressService) ReduceHearts(userID, challengeID uint) (*AttemptResult, error) {
	if _, err := s.ChallengeRepo.FindByID(challengeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}

	existing, err := s.AttemptRepo.FindByUserAndChallenge(userID, challengeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	isPractice := existing != nil

	progress, err := s.GetUserProgress(userID)
	if err != nil {
		return nil, err
	}

	var result AttemptResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if isPractice {
			existing.Attempted = true
			existing.Completed = false
			if err := tx.Save(existing).Error; err != nil {
				return err
			}
			result = AttemptResult{Error: SignalPractice, Hearts: progress.Hearts, Points: progress.Points}
			return nil
		}

		attempt := &model.ChallengeProgress{
			UserID:      userID,
			ChallengeID: challengeID,
			Attempted:   true,
			Completed:   false,
		}
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}

		if progress.Hearts == 0 {
			result = AttemptResult{Error: SignalHearts, Hearts: 0, Points: progress.Points}
			return nil
		}
		if s.Subscription.IsActive(userID) {
			result = AttemptResult{Error: SignalSubscription, Hearts: progress.Hearts, Points: progress.Points}
			return nil
		}

		progress.Hearts = max(progress.Hearts-1, 0)
		if err := tx.Save(progress).Error; err != nil {
			return err
		}
		result = AttemptResult{Hearts: progress.Hearts, Points: progress.Points}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RefillHearts trades points for a full heart budget.
func (s *ProgressService) RefillHearts(userID uint) (*model.UserProgress, error) {
	progress, err := s.GetUserProgress(userID)
	if err != nil {
		return nil, err
	}
	if progress.Hearts == model.MaxHearts {
		return nil, util.ErrHeartsAlreadyFull
	}
	if progress.Points < model.PointsToRefill {
		return nil, util.ErrNotEnoughPoints
	}

	progress.Hearts = model.MaxHearts
	progress.Points -= model.PointsToRefill
	if err := s.UserRepo.Update(progress); err != nil {
		return nil, err
	}

	s.publishPoints(progress)
	return progress, nil
}

// UpsertAssessmentProgress records an assessment answer for later analysis.
// Assessments bypass the heart economy entirely: no hearts, no points.
func (s *ProgressService) UpsertAssessmentProgress(userID, challengeID uint, correct bool) error {
	if _, err := s.ChallengeRepo.FindByID(challengeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrChallengeNotFound
		}
		return err
	}

	existing, err := s.AttemptRepo.FindByUserAndChallenge(userID, challengeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.AttemptRepo.Create(&model.ChallengeProgress{
			UserID:      userID,
			ChallengeID: challengeID,
			Attempted:   true,
			Completed:   correct,
		})
	}

	existing.Attempted = true
	existing.Completed = correct
	return s.AttemptRepo.Update(existing)
}

func (s *ProgressService) publishPoints(progress *model.UserProgress) {
	if s.Publisher != nil {
		s.Publisher.PublishPoints(progress.UserID, progress.UserName, progress.Points)
	}
}
