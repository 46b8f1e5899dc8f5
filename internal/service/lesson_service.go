package service

import (
	"errors"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"

	"gorm.io/gorm"
)

// ChallengeView is a challenge with options and the caller's completion flag.
type ChallengeView struct {
	ID        uint                    `json:"id"`
	Type      model.ChallengeType     `json:"type"`
	Question  string                  `json:"question"`
	Order     int                     `json:"order"`
	Completed bool                    `json:"completed"`
	Options   []model.ChallengeOption `json:"options"`
}

// LessonView is the quiz payload for one lesson.
type LessonView struct {
	ID                uint            `json:"id"`
	UnitID            uint            `json:"unitId"`
	Title             string          `json:"title"`
	Order             int             `json:"order"`
	IsAssessment      bool            `json:"isAssessment"`
	InitialPercentage float64         `json:"initialPercentage"`
	Challenges        []ChallengeView `json:"challenges"`
}

type LessonService struct {
	LessonRepo  *repository.LessonRepository
	UnitRepo    *repository.UnitRepository
	AttemptRepo *repository.ChallengeProgressRepository
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	unitRepo *repository.UnitRepository,
	attemptRepo *repository.ChallengeProgressRepository,
) *LessonService {
	return &LessonService{
		LessonRepo:  lessonRepo,
		UnitRepo:    unitRepo,
		AttemptRepo: attemptRepo,
	}
}

// GetLesson loads a lesson with ordered challenges, the caller's completion
// flags, and the percentage already done. Assessment lessons are flagged so
// the quiz can bypass the heart economy.
func (s *LessonService) GetLesson(lessonID, userID uint) (*LessonView, error) {
	lesson, err := s.LessonRepo.FindByIDWithChallenges(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	unit, err := s.UnitRepo.FindByID(lesson.UnitID)
	if err != nil {
		return nil, err
	}

	challengeIDs := make([]uint, len(lesson.Challenges))
	for i, c := range lesson.Challenges {
		challengeIDs[i] = c.ID
	}

	completed := make(map[uint]bool, len(challengeIDs))
	if len(challengeIDs) > 0 {
		attempts, err := s.AttemptRepo.ListByUserAndChallenges(userID, challengeIDs)
		if err != nil {
			return nil, err
		}
		for _, a := range attempts {
			if a.Completed {
				completed[a.ChallengeID] = true
			}
		}
	}

	view := &LessonView{
		ID:           lesson.ID,
		UnitID:       lesson.UnitID,
		Title:        lesson.Title,
		Order:        lesson.Order,
		IsAssessment: unit.IsAssessment,
		Challenges:   make([]ChallengeView, 0, len(lesson.Challenges)),
	}

	doneCount := 0
	for _, challenge := range lesson.Challenges {
		done := completed[challenge.ID]
		if done {
			doneCount++
		}
		view.Challenges = append(view.Challenges, ChallengeView{
			ID:        challenge.ID,
			Type:      challenge.Type,
			Question:  challenge.Question,
			Order:     challenge.Order,
			Completed: done,
			Options:   challenge.Options,
		})
	}

	if len(lesson.Challenges) > 0 {
		view.InitialPercentage = float64(doneCount) / float64(len(lesson.Challenges)) * 100
	}

	return view, nil
}
