package service

import (
	"errors"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"

	"gorm.io/gorm"
)

// ContentService covers hand-authored course content. Generated content goes
// through GeneratorService instead.
type ContentService struct {
	CourseRepo    *repository.CourseRepository
	UnitRepo      *repository.UnitRepository
	LessonRepo    *repository.LessonRepository
	ChallengeRepo *repository.ChallengeRepository
	DB            *gorm.DB
}

func NewContentService(
	courseRepo *repository.CourseRepository,
	unitRepo *repository.UnitRepository,
	lessonRepo *repository.LessonRepository,
	challengeRepo *repository.ChallengeRepository,
	db *gorm.DB,
) *ContentService {
	return &ContentService{
		CourseRepo:    courseRepo,
		UnitRepo:      unitRepo,
		LessonRepo:    lessonRepo,
		ChallengeRepo: challengeRepo,
		DB:            db,
	}
}

func (s *ContentService) CreateCourse(title, imageSrc string) (*model.Course, error) {
	course := &model.Course{Title: title, ImageSrc: imageSrc}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

// CreateUnit appends a unit to the course. Order 0 means "after the current
// last unit".
func (s *ContentService) CreateUnit(courseID uint, title, description string, order int) (*model.Unit, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if order <= 0 {
		maxOrder, err := s.UnitRepo.MaxOrder(courseID)
		if err != nil {
			return nil, err
		}
		order = maxOrder + 1
	}

	unit := &model.Unit{
		CourseID:    courseID,
		Title:       title,
		Description: description,
		Order:       order,
	}
	if err := s.UnitRepo.Create(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *ContentService) CreateLesson(unitID uint, title string, order int) (*model.Lesson, error) {
	if _, err := s.UnitRepo.FindByID(unitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUnitNotFound
		}
		return nil, err
	}

	lesson := &model.Lesson{
		UnitID: unitID,
		Title:  title,
		Order:  order,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// ChallengeOptionInput is one answer option for a hand-authored challenge.
type ChallengeOptionInput struct {
	Text     string `json:"text" binding:"required"`
	Correct  bool   `json:"correct"`
	ImageSrc string `json:"imageSrc"`
	AudioSrc string `json:"audioSrc"`
}

// CreateChallenge writes the challenge and its options in one transaction.
func (s *ContentService) CreateChallenge(
	lessonID uint,
	challengeType model.ChallengeType,
	question string,
	order int,
	options []ChallengeOptionInput,
) (*model.Challenge, error) {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	challenge := &model.Challenge{
		LessonID: lessonID,
		Type:     challengeType,
		Question: question,
		Order:    order,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(challenge).Error; err != nil {
			return err
		}
		for _, opt := range options {
			option := &model.ChallengeOption{
				ChallengeID: challenge.ID,
				Text:        opt.Text,
				Correct:     opt.Correct,
				ImageSrc:    opt.ImageSrc,
				AudioSrc:    opt.AudioSrc,
			}
			if err := tx.Create(option).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return challenge, nil
}
