package service

import (
	"errors"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"

	"gorm.io/gorm"
)

// LessonSummary is a lesson row enriched with the caller's completion state.
type LessonSummary struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Order     int    `json:"order"`
	Completed bool   `json:"completed"`
}

// UnitView is a unit with its lessons summarized for the learn page.
type UnitView struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Order        int             `json:"order"`
	IsAssessment bool            `json:"isAssessment"`
	Generated    bool            `json:"generated"`
	Lessons      []LessonSummary `json:"lessons"`
}

// LearningProgress summarizes a user's standing in one course.
type LearningProgress struct {
	SkillLevel       string   `json:"skillLevel"`
	CompletedLessons int      `json:"completedLessons"`
	TotalLessons     int      `json:"totalLessons"`
	Strengths        []string `json:"strengths"`
	WeakAreas        []string `json:"weakAreas"`
	Streak           int      `json:"streak"`
}

type CourseService struct {
	CourseRepo    *repository.CourseRepository
	UnitRepo      *repository.UnitRepository
	ChallengeRepo *repository.ChallengeRepository
	AttemptRepo   *repository.ChallengeProgressRepository
	StreakRepo    *repository.StreakRepository
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	unitRepo *repository.UnitRepository,
	challengeRepo *repository.ChallengeRepository,
	attemptRepo *repository.ChallengeProgressRepository,
	streakRepo *repository.StreakRepository,
) *CourseService {
	return &CourseService{
		CourseRepo:    courseRepo,
		UnitRepo:      unitRepo,
		ChallengeRepo: challengeRepo,
		AttemptRepo:   attemptRepo,
		StreakRepo:    streakRepo,
	}
}

func (s *CourseService) ListCourses() ([]model.Course, error) {
	return s.CourseRepo.List()
}

func (s *CourseService) GetCourse(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// GetCourseContent returns the course's units and lessons with the caller's
// completion flags. A lesson counts as completed when every one of its
// challenges has a completed attempt; lessons with no challenges stay open.
func (s *CourseService) GetCourseContent(courseID, userID uint) ([]UnitView, error) {
	course, err := s.CourseRepo.FindByIDWithContent(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	completed, err := s.completedChallengeSet(userID, course.Units)
	if err != nil {
		return nil, err
	}

	views := make([]UnitView, 0, len(course.Units))
	for _, unit := range course.Units {
		view := UnitView{
			ID:           unit.ID,
			Title:        unit.Title,
			Description:  unit.Description,
			Order:        unit.Order,
			IsAssessment: unit.IsAssessment,
			Generated:    unit.Generated,
			Lessons:      make([]LessonSummary, 0, len(unit.Lessons)),
		}
		for _, lesson := range unit.Lessons {
			view.Lessons = append(view.Lessons, LessonSummary{
				ID:        lesson.ID,
				Title:     lesson.Title,
				Order:     lesson.Order,
				Completed: lessonCompleted(lesson, completed),
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// GetCourseProgress computes completion-rate skill level and per-topic
// performance over the user's attempts in one course.
func (s *CourseService) GetCourseProgress(courseID, userID uint) (*LearningProgress, error) {
	course, err := s.CourseRepo.FindByIDWithContent(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	completed, err := s.completedChallengeSet(userID, course.Units)
	if err != nil {
		return nil, err
	}

	type perf struct{ correct, total int }
	byTopic := make(map[string]*perf)
	totalLessons := 0
	completedLessons := 0

	for _, unit := range course.Units {
		for _, lesson := range unit.Lessons {
			totalLessons++
			if lessonCompleted(lesson, completed) {
				completedLessons++
			}
			for _, challenge := range lesson.Challenges {
				topic := ExtractTopic(challenge.Question)
				p := byTopic[topic]
				if p == nil {
					p = &perf{}
					byTopic[topic] = p
				}
				p.total++
				if completed[challenge.ID] {
					p.correct++
				}
			}
		}
	}

	completionRate := 0.0
	if totalLessons > 0 {
		completionRate = float64(completedLessons) / float64(totalLessons)
	}
	skillLevel := "advanced"
	if completionRate < 0.3 {
		skillLevel = "beginner"
	} else if completionRate < 0.7 {
		skillLevel = "intermediate"
	}

	strengths := []string{}
	weakAreas := []string{}
	for _, topic := range append(append([]string{}, topicOrder...), "general") {
		p, ok := byTopic[topic]
		if !ok || p.total == 0 {
			continue
		}
		ratio := float64(p.correct) / float64(p.total)
		if ratio >= 0.7 && len(strengths) < 5 {
			strengths = append(strengths, topic)
		} else if ratio < 0.5 && len(weakAreas) < 5 {
			weakAreas = append(weakAreas, topic)
		}
	}

	streak := 0
	if userStreak, err := s.StreakRepo.FindByUser(userID); err == nil {
		streak = userStreak.CurrentStreak
	}

	return &LearningProgress{
		SkillLevel:       skillLevel,
		CompletedLessons: completedLessons,
		TotalLessons:     totalLessons,
		Strengths:        strengths,
		WeakAreas:        weakAreas,
		Streak:           streak,
	}, nil
}

func (s *CourseService) completedChallengeSet(userID uint, units []model.Unit) (map[uint]bool, error) {
	var challengeIDs []uint
	for _, unit := range units {
		for _, lesson := range unit.Lessons {
			for _, challenge := range lesson.Challenges {
				challengeIDs = append(challengeIDs, challenge.ID)
			}
		}
	}

	completed := make(map[uint]bool, len(challengeIDs))
	if len(challengeIDs) == 0 {
		return completed, nil
	}

	attempts, err := s.AttemptRepo.ListByUserAndChallenges(userID, challengeIDs)
	if err != nil {
		return nil, err
	}
	for _, a := range attempts {
		if a.Completed {
			completed[a.ChallengeID] = true
		}
	}
	return completed, nil
}

func lessonCompleted(lesson model.Lesson, completed map[uint]bool) bool {
	if len(lesson.Challenges) == 0 {
		return false
	}
	for _, challenge := range lesson.Challenges {
		if !completed[challenge.ID] {
			return false
		}
	}
	return true
}
