package service

import (
	"errors"
	"fmt"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"
	"lingo_backend/pkg/monitoring"
	"math"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LLMClient is the slice of AIService the generator needs; tests swap in a
// canned implementation.
type LLMClient interface {
	Chat(prompt string, context string) (string, error)
	ChatJSON(prompt string, out interface{}) error
}

// Generated* mirror the JSON shapes the model is asked to return.
type GeneratedOption struct {
	Text     string `json:"text"`
	Correct  bool   `json:"correct"`
	ImageSrc string `json:"imageSrc"`
	AudioSrc string `json:"audioSrc"`
}

type GeneratedChallenge struct {
	Type     string            `json:"type"`
	Question string            `json:"question"`
	Options  []GeneratedOption `json:"options"`
}

type GeneratedLesson struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Challenges  []GeneratedChallenge `json:"challenges"`
}

type GeneratedUnit struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Lessons     []GeneratedLesson `json:"lessons"`
}

// AssessmentResult summarizes a scored assessment for one user and course.
type AssessmentResult struct {
	UserID            uint     `json:"userId"`
	CourseID          uint     `json:"courseId"`
	TotalChallenges   int      `json:"totalChallenges"`
	CorrectAnswers    int      `json:"correctAnswers"`
	SkillLevel        string   `json:"skillLevel"`
	WeakAreas         []string `json:"weakAreas"`
	Strengths         []string `json:"strengths"`
	RecommendedTopics []string `json:"recommendedTopics"`
	TotalAttempted    int      `json:"totalAttempted"`
	TotalQuestions    int      `json:"totalQuestions"`
	FullyCompleted    bool     `json:"fullyCompleted"`
}

// AssessmentStatus is the creation response payload.
type AssessmentStatus struct {
	LessonID      uint `json:"lessonId"`
	AlreadyExists bool `json:"alreadyExists"`
}

// AssessmentCheck reports whether the course has an assessment and how far
// the caller got through it.
type AssessmentCheck struct {
	Exists    bool                `json:"exists"`
	Completed bool                `json:"completed"`
	LessonID  uint                `json:"lessonId,omitempty"`
	Progress  *AssessmentProgress `json:"progress,omitempty"`
}

type AssessmentProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Correct   int `json:"correct"`
	Accuracy  int `json:"accuracy"`
}

type GeneratorService struct {
	CourseRepo    *repository.CourseRepository
	UnitRepo      *repository.UnitRepository
	LessonRepo    *repository.LessonRepository
	ChallengeRepo *repository.ChallengeRepository
	AttemptRepo   *repository.ChallengeProgressRepository
	LLM           LLMClient
	DB            *gorm.DB
	Logger        *zap.Logger
}

func NewGeneratorService(
	courseRepo *repository.CourseRepository,
	unitRepo *repository.UnitRepository,
	lessonRepo *repository.LessonRepository,
	challengeRepo *repository.ChallengeRepository,
	attemptRepo *repository.ChallengeProgressRepository,
	llm LLMClient,
	db *gorm.DB,
	logger *zap.Logger,
) *GeneratorService {
	return &GeneratorService{
		CourseRepo:    courseRepo,
		UnitRepo:      unitRepo,
		LessonRepo:    lessonRepo,
		ChallengeRepo: challengeRepo,
		AttemptRepo:   attemptRepo,
		LLM:           llm,
		DB:            db,
		Logger:        logger,
	}
}

// topicKeywords maps question vocabulary to coarse topic buckets. This is a
// plain substring lookup, not a classifier.
var topicKeywords = map[string][]string{
	"colors":    {"color", "colour", "red", "blue", "green", "yellow", "black", "white"},
	"numbers":   {"one", "two", "three", "four", "five", "number", "count", "zero"},
	"family":    {"father", "mother", "brother", "sister", "family", "parent", "child"},
	"greetings": {"hello", "goodbye", "good morning", "good evening", "hi", "bye"},
	"verbs":     {"is", "am", "are", "have", "do", "go", "come", "eat", "drink"},
	"objects":   {"table", "chair", "book", "car", "house", "door", "window"},
}

// keyword buckets are scanned in a fixed order so ties resolve the same way
// every time.
var topicOrder = []string{"colors", "numbers", "family", "greetings", "verbs", "objects"}

// ExtractTopic buckets a question by keyword, falling back to "general".
func ExtractTopic(question string) string {
	lower := strings.ToLower(question)
	for _, topic := range topicOrder {
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(lower, kw) {
				return topic
			}
		}
	}
	return "general"
}

var topicsByLevel = map[string][]string{
	"beginner": {
		"Basic Greetings", "Numbers 1-20", "Colors", "Family Members",
		"Common Objects", "Days of the Week", "Present Tense Verbs",
	},
	"intermediate": {
		"Past Tense", "Future Tense", "Adjectives", "Prepositions",
		"Food and Drinks", "Clothing", "Weather", "Directions",
	},
	"advanced": {
		"Subjunctive Mood", "Conditional Tense", "Complex Grammar",
		"Idiomatic Expressions", "Professional Vocabulary", "Literature",
	},
}

// RecommendTopics puts weak areas first, then fills from the level catalogue,
// capped at 8 entries.
func RecommendTopics(skillLevel string, weakAreas []string) []string {
	levelTopics, ok := topicsByLevel[skillLevel]
	if !ok {
		levelTopics = topicsByLevel["beginner"]
	}

	seen := make(map[string]bool, len(weakAreas))
	prioritized := make([]string, 0, len(weakAreas)+len(levelTopics))
	for _, t := range weakAreas {
		prioritized = append(prioritized, t)
		seen[t] = true
	}
	for _, t := range levelTopics {
		if !seen[t] {
			prioritized = append(prioritized, t)
		}
	}

	if len(prioritized) > 8 {
		prioritized = prioritized[:8]
	}
	return prioritized
}

// CreateAssessment builds the course's diagnostic unit, generating its single
// lesson from the LLM. Idempotent per course: a second call returns the
// existing assessment lesson.
func (s *GeneratorService) CreateAssessment(courseID uint) (*AssessmentStatus, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if unit, err := s.UnitRepo.FindAssessmentUnit(courseID); err == nil {
		if lesson, err := s.LessonRepo.FirstByUnit(unit.ID); err == nil {
			return &AssessmentStatus{LessonID: lesson.ID, AlreadyExists: true}, nil
		}
	}

	generated, err := s.generateAssessmentLesson(course.Title)
	if err != nil {
		monitoring.GenerationCounter.WithLabelValues("assessment", "error").Inc()
		s.Logger.Error("assessment generation failed", zap.Uint("courseID", courseID), zap.Error(err))
		return nil, util.ErrGenerationFailed
	}

	var lessonID uint
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		unit := &model.Unit{
			CourseID:     courseID,
			Title:        fmt.Sprintf("Assessment - %s", course.Title),
			Description:  fmt.Sprintf("Initial assessment to determine your %s skill level", course.Title),
			Order:        0,
			IsAssessment: true,
			Generated:    true,
		}
		if err := tx.Create(unit).Error; err != nil {
			return err
		}

		lesson := &model.Lesson{
			UnitID: unit.ID,
			Title:  generated.Title,
			Order:  1,
		}
		if err := tx.Create(lesson).Error; err != nil {
			return err
		}
		lessonID = lesson.ID

		return insertChallenges(tx, lesson.ID, generated.Challenges)
	})
	if err != nil {
		return nil, err
	}

	monitoring.GenerationCounter.WithLabelValues("assessment", "success").Inc()
	return &AssessmentStatus{LessonID: lessonID, AlreadyExists: false}, nil
}

// CheckAssessment reports whether the course already has an assessment lesson
// and how many of its challenges the user has attempted and answered.
func (s *GeneratorService) CheckAssessment(userID, courseID uint) (*AssessmentCheck, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	unit, err := s.UnitRepo.FindAssessmentUnit(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &AssessmentCheck{}, nil
		}
		return nil, err
	}

	lesson, err := s.LessonRepo.FirstByUnit(unit.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &AssessmentCheck{}, nil
		}
		return nil, err
	}

	challenges, err := s.ChallengeRepo.ListByLesson(lesson.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(challenges))
	for i, c := range challenges {
		ids[i] = c.ID
	}

	attempts, err := s.AttemptRepo.ListByUserAndChallenges(userID, ids)
	if err != nil {
		return nil, err
	}

	attempted, correct := 0, 0
	for _, a := range attempts {
		if a.Attempted {
			attempted++
		}
		if a.Completed {
			correct++
		}
	}

	accuracy := 0
	if attempted > 0 {
		accuracy = int(math.Round(float64(correct) / float64(attempted) * 100))
	}

	return &AssessmentCheck{
		Exists:    true,
		Completed: len(challenges) > 0 && attempted == len(challenges),
		LessonID:  lesson.ID,
		Progress: &AssessmentProgress{
			Completed: attempted,
			Total:     len(challenges),
			Correct:   correct,
			Accuracy:  accuracy,
		},
	}, nil
}

// AnalyzeAssessment scores a user's attempted answers in the given lesson and
// classifies skill level and per-topic strengths. Only attempted challenges
// count toward accuracy.
func (s *GeneratorService) AnalyzeAssessment(userID, lessonID, courseID uint) (*AssessmentResult, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	unit, err := s.UnitRepo.FindByID(lesson.UnitID)
	if err != nil || unit.CourseID != courseID {
		return nil, util.ErrLessonNotFound
	}

	challenges, err := s.ChallengeRepo.ListByLesson(lessonID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(challenges))
	topics := make(map[uint]string, len(challenges))
	for i, c := range challenges {
		ids[i] = c.ID
		topics[c.ID] = ExtractTopic(c.Question)
	}

	attempts, err := s.AttemptRepo.ListByUserAndChallenges(userID, ids)
	if err != nil {
		return nil, err
	}

	if len(attempts) == 0 {
		return nil, util.ErrProgressNotFound
	}

	type perf struct{ correct, total int }
	byTopic := make(map[string]*perf)
	correct := 0
	for _, a := range attempts {
		topic := topics[a.ChallengeID]
		p := byTopic[topic]
		if p == nil {
			p = &perf{}
			byTopic[topic] = p
		}
		p.total++
		if a.Completed {
			p.correct++
			correct++
		}
	}

	accuracy := float64(correct) / float64(len(attempts))
	skillLevel := "advanced"
	if accuracy < 0.3 {
		skillLevel = "beginner"
	} else if accuracy < 0.7 {
		skillLevel = "intermediate"
	}

	// 0.7 is the single strength cutoff; weak topics sit below half.
	weak := []string{}
	strong := []string{}
	for _, topic := range append(append([]string{}, topicOrder...), "general") {
		p, ok := byTopic[topic]
		if !ok {
			continue
		}
		ratio := float64(p.correct) / float64(p.total)
		if ratio < 0.5 {
			weak = append(weak, topic)
		} else if ratio >= 0.7 {
			strong = append(strong, topic)
		}
	}

	return &AssessmentResult{
		UserID:            userID,
		CourseID:          courseID,
		TotalChallenges:   len(attempts),
		CorrectAnswers:    correct,
		SkillLevel:        skillLevel,
		WeakAreas:         weak,
		Strengths:         strong,
		RecommendedTopics: RecommendTopics(skillLevel, weak),
		TotalAttempted:    len(attempts),
		TotalQuestions:    len(challenges),
		FullyCompleted:    len(attempts) == len(challenges),
	}, nil
}

// GeneratePersonalizedUnits replaces the course's previously generated
// curriculum with a fresh one tailored to the assessment result. The delete
// is scoped to generated, non-assessment units of this course and runs in the
// same transaction as the insert.
func (s *GeneratorService) GeneratePersonalizedUnits(courseID uint, result *AssessmentResult, numberOfUnits int) (int, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrCourseNotFound
		}
		return 0, err
	}

	if numberOfUnits <= 0 {
		numberOfUnits = 3
	}

	generated, err := s.generateUnits(course.Title, result, numberOfUnits)
	if err != nil {
		monitoring.GenerationCounter.WithLabelValues("curriculum", "error").Inc()
		s.Logger.Error("curriculum generation failed", zap.Uint("courseID", courseID), zap.Error(err))
		return 0, util.ErrGenerationFailed
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteGeneratedUnits(tx, courseID); err != nil {
			return err
		}

		var nextOrder *int
		if err := tx.Model(&model.Unit{}).
			Where("course_id = ?", courseID).
			Select("MAX(item_order)").
			Scan(&nextOrder).Error; err != nil {
			return err
		}
		order := 1
		if nextOrder != nil {
			order = *nextOrder + 1
		}

		return insertUnits(tx, courseID, order, generated)
	})
	if err != nil {
		return 0, err
	}

	monitoring.GenerationCounter.WithLabelValues("curriculum", "success").Inc()
	return len(generated), nil
}

// GenerateAdminLessons adds units to a course without deleting anything.
// Difficulty and topics stand in for a real assessment result.
func (s *GeneratorService) GenerateAdminLessons(courseID uint, lessonCount int, difficulty string, topics []string) (int, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrCourseNotFound
		}
		return 0, err
	}

	if lessonCount <= 0 {
		lessonCount = 3
	}
	if difficulty == "" {
		difficulty = "beginner"
	}

	weak := topics
	if len(weak) > 3 {
		weak = weak[:3]
	}
	if len(weak) == 0 {
		weak = []string{"vocabulary", "grammar"}
	}
	recommended := topics
	if len(recommended) == 0 {
		recommended = []string{"basic-conversation", "numbers", "colors"}
	}

	result := &AssessmentResult{
		CourseID:          courseID,
		SkillLevel:        difficulty,
		WeakAreas:         weak,
		Strengths:         []string{},
		RecommendedTopics: recommended,
	}

	generated, err := s.generateUnits(course.Title, result, lessonCount)
	if err != nil {
		monitoring.GenerationCounter.WithLabelValues("admin", "error").Inc()
		s.Logger.Error("admin lesson generation failed", zap.Uint("courseID", courseID), zap.Error(err))
		return 0, util.ErrGenerationFailed
	}

	lessonsCreated := 0
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var nextOrder *int
		if err := tx.Model(&model.Unit{}).
			Where("course_id = ?", courseID).
			Select("MAX(item_order)").
			Scan(&nextOrder).Error; err != nil {
			return err
		}
		order := 1
		if nextOrder != nil {
			order = *nextOrder + 1
		}

		if err := insertUnits(tx, courseID, order, generated); err != nil {
			return err
		}
		for _, u := range generated {
			lessonsCreated += len(u.Lessons)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	monitoring.GenerationCounter.WithLabelValues("admin", "success").Inc()
	return lessonsCreated, nil
}

func (s *GeneratorService) generateAssessmentLesson(language string) (*GeneratedLesson, error) {
	prompt := fmt.Sprintf(`Create an assessment lesson for %s language learning with exactly 5 challenges.
The lesson should test basic vocabulary, grammar, and comprehension to determine the user's skill level.

Include a mix of:
- Basic vocabulary (colors, numbers, family members, common objects)
- Simple grammar structures
- Common phrases and greetings
- Basic verb conjugations

Return a JSON object with this structure:
{
  "title": "Assessment: %s Basics",
  "description": "Let's see what you already know about %s",
  "challenges": [
    {
      "type": "SELECT" | "ASSIST",
      "question": "Question text",
      "options": [
        {
          "text": "Option text",
          "correct": true/false,
          "imageSrc": "/path/to/image.svg",
          "audioSrc": "/path/to/audio.mp3"
        }
      ]
    }
  ]
}

Make sure to have exactly 5 challenges with varied difficulty levels.
For SELECT type challenges, provide 3-4 options.
For ASSIST type challenges, provide 3 options.`, language, language, language)

	var lesson GeneratedLesson
	if err := s.LLM.ChatJSON(prompt, &lesson); err != nil {
		return nil, err
	}
	if len(lesson.Challenges) == 0 {
		return nil, fmt.Errorf("model returned no challenges")
	}
	return &lesson, nil
}

func (s *GeneratorService) generateUnits(language string, result *AssessmentResult, numberOfUnits int) ([]GeneratedUnit, error) {
	join := func(items []string) string {
		if len(items) == 0 {
			return "None"
		}
		return strings.Join(items, ", ")
	}

	prompt := fmt.Sprintf(`Based on the user's assessment results, generate %d learning units for %s.

User Assessment:
- Skill Level: %s
- Weak Areas: %s
- Strengths: %s
- Recommended Topics: %s

Create units that:
1. Address the user's weak areas first
2. Build upon their strengths
3. Follow a logical progression
4. Include varied challenge types

Each unit should have 3-5 lessons, and each lesson should have 5-8 challenges. Always include an options array.
For SELECT type challenges, provide 3-4 options.
For ASSIST type challenges, provide 3 options.

Return a JSON array with this structure:
[
  {
    "title": "Unit title",
    "description": "Unit description",
    "lessons": [
      {
        "title": "Lesson title",
        "description": "Lesson description",
        "challenges": [
          {
            "type": "SELECT" | "ASSIST",
            "question": "Question text",
            "options": [
              {
                "text": "Option text",
                "correct": true/false,
                "imageSrc": "/path/to/image.svg",
                "audioSrc": "/path/to/audio.mp3"
              }
            ]
          }
        ]
      }
    ]
  }
]`, numberOfUnits, language, result.SkillLevel, join(result.WeakAreas), join(result.Strengths), join(result.RecommendedTopics))

	var units []GeneratedUnit
	if err := s.LLM.ChatJSON(prompt, &units); err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("model returned no units")
	}
	return units, nil
}

// deleteGeneratedUnits removes the course's generated, non-assessment units
// together with their lessons, challenges, options, and attempt records.
func deleteGeneratedUnits(tx *gorm.DB, courseID uint) error {
	var unitIDs []uint
	if err := tx.Model(&model.Unit{}).
		Where("course_id = ? AND generated = ? AND is_assessment = ?", courseID, true, false).
		Pluck("id", &unitIDs).Error; err != nil {
		return err
	}
	if len(unitIDs) == 0 {
		return nil
	}

	var lessonIDs []uint
	if err := tx.Model(&model.Lesson{}).
		Where("unit_id IN ?", unitIDs).
		Pluck("id", &lessonIDs).Error; err != nil {
		return err
	}

	if len(lessonIDs) > 0 {
		var challengeIDs []uint
		if err := tx.Model(&model.Challenge{}).
			Where("lesson_id IN ?", lessonIDs).
			Pluck("id", &challengeIDs).Error; err != nil {
			return err
		}

		if len(challengeIDs) > 0 {
			if err := tx.Where("challenge_id IN ?", challengeIDs).Delete(&model.ChallengeOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("challenge_id IN ?", challengeIDs).Delete(&model.ChallengeProgress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", challengeIDs).Delete(&model.Challenge{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("id IN ?", lessonIDs).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
	}

	return tx.Where("id IN ?", unitIDs).Delete(&model.Unit{}).Error
}

func insertUnits(tx *gorm.DB, courseID uint, startOrder int, units []GeneratedUnit) error {
	order := startOrder
	for _, unitData := range units {
		unit := &model.Unit{
			CourseID:    courseID,
			Title:       unitData.Title,
			Description: unitData.Description,
			Order:       order,
			Generated:   true,
		}
		if err := tx.Create(unit).Error; err != nil {
			return err
		}
		order++

		for i, lessonData := range unitData.Lessons {
			lesson := &model.Lesson{
				UnitID: unit.ID,
				Title:  lessonData.Title,
				Order:  i + 1,
			}
			if err := tx.Create(lesson).Error; err != nil {
				return err
			}

			if err := insertChallenges(tx, lesson.ID, lessonData.Challenges); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertChallenges(tx *gorm.DB, lessonID uint, challenges []GeneratedChallenge) error {
	for i, challengeData := range challenges {
		challengeType := model.ChallengeType(challengeData.Type)
		if challengeType != model.ChallengeSelect && challengeType != model.ChallengeAssist {
			challengeType = model.ChallengeSelect
		}

		challenge := &model.Challenge{
			LessonID: lessonID,
			Type:     challengeType,
			Question: challengeData.Question,
			Order:    i + 1,
		}
		if err := tx.Create(challenge).Error; err != nil {
			return err
		}

		for _, optionData := range challengeData.Options {
			option := &model.ChallengeOption{
				ChallengeID: challenge.ID,
				Text:        optionData.Text,
				Correct:     optionData.Correct,
				ImageSrc:    optionData.ImageSrc,
				AudioSrc:    optionData.AudioSrc,
			}
			if err := tx.Create(option).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
