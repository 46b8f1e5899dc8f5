package service

import (
	"errors"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

func newContentService(db *gorm.DB) *ContentService {
	return NewContentService(
		repository.NewCourseRepository(db),
		repository.NewUnitRepository(db),
		repository.NewLessonRepository(db),
		repository.NewChallengeRepository(db),
		db,
	)
}

func TestCreateUnitAppendsAfterLast(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)

	course, err := svc.CreateCourse("Spanish", "/es.svg")
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	first, err := svc.CreateUnit(course.ID, "Unit 1", "Basics", 0)
	if err != nil {
		t.Fatalf("first CreateUnit: %v", err)
	}
	if first.Order != 1 {
		t.Fatalf("first unit order = %d, want 1", first.Order)
	}

	second, err := svc.CreateUnit(course.ID, "Unit 2", "", 0)
	if err != nil {
		t.Fatalf("second CreateUnit: %v", err)
	}
	if second.Order != 2 {
		t.Fatalf("second unit order = %d, want 2", second.Order)
	}

	explicit, err := svc.CreateUnit(course.ID, "Unit 5", "", 5)
	if err != nil {
		t.Fatalf("explicit CreateUnit: %v", err)
	}
	if explicit.Order != 5 {
		t.Fatalf("explicit unit order = %d, want 5", explicit.Order)
	}

	if _, err := svc.CreateUnit(9999, "Orphan", "", 0); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCreateChallengeWithOptions(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)

	course, _ := svc.CreateCourse("Spanish", "/es.svg")
	unit, _ := svc.CreateUnit(course.ID, "Unit 1", "", 0)
	lesson, err := svc.CreateLesson(unit.ID, "Nouns", 1)
	if err != nil {
		t.Fatalf("CreateLesson: %v", err)
	}

	challenge, err := svc.CreateChallenge(lesson.ID, model.ChallengeSelect, "Which one of these is the man?", 1,
		[]ChallengeOptionInput{
			{Text: "el hombre", Correct: true, ImageSrc: "/man.svg"},
			{Text: "la mujer", ImageSrc: "/woman.svg"},
			{Text: "el robot", ImageSrc: "/robot.svg"},
		})
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}

	var options []model.ChallengeOption
	db.Where("challenge_id = ?", challenge.ID).Find(&options)
	if len(options) != 3 {
		t.Fatalf("option count = %d, want 3", len(options))
	}
	if !options[0].Correct || options[1].Correct {
		t.Fatalf("option correctness not preserved: %+v", options)
	}

	if _, err := svc.CreateChallenge(9999, model.ChallengeSelect, "q", 1, nil); !errors.Is(err, util.ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}

func TestCreateLessonRequiresUnit(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)

	if _, err := svc.CreateLesson(42, "Ghost", 1); !errors.Is(err, util.ErrUnitNotFound) {
		t.Fatalf("expected ErrUnitNotFound, got %v", err)
	}
}
