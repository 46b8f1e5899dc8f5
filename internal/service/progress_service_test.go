package service

import (
	"errors"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"
	"testing"
	"time"

	"gorm.io/gorm"
)

type progressFixture struct {
	db           *gorm.DB
	svc          *ProgressService
	subscription *SubscriptionService
	courseID     uint
	challengeIDs []uint
}

func newProgressFixture(t *testing.T, challengeCount int) *progressFixture {
	t.Helper()
	db := newTestDB(t)

	course := &model.Course{Title: "Spanish", ImageSrc: "/es.svg"}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("seeding course: %v", err)
	}
	unit := &model.Unit{CourseID: course.ID, Title: "Unit 1", Order: 1}
	if err := db.Create(unit).Error; err != nil {
		t.Fatalf("seeding unit: %v", err)
	}
	lesson := &model.Lesson{UnitID: unit.ID, Title: "Nouns", Order: 1}
	if err := db.Create(lesson).Error; err != nil {
		t.Fatalf("seeding lesson: %v", err)
	}

	ids := make([]uint, 0, challengeCount)
	for i := 0; i < challengeCount; i++ {
		challenge := &model.Challenge{
			LessonID: lesson.ID,
			Type:     model.ChallengeSelect,
			Question: "Which one of these is the man?",
			Order:    i + 1,
		}
		if err := db.Create(challenge).Error; err != nil {
			t.Fatalf("seeding challenge: %v", err)
		}
		ids = append(ids, challenge.ID)
	}

	subscription := NewSubscriptionService(repository.NewSubscriptionRepository(db))
	svc := NewProgressService(
		repository.NewChallengeRepository(db),
		repository.NewChallengeProgressRepository(db),
		repository.NewUserProgressRepository(db),
		repository.NewCourseRepository(db),
		subscription,
		nil,
		db,
	)

	return &progressFixture{
		db:           db,
		svc:          svc,
		subscription: subscription,
		courseID:     course.ID,
		challengeIDs: ids,
	}
}

func (f *progressFixture) seedProgress(t *testing.T, userID uint, hearts, points int) {
	t.Helper()
	progress := &model.UserProgress{
		UserID:         userID,
		ActiveCourseID: &f.courseID,
		Hearts:         hearts,
		Points:         points,
	}
	if err := f.db.Create(progress).Error; err != nil {
		t.Fatalf("seeding user progress: %v", err)
	}
}

func (f *progressFixture) hearts(t *testing.T, userID uint) (int, int) {
	t.Helper()
	progress, err := f.svc.GetUserProgress(userID)
	if err != nil {
		t.Fatalf("GetUserProgress: %v", err)
	}
	return progress.Hearts, progress.Points
}

func TestUpsertUserProgressCreatesAndUpdates(t *testing.T) {
	f := newProgressFixture(t, 1)

	progress, err := f.svc.UpsertUserProgress(1, f.courseID, "Ana")
	if err != nil {
		t.Fatalf("UpsertUserProgress: %v", err)
	}
	if progress.Hearts != model.MaxHearts || *progress.ActiveCourseID != f.courseID {
		t.Fatalf("unexpected fresh progress: %+v", progress)
	}
	if progress.UserName != "Ana" {
		t.Fatalf("UserName = %q, want Ana", progress.UserName)
	}

	other := &model.Course{Title: "French", ImageSrc: "/fr.svg"}
	if err := f.db.Create(other).Error; err != nil {
		t.Fatalf("seeding second course: %v", err)
	}
	progress, err = f.svc.UpsertUserProgress(1, other.ID, "")
	if err != nil {
		t.Fatalf("second UpsertUserProgress: %v", err)
	}
	if *progress.ActiveCourseID != other.ID {
		t.Fatalf("active course not switched: %+v", progress)
	}

	if _, err := f.svc.UpsertUserProgress(1, 9999, ""); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCorrectAnswerAwardsPoints(t *testing.T) {
	f := newProgressFixture(t, 1)
	f.seedProgress(t, 1, 3, 0)

	result, err := f.svc.UpsertChallengeProgress(1, f.challengeIDs[0])
	if err != nil {
		t.Fatalf("UpsertChallengeProgress: %v", err)
	}
	if result.Error != "" {
		t.Fatalf("unexpected signal %q", result.Error)
	}
	if result.Hearts != 3 || result.Points != model.PointsPerChallenge {
		t.Fatalf("hearts/points = %d/%d, want 3/%d", result.Hearts, result.Points, model.PointsPerChallenge)
	}
}

func TestPracticeAttemptRestoresHeart(t *testing.T) {
	f := newProgressFixture(t, 1)
	f.seedProgress(t, 1, 3, 0)

	if _, err := f.svc.UpsertChallengeProgress(1, f.challengeIDs[0]); err != nil {
		t.Fatalf("first attempt: %v", err)
	}

	result, err := f.svc.UpsertChallengeProgress(1, f.challengeIDs[0])
	if err != nil {
		t.Fatalf("practice attempt: %v", err)
	}
	if result.Hearts != 4 || result.Points != 2*model.PointsPerChallenge {
		t.Fatalf("hearts/points = %d/%d, want 4/%d", result.Hearts, result.Points, 2*model.PointsPerChallenge)
	}

	// Only one attempt row exists for the pair.
	var count int64
	f.db.Model(&model.ChallengeProgress{}).
		Where("user_id = ? AND challenge_id = ?", 1, f.challengeIDs[0]).
		Count(&count)
	if count != 1 {
		t.Fatalf("attempt rows = %d, want 1", count)
	}
}

func TestPracticeHeartCappedAtMax(t *testing.T) {
	f := newProgressFixture(t, 1)
	f.seedProgress(t, 1, model.MaxHearts, 0)

	if _, err := f.svc.UpsertChallengeProgress(1, f.challengeIDs[0]); err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	result, err := f.svc.UpsertChallengeProgress(1, f.challengeIDs[0])
	if err != nil {
		t.Fatalf("practice attempt: %v", err)
	}
	if result.Hearts != model.MaxHearts {
		t.Fatalf("hearts = %d, want capped at %d", result.Hearts, model.MaxHearts)
	}
}

func TestExhaustedHeartsRejectFreshAttempt(t *testing.T) {
	f := newProgressFixture(t, 2)
	f.seedProgress(t, 1, 0, 30)

	result, err := f.svc.UpsertChallengeProgress(1, f.challengeIDs[0])
	if err != nil {
		t.Fatalf("UpsertChallengeProgress: %v", err)
	}
	if result.Error != SignalHearts {
		t.Fatalf("signal = %q, want %q", result.Error, SignalHearts)
	}

	hearts, points := f.hearts(t, 1)
	if hearts != 0 || points != 30 {
		t.Fatalf("state mutated: hearts=%d points=%d", hearts, points)
	}

	var count int64
	f.db.Model(&model.ChallengeProgress{}).Where("user_id = ?", 1).Count(&count)
	if count != 0 {
		t.Fatalf("attempt row written despite rejection")
	}
}

func TestWrongAnswerDecrementsHearts(t *testing.T) {
	f := newProgressFixture(t, 1)
	f.seedProgress(t, 1, 3, 0)

	result, err := f.svc.ReduceHearts(1, f.challengeIDs[0])
	if err != nil {
		t.Fatalf("ReduceHearts: %v", err)
	}
	if result.Error != "" || result.Hearts != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestWrongAnswerOnPracticeKeepsHearts(t *testing.T) {
	f := newProgressFixture(t, 1)
	f.seedProgress(t, 1, 3, 0)

	if _, err := f.svc.UpsertChallengeProgress(1, f.challengeIDs[0]); err != nil {
		t.Fatalf("first attempt: %v", err)
	}

	result, err := f.svc.ReduceHearts(1, f.challengeIDs[0])
	if err != nil {
		t.Fatalf("ReduceHearts: %v", err)
	}
	if result.Error != SignalPractice || result.Hearts != 3 {
		t.Fatalf("expected practice signal with hearts intact, got %+v", result)
	}
}

func TestSubscriptionGrantsInfiniteHearts(t *testing.T) {
	f := newProgressFixture(t, 1)
	f.seedProgress(t, 1, 3, 0)

	sub := &model.UserSubscription{
		UserID:                 1,
		ProviderCustomerID:     "cus_1",
		ProviderSubscriptionID: "sub_1",
		ProviderPriceID:        "price_1",
		CurrentPeriodEnd:       time.Now().Add(30 * 24 * time.Hour),
	}
	if err := f.db.Create(sub).Error; err != nil {
		t.Fatalf("seeding subscription: %v", err)
	}

	result, err := f.svc.ReduceHearts(1, f.challengeIDs[0])
	if err != nil {
		t.Fatalf("ReduceHearts: %v", err)
	}
	if result.Error != SignalSubscription || result.Hearts != 3 {
		t.Fatalf("expected subscription signal with hearts intact, got %+v", result)
	}
}

func TestRefillHearts(t *testing.T) {
	f := newProgressFixture(t, 1)
	f.seedProgress(t, 1, 2, 60)

	progress, err := f.svc.RefillHearts(1)
	if err != nil {
		t.Fatalf("RefillHearts: %v", err)
	}
	if progress.Hearts != model.MaxHearts || progress.Points != 60-model.PointsToRefill {
		t.Fatalf("hearts/points = %d/%d after refill", progress.Hearts, progress.Points)
	}

	if _, err := f.svc.RefillHearts(1); !errors.Is(err, util.ErrHeartsAlreadyFull) {
		t.Fatalf("expected ErrHeartsAlreadyFull, got %v", err)
	}
}

func TestRefillHeartsRequiresPoints(t *testing.T) {
	f := newProgressFixture(t, 1)
	f.seedProgress(t, 1, 2, model.PointsToRefill-1)

	if _, err := f.svc.RefillHearts(1); !errors.Is(err, util.ErrNotEnoughPoints) {
		t.Fatalf("expected ErrNotEnoughPoints, got %v", err)
	}
}

func TestAssessmentAttemptBypassesEconomy(t *testing.T) {
	f := newProgressFixture(t, 1)
	f.seedProgress(t, 1, 3, 20)

	if err := f.svc.UpsertAssessmentProgress(1, f.challengeIDs[0], false); err != nil {
		t.Fatalf("UpsertAssessmentProgress: %v", err)
	}

	hearts, points := f.hearts(t, 1)
	if hearts != 3 || points != 20 {
		t.Fatalf("assessment touched the economy: hearts=%d points=%d", hearts, points)
	}

	attempt, err := f.svc.AttemptRepo.FindByUserAndChallenge(1, f.challengeIDs[0])
	if err != nil {
		t.Fatalf("attempt row missing: %v", err)
	}
	if !attempt.Attempted || attempt.Completed {
		t.Fatalf("unexpected attempt flags: %+v", attempt)
	}

	// Correcting the answer flips the completed flag in place.
	if err := f.svc.UpsertAssessmentProgress(1, f.challengeIDs[0], true); err != nil {
		t.Fatalf("second assessment attempt: %v", err)
	}
	attempt, _ = f.svc.AttemptRepo.FindByUserAndChallenge(1, f.challengeIDs[0])
	if !attempt.Completed {
		t.Fatalf("completed flag not updated")
	}
}

func TestHeartsRunToExhaustion(t *testing.T) {
	f := newProgressFixture(t, 8)
	f.seedProgress(t, 1, 3, 0)

	// Correct answer: hearts untouched, points awarded.
	result, err := f.svc.UpsertChallengeProgress(1, f.challengeIDs[0])
	if err != nil {
		t.Fatalf("correct answer: %v", err)
	}
	if result.Hearts != 3 || result.Points != 10 {
		t.Fatalf("after correct: %+v", result)
	}

	// Wrong answers on fresh challenges drain hearts to zero.
	wantHearts := []int{2, 1, 0}
	for i, want := range wantHearts {
		result, err = f.svc.ReduceHearts(1, f.challengeIDs[i+1])
		if err != nil {
			t.Fatalf("wrong answer %d: %v", i+1, err)
		}
		if result.Error != "" || result.Hearts != want {
			t.Fatalf("wrong answer %d: got %+v, want hearts %d", i+1, result, want)
		}
	}

	// Further wrong answers signal exhaustion and never go negative.
	result, err = f.svc.ReduceHearts(1, f.challengeIDs[4])
	if err != nil {
		t.Fatalf("exhausted wrong answer: %v", err)
	}
	if result.Error != SignalHearts || result.Hearts != 0 {
		t.Fatalf("expected hearts signal at zero, got %+v", result)
	}

	hearts, _ := f.hearts(t, 1)
	if hearts != 0 {
		t.Fatalf("stored hearts = %d, want 0", hearts)
	}
}
