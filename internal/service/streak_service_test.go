package service

import (
	"errors"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"
	"testing"
)

func newStreakService(t *testing.T, day string) *StreakService {
	t.Helper()
	svc := NewStreakService(repository.NewStreakRepository(newTestDB(t)))
	svc.Now = fixedClock(day)
	return svc
}

func TestUpdateStreakFirstActivity(t *testing.T) {
	svc := newStreakService(t, "2026-03-10")

	result, err := svc.UpdateStreak(1, 1, 5, 10, 50)
	if err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}
	if !result.StreakUpdated || result.NewStreak != 1 || result.StreakBroken {
		t.Fatalf("expected fresh streak of 1, got %+v", result)
	}

	streak, err := svc.GetUserStreak(1)
	if err != nil {
		t.Fatalf("GetUserStreak: %v", err)
	}
	if streak.StreakStartDate != "2026-03-10" || streak.LastCompletedDate != "2026-03-10" {
		t.Fatalf("unexpected dates: start=%q last=%q", streak.StreakStartDate, streak.LastCompletedDate)
	}
	if streak.TotalDaysLearned != 1 {
		t.Fatalf("TotalDaysLearned = %d, want 1", streak.TotalDaysLearned)
	}
}

func TestUpdateStreakConsecutiveDayIncrements(t *testing.T) {
	svc := newStreakService(t, "2026-03-10")

	if _, err := svc.UpdateStreak(1, 1, 0, 0, 0); err != nil {
		t.Fatalf("day one: %v", err)
	}

	svc.Now = fixedClock("2026-03-11")
	result, err := svc.UpdateStreak(1, 1, 0, 0, 0)
	if err != nil {
		t.Fatalf("day two: %v", err)
	}
	if result.NewStreak != 2 || result.StreakBroken {
		t.Fatalf("expected streak 2 unbroken, got %+v", result)
	}

	streak, _ := svc.GetUserStreak(1)
	if streak.StreakStartDate != "2026-03-10" {
		t.Fatalf("streak start moved to %q, want 2026-03-10", streak.StreakStartDate)
	}
}

func TestUpdateStreakGapResets(t *testing.T) {
	svc := newStreakService(t, "2026-03-10")

	if _, err := svc.UpdateStreak(1, 1, 0, 0, 0); err != nil {
		t.Fatalf("day one: %v", err)
	}

	svc.Now = fixedClock("2026-03-13")
	result, err := svc.UpdateStreak(1, 1, 0, 0, 0)
	if err != nil {
		t.Fatalf("after gap: %v", err)
	}
	if result.NewStreak != 1 || !result.StreakBroken {
		t.Fatalf("expected broken streak reset to 1, got %+v", result)
	}

	streak, _ := svc.GetUserStreak(1)
	if streak.StreakStartDate != "2026-03-13" {
		t.Fatalf("streak start = %q, want 2026-03-13", streak.StreakStartDate)
	}
}

func TestUpdateStreakSameDayAccumulatesOnly(t *testing.T) {
	svc := newStreakService(t, "2026-03-10")

	if _, err := svc.UpdateStreak(1, 1, 2, 10, 20); err != nil {
		t.Fatalf("first update: %v", err)
	}

	result, err := svc.UpdateStreak(1, 1, 3, 5, 30)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if result.StreakUpdated {
		t.Fatalf("same-day repeat must not transition the streak")
	}
	if result.NewStreak != 1 {
		t.Fatalf("NewStreak = %d, want 1", result.NewStreak)
	}

	streak, _ := svc.GetUserStreak(1)
	if streak.TotalDaysLearned != 1 {
		t.Fatalf("TotalDaysLearned = %d, want 1", streak.TotalDaysLearned)
	}

	activity, err := svc.Repo.FindActivity(1, "2026-03-10")
	if err != nil {
		t.Fatalf("FindActivity: %v", err)
	}
	if activity.ChallengesCompleted != 5 || activity.XPEarned != 50 {
		t.Fatalf("counters not accumulated: %+v", activity)
	}
}

func TestMilestoneAwardedOnceAndCreditsFreezes(t *testing.T) {
	svc := newStreakService(t, "2026-03-01")

	days := []string{
		"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04",
		"2026-03-05", "2026-03-06", "2026-03-07",
	}
	var last *StreakUpdateResult
	for _, day := range days {
		svc.Now = fixedClock(day)
		result, err := svc.UpdateStreak(1, 1, 0, 0, 0)
		if err != nil {
			t.Fatalf("day %s: %v", day, err)
		}
		last = result
	}

	if last.Milestone == nil || last.Milestone.StreakLength != 7 {
		t.Fatalf("expected 7-day milestone, got %+v", last.Milestone)
	}
	if last.Milestone.RewardType != model.RewardFreeze {
		t.Fatalf("7-day reward = %v, want STREAK_FREEZE", last.Milestone.RewardType)
	}

	streak, _ := svc.GetUserStreak(1)
	if streak.StreakFreezeCount != 1 {
		t.Fatalf("StreakFreezeCount = %d, want 1", streak.StreakFreezeCount)
	}

	// A repeat update the same day must not award the milestone again.
	if _, err := svc.UpdateStreak(1, 1, 0, 0, 0); err != nil {
		t.Fatalf("repeat update: %v", err)
	}
	milestones, err := svc.Repo.ListMilestones(1)
	if err != nil {
		t.Fatalf("ListMilestones: %v", err)
	}
	count := 0
	for _, m := range milestones {
		if m.StreakLength == 7 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("7-day milestone recorded %d times, want 1", count)
	}
}

func TestThreeDayMilestoneAwardsXP(t *testing.T) {
	svc := newStreakService(t, "2026-03-01")

	var last *StreakUpdateResult
	for _, day := range []string{"2026-03-01", "2026-03-02", "2026-03-03"} {
		svc.Now = fixedClock(day)
		result, err := svc.UpdateStreak(1, 1, 0, 0, 0)
		if err != nil {
			t.Fatalf("day %s: %v", day, err)
		}
		last = result
	}

	if last.Milestone == nil || last.Milestone.StreakLength != 3 {
		t.Fatalf("expected 3-day milestone, got %+v", last.Milestone)
	}
	if last.Milestone.RewardType != model.RewardXP || last.Milestone.RewardValue != 50 {
		t.Fatalf("3-day reward = %v/%d, want XP/50", last.Milestone.RewardType, last.Milestone.RewardValue)
	}
}

func TestUseStreakFreeze(t *testing.T) {
	svc := newStreakService(t, "2026-03-10")

	if err := svc.UseStreakFreeze(1); !errors.Is(err, util.ErrNoFreezesAvailable) {
		t.Fatalf("expected ErrNoFreezesAvailable, got %v", err)
	}

	streak, _ := svc.GetUserStreak(1)
	streak.StreakFreezeCount = 2
	streak.CurrentStreak = 5
	streak.LastCompletedDate = "2026-03-09"
	if err := svc.Repo.Update(streak); err != nil {
		t.Fatalf("seeding streak: %v", err)
	}

	if err := svc.UseStreakFreeze(1); err != nil {
		t.Fatalf("UseStreakFreeze: %v", err)
	}

	streak, _ = svc.GetUserStreak(1)
	if streak.StreakFreezeCount != 1 || !streak.StreakFreezeUsed {
		t.Fatalf("freeze not consumed: %+v", streak)
	}
	if streak.LastCompletedDate != "2026-03-10" {
		t.Fatalf("LastCompletedDate = %q, want today", streak.LastCompletedDate)
	}

	activity, err := svc.Repo.FindActivity(1, "2026-03-10")
	if err != nil {
		t.Fatalf("synthetic activity missing: %v", err)
	}
	if activity.LessonsCompleted != 0 || activity.XPEarned != 0 {
		t.Fatalf("synthetic activity must be zero: %+v", activity)
	}

	// The frozen day satisfies the continuation rule next day.
	svc.Now = fixedClock("2026-03-11")
	result, err := svc.UpdateStreak(1, 1, 0, 0, 0)
	if err != nil {
		t.Fatalf("day after freeze: %v", err)
	}
	if result.StreakBroken || result.NewStreak != 6 {
		t.Fatalf("freeze did not preserve streak: %+v", result)
	}
}

func TestGetStreakStats(t *testing.T) {
	svc := newStreakService(t, "2026-03-10")

	if _, err := svc.UpdateStreak(1, 2, 8, 15, 80); err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}

	stats, err := svc.GetStreakStats(1)
	if err != nil {
		t.Fatalf("GetStreakStats: %v", err)
	}
	if stats.CurrentStreak != 1 || !stats.IsOnStreak {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(stats.RecentActivity) != 1 {
		t.Fatalf("RecentActivity has %d rows, want 1", len(stats.RecentActivity))
	}
}
