package service

import (
	"errors"
	"lingo_backend/internal/model"
	"lingo_backend/internal/repository"
	"lingo_backend/internal/util"
	"math"
	"time"

	"gorm.io/gorm"
)

// milestoneThresholds maps streak lengths to one-time rewards. Each is
// awarded at most once per user.
var milestoneThresholds = []struct {
	Days        int
	RewardType  model.RewardType
	RewardValue int
}{
	{3, model.RewardXP, 50},
	{7, model.RewardFreeze, 1},
	{14, model.RewardXP, 200},
	{30, model.RewardBadge, 1},
	{50, model.RewardFreeze, 2},
	{100, model.RewardXP, 1000},
	{365, model.RewardBadge, 2},
}

type StreakUpdateResult struct {
	StreakUpdated bool                   `json:"streakUpdated"`
	NewStreak     int                    `json:"newStreak"`
	StreakBroken  bool                   `json:"streakBroken"`
	Milestone     *model.StreakMilestone `json:"milestone,omitempty"`
}

type StreakStats struct {
	CurrentStreak     int                     `json:"currentStreak"`
	LongestStreak     int                     `json:"longestStreak"`
	TotalDaysLearned  int                     `json:"totalDaysLearned"`
	StreakFreezeCount int                     `json:"streakFreezeCount"`
	RecentActivity    []model.StreakActivity  `json:"recentActivity"`
	Milestones        []model.StreakMilestone `json:"milestones"`
	IsOnStreak        bool                    `json:"isOnStreak"`
}

// StreakService keeps the per-user daily streak state machine. Dates are
// calendar-day strings, day granularity, no timezone normalization.
type StreakService struct {
	Repo *repository.StreakRepository

	// Now is replaceable in tests.
	Now func() time.Time
}

func NewStreakService(repo *repository.StreakRepository) *StreakService {
	return &StreakService{Repo: repo, Now: time.Now}
}

// GetUserStreak returns the user's streak record, creating it lazily.
func (s *StreakService) GetUserStreak(userID uint) (*model.UserStreak, error) {
	streak, err := s.Repo.FindByUser(userID)
	if err == nil {
		return streak, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	streak = &model.UserStreak{UserID: userID}
	if err := s.Repo.Create(streak); err != nil {
		return nil, err
	}
	return streak, nil
}

// UpdateStreak logs a learning activity for today and advances the streak.
// A repeat call on the same day only accumulates the activity counters; the
// streak itself transitions at most once per calendar day.
func (s *StreakService) UpdateStreak(userID uint, lessonsCompleted, challengesCompleted, timeSpentMinutes, xpEarned int) (*StreakUpdateResult, error) {
	today := s.Now()
	todayStr := today.Format(util.DateFormat)

	streak, err := s.GetUserStreak(userID)
	if err != nil {
		return nil, err
	}

	result := &StreakUpdateResult{NewStreak: streak.CurrentStreak}

	activity, err := s.Repo.FindActivity(userID, todayStr)
	switch {
	case err == nil:
		activity.LessonsCompleted += lessonsCompleted
		activity.ChallengesCompleted += challengesCompleted
		activity.TimeSpentMinutes += timeSpentMinutes
		activity.XPEarned += xpEarned
		if err := s.Repo.UpdateActivity(activity); err != nil {
			return nil, err
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		activity = &model.StreakActivity{
			UserID:              userID,
			Date:                todayStr,
			LessonsCompleted:    lessonsCompleted,
			ChallengesCompleted: challengesCompleted,
			TimeSpentMinutes:    timeSpentMinutes,
			XPEarned:            xpEarned,
		}
		if err := s.Repo.CreateActivity(activity); err != nil {
			return nil, err
		}

		updated, broken, newStreak, startDate := s.calculateStreakUpdate(streak, today)
		result.StreakUpdated = updated
		result.StreakBroken = broken
		result.NewStreak = newStreak

		streak.CurrentStreak = newStreak
		streak.LongestStreak = max(streak.LongestStreak, newStreak)
		streak.LastCompletedDate = todayStr
		streak.StreakStartDate = startDate
		streak.TotalDaysLearned++
		if err := s.Repo.Update(streak); err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	milestone, err := s.checkStreakMilestones(streak, result.NewStreak)
	if err != nil {
		return nil, err
	}
	result.Milestone = milestone

	return result, nil
}

// calculateStreakUpdate applies the day-over-day transition rule:
// no history starts at 1, a one-day gap increments, a longer gap resets to 1
// with broken=true. Same-day repeats never reach here.
func (s *StreakService) calculateStreakUpdate(streak *model.UserStreak, today time.Time) (updated, broken bool, newStreak int, startDate string) {
	todayStr := today.Format(util.DateFormat)

	if streak.LastCompletedDate == "" {
		return true, false, 1, todayStr
	}

	days := daysBetween(streak.LastCompletedDate, todayStr)
	switch {
	case days == 1:
		start := streak.StreakStartDate
		if start == "" {
			start = todayStr
		}
		return true, false, streak.CurrentStreak + 1, start

	case days > 1:
		return true, true, 1, todayStr

	default:
		start := streak.StreakStartDate
		if start == "" {
			start = todayStr
		}
		return false, false, streak.CurrentStreak, start
	}
}

// checkStreakMilestones awards the highest crossed threshold not yet
// recorded for the user. Freeze rewards credit the freeze balance.
func (s *StreakService) checkStreakMilestones(streak *model.UserStreak, streakLength int) (*model.StreakMilestone, error) {
	var achieved *struct {
		Days        int
		RewardType  model.RewardType
		RewardValue int
	}
	for i := range milestoneThresholds {
		if streakLength >= milestoneThresholds[i].Days {
			achieved = &milestoneThresholds[i]
		}
	}
	if achieved == nil {
		return nil, nil
	}

	_, err := s.Repo.FindMilestone(streak.UserID, achieved.Days)
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	milestone := &model.StreakMilestone{
		UserID:       streak.UserID,
		StreakLength: achieved.Days,
		RewardType:   achieved.RewardType,
		RewardValue:  achieved.RewardValue,
	}
	if err := s.Repo.CreateMilestone(milestone); err != nil {
		return nil, err
	}

	if achieved.RewardType == model.RewardFreeze {
		streak.StreakFreezeCount += achieved.RewardValue
		if err := s.Repo.Update(streak); err != nil {
			return nil, err
		}
	}

	return milestone, nil
}

// UseStreakFreeze burns one freeze credit to log a synthetic zero activity
// for today, preserving the streak across a missed day.
func (s *StreakService) UseStreakFreeze(userID uint) error {
	streak, err := s.GetUserStreak(userID)
	if err != nil {
		return err
	}
	if streak.StreakFreezeCount <= 0 {
		return util.ErrNoFreezesAvailable
	}

	todayStr := s.Now().Format(util.DateFormat)

	_, err = s.Repo.FindActivity(userID, todayStr)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.Repo.CreateActivity(&model.StreakActivity{
			UserID: userID,
			Date:   todayStr,
		}); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	streak.StreakFreezeCount--
	streak.StreakFreezeUsed = true
	streak.LastCompletedDate = todayStr
	return s.Repo.Update(streak)
}

func (s *StreakService) GetStreakStats(userID uint) (*StreakStats, error) {
	streak, err := s.GetUserStreak(userID)
	if err != nil {
		return nil, err
	}

	since := s.Now().AddDate(0, 0, -30).Format(util.DateFormat)
	recent, err := s.Repo.ListActivitiesSince(userID, since)
	if err != nil {
		return nil, err
	}

	milestones, err := s.Repo.ListMilestones(userID)
	if err != nil {
		return nil, err
	}

	return &StreakStats{
		CurrentStreak:     streak.CurrentStreak,
		LongestStreak:     streak.LongestStreak,
		TotalDaysLearned:  streak.TotalDaysLearned,
		StreakFreezeCount: streak.StreakFreezeCount,
		RecentActivity:    recent,
		Milestones:        milestones,
		IsOnStreak:        s.isStreakActive(streak),
	}, nil
}

// isStreakActive reports whether the user completed activity today or
// yesterday.
func (s *StreakService) isStreakActive(streak *model.UserStreak) bool {
	if streak.LastCompletedDate == "" {
		return false
	}
	return daysBetween(streak.LastCompletedDate, s.Now().Format(util.DateFormat)) <= 1
}

// daysBetween counts whole calendar days from one DateFormat string to
// another. Unparseable input counts as a broken streak.
func daysBetween(from, to string) int {
	a, errA := time.Parse(util.DateFormat, from)
	b, errB := time.Parse(util.DateFormat, to)
	if errA != nil || errB != nil {
		return math.MaxInt
	}
	return int(b.Sub(a).Hours() / 24)
}
