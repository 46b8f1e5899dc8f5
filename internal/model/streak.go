package model

// Streak dates are calendar-day strings in DateFormat ("2006-01-02"),
// day granularity with no timezone normalization.

type RewardType string

const (
	RewardXP     RewardType = "XP"
	RewardBadge  RewardType = "BADGE"
	RewardFreeze RewardType = "STREAK_FREEZE"
)

// UserStreak is the per-user streak aggregate, created lazily on the first
// streak update.
// swagger:model UserStreak
type UserStreak struct {
	BaseModel
	UserID            uint   `gorm:"uniqueIndex;not null" json:"userId"`
	CurrentStreak     int    `gorm:"default:0" json:"currentStreak"`
	LongestStreak     int    `gorm:"default:0" json:"longestStreak"`
	LastCompletedDate string `gorm:"size:10" json:"lastCompletedDate"`
	StreakStartDate   string `gorm:"size:10" json:"streakStartDate"`
	TotalDaysLearned  int    `gorm:"default:0" json:"totalDaysLearned"`
	StreakFreezeUsed  bool   `gorm:"default:false" json:"streakFreezeUsed"`
	StreakFreezeCount int    `gorm:"default:0" json:"streakFreezeCount"`
}

func (UserStreak) TableName() string {
	return "user_streaks"
}

// StreakActivity logs learning activity, one row per user per calendar day.
// swagger:model StreakActivity
type StreakActivity struct {
	BaseModel
	UserID              uint   `gorm:"not null;uniqueIndex:idx_user_activity_date" json:"userId"`
	Date                string `gorm:"size:10;not null;uniqueIndex:idx_user_activity_date" json:"date"`
	LessonsCompleted    int    `gorm:"default:0" json:"lessonsCompleted"`
	ChallengesCompleted int    `gorm:"default:0" json:"challengesCompleted"`
	TimeSpentMinutes    int    `gorm:"default:0" json:"timeSpentMinutes"`
	XPEarned            int    `gorm:"default:0" json:"xpEarned"`
}

func (StreakActivity) TableName() string {
	return "streak_activities"
}

// StreakMilestone records a one-time reward: at most one row per
// (user, streakLength) threshold.
// swagger:model StreakMilestone
type StreakMilestone struct {
	BaseModel
	UserID       uint       `gorm:"not null;uniqueIndex:idx_user_milestone" json:"userId"`
	StreakLength int        `gorm:"not null;uniqueIndex:idx_user_milestone" json:"streakLength"`
	RewardType   RewardType `gorm:"size:20;not null" json:"rewardType"`
	RewardValue  int        `gorm:"not null" json:"rewardValue"`
	Claimed      bool       `gorm:"default:false" json:"claimed"`
}

func (StreakMilestone) TableName() string {
	return "streak_milestones"
}
