package model

// ChallengeProgress is the per-user attempt record for a single challenge.
// At most one row exists per (user, challenge).
// swagger:model ChallengeProgress
type ChallengeProgress struct {
	BaseModel
	UserID      uint `gorm:"not null;uniqueIndex:idx_user_challenge" json:"userId"`
	ChallengeID uint `gorm:"not null;uniqueIndex:idx_user_challenge" json:"challengeId"`
	Attempted   bool `gorm:"default:false" json:"attempted"`
	Completed   bool `gorm:"default:false" json:"completed"`
}

func (ChallengeProgress) TableName() string {
	return "challenge_progress"
}
