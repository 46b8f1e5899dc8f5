package model

type ChallengeType string

const (
	ChallengeSelect ChallengeType = "SELECT"
	ChallengeAssist ChallengeType = "ASSIST"
)

// swagger:model Challenge
type Challenge struct {
	BaseModel
	LessonID uint          `gorm:"index;not null" json:"lessonId"`
	Type     ChallengeType `gorm:"size:10;not null" json:"type"`
	Question string        `gorm:"size:500;not null" json:"question"`
	Order    int           `gorm:"column:item_order;not null" json:"order"`

	Options []ChallengeOption `gorm:"constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// ChallengeOption is one answer choice, created together with its challenge.
// swagger:model ChallengeOption
type ChallengeOption struct {
	BaseModel
	ChallengeID uint   `gorm:"index;not null" json:"challengeId"`
	Text        string `gorm:"size:500;not null" json:"text"`
	Correct     bool   `gorm:"not null" json:"correct"`
	ImageSrc    string `gorm:"size:255" json:"imageSrc,omitempty"`
	AudioSrc    string `gorm:"size:255" json:"audioSrc,omitempty"`
}

func (ChallengeOption) TableName() string {
	return "challenge_options"
}
