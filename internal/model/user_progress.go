package model

const (
	MaxHearts          = 5
	PointsPerChallenge = 10
	PointsToRefill     = 50
)

// UserProgress is the per-user aggregate state: active course, hearts
// (the mistake budget, always clamped to [0, MaxHearts]) and points.
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID         uint   `gorm:"uniqueIndex;not null" json:"userId"`
	ActiveCourseID *uint  `gorm:"index" json:"activeCourseId"`
	Hearts         int    `gorm:"default:5" json:"hearts"`
	Points         int    `gorm:"default:0" json:"points"`
	UserName       string `gorm:"size:100;default:'User'" json:"userName"`
	UserImageSrc   string `gorm:"size:255;default:'/mascot.svg'" json:"userImageSrc"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
