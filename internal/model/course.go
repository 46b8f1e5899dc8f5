package model

// Course is a learnable language track, created by an admin or seed data.
// swagger:model Course
type Course struct {
	BaseModel
	Title    string `gorm:"size:100;not null" json:"title"`
	ImageSrc string `gorm:"size:255" json:"imageSrc"`

	Units []Unit `gorm:"constraint:OnDelete:CASCADE" json:"units,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
