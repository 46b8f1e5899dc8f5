package model

// Unit groups ordered lessons inside a course.
//
// IsAssessment replaces the old "Assessment - <course title>" title
// convention with an explicit flag; the title is still written in that
// form for display. Generated marks AI-authored units so regeneration
// can scope its deletes.
// swagger:model Unit
type Unit struct {
	BaseModel
	CourseID     uint   `gorm:"index;not null" json:"courseId"`
	Title        string `gorm:"size:200;not null" json:"title"`
	Description  string `gorm:"size:500" json:"description"`
	Order        int    `gorm:"column:item_order;not null" json:"order"`
	IsAssessment bool   `gorm:"default:false" json:"isAssessment"`
	Generated    bool   `gorm:"default:false" json:"generated"`

	Lessons []Lesson `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (Unit) TableName() string {
	return "units"
}
