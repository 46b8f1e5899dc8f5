package model

// swagger:model Lesson
type Lesson struct {
	BaseModel
	UnitID uint   `gorm:"index;not null" json:"unitId"`
	Title  string `gorm:"size:200;not null" json:"title"`
	Order  int    `gorm:"column:item_order;not null" json:"order"`

	Challenges []Challenge `gorm:"constraint:OnDelete:CASCADE" json:"challenges,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
