package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
)

type UnitRepository struct {
	DB *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{DB: db}
}

func (r *UnitRepository) Create(unit *model.Unit) error {
	return r.DB.Create(unit).Error
}

func (r *UnitRepository) FindByID(id uint) (*model.Unit, error) {
	var unit model.Unit
	err := r.DB.First(&unit, id).Error
	return &unit, err
}

func (r *UnitRepository) ListByCourse(courseID uint) ([]model.Unit, error) {
	var units []model.Unit
	err := r.DB.Where("course_id = ?", courseID).Order("item_order ASC").Find(&units).Error
	return units, err
}

// FindAssessmentUnit returns the course's assessment unit, if any.
func (r *UnitRepository) FindAssessmentUnit(courseID uint) (*model.Unit, error) {
	var unit model.Unit
	err := r.DB.Where("course_id = ? AND is_assessment = ?", courseID, true).First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// MaxOrder returns the highest unit order within a course, 0 when the course
// has no units.
func (r *UnitRepository) MaxOrder(courseID uint) (int, error) {
	var max *int
	err := r.DB.Model(&model.Unit{}).
		Where("course_id = ?", courseID).
		Select("MAX(item_order)").
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}
