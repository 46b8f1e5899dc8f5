package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

// FindByIDWithContent loads a course with its units, lessons, challenges and
// options, ordered for presentation.
func (r *CourseRepository) FindByIDWithContent(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Units", func(db *gorm.DB) *gorm.DB {
			return db.Order("units.item_order ASC")
		}).
		Preload("Units.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.item_order ASC")
		}).
		Preload("Units.Lessons.Challenges", func(db *gorm.DB) *gorm.DB {
			return db.Order("challenges.item_order ASC")
		}).
		Preload("Units.Lessons.Challenges.Options").
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) List() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("id ASC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}
