package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/models"
)

// CourseRepository defines data operations for courses and enrollments.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (models.Course, error)
	IsEnrolled(ctx context.Context, courseID, studentID uint) (bool, error)
	CountEnrolled(ctx context.Context, courseID uint) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates the repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Model(&models.Course{}).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("module_order ASC")
		}).
		First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) IsEnrolled(ctx context.Context, courseID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Where("student_id = ?", studentID).
		Count(&count).Error

	return count > 0, err
}

func (r *courseRepository) CountEnrolled(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error

	return count, err
}
