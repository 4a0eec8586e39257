package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/models"
)

// ProgressRepository defines data operations for per-course student progress.
type ProgressRepository interface {
	GetByCourseAndStudent(ctx context.Context, courseID, studentID uint) (models.CourseProgress, error)
	Create(ctx context.Context, progress *models.CourseProgress) error
	Update(ctx context.Context, progress *models.CourseProgress) error
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository instantiates the repository.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetByCourseAndStudent(ctx context.Context, courseID, studentID uint) (models.CourseProgress, error) {
	var progress models.CourseProgress
	if err := r.db.WithContext(ctx).Model(&models.CourseProgress{}).
		Where("course_id = ?", courseID).
		Where("student_id = ?", studentID).
		First(&progress).Error; err != nil {
		return models.CourseProgress{}, err
	}

	return progress, nil
}

func (r *progressRepository) Create(ctx context.Context, progress *models.CourseProgress) error {
	return r.db.WithContext(ctx).Create(progress).Error
}

func (r *progressRepository) Update(ctx context.Context, progress *models.CourseProgress) error {
	return r.db.WithContext(ctx).Save(progress).Error
}
