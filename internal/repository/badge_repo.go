package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/models"
)

// BadgeRepository defines data operations for completion badges.
type BadgeRepository interface {
	ExistsForStudentAndCourse(ctx context.Context, studentID, courseID uint) (bool, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Badge, error)
	Create(ctx context.Context, badge *models.Badge) error
}

type badgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository instantiates the repository.
func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) ExistsForStudentAndCourse(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Badge{}).
		Where("student_id = ?", studentID).
		Where("course_id = ?", courseID).
		Count(&count).Error

	return count > 0, err
}

func (r *badgeRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.WithContext(ctx).Model(&models.Badge{}).
		Where("student_id = ?", studentID).
		Order("awarded_at DESC").
		Find(&badges).Error
	if err != nil {
		return nil, err
	}

	return badges, nil
}

func (r *badgeRepository) Create(ctx context.Context, badge *models.Badge) error {
	return r.db.WithContext(ctx).Create(badge).Error
}
