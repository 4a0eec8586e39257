package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/models"
)

// AttemptRepository defines data operations for quiz attempts.
type AttemptRepository interface {
	GetByQuizAndStudent(ctx context.Context, quizID, studentID uint) (models.QuizAttempt, error)
	ListByQuiz(ctx context.Context, quizID uint, studentID *uint) ([]models.QuizAttempt, error)
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	// CountForStudent counts attempts by the student across the given quizzes.
	CountForStudent(ctx context.Context, quizIDs []uint, studentID uint) (int64, error)
}

type attemptRepository struct {
	db *gorm.DB
}

// NewAttemptRepository instantiates the repository.
func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) GetByQuizAndStudent(ctx context.Context, quizID, studentID uint) (models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := r.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Where("quiz_id = ?", quizID).
		Where("student_id = ?", studentID).
		First(&attempt).Error; err != nil {
		return models.QuizAttempt{}, err
	}

	return attempt, nil
}

func (r *attemptRepository) ListByQuiz(ctx context.Context, quizID uint, studentID *uint) ([]models.QuizAttempt, error) {
	query := r.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Preload("Student").
		Where("quiz_id = ?", quizID)

	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}

	var attempts []models.QuizAttempt
	if err := query.Order("created_at DESC").Find(&attempts).Error; err != nil {
		return nil, err
	}

	return attempts, nil
}

func (r *attemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *attemptRepository) CountForStudent(ctx context.Context, quizIDs []uint, studentID uint) (int64, error) {
	if len(quizIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Where("quiz_id IN ?", quizIDs).
		Where("student_id = ?", studentID).
		Count(&count).Error

	return count, err
}
