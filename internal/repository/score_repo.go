package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/models"
)

// ScoreRepository defines data operations for the per-student point ledger.
type ScoreRepository interface {
	GetByStudent(ctx context.Context, studentID uint) (models.ScoreEntry, error)
	Create(ctx context.Context, entry *models.ScoreEntry) error
	// ApplyDelta adds delta to the category column and the weekly column in a
	// single UPDATE statement. The weekly reset check runs inside the same
	// statement: when last_weekly_reset predates cutoff, weekly points start
	// over from the delta alone and the reset timestamp moves to now. All
	// point columns clamp at zero and total_points is recomputed from the
	// clamped values. Returns the number of rows updated (0 when no ledger
	// entry exists yet).
	ApplyDelta(ctx context.Context, studentID uint, delta float64, category string, cutoff, now time.Time) (int64, error)
	CountGreater(ctx context.Context, metric string, value float64) (int64, error)
	ListTop(ctx context.Context, metric string, limit int) ([]models.ScoreEntry, error)
	ResetStaleWeekly(ctx context.Context, cutoff, now time.Time) (int64, error)
}

type scoreRepository struct {
	db *gorm.DB
}

// NewScoreRepository instantiates the repository.
func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) GetByStudent(ctx context.Context, studentID uint) (models.ScoreEntry, error) {
	var entry models.ScoreEntry
	if err := r.db.WithContext(ctx).Model(&models.ScoreEntry{}).
		Preload("Student").
		Where("student_id = ?", studentID).
		First(&entry).Error; err != nil {
		return models.ScoreEntry{}, err
	}

	return entry, nil
}

func (r *scoreRepository) Create(ctx context.Context, entry *models.ScoreEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *scoreRepository) ApplyDelta(ctx context.Context, studentID uint, delta float64, category string, cutoff, now time.Time) (int64, error) {
	column := "quiz_points"
	other := "assignment_points"
	if category == models.PointCategoryAssignment {
		column = "assignment_points"
		other = "quiz_points"
	}

	clamped := "CASE WHEN " + column + " + ? < 0 THEN 0 ELSE " + column + " + ? END"

	updates := map[string]interface{}{
		column:         gorm.Expr(clamped, delta, delta),
		"total_points": gorm.Expr(clamped+" + "+other, delta, delta),
		"weekly_points": gorm.Expr(
			"CASE WHEN last_weekly_reset < ? THEN CASE WHEN ? < 0 THEN 0 ELSE ? END "+
				"ELSE CASE WHEN weekly_points + ? < 0 THEN 0 ELSE weekly_points + ? END END",
			cutoff, delta, delta, delta, delta),
		"last_weekly_reset": gorm.Expr("CASE WHEN last_weekly_reset < ? THEN ? ELSE last_weekly_reset END", cutoff, now),
		"updated_at":        now,
	}

	result := r.db.WithContext(ctx).Model(&models.ScoreEntry{}).
		Where("student_id = ?", studentID).
		Updates(updates)

	return result.RowsAffected, result.Error
}

func (r *scoreRepository) CountGreater(ctx context.Context, metric string, value float64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ScoreEntry{}).
		Where(metricColumn(metric)+" > ?", value).
		Count(&count).Error

	return count, err
}

func (r *scoreRepository) ListTop(ctx context.Context, metric string, limit int) ([]models.ScoreEntry, error) {
	var entries []models.ScoreEntry
	err := r.db.WithContext(ctx).Model(&models.ScoreEntry{}).
		Preload("Student").
		Order(metricColumn(metric) + " DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *scoreRepository) ResetStaleWeekly(ctx context.Context, cutoff, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.ScoreEntry{}).
		Where("last_weekly_reset < ?", cutoff).
		Updates(map[string]interface{}{
			"weekly_points":     0,
			"last_weekly_reset": now,
			"updated_at":        now,
		})

	return result.RowsAffected, result.Error
}

func metricColumn(metric string) string {
	if metric == models.ScoreMetricWeekly {
		return "weekly_points"
	}
	return "total_points"
}
