package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/models"
	"github.com/edulane/edulane-api/internal/observability"
	"github.com/edulane/edulane-api/internal/repository"
)

// ErrUnknownPointCategory indicates a delta was submitted with a category
// other than quiz or assignment.
var ErrUnknownPointCategory = errors.New("unknown point category")

// LedgerService maintains the per-student point ledger. Deltas are applied
// as a single atomic update: the weekly window reset happens inside the
// same statement and always precedes the delta, point columns clamp at
// zero, and total points stay equal to quiz plus assignment points.
type LedgerService interface {
	GetOrCreate(ctx context.Context, studentID uint) (models.ScoreEntry, error)
	ApplyDelta(ctx context.Context, studentID uint, delta float64, category string) error
}

type ledgerService struct {
	scores       repository.ScoreRepository
	weeklyWindow time.Duration
	logger       zerolog.Logger
	now          func() time.Time
}

// NewLedgerService constructs a LedgerService instance.
func NewLedgerService(scores repository.ScoreRepository, weeklyWindow time.Duration, logger zerolog.Logger) LedgerService {
	if weeklyWindow <= 0 {
		weeklyWindow = 7 * 24 * time.Hour
	}

	return &ledgerService{
		scores:       scores,
		weeklyWindow: weeklyWindow,
		logger:       logger.With().Str("component", "ledger_service").Logger(),
		now:          time.Now,
	}
}

func (s *ledgerService) GetOrCreate(ctx context.Context, studentID uint) (models.ScoreEntry, error) {
	entry, err := s.scores.GetByStudent(ctx, studentID)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ScoreEntry{}, err
	}

	fresh := models.ScoreEntry{
		StudentID:       studentID,
		LastWeeklyReset: s.now(),
	}
	if createErr := s.scores.Create(ctx, &fresh); createErr != nil {
		// A concurrent request may have created the entry first; the unique
		// index on student_id makes the loser re-read instead of duplicating.
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return s.scores.GetByStudent(ctx, studentID)
		}
		return models.ScoreEntry{}, createErr
	}

	s.logger.Info().Uint("student_id", studentID).Msg("score ledger entry created")

	return fresh, nil
}

func (s *ledgerService) ApplyDelta(ctx context.Context, studentID uint, delta float64, category string) error {
	if category != models.PointCategoryQuiz && category != models.PointCategoryAssignment {
		return ErrUnknownPointCategory
	}

	if _, err := s.GetOrCreate(ctx, studentID); err != nil {
		observability.LedgerWriteErrors().Inc()
		return err
	}

	now := s.now()
	cutoff := now.Add(-s.weeklyWindow)

	rows, err := s.scores.ApplyDelta(ctx, studentID, delta, category, cutoff, now)
	if err != nil {
		observability.LedgerWriteErrors().Inc()
		return err
	}
	if rows == 0 {
		observability.LedgerWriteErrors().Inc()
		return fmt.Errorf("score ledger entry missing for student %d", studentID)
	}

	observability.PointsEvents().WithLabelValues(category).Inc()
	s.logger.Debug().
		Uint("student_id", studentID).
		Float64("delta", delta).
		Str("category", category).
		Msg("ledger delta applied")

	return nil
}
