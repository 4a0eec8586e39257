package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/models"
)

func TestLedgerServiceGetOrCreateCreatesLazily(t *testing.T) {
	repo := &fakeScoreRepo{getErrs: []error{gorm.ErrRecordNotFound}}
	svc := NewLedgerService(repo, 0, testLogger())

	entry, err := svc.GetOrCreate(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, uint(42), entry.StudentID)
	require.NotNil(t, repo.created)
	require.False(t, repo.created.LastWeeklyReset.IsZero())
}

func TestLedgerServiceGetOrCreateLosesCreationRace(t *testing.T) {
	existing := models.ScoreEntry{ID: 5, StudentID: 42, TotalPoints: 12}
	repo := &fakeScoreRepo{
		entry:     existing,
		getErrs:   []error{gorm.ErrRecordNotFound},
		createErr: gorm.ErrDuplicatedKey,
	}
	svc := NewLedgerService(repo, 0, testLogger())

	entry, err := svc.GetOrCreate(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, existing, entry)
}

func TestLedgerServiceApplyDeltaRejectsUnknownCategory(t *testing.T) {
	repo := &fakeScoreRepo{applyRows: 1}
	svc := NewLedgerService(repo, 0, testLogger())

	err := svc.ApplyDelta(context.Background(), 42, 5, "attendance")
	require.ErrorIs(t, err, ErrUnknownPointCategory)
}

func TestLedgerServiceApplyDeltaUsesWeeklyWindowCutoff(t *testing.T) {
	repo := &fakeScoreRepo{entry: models.ScoreEntry{ID: 1, StudentID: 42}, applyRows: 1}
	svc := NewLedgerService(repo, 7*24*time.Hour, testLogger()).(*ledgerService)
	fixed := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	err := svc.ApplyDelta(context.Background(), 42, 5, models.PointCategoryQuiz)
	require.NoError(t, err)
	require.Equal(t, fixed, repo.lastNow)
	require.Equal(t, fixed.Add(-7*24*time.Hour), repo.lastCutoff)
	require.InDelta(t, 5.0, repo.lastDelta, 0.0001)
	require.Equal(t, models.PointCategoryQuiz, repo.lastCategory)
}

func TestLedgerServiceApplyDeltaFailsWhenRowMissing(t *testing.T) {
	repo := &fakeScoreRepo{entry: models.ScoreEntry{ID: 1, StudentID: 42}, applyRows: 0}
	svc := NewLedgerService(repo, 0, testLogger())

	err := svc.ApplyDelta(context.Background(), 42, 5, models.PointCategoryQuiz)
	require.Error(t, err)
}
