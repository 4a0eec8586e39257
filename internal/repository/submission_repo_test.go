package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edulane/edulane-api/internal/models"
)

func TestSubmissionRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	grade := 8.0
	require.NoError(t, repo.Create(ctx, &models.Submission{AssignmentID: 1, StudentID: 2, Status: models.SubmissionStatusGraded, Grade: &grade}))
	require.NoError(t, repo.Create(ctx, &models.Submission{AssignmentID: 1, StudentID: 3, Status: models.SubmissionStatusSubmitted}))
	require.NoError(t, repo.Create(ctx, &models.Submission{AssignmentID: 2, StudentID: 2, Status: models.SubmissionStatusSubmitted}))

	studentID := uint(2)
	status := models.SubmissionStatusGraded
	graded, err := repo.List(ctx, SubmissionFilter{StudentID: &studentID, Status: &status})
	require.NoError(t, err)
	require.Len(t, graded, 1)
	require.Equal(t, uint(1), graded[0].AssignmentID)

	assignmentID := uint(1)
	byAssignment, err := repo.List(ctx, SubmissionFilter{AssignmentID: &assignmentID})
	require.NoError(t, err)
	require.Len(t, byAssignment, 2)
}

func TestSubmissionRepositoryHasReevalDone(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	submission := models.Submission{AssignmentID: 1, StudentID: 2, Status: models.SubmissionStatusGraded}
	require.NoError(t, repo.Create(ctx, &submission))

	done, err := repo.HasReevalDone(ctx, 1, 2)
	require.NoError(t, err)
	require.False(t, done)

	submission.ReevalDone = true
	require.NoError(t, repo.Update(ctx, &submission))

	done, err = repo.HasReevalDone(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, done)

	// Other students on the same assignment keep their own re-evaluation.
	done, err = repo.HasReevalDone(ctx, 1, 3)
	require.NoError(t, err)
	require.False(t, done)
}

func TestSubmissionRepositoryCountDistinctAssignments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Submission{AssignmentID: 1, StudentID: 2, Status: models.SubmissionStatusSubmitted}))
	require.NoError(t, repo.Create(ctx, &models.Submission{AssignmentID: 1, StudentID: 2, Status: models.SubmissionStatusSubmitted}))
	require.NoError(t, repo.Create(ctx, &models.Submission{AssignmentID: 2, StudentID: 2, Status: models.SubmissionStatusSubmitted}))
	require.NoError(t, repo.Create(ctx, &models.Submission{AssignmentID: 3, StudentID: 9, Status: models.SubmissionStatusSubmitted}))

	// Two submissions on assignment 1 count once.
	count, err := repo.CountDistinctAssignments(ctx, []uint{1, 2, 3}, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	count, err = repo.CountDistinctAssignments(ctx, nil, 2)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}
