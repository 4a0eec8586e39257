package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/dto"
	"github.com/edulane/edulane-api/internal/models"
	"github.com/edulane/edulane-api/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrNotAssignmentOwner indicates the grading teacher does not own the assignment.
var ErrNotAssignmentOwner = errors.New("not authorized to grade this submission")

// ErrNotSubmissionOwner indicates the student does not own the submission.
var ErrNotSubmissionOwner = errors.New("not authorized for this submission")

// ErrSubmissionNotGraded indicates a re-evaluation was requested before grading.
var ErrSubmissionNotGraded = errors.New("submission not graded yet")

// ErrReevalAlreadyRequested indicates an outstanding re-evaluation request exists.
var ErrReevalAlreadyRequested = errors.New("re-evaluation already requested")

// ErrReevalConsumed indicates the student already used their one re-evaluation.
var ErrReevalConsumed = errors.New("re-evaluation already used for this assignment")

// GradingService grades submissions and translates grade changes into
// ledger deltas. Revisions apply the difference against the previous grade
// so repeated re-grades telescope to the latest grade's contribution.
type GradingService interface {
	Grade(ctx context.Context, submissionID uint, payload dto.GradeSubmissionRequest, actor Actor) (dto.SubmissionResponse, error)
	RequestReevaluation(ctx context.Context, submissionID uint, actor Actor) (dto.SubmissionResponse, error)
	ListStudentGrades(ctx context.Context, studentID uint, actor Actor) ([]dto.SubmissionResponse, error)
}

type gradingService struct {
	submissions repository.SubmissionRepository
	ledger      LedgerService
	badges      BadgeChecker
	notifier    NotificationRecorder
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradingService constructs a GradingService instance.
func NewGradingService(
	submissions repository.SubmissionRepository,
	ledger LedgerService,
	badges BadgeChecker,
	notifier NotificationRecorder,
	validate *validator.Validate,
	logger zerolog.Logger,
) GradingService {
	return &gradingService{
		submissions: submissions,
		ledger:      ledger,
		badges:      badges,
		notifier:    notifier,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "grading_service").Logger(),
		now:         time.Now,
	}
}

func (s *gradingService) Grade(ctx context.Context, submissionID uint, payload dto.GradeSubmissionRequest, actor Actor) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/edulane/edulane-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.grade")
	span.SetAttributes(
		attribute.Int64("grading.submission_id", int64(submissionID)),
		attribute.Int64("grading.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	if submission.Assignment.TeacherID != actor.ID {
		return dto.SubmissionResponse{}, ErrNotAssignmentOwner
	}

	wasReevalRequested := submission.ReevalRequested
	previousGrade := submission.PreviousGrade()

	grade := payload.Grade
	submission.Grade = &grade
	submission.Feedback = s.sanitizer.Sanitize(payload.Feedback)
	submission.Status = models.SubmissionStatusGraded
	gradedAt := s.now()
	submission.GradedAt = &gradedAt
	if wasReevalRequested {
		// Re-grading consumes the student's single re-evaluation for good.
		submission.ReevalRequested = false
		submission.ReevalDone = true
	}

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	// The delta keeps the ledger in sync with the latest grade only:
	// g1 then g2 contributes g1 + (g2 - g1) = g2, never the sum.
	delta := grade - previousGrade
	if err := s.ledger.ApplyDelta(ctx, submission.StudentID, delta, models.PointCategoryAssignment); err != nil {
		s.logger.Error().Err(err).
			Uint("student_id", submission.StudentID).
			Uint("submission_id", submission.ID).
			Msg("failed to update score ledger")
	}

	if s.badges != nil && submission.Assignment.CourseID != 0 {
		s.badges.Dispatch(submission.Assignment.CourseID, submission.StudentID)
	}

	s.notifyGraded(ctx, submission, wasReevalRequested, grade)

	span.SetAttributes(
		attribute.Float64("grading.grade", grade),
		attribute.Float64("grading.delta", delta),
		attribute.Bool("grading.reevaluation", wasReevalRequested),
	)

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Float64("grade", grade).
		Float64("delta", delta).
		Msg("submission graded")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *gradingService) RequestReevaluation(ctx context.Context, submissionID uint, actor Actor) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if submission.StudentID != actor.ID {
		return dto.SubmissionResponse{}, ErrNotSubmissionOwner
	}

	if !submission.IsGraded() {
		return dto.SubmissionResponse{}, ErrSubmissionNotGraded
	}

	consumed, err := s.submissions.HasReevalDone(ctx, submission.AssignmentID, actor.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if consumed {
		return dto.SubmissionResponse{}, ErrReevalConsumed
	}

	if submission.ReevalRequested {
		return dto.SubmissionResponse{}, ErrReevalAlreadyRequested
	}

	submission.ReevalRequested = true
	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if s.notifier != nil {
		notifyErr := s.notifier.Notify(ctx, NotificationInput{
			UserID:    submission.Assignment.TeacherID,
			Title:     "Re-evaluation Requested",
			Message:   fmt.Sprintf("A student has requested re-evaluation for assignment %q", submission.Assignment.Title),
			Type:      models.NotificationTypeReevaluation,
			RelatedID: &submission.ID,
		})
		if notifyErr != nil {
			s.logger.Warn().Err(notifyErr).Msg("failed to notify teacher of re-evaluation request")
		}
	}

	s.logger.Info().Uint("submission_id", submission.ID).Msg("re-evaluation requested")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *gradingService) ListStudentGrades(ctx context.Context, studentID uint, actor Actor) ([]dto.SubmissionResponse, error) {
	if actor.IsStudent() && actor.ID != studentID {
		return nil, ErrNotSubmissionOwner
	}

	status := models.SubmissionStatusGraded
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{
		StudentID: &studentID,
		Status:    &status,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *gradingService) notifyGraded(ctx context.Context, submission models.Submission, wasReevaluation bool, grade float64) {
	if s.notifier == nil {
		return
	}

	title := "Assignment Graded"
	message := fmt.Sprintf("Your submission for %q has been graded. Score: %.2f/10", submission.Assignment.Title, grade)
	if wasReevaluation {
		title = "Re-evaluation Completed"
		message = fmt.Sprintf("Your submission for %q has been re-evaluated. New Score: %.2f/10", submission.Assignment.Title, grade)
	}

	err := s.notifier.Notify(ctx, NotificationInput{
		UserID:    submission.StudentID,
		Title:     title,
		Message:   message,
		Type:      models.NotificationTypeGrade,
		RelatedID: &submission.ID,
	})
	if err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to send grading notification")
	}
}
