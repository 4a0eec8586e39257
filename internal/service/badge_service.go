package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/dto"
	"github.com/edulane/edulane-api/internal/models"
	"github.com/edulane/edulane-api/internal/observability"
	"github.com/edulane/edulane-api/internal/repository"
)

// BadgeService evaluates course-completion eligibility and idempotently
// awards badges. Eligibility predicates are checked in order with
// short-circuit: enrollment minimum, teacher-completed modules, student
// progress over all modules, an attempt for every quiz, and a submission
// for every assignment.
type BadgeService interface {
	// CheckAndAward returns the newly awarded badge, or nil when the student
	// is not eligible or already holds the badge for the course.
	CheckAndAward(ctx context.Context, courseID, studentID uint) (*dto.BadgeResponse, error)
	ListStudentBadges(ctx context.Context, studentID uint) ([]dto.BadgeResponse, error)
}

type badgeService struct {
	courses     repository.CourseRepository
	quizzes     repository.QuizRepository
	attempts    repository.AttemptRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	progress    repository.ProgressRepository
	badges      repository.BadgeRepository
	notifier    NotificationRecorder
	minEnrolled int64
	logger      zerolog.Logger
	now         func() time.Time
}

// NewBadgeService constructs the badge evaluator. The notifier may be nil.
func NewBadgeService(
	courses repository.CourseRepository,
	quizzes repository.QuizRepository,
	attempts repository.AttemptRepository,
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	progress repository.ProgressRepository,
	badges repository.BadgeRepository,
	notifier NotificationRecorder,
	minEnrolled int,
	logger zerolog.Logger,
) BadgeService {
	if minEnrolled <= 0 {
		minEnrolled = 1
	}

	return &badgeService{
		courses:     courses,
		quizzes:     quizzes,
		attempts:    attempts,
		assignments: assignments,
		submissions: submissions,
		progress:    progress,
		badges:      badges,
		notifier:    notifier,
		minEnrolled: int64(minEnrolled),
		logger:      logger.With().Str("component", "badge_service").Logger(),
		now:         time.Now,
	}
}

func (s *badgeService) CheckAndAward(ctx context.Context, courseID, studentID uint) (*dto.BadgeResponse, error) {
	eligible, course, err := s.evaluate(ctx, courseID, studentID)
	if err != nil {
		observability.BadgeChecks().WithLabelValues("error").Inc()
		return nil, err
	}
	if !eligible {
		observability.BadgeChecks().WithLabelValues("not_eligible").Inc()
		return nil, nil
	}

	held, err := s.badges.ExistsForStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		observability.BadgeChecks().WithLabelValues("error").Inc()
		return nil, err
	}
	if held {
		observability.BadgeChecks().WithLabelValues("already_awarded").Inc()
		return nil, nil
	}

	badge := models.Badge{
		StudentID: studentID,
		CourseID:  courseID,
		Title:     fmt.Sprintf("%s - Completed", course.Title),
		AwardedAt: s.now(),
	}
	if err := s.badges.Create(ctx, &badge); err != nil {
		// A concurrent check may have awarded first; the unique index keeps
		// the award idempotent.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.BadgeChecks().WithLabelValues("already_awarded").Inc()
			return nil, nil
		}
		observability.BadgeChecks().WithLabelValues("error").Inc()
		return nil, err
	}

	observability.BadgeChecks().WithLabelValues("awarded").Inc()
	observability.BadgesAwarded().Inc()
	s.logger.Info().
		Uint("student_id", studentID).
		Uint("course_id", courseID).
		Msg("completion badge awarded")

	if s.notifier != nil {
		notifyErr := s.notifier.Notify(ctx, NotificationInput{
			UserID:    studentID,
			Title:     "Badge Earned",
			Message:   fmt.Sprintf("You earned the badge %q", badge.Title),
			Type:      models.NotificationTypeBadge,
			RelatedID: &badge.ID,
		})
		if notifyErr != nil {
			s.logger.Warn().Err(notifyErr).Msg("failed to send badge notification")
		}
	}

	response := dto.NewBadgeResponse(badge)

	return &response, nil
}

func (s *badgeService) ListStudentBadges(ctx context.Context, studentID uint) ([]dto.BadgeResponse, error) {
	badges, err := s.badges.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewBadgeResponseSlice(badges), nil
}

func (s *badgeService) evaluate(ctx context.Context, courseID, studentID uint) (bool, models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, models.Course{}, nil
		}
		return false, models.Course{}, err
	}

	enrolled, err := s.courses.CountEnrolled(ctx, courseID)
	if err != nil {
		return false, course, err
	}
	if enrolled < s.minEnrolled {
		return false, course, nil
	}

	if !course.AllModulesCompleted() {
		return false, course, nil
	}

	if len(course.Modules) > 0 {
		progress, err := s.progress.GetByCourseAndStudent(ctx, courseID, studentID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, course, err
		}
		for _, module := range course.Modules {
			if !progress.HasModule(module.Order) {
				return false, course, nil
			}
		}
	}

	quizIDs, err := s.quizzes.ListIDsByCourse(ctx, courseID)
	if err != nil {
		return false, course, err
	}
	if len(quizIDs) > 0 {
		attempted, err := s.attempts.CountForStudent(ctx, quizIDs, studentID)
		if err != nil {
			return false, course, err
		}
		if attempted < int64(len(quizIDs)) {
			return false, course, nil
		}
	}

	assignmentIDs, err := s.assignments.ListIDsByCourse(ctx, courseID)
	if err != nil {
		return false, course, err
	}
	if len(assignmentIDs) > 0 {
		submitted, err := s.submissions.CountDistinctAssignments(ctx, assignmentIDs, studentID)
		if err != nil {
			return false, course, err
		}
		if submitted < int64(len(assignmentIDs)) {
			return false, course, nil
		}
	}

	return true, course, nil
}
