package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/dto"
	"github.com/edulane/edulane-api/internal/models"
	"github.com/edulane/edulane-api/internal/repository"
)

// ErrCourseNotFound indicates a course could not be found.
var ErrCourseNotFound = errors.New("course not found")

// ErrModuleNotFound indicates the course has no module with the given order.
var ErrModuleNotFound = errors.New("module not found in course")

// ProgressService records student module completion and triggers badge checks.
type ProgressService interface {
	CompleteModule(ctx context.Context, courseID uint, moduleOrder int, actor Actor) (dto.CourseProgressResponse, error)
	GetProgress(ctx context.Context, courseID uint, actor Actor) (dto.CourseProgressResponse, error)
}

type progressService struct {
	courses  repository.CourseRepository
	progress repository.ProgressRepository
	badges   BadgeChecker
	logger   zerolog.Logger
	now      func() time.Time
}

// NewProgressService constructs a ProgressService instance.
func NewProgressService(courses repository.CourseRepository, progress repository.ProgressRepository, badges BadgeChecker, logger zerolog.Logger) ProgressService {
	return &progressService{
		courses:  courses,
		progress: progress,
		badges:   badges,
		logger:   logger.With().Str("component", "progress_service").Logger(),
		now:      time.Now,
	}
}

func (s *progressService) CompleteModule(ctx context.Context, courseID uint, moduleOrder int, actor Actor) (dto.CourseProgressResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseProgressResponse{}, ErrCourseNotFound
		}
		return dto.CourseProgressResponse{}, err
	}

	enrolled, err := s.courses.IsEnrolled(ctx, courseID, actor.ID)
	if err != nil {
		return dto.CourseProgressResponse{}, err
	}
	if !enrolled {
		return dto.CourseProgressResponse{}, ErrNotEnrolled
	}

	if !course.HasModuleOrder(moduleOrder) {
		return dto.CourseProgressResponse{}, ErrModuleNotFound
	}

	progress, err := s.getOrCreate(ctx, courseID, actor.ID)
	if err != nil {
		return dto.CourseProgressResponse{}, err
	}

	if progress.AddModule(moduleOrder) {
		if err := s.progress.Update(ctx, &progress); err != nil {
			return dto.CourseProgressResponse{}, err
		}

		s.logger.Info().
			Uint("course_id", courseID).
			Uint("student_id", actor.ID).
			Int("module_order", moduleOrder).
			Msg("module completed")
	}

	if s.badges != nil {
		s.badges.Dispatch(courseID, actor.ID)
	}

	return dto.NewCourseProgressResponse(progress), nil
}

func (s *progressService) GetProgress(ctx context.Context, courseID uint, actor Actor) (dto.CourseProgressResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseProgressResponse{}, ErrCourseNotFound
		}
		return dto.CourseProgressResponse{}, err
	}

	progress, err := s.progress.GetByCourseAndStudent(ctx, courseID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseProgressResponse{CourseID: courseID, StudentID: actor.ID, CompletedModules: []int{}}, nil
		}
		return dto.CourseProgressResponse{}, err
	}

	return dto.NewCourseProgressResponse(progress), nil
}

func (s *progressService) getOrCreate(ctx context.Context, courseID, studentID uint) (models.CourseProgress, error) {
	progress, err := s.progress.GetByCourseAndStudent(ctx, courseID, studentID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CourseProgress{}, err
	}

	fresh := models.CourseProgress{CourseID: courseID, StudentID: studentID}
	if createErr := s.progress.Create(ctx, &fresh); createErr != nil {
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return s.progress.GetByCourseAndStudent(ctx, courseID, studentID)
		}
		return models.CourseProgress{}, createErr
	}

	return fresh, nil
}
