package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/dto"
	"github.com/edulane/edulane-api/internal/models"
	"github.com/edulane/edulane-api/internal/repository"
)

// ErrQuizNotFound indicates a quiz could not be found.
var ErrQuizNotFound = errors.New("quiz not found")

// ErrQuizAlreadyAttempted indicates the student already used their one attempt.
var ErrQuizAlreadyAttempted = errors.New("quiz already attempted")

// ErrNotEnrolled indicates the student is not enrolled in the quiz's course.
var ErrNotEnrolled = errors.New("not enrolled in this course")

// QuizService scores quiz attempts and feeds the results into the ledger.
type QuizService interface {
	Attempt(ctx context.Context, quizID uint, payload dto.QuizAttemptRequest, actor Actor) (dto.QuizAttemptResponse, error)
	ListAttempts(ctx context.Context, quizID uint, actor Actor) ([]dto.QuizAttemptResponse, error)
}

type quizService struct {
	quizzes   repository.QuizRepository
	attempts  repository.AttemptRepository
	courses   repository.CourseRepository
	ledger    LedgerService
	badges    BadgeChecker
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQuizService constructs a QuizService instance.
func NewQuizService(
	quizzes repository.QuizRepository,
	attempts repository.AttemptRepository,
	courses repository.CourseRepository,
	ledger LedgerService,
	badges BadgeChecker,
	validate *validator.Validate,
	logger zerolog.Logger,
) QuizService {
	return &quizService{
		quizzes:   quizzes,
		attempts:  attempts,
		courses:   courses,
		ledger:    ledger,
		badges:    badges,
		validator: validate,
		logger:    logger.With().Str("component", "quiz_service").Logger(),
		now:       time.Now,
	}
}

func (s *quizService) Attempt(ctx context.Context, quizID uint, payload dto.QuizAttemptRequest, actor Actor) (dto.QuizAttemptResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizAttemptResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizAttemptResponse{}, ErrQuizNotFound
		}
		return dto.QuizAttemptResponse{}, err
	}

	enrolled, err := s.courses.IsEnrolled(ctx, quiz.CourseID, actor.ID)
	if err != nil {
		return dto.QuizAttemptResponse{}, err
	}
	if !enrolled {
		return dto.QuizAttemptResponse{}, ErrNotEnrolled
	}

	if _, err := s.attempts.GetByQuizAndStudent(ctx, quizID, actor.ID); err == nil {
		return dto.QuizAttemptResponse{}, ErrQuizAlreadyAttempted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.QuizAttemptResponse{}, err
	}

	earned, correct := scoreAnswers(quiz, payload.Answers)
	normalized := NormalizeScore(earned, quiz.TotalPossiblePoints())

	answers, err := json.Marshal(payload.Answers)
	if err != nil {
		return dto.QuizAttemptResponse{}, err
	}

	attempt := models.QuizAttempt{
		QuizID:         quizID,
		StudentID:      actor.ID,
		Answers:        answers,
		Score:          normalized,
		TotalQuestions: len(quiz.Questions),
		CorrectAnswers: correct,
	}
	if err := s.attempts.Create(ctx, &attempt); err != nil {
		// The unique index on (quiz_id, student_id) catches a concurrent
		// first attempt; the second writer loses and the ledger stays untouched.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.QuizAttemptResponse{}, ErrQuizAlreadyAttempted
		}
		return dto.QuizAttemptResponse{}, err
	}

	// Ledger and badge updates are best-effort: the attempt itself already
	// succeeded, so failures are logged without failing the request.
	if err := s.ledger.ApplyDelta(ctx, actor.ID, normalized, models.PointCategoryQuiz); err != nil {
		s.logger.Error().Err(err).Uint("student_id", actor.ID).Msg("failed to update score ledger")
	}

	if s.badges != nil {
		s.badges.Dispatch(quiz.CourseID, actor.ID)
	}

	s.logger.Info().
		Uint("quiz_id", quizID).
		Uint("student_id", actor.ID).
		Float64("score", normalized).
		Msg("quiz attempt recorded")

	return dto.NewQuizAttemptResponse(attempt), nil
}

func (s *quizService) ListAttempts(ctx context.Context, quizID uint, actor Actor) ([]dto.QuizAttemptResponse, error) {
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	var studentFilter *uint
	if actor.IsStudent() {
		studentFilter = &actor.ID
	}

	attempts, err := s.attempts.ListByQuiz(ctx, quizID, studentFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewQuizAttemptResponseSlice(attempts), nil
}

// scoreAnswers tallies raw points and correct answers. Duplicate answers
// for the same question index are ignored after the first.
func scoreAnswers(quiz models.Quiz, answers []dto.AttemptAnswer) (float64, int) {
	var earned float64
	var correct int
	seen := make(map[int]struct{}, len(answers))

	for _, answer := range answers {
		if answer.QuestionIndex < 0 || answer.QuestionIndex >= len(quiz.Questions) {
			continue
		}
		if _, dup := seen[answer.QuestionIndex]; dup {
			continue
		}
		seen[answer.QuestionIndex] = struct{}{}

		question := quiz.Questions[answer.QuestionIndex]
		if answer.SelectedAnswer == question.CorrectAnswer {
			correct++
			earned += question.Points
		}
	}

	return earned, correct
}

// NormalizeScore rescales raw earned points onto the 0-10 scale, rounded
// to two decimals. A quiz with no possible points normalizes to 0.
func NormalizeScore(earned, totalPossible float64) float64 {
	if totalPossible <= 0 {
		return 0
	}

	scaled := earned / totalPossible * 10
	if scaled > 10 {
		scaled = 10
	}

	return math.Round(scaled*100) / 100
}
