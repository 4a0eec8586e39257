package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edulane/edulane-api/internal/dto"
	"github.com/edulane/edulane-api/internal/models"
)

func twoQuestionQuiz() models.Quiz {
	return models.Quiz{
		ID:       1,
		CourseID: 7,
		Title:    "Go Basics",
		Questions: []models.QuizQuestion{
			{ID: 1, QuizID: 1, Prompt: "Q1", CorrectAnswer: 0, Points: 1},
			{ID: 2, QuizID: 1, Prompt: "Q2", CorrectAnswer: 2, Points: 1},
		},
	}
}

func newQuizServiceForTest(quizzes *fakeQuizBank, attempts *fakeAttemptStore, courses *fakeCourseRoster, ledger *recordingLedger, badges *recordingBadges) QuizService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewQuizService(quizzes, attempts, courses, ledger, badges, validate, testLogger())
}

func TestNormalizeScore(t *testing.T) {
	cases := []struct {
		name     string
		earned   float64
		possible float64
		want     float64
	}{
		{"full marks", 2, 2, 10},
		{"half marks", 1, 2, 5},
		{"repeating decimal rounds", 1, 3, 3.33},
		{"no possible points", 5, 0, 0},
		{"over-earn clamps to ten", 12, 10, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, NormalizeScore(tc.earned, tc.possible), 0.0001)
		})
	}
}

func TestQuizServiceAttemptScoresAndUpdatesLedger(t *testing.T) {
	quizzes := &fakeQuizBank{quiz: twoQuestionQuiz()}
	attempts := &fakeAttemptStore{}
	courses := &fakeCourseRoster{enrolled: true}
	ledger := &recordingLedger{}
	badges := &recordingBadges{}
	svc := newQuizServiceForTest(quizzes, attempts, courses, ledger, badges)

	payload := dto.QuizAttemptRequest{Answers: []dto.AttemptAnswer{
		{QuestionIndex: 0, SelectedAnswer: 0},
		{QuestionIndex: 1, SelectedAnswer: 1},
	}}

	result, err := svc.Attempt(context.Background(), 1, payload, Actor{ID: 42, Role: RoleStudent})
	require.NoError(t, err)
	require.InDelta(t, 5.0, result.Score, 0.0001)
	require.Equal(t, 1, result.CorrectAnswers)
	require.Equal(t, 2, result.TotalQuestions)

	require.NotNil(t, attempts.created)
	require.Len(t, ledger.deltas, 1)
	require.Equal(t, uint(42), ledger.deltas[0].studentID)
	require.InDelta(t, 5.0, ledger.deltas[0].delta, 0.0001)
	require.Equal(t, models.PointCategoryQuiz, ledger.deltas[0].category)

	require.Len(t, badges.dispatched, 1)
	require.Equal(t, uint(7), badges.dispatched[0].courseID)
}

func TestQuizServiceAttemptRejectsSecondAttempt(t *testing.T) {
	existing := models.QuizAttempt{ID: 9, QuizID: 1, StudentID: 42}
	quizzes := &fakeQuizBank{quiz: twoQuestionQuiz()}
	attempts := &fakeAttemptStore{existing: &existing}
	ledger := &recordingLedger{}
	svc := newQuizServiceForTest(quizzes, attempts, &fakeCourseRoster{enrolled: true}, ledger, &recordingBadges{})

	payload := dto.QuizAttemptRequest{Answers: []dto.AttemptAnswer{{QuestionIndex: 0, SelectedAnswer: 0}}}
	_, err := svc.Attempt(context.Background(), 1, payload, Actor{ID: 42, Role: RoleStudent})
	require.ErrorIs(t, err, ErrQuizAlreadyAttempted)
	require.Empty(t, ledger.deltas)
}

func TestQuizServiceAttemptConcurrentDuplicateLeavesLedgerUntouched(t *testing.T) {
	quizzes := &fakeQuizBank{quiz: twoQuestionQuiz()}
	attempts := &fakeAttemptStore{createErr: gorm.ErrDuplicatedKey}
	ledger := &recordingLedger{}
	svc := newQuizServiceForTest(quizzes, attempts, &fakeCourseRoster{enrolled: true}, ledger, &recordingBadges{})

	payload := dto.QuizAttemptRequest{Answers: []dto.AttemptAnswer{{QuestionIndex: 0, SelectedAnswer: 0}}}
	_, err := svc.Attempt(context.Background(), 1, payload, Actor{ID: 42, Role: RoleStudent})
	require.ErrorIs(t, err, ErrQuizAlreadyAttempted)
	require.Empty(t, ledger.deltas)
}

func TestQuizServiceAttemptRequiresEnrollment(t *testing.T) {
	quizzes := &fakeQuizBank{quiz: twoQuestionQuiz()}
	attempts := &fakeAttemptStore{}
	svc := newQuizServiceForTest(quizzes, attempts, &fakeCourseRoster{enrolled: false}, &recordingLedger{}, &recordingBadges{})

	payload := dto.QuizAttemptRequest{Answers: []dto.AttemptAnswer{{QuestionIndex: 0, SelectedAnswer: 0}}}
	_, err := svc.Attempt(context.Background(), 1, payload, Actor{ID: 42, Role: RoleStudent})
	require.ErrorIs(t, err, ErrNotEnrolled)
	require.Nil(t, attempts.created)
}

func TestQuizServiceAttemptUnknownQuiz(t *testing.T) {
	quizzes := &fakeQuizBank{err: gorm.ErrRecordNotFound}
	svc := newQuizServiceForTest(quizzes, &fakeAttemptStore{}, &fakeCourseRoster{enrolled: true}, &recordingLedger{}, &recordingBadges{})

	payload := dto.QuizAttemptRequest{Answers: []dto.AttemptAnswer{{QuestionIndex: 0, SelectedAnswer: 0}}}
	_, err := svc.Attempt(context.Background(), 99, payload, Actor{ID: 42, Role: RoleStudent})
	require.ErrorIs(t, err, ErrQuizNotFound)
}

func TestQuizServiceAttemptIgnoresDuplicateAndOutOfRangeAnswers(t *testing.T) {
	quizzes := &fakeQuizBank{quiz: twoQuestionQuiz()}
	attempts := &fakeAttemptStore{}
	ledger := &recordingLedger{}
	svc := newQuizServiceForTest(quizzes, attempts, &fakeCourseRoster{enrolled: true}, ledger, &recordingBadges{})

	payload := dto.QuizAttemptRequest{Answers: []dto.AttemptAnswer{
		{QuestionIndex: 0, SelectedAnswer: 0},
		{QuestionIndex: 0, SelectedAnswer: 1},
		{QuestionIndex: 5, SelectedAnswer: 0},
	}}

	result, err := svc.Attempt(context.Background(), 1, payload, Actor{ID: 42, Role: RoleStudent})
	require.NoError(t, err)
	require.Equal(t, 1, result.CorrectAnswers)
	require.InDelta(t, 5.0, result.Score, 0.0001)
}

func TestQuizServiceListAttemptsRestrictsStudentsToOwn(t *testing.T) {
	quizzes := &fakeQuizBank{quiz: twoQuestionQuiz()}
	attempts := &fakeAttemptStore{listed: []models.QuizAttempt{{ID: 1, QuizID: 1, StudentID: 42}}}
	svc := newQuizServiceForTest(quizzes, attempts, &fakeCourseRoster{enrolled: true}, &recordingLedger{}, &recordingBadges{})

	_, err := svc.ListAttempts(context.Background(), 1, Actor{ID: 42, Role: RoleStudent})
	require.NoError(t, err)
	require.NotNil(t, attempts.lastFilter)
	require.Equal(t, uint(42), *attempts.lastFilter)

	_, err = svc.ListAttempts(context.Background(), 1, Actor{ID: 5, Role: RoleTeacher})
	require.NoError(t, err)
	require.Nil(t, attempts.lastFilter)
}
