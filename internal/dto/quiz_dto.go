package dto

import (
	"time"

	"github.com/edulane/edulane-api/internal/models"
)

// QuizAttemptRequest carries a student's answers for a quiz attempt.
type QuizAttemptRequest struct {
	Answers []AttemptAnswer `json:"answers" validate:"required,dive"`
}

// AttemptAnswer is one answer within an attempt payload.
type AttemptAnswer struct {
	QuestionIndex  int `json:"question_index" validate:"gte=0"`
	SelectedAnswer int `json:"selected_answer" validate:"gte=0"`
}

// QuizAttemptResponse is returned after an attempt is scored, and when
// listing attempts. Score is normalized to the 0-10 scale.
type QuizAttemptResponse struct {
	ID             uint        `json:"id"`
	QuizID         uint        `json:"quiz_id"`
	StudentID      uint        `json:"student_id"`
	Score          float64     `json:"score"`
	TotalQuestions int         `json:"total_questions"`
	CorrectAnswers int         `json:"correct_answers"`
	SubmittedAt    time.Time   `json:"submitted_at"`
	Student        StudentLite `json:"student,omitempty"`
}

// NewQuizAttemptResponse converts a QuizAttempt model into a DTO.
func NewQuizAttemptResponse(model models.QuizAttempt) QuizAttemptResponse {
	response := QuizAttemptResponse{
		ID:             model.ID,
		QuizID:         model.QuizID,
		StudentID:      model.StudentID,
		Score:          model.Score,
		TotalQuestions: model.TotalQuestions,
		CorrectAnswers: model.CorrectAnswers,
		SubmittedAt:    model.CreatedAt,
	}

	if model.Student.ID != 0 {
		response.Student = NewStudentLite(model.Student)
	}

	return response
}

// NewQuizAttemptResponseSlice converts attempt models into DTOs.
func NewQuizAttemptResponseSlice(models []models.QuizAttempt) []QuizAttemptResponse {
	responses := make([]QuizAttemptResponse, 0, len(models))
	for _, attempt := range models {
		responses = append(responses, NewQuizAttemptResponse(attempt))
	}

	return responses
}
