package dto

import (
	"time"

	"github.com/edulane/edulane-api/internal/models"
)

// GradeSubmissionRequest is the payload teachers send when grading.
type GradeSubmissionRequest struct {
	Grade    float64 `json:"grade" validate:"gte=0,lte=10"`
	Feedback string  `json:"feedback" validate:"omitempty,max=4000"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID              uint           `json:"id"`
	AssignmentID    uint           `json:"assignment_id"`
	StudentID       uint           `json:"student_id"`
	Status          string         `json:"status"`
	Grade           *float64       `json:"grade"`
	Feedback        string         `json:"feedback"`
	GradedAt        *time.Time     `json:"graded_at"`
	ReevalRequested bool           `json:"reeval_requested"`
	ReevalDone      bool           `json:"reeval_done"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Assignment      AssignmentLite `json:"assignment"`
	Student         StudentLite    `json:"student"`
}

// AssignmentLite summarizes an assignment in submission responses.
type AssignmentLite struct {
	ID      uint      `json:"id"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"due_date"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:              model.ID,
		AssignmentID:    model.AssignmentID,
		StudentID:       model.StudentID,
		Status:          model.Status,
		Grade:           model.Grade,
		Feedback:        model.Feedback,
		GradedAt:        model.GradedAt,
		ReevalRequested: model.ReevalRequested,
		ReevalDone:      model.ReevalDone,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}

	if model.Assignment.ID != 0 {
		response.Assignment = AssignmentLite{
			ID:      model.Assignment.ID,
			Title:   model.Assignment.Title,
			DueDate: model.Assignment.DueDate,
		}
	}

	if model.Student.ID != 0 {
		response.Student = NewStudentLite(model.Student)
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(models []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(models))
	for _, submission := range models {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
