package dto

import (
	"time"

	"github.com/edulane/edulane-api/internal/models"
)

// CourseProgressResponse reports a student's module completion in a course.
type CourseProgressResponse struct {
	CourseID         uint      `json:"course_id"`
	StudentID        uint      `json:"student_id"`
	CompletedModules []int     `json:"completed_modules"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewCourseProgressResponse converts a CourseProgress model into a DTO.
func NewCourseProgressResponse(model models.CourseProgress) CourseProgressResponse {
	return CourseProgressResponse{
		CourseID:         model.CourseID,
		StudentID:        model.StudentID,
		CompletedModules: append([]int(nil), model.CompletedModules...),
		UpdatedAt:        model.UpdatedAt,
	}
}
