package dto

import (
	"time"

	"github.com/edulane/edulane-api/internal/models"
)

// BadgeResponse serializes a course-completion badge.
type BadgeResponse struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	Title     string    `json:"title"`
	AwardedAt time.Time `json:"awarded_at"`
}

// NewBadgeResponse converts a Badge model into a DTO.
func NewBadgeResponse(model models.Badge) BadgeResponse {
	return BadgeResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		Title:     model.Title,
		AwardedAt: model.AwardedAt,
	}
}

// NewBadgeResponseSlice converts badge models into DTOs.
func NewBadgeResponseSlice(models []models.Badge) []BadgeResponse {
	responses := make([]BadgeResponse, 0, len(models))
	for _, badge := range models {
		responses = append(responses, NewBadgeResponse(badge))
	}

	return responses
}
