package models

import (
	"time"

	"gorm.io/datatypes"
)

// Quiz is a multiple-choice quiz attached to a course.
type Quiz struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CourseID  uint           `gorm:"not null;index" json:"course_id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Questions []QuizQuestion `gorm:"constraint:OnDelete:CASCADE" json:"questions"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// QuizQuestion holds one question with its raw point weight.
type QuizQuestion struct {
	ID            uint                         `gorm:"primaryKey" json:"id"`
	QuizID        uint                         `gorm:"not null;index" json:"quiz_id"`
	Prompt        string                       `gorm:"type:text;not null" json:"prompt"`
	Options       datatypes.JSONSlice[string]  `gorm:"type:json" json:"options"`
	CorrectAnswer int                          `gorm:"not null" json:"-"`
	Points        float64                      `gorm:"not null;default:1" json:"points"`
}

// TotalPossiblePoints sums the raw point weights of all questions.
func (q Quiz) TotalPossiblePoints() float64 {
	var total float64
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}
