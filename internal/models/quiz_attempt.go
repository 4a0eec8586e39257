package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuizAttempt records a student's single attempt at a quiz. The unique
// index on (quiz_id, student_id) enforces the one-attempt rule at the
// storage layer.
type QuizAttempt struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	QuizID         uint           `gorm:"not null;uniqueIndex:idx_attempt_quiz_student" json:"quiz_id"`
	StudentID      uint           `gorm:"not null;uniqueIndex:idx_attempt_quiz_student" json:"student_id"`
	Answers        datatypes.JSON `gorm:"type:json" json:"answers"`
	Score          float64        `gorm:"not null" json:"score"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	CreatedAt      time.Time      `json:"created_at"`
	Quiz           Quiz           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Student        Student        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}
