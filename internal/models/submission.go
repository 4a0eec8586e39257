package models

import "time"

// Submission represents a student's answer to an assignment. ReevalRequested
// is a one-shot latch: once a re-grade consumes it, ReevalDone stays true
// and no further re-evaluation can be requested for the assignment.
type Submission struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	AssignmentID    uint       `gorm:"not null;index" json:"assignment_id"`
	StudentID       uint       `gorm:"not null;index" json:"student_id"`
	Content         string     `gorm:"type:text" json:"content"`
	Status          string     `gorm:"size:32;not null" json:"status"`
	Grade           *float64   `json:"grade"`
	Feedback        string     `gorm:"type:text" json:"feedback"`
	GradedAt        *time.Time `json:"graded_at"`
	ReevalRequested bool       `gorm:"not null;default:false" json:"reeval_requested"`
	ReevalDone      bool       `gorm:"not null;default:false" json:"reeval_done"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Assignment      Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student         Student    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

const (
	// SubmissionStatusSubmitted indicates the submission has been received but not graded.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusGraded indicates the submission has been evaluated.
	SubmissionStatusGraded = "graded"
)

// IsGraded reports whether the submission carries a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}

// PreviousGrade returns the current grade, or 0 when the submission has
// never been graded. Used to compute point deltas on re-grade.
func (s Submission) PreviousGrade() float64 {
	if s.Grade == nil {
		return 0
	}
	return *s.Grade
}
