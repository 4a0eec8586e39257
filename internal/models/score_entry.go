package models

import "time"

// Point categories accepted by the score ledger.
const (
	PointCategoryQuiz       = "quiz"
	PointCategoryAssignment = "assignment"
)

// Score metrics accepted by rank and leaderboard queries.
const (
	ScoreMetricTotal  = "total"
	ScoreMetricWeekly = "weekly"
)

// ScoreEntry is the per-student point ledger. TotalPoints always equals
// QuizPoints + AssignmentPoints, and WeeklyPoints only counts
// contributions since LastWeeklyReset. Entries are created lazily and
// never deleted.
type ScoreEntry struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	StudentID        uint      `gorm:"not null;uniqueIndex" json:"student_id"`
	QuizPoints       float64   `gorm:"not null;default:0" json:"quiz_points"`
	AssignmentPoints float64   `gorm:"not null;default:0" json:"assignment_points"`
	TotalPoints      float64   `gorm:"not null;default:0;index" json:"total_points"`
	WeeklyPoints     float64   `gorm:"not null;default:0;index" json:"weekly_points"`
	LastWeeklyReset  time.Time `gorm:"not null" json:"last_weekly_reset"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Student          Student   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}
