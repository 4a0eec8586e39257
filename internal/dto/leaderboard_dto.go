package dto

import (
	"time"

	"github.com/edulane/edulane-api/internal/models"
)

// LeaderboardEntry is one row of a top-N leaderboard view. Position is
// positional (array index + 1), not tie-aware.
type LeaderboardEntry struct {
	Position         int         `json:"position"`
	Student          StudentLite `json:"student"`
	TotalPoints      float64     `json:"total_points"`
	QuizPoints       float64     `json:"quiz_points"`
	AssignmentPoints float64     `json:"assignment_points"`
	WeeklyPoints     float64     `json:"weekly_points"`
}

// LeaderboardStats is a student's own ledger snapshot with competition
// ranks (1 + count of strictly greater entries, ties share a rank).
type LeaderboardStats struct {
	Student          StudentLite `json:"student"`
	QuizPoints       float64     `json:"quiz_points"`
	AssignmentPoints float64     `json:"assignment_points"`
	TotalPoints      float64     `json:"total_points"`
	WeeklyPoints     float64     `json:"weekly_points"`
	LastWeeklyReset  time.Time   `json:"last_weekly_reset"`
	OverallRank      int64       `json:"overall_rank"`
	WeeklyRank       int64       `json:"weekly_rank"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewLeaderboardEntries converts ranked score entries into DTOs.
func NewLeaderboardEntries(entries []models.ScoreEntry) []LeaderboardEntry {
	result := make([]LeaderboardEntry, 0, len(entries))
	for idx, entry := range entries {
		result = append(result, LeaderboardEntry{
			Position:         idx + 1,
			Student:          NewStudentLite(entry.Student),
			TotalPoints:      entry.TotalPoints,
			QuizPoints:       entry.QuizPoints,
			AssignmentPoints: entry.AssignmentPoints,
			WeeklyPoints:     entry.WeeklyPoints,
		})
	}

	return result
}

// NewStudentLite converts a student model into its summary DTO.
func NewStudentLite(model models.Student) StudentLite {
	return StudentLite{
		ID:    model.ID,
		Name:  model.Name,
		Email: model.Email,
	}
}
