package models

import "time"

// Badge is an immutable course-completion award. The unique index on
// (student_id, course_id) makes awards idempotent at the storage layer.
type Badge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_badge_student_course" json:"student_id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_badge_student_course" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	AwardedAt time.Time `gorm:"not null" json:"awarded_at"`
}
