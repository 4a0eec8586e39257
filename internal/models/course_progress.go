package models

import (
	"time"

	"gorm.io/datatypes"
)

// CourseProgress tracks which module orders a student has completed in a
// course. One record per (course, student); module additions are
// idempotent.
type CourseProgress struct {
	ID               uint                     `gorm:"primaryKey" json:"id"`
	CourseID         uint                     `gorm:"not null;uniqueIndex:idx_progress_course_student" json:"course_id"`
	StudentID        uint                     `gorm:"not null;uniqueIndex:idx_progress_course_student" json:"student_id"`
	CompletedModules datatypes.JSONSlice[int] `gorm:"type:json" json:"completed_modules"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// HasModule reports whether the given module order is already completed.
func (p CourseProgress) HasModule(order int) bool {
	for _, completed := range p.CompletedModules {
		if completed == order {
			return true
		}
	}
	return false
}

// AddModule records a module order as completed. Returns false when the
// module was already present.
func (p *CourseProgress) AddModule(order int) bool {
	if p.HasModule(order) {
		return false
	}
	p.CompletedModules = append(p.CompletedModules, order)
	return true
}
