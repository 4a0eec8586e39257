package models

import "time"

// Course groups modules, quizzes and assignments under a teacher.
type Course struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TeacherID   uint           `gorm:"not null;index" json:"teacher_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Modules     []CourseModule `gorm:"constraint:OnDelete:CASCADE" json:"modules"`
	Enrollments []Enrollment   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CourseModule is one unit of course content. Completed marks whether the
// teacher has finished authoring the module; student completion lives in
// CourseProgress.
type CourseModule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Order     int       `gorm:"column:module_order;not null" json:"order"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enrollment links a student to a course.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_course_student" json:"course_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_enrollment_course_student" json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HasModuleOrder reports whether the course contains a module with the
// given order.
func (c Course) HasModuleOrder(order int) bool {
	for _, module := range c.Modules {
		if module.Order == order {
			return true
		}
	}
	return false
}

// AllModulesCompleted reports whether every module has been completed by
// the teacher. A course without modules is vacuously complete.
func (c Course) AllModulesCompleted() bool {
	for _, module := range c.Modules {
		if !module.Completed {
			return false
		}
	}
	return true
}
