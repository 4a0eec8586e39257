package service

// User roles carried in JWT claims.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Actor identifies the authenticated user performing an action.
type Actor struct {
	ID   uint
	Role string
}

// IsTeacher reports whether the actor holds the teacher role.
func (a Actor) IsTeacher() bool {
	return a.Role == RoleTeacher
}

// IsStudent reports whether the actor holds the student role.
func (a Actor) IsStudent() bool {
	return a.Role == RoleStudent
}
