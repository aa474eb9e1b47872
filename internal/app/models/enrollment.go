package models

import "time"

// Enrollment records a user's registration in a course and their aggregate
// progress through it. At most one enrollment exists per (user, course) pair.
type Enrollment struct {
	ID          int64            `json:"id" db:"id"`
	UserID      int64            `json:"userId" db:"user_id"`
	CourseID    int64            `json:"courseId" db:"course_id"`
	Status      EnrollmentStatus `json:"status" db:"status"`
	StartedAt   time.Time        `json:"startedAt" db:"started_at"`
	CompletedAt *time.Time       `json:"completedAt,omitempty" db:"completed_at"` // Set iff Status == completed

	// Derived fields (not persisted)
	Progress         int     `json:"progress"`         // round(100 * completed / total), clamped to [0,100]
	LessonCount      int     `json:"lessonCount"`
	CompletedLessons int     `json:"completedLessons"`
	Course           *Course `json:"course,omitempty"` // Relation, populated for listings
}

// CompletedLesson marks a single lesson as completed by a user. The count of
// markers per course drives the owning enrollment's progress.
type CompletedLesson struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	LessonID    int64     `json:"lessonId" db:"lesson_id"`
	CompletedAt time.Time `json:"completedAt" db:"completed_at"`
}
