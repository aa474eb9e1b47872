package models

import "time"

// Review represents a user's rating of a course. One review per
// (user, course) pair; the per-course average feeds the catalog.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"` // 1..5
	Comment   *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Relation (populated when needed)
	UserName string `json:"userName,omitempty"`
}
