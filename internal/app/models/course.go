package models

import "time"

// Course represents a course in the catalog.
type Course struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	Instructor    *string   `json:"instructor,omitempty" db:"instructor"`        // Nullable
	Category      string    `json:"category" db:"category"`
	Difficulty    *string   `json:"difficulty,omitempty" db:"difficulty"`        // Nullable, free text
	DurationHours *int      `json:"durationHours,omitempty" db:"duration_hours"` // Nullable
	ThumbnailURL  *string   `json:"thumbnailUrl,omitempty" db:"thumbnail_url"`   // Nullable
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	// Derived fields (populated when needed)
	AverageRating float64  `json:"averageRating"`
	LessonCount   int      `json:"lessonCount"`
	Lessons       []Lesson `json:"lessons,omitempty"`
}

// Lesson represents a single lesson owned by a course. Lessons are ordered
// by Position within their course and removed together with it.
type Lesson struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	VideoURL  string    `json:"videoUrl" db:"video_url"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
