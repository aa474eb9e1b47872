package dto

import (
	"time"

	"github.com/kaan/learnhub/internal/app/models"
)

// EnrollmentResponse represents an enrollment together with its derived
// progress figures.
type EnrollmentResponse struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"userId"`
	CourseID         int64      `json:"courseId"`
	Status           string     `json:"status" example:"in_progress" enums:"enrolled,in_progress,completed"`
	Progress         int        `json:"progress" example:"25"`
	LessonCount      int        `json:"lessonCount" example:"4"`
	CompletedLessons int        `json:"completedLessons" example:"1"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	AlreadyEnrolled  bool       `json:"alreadyEnrolled,omitempty"`

	// Course is attached on my-learning listings
	Course *models.Course `json:"course,omitempty"`
}

// EnrollmentStatusResponse is the lightweight per-course status consulted on
// every course page render. Degrades to the zero value rather than erroring.
type EnrollmentStatusResponse struct {
	Enrolled bool   `json:"enrolled"`
	Status   string `json:"status,omitempty"`
	Progress int    `json:"progress"`
}
