package storage

import (
	"context"

	"github.com/kaan/learnhub/internal/app/models"
)

// Backend identifies which implementation serves catalog and enrollment data.
// The choice is made once at startup and never revisited for the lifetime of
// the process.
type Backend string

const (
	// BackendPostgres is the canonical relational store.
	BackendPostgres Backend = "postgres"
	// BackendLocal is the key-value fallback store. Once active it is the
	// authoritative source of truth, not a cache of the relational store.
	BackendLocal Backend = "local"
)

// CourseFilter holds the optional catalog predicates. Empty fields are
// ignored; set fields are combined with AND.
type CourseFilter struct {
	Search     string // matches title or description, case-insensitive
	Category   string
	Difficulty string
	Instructor string
}

// CourseStore provides access to courses and their lessons. Listings are
// ordered most-recent-first and carry the derived average rating and lesson
// count.
type CourseStore interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id int64) error
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, filter CourseFilter) ([]*models.Course, error)

	CreateLesson(ctx context.Context, lesson *models.Lesson) error
	UpdateLesson(ctx context.Context, lesson *models.Lesson) error
	DeleteLesson(ctx context.Context, id int64) error
	GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error)
	GetLessonsByCourseID(ctx context.Context, courseID int64) ([]models.Lesson, error)
	CountLessonsByCourseID(ctx context.Context, courseID int64) (int, error)
}

// EnrollmentStore provides access to enrollments and completed-lesson
// markers. Implementations must enforce at most one enrollment per
// (user, course) pair and at most one marker per (user, lesson) pair.
type EnrollmentStore interface {
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	GetEnrollment(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error)
	UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	DeleteEnrollment(ctx context.Context, id int64) error
	ListEnrollmentsByUser(ctx context.Context, userID int64) ([]*models.Enrollment, error)

	// AddCompletedLesson records a marker; it reports false when the marker
	// already existed, making repeated completion a no-op.
	AddCompletedLesson(ctx context.Context, userID, lessonID int64) (bool, error)
	// RemoveCompletedLesson deletes a marker; it reports false when no
	// marker existed.
	RemoveCompletedLesson(ctx context.Context, userID, lessonID int64) (bool, error)
	CountCompletedLessons(ctx context.Context, userID, courseID int64) (int, error)
	// DeleteCompletedLessonsByCourse purges all markers a user holds for a
	// course's lessons. Called on unenroll.
	DeleteCompletedLessonsByCourse(ctx context.Context, userID, courseID int64) error
}

// Store bundles the two data surfaces served by a backend.
type Store struct {
	Backend     Backend
	Courses     CourseStore
	Enrollments EnrollmentStore
}
