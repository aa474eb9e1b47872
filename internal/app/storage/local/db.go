// Package local implements the key-value fallback storage backend. It keeps
// catalog and enrollment data in two JSON namespaces on disk, mirroring the
// relational row shapes. Once activated it is an independent source of truth
// for the session, not a cache of the relational store.
package local

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kaan/learnhub/internal/app/models"
)

const (
	coursesFile     = "learnhub-courses.json"
	enrollmentsFile = "learnhub-enrollments.json"
)

type (
	// DB holds the two namespaces of the fallback store.
	DB struct {
		dir         string
		courses     *courseTable
		enrollments *enrollmentTable
	}

	courseTable struct {
		sync.RWMutex
		path      string
		table     map[int64]*models.Course
		courseSeq int64
		lessonSeq int64
	}

	enrollmentTable struct {
		sync.RWMutex
		path          string
		table         map[int64]*models.Enrollment
		completed     map[int64][]models.CompletedLesson // keyed by user ID
		enrollmentSeq int64
		completedSeq  int64
	}
)

// courseRows is the on-disk shape of the courses namespace.
type courseRows struct {
	Courses []*models.Course `json:"courses"`
}

// enrollmentRows is the on-disk shape of the enrollments namespace.
type enrollmentRows struct {
	Enrollments      []*models.Enrollment     `json:"enrollments"`
	CompletedLessons []models.CompletedLesson `json:"completedLessons"`
}

// Open loads (or initializes) the fallback store under dir.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory: %w", err)
	}

	db := &DB{
		dir: dir,
		courses: &courseTable{
			path:  filepath.Join(dir, coursesFile),
			table: make(map[int64]*models.Course),
		},
		enrollments: &enrollmentTable{
			path:      filepath.Join(dir, enrollmentsFile),
			table:     make(map[int64]*models.Enrollment),
			completed: make(map[int64][]models.CompletedLesson),
		},
	}

	if err := db.courses.load(); err != nil {
		return nil, err
	}
	if err := db.enrollments.load(); err != nil {
		return nil, err
	}

	return db, nil
}

func (t *courseTable) load() error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read courses namespace: %w", err)
	}

	var rows courseRows
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to decode courses namespace: %w", err)
	}

	for _, course := range rows.Courses {
		t.table[course.ID] = course
		if course.ID > t.courseSeq {
			t.courseSeq = course.ID
		}
		for _, lesson := range course.Lessons {
			if lesson.ID > t.lessonSeq {
				t.lessonSeq = lesson.ID
			}
		}
	}
	return nil
}

// save writes the namespace to disk. Callers must hold the write lock.
func (t *courseTable) save() error {
	rows := courseRows{Courses: make([]*models.Course, 0, len(t.table))}
	for _, course := range t.table {
		rows.Courses = append(rows.Courses, course)
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode courses namespace: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write courses namespace: %w", err)
	}
	return nil
}

func (t *enrollmentTable) load() error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read enrollments namespace: %w", err)
	}

	var rows enrollmentRows
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to decode enrollments namespace: %w", err)
	}

	for _, enrollment := range rows.Enrollments {
		t.table[enrollment.ID] = enrollment
		if enrollment.ID > t.enrollmentSeq {
			t.enrollmentSeq = enrollment.ID
		}
	}
	for _, marker := range rows.CompletedLessons {
		t.completed[marker.UserID] = append(t.completed[marker.UserID], marker)
		if marker.ID > t.completedSeq {
			t.completedSeq = marker.ID
		}
	}
	return nil
}

// save writes the namespace to disk. Callers must hold the write lock.
func (t *enrollmentTable) save() error {
	rows := enrollmentRows{
		Enrollments: make([]*models.Enrollment, 0, len(t.table)),
	}
	for _, enrollment := range t.table {
		rows.Enrollments = append(rows.Enrollments, enrollment)
	}
	for _, markers := range t.completed {
		rows.CompletedLessons = append(rows.CompletedLessons, markers...)
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode enrollments namespace: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write enrollments namespace: %w", err)
	}
	return nil
}
