package local

import (
	"context"
	"sort"
	"time"

	"github.com/kaan/learnhub/internal/app/models"
	"github.com/kaan/learnhub/internal/app/storage"
	"github.com/kaan/learnhub/internal/pkg/apperrors"
)

// EnrollmentStore serves enrollment and completed-lesson data from the
// enrollments namespace. Uniqueness per (user, course) and per
// (user, lesson) is enforced by scanning the in-memory tables under lock.
type EnrollmentStore struct {
	db *DB
}

var _ storage.EnrollmentStore = (*EnrollmentStore)(nil)

// NewEnrollmentStore creates an enrollment store over the fallback database
func NewEnrollmentStore(db *DB) *EnrollmentStore {
	return &EnrollmentStore{db: db}
}

// CreateEnrollment inserts a new enrollment, rejecting duplicates for the
// same (user, course) pair.
func (s *EnrollmentStore) CreateEnrollment(_ context.Context, enrollment *models.Enrollment) error {
	t := s.db.enrollments
	t.Lock()
	defer t.Unlock()

	for _, existing := range t.table {
		if existing.UserID == enrollment.UserID && existing.CourseID == enrollment.CourseID {
			return apperrors.ErrAlreadyEnrolled
		}
	}

	t.enrollmentSeq++
	enrollment.ID = t.enrollmentSeq
	if enrollment.StartedAt.IsZero() {
		enrollment.StartedAt = time.Now()
	}

	stored := *enrollment
	t.table[stored.ID] = &stored
	return t.save()
}

// GetEnrollment retrieves the enrollment for a (user, course) pair
func (s *EnrollmentStore) GetEnrollment(_ context.Context, userID, courseID int64) (*models.Enrollment, error) {
	t := s.db.enrollments
	t.RLock()
	defer t.RUnlock()

	for _, stored := range t.table {
		if stored.UserID == userID && stored.CourseID == courseID {
			enrollment := *stored
			return &enrollment, nil
		}
	}

	return nil, apperrors.ErrEnrollmentNotFound
}

// GetEnrollmentByID retrieves an enrollment by ID
func (s *EnrollmentStore) GetEnrollmentByID(_ context.Context, id int64) (*models.Enrollment, error) {
	t := s.db.enrollments
	t.RLock()
	defer t.RUnlock()

	stored, ok := t.table[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}

	enrollment := *stored
	return &enrollment, nil
}

// UpdateEnrollment persists status and completion changes
func (s *EnrollmentStore) UpdateEnrollment(_ context.Context, enrollment *models.Enrollment) error {
	t := s.db.enrollments
	t.Lock()
	defer t.Unlock()

	stored, ok := t.table[enrollment.ID]
	if !ok {
		return apperrors.ErrEnrollmentNotFound
	}

	stored.Status = enrollment.Status
	stored.CompletedAt = enrollment.CompletedAt
	return t.save()
}

// DeleteEnrollment removes an enrollment entirely
func (s *EnrollmentStore) DeleteEnrollment(_ context.Context, id int64) error {
	t := s.db.enrollments
	t.Lock()
	defer t.Unlock()

	if _, ok := t.table[id]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}

	delete(t.table, id)
	return t.save()
}

// ListEnrollmentsByUser retrieves all of a user's enrollments, newest first
func (s *EnrollmentStore) ListEnrollmentsByUser(_ context.Context, userID int64) ([]*models.Enrollment, error) {
	t := s.db.enrollments
	t.RLock()
	defer t.RUnlock()

	var enrollments []*models.Enrollment
	for _, stored := range t.table {
		if stored.UserID != userID {
			continue
		}
		enrollment := *stored
		enrollments = append(enrollments, &enrollment)
	}

	sort.Slice(enrollments, func(i, j int) bool {
		if enrollments[i].StartedAt.Equal(enrollments[j].StartedAt) {
			return enrollments[i].ID > enrollments[j].ID
		}
		return enrollments[i].StartedAt.After(enrollments[j].StartedAt)
	})

	return enrollments, nil
}

// AddCompletedLesson records a completion marker. A second call for the
// same (user, lesson) pair is a no-op reporting false.
func (s *EnrollmentStore) AddCompletedLesson(_ context.Context, userID, lessonID int64) (bool, error) {
	t := s.db.enrollments
	t.Lock()
	defer t.Unlock()

	for _, marker := range t.completed[userID] {
		if marker.LessonID == lessonID {
			return false, nil
		}
	}

	t.completedSeq++
	t.completed[userID] = append(t.completed[userID], models.CompletedLesson{
		ID:          t.completedSeq,
		UserID:      userID,
		LessonID:    lessonID,
		CompletedAt: time.Now(),
	})
	if err := t.save(); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveCompletedLesson deletes a completion marker, reporting whether one
// existed.
func (s *EnrollmentStore) RemoveCompletedLesson(_ context.Context, userID, lessonID int64) (bool, error) {
	t := s.db.enrollments
	t.Lock()
	defer t.Unlock()

	markers := t.completed[userID]
	for i := range markers {
		if markers[i].LessonID == lessonID {
			t.completed[userID] = append(markers[:i], markers[i+1:]...)
			if err := t.save(); err != nil {
				return false, err
			}
			return true, nil
		}
	}

	return false, nil
}

// CountCompletedLessons counts a user's completion markers within a course
func (s *EnrollmentStore) CountCompletedLessons(_ context.Context, userID, courseID int64) (int, error) {
	lessonIDs := s.courseLessonIDs(courseID)

	t := s.db.enrollments
	t.RLock()
	defer t.RUnlock()

	count := 0
	for _, marker := range t.completed[userID] {
		if lessonIDs[marker.LessonID] {
			count++
		}
	}
	return count, nil
}

// DeleteCompletedLessonsByCourse purges a user's markers for a course
func (s *EnrollmentStore) DeleteCompletedLessonsByCourse(_ context.Context, userID, courseID int64) error {
	lessonIDs := s.courseLessonIDs(courseID)

	t := s.db.enrollments
	t.Lock()
	defer t.Unlock()

	markers := t.completed[userID]
	kept := markers[:0]
	changed := false
	for _, marker := range markers {
		if lessonIDs[marker.LessonID] {
			changed = true
			continue
		}
		kept = append(kept, marker)
	}
	if !changed {
		return nil
	}

	t.completed[userID] = kept
	return t.save()
}

// courseLessonIDs snapshots the lesson IDs a course owns. Taken outside the
// enrollment lock so the two namespace locks never nest.
func (s *EnrollmentStore) courseLessonIDs(courseID int64) map[int64]bool {
	ct := s.db.courses
	ct.RLock()
	defer ct.RUnlock()

	ids := make(map[int64]bool)
	if course, ok := ct.table[courseID]; ok {
		for _, lesson := range course.Lessons {
			ids[lesson.ID] = true
		}
	}
	return ids
}
