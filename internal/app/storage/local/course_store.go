package local

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/kaan/learnhub/internal/app/models"
	"github.com/kaan/learnhub/internal/app/storage"
	"github.com/kaan/learnhub/internal/pkg/apperrors"
)

// CourseStore serves catalog data from the courses namespace. Filtering
// happens post-fetch over the in-memory table; listings are returned
// newest first like the relational path.
type CourseStore struct {
	db *DB
}

var _ storage.CourseStore = (*CourseStore)(nil)

// NewCourseStore creates a course store over the fallback database
func NewCourseStore(db *DB) *CourseStore {
	return &CourseStore{db: db}
}

// CreateCourse inserts a new course and assigns its ID
func (s *CourseStore) CreateCourse(_ context.Context, course *models.Course) error {
	t := s.db.courses
	t.Lock()
	defer t.Unlock()

	t.courseSeq++
	course.ID = t.courseSeq
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now()
	}

	stored := copyCourse(course)
	t.table[stored.ID] = stored
	return t.save()
}

// UpdateCourse updates an existing course's editable fields
func (s *CourseStore) UpdateCourse(_ context.Context, course *models.Course) error {
	t := s.db.courses
	t.Lock()
	defer t.Unlock()

	stored, ok := t.table[course.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}

	stored.Title = course.Title
	stored.Description = course.Description
	stored.Instructor = course.Instructor
	stored.Category = course.Category
	stored.Difficulty = course.Difficulty
	stored.DurationHours = course.DurationHours
	stored.ThumbnailURL = course.ThumbnailURL
	return t.save()
}

// DeleteCourse removes a course together with its lessons
func (s *CourseStore) DeleteCourse(_ context.Context, id int64) error {
	t := s.db.courses
	t.Lock()
	defer t.Unlock()

	if _, ok := t.table[id]; !ok {
		return apperrors.ErrCourseNotFound
	}

	delete(t.table, id)
	return t.save()
}

// GetCourseByID retrieves a course with its lessons and derived counts
func (s *CourseStore) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	t := s.db.courses
	t.RLock()
	defer t.RUnlock()

	stored, ok := t.table[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}

	course := copyCourse(stored)
	course.LessonCount = len(course.Lessons)
	sortLessons(course.Lessons)
	return course, nil
}

// ListCourses retrieves courses matching the filter, newest first.
// Predicates are applied after the fetch on this path.
func (s *CourseStore) ListCourses(_ context.Context, filter storage.CourseFilter) ([]*models.Course, error) {
	t := s.db.courses
	t.RLock()
	defer t.RUnlock()

	var courses []*models.Course
	for _, stored := range t.table {
		if !matchesFilter(stored, filter) {
			continue
		}
		course := copyCourse(stored)
		course.LessonCount = len(course.Lessons)
		course.Lessons = nil
		courses = append(courses, course)
	}

	sort.Slice(courses, func(i, j int) bool {
		if courses[i].CreatedAt.Equal(courses[j].CreatedAt) {
			return courses[i].ID > courses[j].ID
		}
		return courses[i].CreatedAt.After(courses[j].CreatedAt)
	})

	return courses, nil
}

// CreateLesson appends a lesson to its course
func (s *CourseStore) CreateLesson(_ context.Context, lesson *models.Lesson) error {
	t := s.db.courses
	t.Lock()
	defer t.Unlock()

	course, ok := t.table[lesson.CourseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}

	t.lessonSeq++
	lesson.ID = t.lessonSeq
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = time.Now()
	}

	course.Lessons = append(course.Lessons, *lesson)
	return t.save()
}

// UpdateLesson updates an existing lesson in place
func (s *CourseStore) UpdateLesson(_ context.Context, lesson *models.Lesson) error {
	t := s.db.courses
	t.Lock()
	defer t.Unlock()

	for _, course := range t.table {
		for i := range course.Lessons {
			if course.Lessons[i].ID == lesson.ID {
				course.Lessons[i].Title = lesson.Title
				course.Lessons[i].VideoURL = lesson.VideoURL
				course.Lessons[i].Position = lesson.Position
				return t.save()
			}
		}
	}

	return apperrors.ErrLessonNotFound
}

// DeleteLesson removes a lesson from its course
func (s *CourseStore) DeleteLesson(_ context.Context, id int64) error {
	t := s.db.courses
	t.Lock()
	defer t.Unlock()

	for _, course := range t.table {
		for i := range course.Lessons {
			if course.Lessons[i].ID == id {
				course.Lessons = append(course.Lessons[:i], course.Lessons[i+1:]...)
				return t.save()
			}
		}
	}

	return apperrors.ErrLessonNotFound
}

// GetLessonByID retrieves a lesson by ID
func (s *CourseStore) GetLessonByID(_ context.Context, id int64) (*models.Lesson, error) {
	t := s.db.courses
	t.RLock()
	defer t.RUnlock()

	for _, course := range t.table {
		for i := range course.Lessons {
			if course.Lessons[i].ID == id {
				lesson := course.Lessons[i]
				return &lesson, nil
			}
		}
	}

	return nil, apperrors.ErrLessonNotFound
}

// GetLessonsByCourseID retrieves a course's lessons in position order
func (s *CourseStore) GetLessonsByCourseID(_ context.Context, courseID int64) ([]models.Lesson, error) {
	t := s.db.courses
	t.RLock()
	defer t.RUnlock()

	course, ok := t.table[courseID]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}

	lessons := make([]models.Lesson, len(course.Lessons))
	copy(lessons, course.Lessons)
	sortLessons(lessons)
	return lessons, nil
}

// CountLessonsByCourseID returns the number of lessons a course owns
func (s *CourseStore) CountLessonsByCourseID(_ context.Context, courseID int64) (int, error) {
	t := s.db.courses
	t.RLock()
	defer t.RUnlock()

	course, ok := t.table[courseID]
	if !ok {
		return 0, nil
	}
	return len(course.Lessons), nil
}

func matchesFilter(course *models.Course, filter storage.CourseFilter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(course.Title), needle) &&
			!strings.Contains(strings.ToLower(course.Description), needle) {
			return false
		}
	}
	if filter.Category != "" && course.Category != filter.Category {
		return false
	}
	if filter.Difficulty != "" {
		if course.Difficulty == nil || *course.Difficulty != filter.Difficulty {
			return false
		}
	}
	if filter.Instructor != "" {
		if course.Instructor == nil || *course.Instructor != filter.Instructor {
			return false
		}
	}
	return true
}

// copyCourse clones a course row so callers never alias table memory.
func copyCourse(course *models.Course) *models.Course {
	clone := *course
	if course.Lessons != nil {
		clone.Lessons = make([]models.Lesson, len(course.Lessons))
		copy(clone.Lessons, course.Lessons)
	}
	return &clone
}

func sortLessons(lessons []models.Lesson) {
	sort.Slice(lessons, func(i, j int) bool {
		if lessons[i].Position == lessons[j].Position {
			return lessons[i].ID < lessons[j].ID
		}
		return lessons[i].Position < lessons[j].Position
	})
}
