package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaan/learnhub/internal/app/models"
	"github.com/kaan/learnhub/internal/app/storage"
	"github.com/kaan/learnhub/internal/pkg/apperrors"
)

func TestOpen_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := Open(dir)
	require.NoError(t, err)

	courses := NewCourseStore(db)
	enrollments := NewEnrollmentStore(db)

	course := &models.Course{Title: "Go Basics", Description: "desc", Category: "programming"}
	require.NoError(t, courses.CreateCourse(ctx, course))

	lesson := &models.Lesson{CourseID: course.ID, Title: "Intro", VideoURL: "https://v/1.mp4", Position: 1}
	require.NoError(t, courses.CreateLesson(ctx, lesson))

	enrollment := &models.Enrollment{UserID: 7, CourseID: course.ID, Status: models.EnrollmentEnrolled}
	require.NoError(t, enrollments.CreateEnrollment(ctx, enrollment))

	added, err := enrollments.AddCompletedLesson(ctx, 7, lesson.ID)
	require.NoError(t, err)
	require.True(t, added)

	// Both namespaces must exist on disk
	require.FileExists(t, filepath.Join(dir, coursesFile))
	require.FileExists(t, filepath.Join(dir, enrollmentsFile))

	// A fresh handle over the same directory sees the same data
	reopened, err := Open(dir)
	require.NoError(t, err)

	courses2 := NewCourseStore(reopened)
	enrollments2 := NewEnrollmentStore(reopened)

	got, err := courses2.GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	require.Equal(t, "Go Basics", got.Title)
	require.Equal(t, 1, got.LessonCount)

	gotEnrollment, err := enrollments2.GetEnrollment(ctx, 7, course.ID)
	require.NoError(t, err)
	require.Equal(t, enrollment.ID, gotEnrollment.ID)

	count, err := enrollments2.CountCompletedLessons(ctx, 7, course.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// Sequences continue past the loaded rows instead of reusing IDs
	another := &models.Course{Title: "SQL Basics", Description: "desc", Category: "databases"}
	require.NoError(t, courses2.CreateCourse(ctx, another))
	require.Greater(t, another.ID, course.ID)
}

func TestOpen_MissingDirectoryIsCreated(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	_, err := Open(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestCreateEnrollment_DuplicatePair(t *testing.T) {
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	store := NewEnrollmentStore(db)
	ctx := context.Background()

	require.NoError(t, store.CreateEnrollment(ctx, &models.Enrollment{UserID: 1, CourseID: 2}))

	err = store.CreateEnrollment(ctx, &models.Enrollment{UserID: 1, CourseID: 2})
	require.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)

	// A different course is fine
	require.NoError(t, store.CreateEnrollment(ctx, &models.Enrollment{UserID: 1, CourseID: 3}))
}

func TestAddCompletedLesson_Idempotent(t *testing.T) {
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	store := NewEnrollmentStore(db)
	ctx := context.Background()

	added, err := store.AddCompletedLesson(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, added)

	added, err = store.AddCompletedLesson(ctx, 1, 10)
	require.NoError(t, err)
	require.False(t, added)

	removed, err := store.RemoveCompletedLesson(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = store.RemoveCompletedLesson(ctx, 1, 10)
	require.NoError(t, err)
	require.False(t, removed)
}

func TestDeleteCompletedLessonsByCourse_OnlyTouchesThatCourse(t *testing.T) {
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	courses := NewCourseStore(db)
	enrollments := NewEnrollmentStore(db)
	ctx := context.Background()

	courseA := &models.Course{Title: "A", Category: "x"}
	require.NoError(t, courses.CreateCourse(ctx, courseA))
	lessonA := &models.Lesson{CourseID: courseA.ID, Title: "a1", Position: 1}
	require.NoError(t, courses.CreateLesson(ctx, lessonA))

	courseB := &models.Course{Title: "B", Category: "x"}
	require.NoError(t, courses.CreateCourse(ctx, courseB))
	lessonB := &models.Lesson{CourseID: courseB.ID, Title: "b1", Position: 1}
	require.NoError(t, courses.CreateLesson(ctx, lessonB))

	_, err = enrollments.AddCompletedLesson(ctx, 1, lessonA.ID)
	require.NoError(t, err)
	_, err = enrollments.AddCompletedLesson(ctx, 1, lessonB.ID)
	require.NoError(t, err)

	require.NoError(t, enrollments.DeleteCompletedLessonsByCourse(ctx, 1, courseA.ID))

	countA, err := enrollments.CountCompletedLessons(ctx, 1, courseA.ID)
	require.NoError(t, err)
	require.Equal(t, 0, countA)

	countB, err := enrollments.CountCompletedLessons(ctx, 1, courseB.ID)
	require.NoError(t, err)
	require.Equal(t, 1, countB)
}

func TestListCourses_HidesLessonBodies(t *testing.T) {
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	store := NewCourseStore(db)
	ctx := context.Background()

	course := &models.Course{Title: "A", Category: "x"}
	require.NoError(t, store.CreateCourse(ctx, course))
	require.NoError(t, store.CreateLesson(ctx, &models.Lesson{CourseID: course.ID, Title: "a1", Position: 1}))

	listed, err := store.ListCourses(ctx, storage.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Nil(t, listed[0].Lessons)
	require.Equal(t, 1, listed[0].LessonCount)
}
