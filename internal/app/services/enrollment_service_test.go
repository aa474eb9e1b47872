package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/kaan/learnhub/internal/app/models"
	"github.com/kaan/learnhub/internal/app/storage"
	"github.com/kaan/learnhub/internal/app/storage/local"
	"github.com/kaan/learnhub/internal/pkg/apperrors"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	db, err := local.Open(t.TempDir())
	require.NoError(t, err)

	return storage.Store{
		Backend:     storage.BackendLocal,
		Courses:     local.NewCourseStore(db),
		Enrollments: local.NewEnrollmentStore(db),
	}
}

// seedCourse creates a course with the given number of lessons and returns it
// together with the lesson IDs in position order.
func seedCourse(t *testing.T, store storage.Store, lessonCount int) (*models.Course, []int64) {
	t.Helper()
	ctx := context.Background()

	course := &models.Course{
		Title:       "Test Course",
		Description: "A course used in tests",
		Category:    "testing",
	}
	require.NoError(t, store.Courses.CreateCourse(ctx, course))

	lessonIDs := make([]int64, 0, lessonCount)
	for i := 1; i <= lessonCount; i++ {
		lesson := &models.Lesson{
			CourseID: course.ID,
			Title:    fmt.Sprintf("Lesson %d", i),
			VideoURL: fmt.Sprintf("https://videos.example.com/%d.mp4", i),
			Position: i,
		}
		require.NoError(t, store.Courses.CreateLesson(ctx, lesson))
		lessonIDs = append(lessonIDs, lesson.ID)
	}

	return course, lessonIDs
}

func TestEnroll_CreatesEnrollment(t *testing.T) {
	store := newTestStore(t)
	svc := NewEnrollmentService(store, zerolog.Nop())
	course, _ := seedCourse(t, store, 3)

	resp, err := svc.Enroll(context.Background(), 1, course.ID)
	require.NoError(t, err)

	require.False(t, resp.AlreadyEnrolled)
	require.Equal(t, string(models.EnrollmentEnrolled), resp.Status)
	require.Equal(t, 0, resp.Progress)
	require.Equal(t, 3, resp.LessonCount)
	require.Equal(t, 0, resp.CompletedLessons)
	require.Nil(t, resp.CompletedAt)
}

func TestEnroll_CourseWithoutLessons(t *testing.T) {
	store := newTestStore(t)
	svc := NewEnrollmentService(store, zerolog.Nop())
	course, _ := seedCourse(t, store, 0)

	resp, err := svc.Enroll(context.Background(), 1, course.ID)
	require.NoError(t, err)

	// A course with no lessons reports zero progress, never a division error
	require.Equal(t, string(models.EnrollmentEnrolled), resp.Status)
	require.Equal(t, 0, resp.Progress)
	require.Equal(t, 0, resp.LessonCount)
	require.Equal(t, 0, resp.CompletedLessons)
	require.Nil(t, resp.CompletedAt)

	status := svc.IsEnrolled(context.Background(), 1, course.ID)
	require.True(t, status.Enrolled)
	require.Equal(t, string(models.EnrollmentEnrolled), status.Status)
	require.Equal(t, 0, status.Progress)
}

func TestEnroll_Twice_ReturnsExistingEnrollment(t *testing.T) {
	store := newTestStore(t)
	svc := NewEnrollmentService(store, zerolog.Nop())
	course, _ := seedCourse(t, store, 1)

	first, err := svc.Enroll(context.Background(), 1, course.ID)
	require.NoError(t, err)

	second, err := svc.Enroll(context.Background(), 1, course.ID)
	require.NoError(t, err)

	require.True(t, second.AlreadyEnrolled)
	require.Equal(t, first.ID, second.ID)
}

func TestEnroll_CourseNotFound(t *testing.T) {
	store := newTestStore(t)
	svc := NewEnrollmentService(store, zerolog.Nop())

	_, err := svc.Enroll(context.Background(), 1, 999)
	require.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestMarkLessonComplete_ProgressAndStatusTransitions(t *testing.T) {
	store := newTestStore(t)
	svc := NewEnrollmentService(store, zerolog.Nop())
	course, lessons := seedCourse(t, store, 3)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, 1, course.ID)
	require.NoError(t, err)

	resp, err := svc.MarkLessonComplete(ctx, 1, lessons[0])
	require.NoError(t, err)
	require.Equal(t, 33, resp.Progress)
	require.Equal(t, string(models.EnrollmentInProgress), resp.Status)

	resp, err = svc.MarkLessonComplete(ctx, 1, lessons[1])
	require.NoError(t, err)
	require.Equal(t, 67, resp.Progress)

	resp, err = svc.MarkLessonComplete(ctx, 1, lessons[2])
	require.NoError(t, err)
	require.Equal(t, 100, resp.Progress)
	require.Equal(t, string(models.EnrollmentCompleted), resp.Status)
	require.NotNil(t, resp.CompletedAt)

	// Marking an already-completed lesson is a no-op
	again, err := svc.MarkLessonComplete(ctx, 1, lessons[2])
	require.NoError(t, err)
	require.Equal(t, 100, again.Progress)
	require.Equal(t, 3, again.CompletedLessons)
}

func TestUnmarkLessonComplete_RevertsCompletion(t *testing.T) {
	store := newTestStore(t)
	svc := NewEnrollmentService(store, zerolog.Nop())
	course, lessons := seedCourse(t, store, 2)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, 1, course.ID)
	require.NoError(t, err)

	for _, lessonID := range lessons {
		_, err = svc.MarkLessonComplete(ctx, 1, lessonID)
		require.NoError(t, err)
	}

	resp, err := svc.UnmarkLessonComplete(ctx, 1, lessons[1])
	require.NoError(t, err)
	require.Equal(t, 50, resp.Progress)
	require.Equal(t, string(models.EnrollmentInProgress), resp.Status)
	require.Nil(t, resp.CompletedAt)
}

func TestUnmarkLessonComplete_WithoutMarkerKeepsEnrolled(t *testing.T) {
	store := newTestStore(t)
	svc := NewEnrollmentService(store, zerolog.Nop())
	course, lessons := seedCourse(t, store, 2)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, 1, course.ID)
	require.NoError(t, err)

	// Zero progress never demotes a fresh enrollment
	resp, err := svc.UnmarkLessonComplete(ctx, 1, lessons[0])
	require.NoError(t, err)
	require.Equal(t, 0, resp.Progress)
	require.Equal(t, string(models.EnrollmentEnrolled), resp.Status)
}

func TestMarkLessonComplete_NotEnrolled(t *testing.T) {
	store := newTestStore(t)
	svc := NewEnrollmentService(store, zerolog.Nop())
	_, lessons := seedCourse(t, store, 1)

	_, err := svc.MarkLessonComplete(context.Background(), 1, lessons[0])
	require.ErrorIs(t, err, apperrors.ErrNotEnrolled)
}

func TestUnenroll_PurgesCompletionMarkers(t *testing.T) {
	store := newTestStore(t)
	svc := NewEnrollmentService(store, zerolog.Nop())
	course, lessons := seedCourse(t, store, 2)
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, 1, course.ID)
	require.NoError(t, err)

	_, err = svc.MarkLessonComplete(ctx, 1, lessons[0])
	require.NoError(t, err)

	require.NoError(t, svc.Unenroll(ctx, 1, enrollment.ID))

	// A fresh enrollment starts from scratch
	resp, err := svc.Enroll(ctx, 1, course.ID)
	require.NoError(t, err)
	require.False(t, resp.AlreadyEnrolled)
	require.Equal(t, 0, resp.Progress)
	require.Equal(t, 0, resp.CompletedLessons)
}

func TestUnenroll_OtherUsersEnrollmentIsHidden(t *testing.T) {
	store := newTestStore(t)
	svc := NewEnrollmentService(store, zerolog.Nop())
	course, _ := seedCourse(t, store, 1)
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, 1, course.ID)
	require.NoError(t, err)

	err = svc.Unenroll(ctx, 2, enrollment.ID)
	require.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
}

func TestIsEnrolled(t *testing.T) {
	store := newTestStore(t)
	svc := NewEnrollmentService(store, zerolog.Nop())
	course, lessons := seedCourse(t, store, 2)
	ctx := context.Background()

	status := svc.IsEnrolled(ctx, 1, course.ID)
	require.False(t, status.Enrolled)

	_, err := svc.Enroll(ctx, 1, course.ID)
	require.NoError(t, err)
	_, err = svc.MarkLessonComplete(ctx, 1, lessons[0])
	require.NoError(t, err)

	status = svc.IsEnrolled(ctx, 1, course.ID)
	require.True(t, status.Enrolled)
	require.Equal(t, string(models.EnrollmentInProgress), status.Status)
	require.Equal(t, 50, status.Progress)
}

func TestListMyEnrollments_AttachesCourses(t *testing.T) {
	store := newTestStore(t)
	svc := NewEnrollmentService(store, zerolog.Nop())
	ctx := context.Background()

	first, _ := seedCourse(t, store, 1)
	second, _ := seedCourse(t, store, 2)

	_, err := svc.Enroll(ctx, 1, first.ID)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, 1, second.ID)
	require.NoError(t, err)

	responses, err := svc.ListMyEnrollments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	for _, resp := range responses {
		require.NotNil(t, resp.Course)
		require.Equal(t, resp.CourseID, resp.Course.ID)
	}
}

func TestListMyEnrollments_SkipsOrphanedRows(t *testing.T) {
	store := newTestStore(t)
	svc := NewEnrollmentService(store, zerolog.Nop())
	ctx := context.Background()

	course, _ := seedCourse(t, store, 1)
	_, err := svc.Enroll(ctx, 1, course.ID)
	require.NoError(t, err)

	require.NoError(t, store.Courses.DeleteCourse(ctx, course.ID))

	responses, err := svc.ListMyEnrollments(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, responses)
}
