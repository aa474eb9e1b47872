package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/kaan/learnhub/internal/app/models"
	"github.com/kaan/learnhub/internal/app/models/dto"
	"github.com/kaan/learnhub/internal/pkg/apperrors"
)

func strPtr(s string) *string { return &s }

func createCourse(t *testing.T, svc *CourseService, title, category string, difficulty *string) *models.Course {
	t.Helper()

	course, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{
		Title:       title,
		Description: "Description of " + title,
		Category:    category,
		Difficulty:  difficulty,
	})
	require.NoError(t, err)
	return course
}

func listTitles(t *testing.T, resp *dto.PaginatedResponse) []string {
	t.Helper()

	courses, ok := resp.Items.([]*models.Course)
	require.True(t, ok, "Items should be a course slice")

	titles := make([]string, 0, len(courses))
	for _, course := range courses {
		titles = append(titles, course.Title)
	}
	return titles
}

func TestListCourses_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	svc := NewCourseService(store, zerolog.Nop())

	createCourse(t, svc, "First", "programming", nil)
	createCourse(t, svc, "Second", "programming", nil)
	createCourse(t, svc, "Third", "databases", nil)

	resp, err := svc.ListCourses(context.Background(), dto.CourseFilterRequest{}, 1, 10)
	require.NoError(t, err)

	require.Equal(t, []string{"Third", "Second", "First"}, listTitles(t, resp))
	require.Equal(t, int64(3), resp.Pagination.TotalItems)
}

func TestListCourses_Filters(t *testing.T) {
	store := newTestStore(t)
	svc := NewCourseService(store, zerolog.Nop())

	createCourse(t, svc, "Go Basics", "programming", strPtr("beginner"))
	createCourse(t, svc, "Advanced Go", "programming", strPtr("advanced"))
	createCourse(t, svc, "SQL Basics", "databases", strPtr("beginner"))

	tests := []struct {
		name   string
		filter dto.CourseFilterRequest
		want   []string
	}{
		{
			name:   "by category",
			filter: dto.CourseFilterRequest{Category: "databases"},
			want:   []string{"SQL Basics"},
		},
		{
			name:   "by difficulty",
			filter: dto.CourseFilterRequest{Difficulty: "beginner"},
			want:   []string{"SQL Basics", "Go Basics"},
		},
		{
			name:   "search is case-insensitive",
			filter: dto.CourseFilterRequest{Search: "go"},
			want:   []string{"Advanced Go", "Go Basics"},
		},
		{
			name:   "filters combine with AND",
			filter: dto.CourseFilterRequest{Category: "programming", Difficulty: "beginner"},
			want:   []string{"Go Basics"},
		},
		{
			name:   "no match",
			filter: dto.CourseFilterRequest{Search: "rust"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.ListCourses(context.Background(), tt.filter, 1, 10)
			require.NoError(t, err)
			require.Equal(t, tt.want, listTitles(t, resp))
		})
	}
}

func TestListCourses_Pagination(t *testing.T) {
	store := newTestStore(t)
	svc := NewCourseService(store, zerolog.Nop())

	for _, title := range []string{"A", "B", "C", "D", "E"} {
		createCourse(t, svc, title, "programming", nil)
	}

	resp, err := svc.ListCourses(context.Background(), dto.CourseFilterRequest{}, 2, 2)
	require.NoError(t, err)

	require.Equal(t, []string{"C", "B"}, listTitles(t, resp))
	require.Equal(t, 2, resp.Pagination.CurrentPage)
	require.Equal(t, 3, resp.Pagination.TotalPages)
	require.Equal(t, int64(5), resp.Pagination.TotalItems)

	// A page past the end is empty, not an error
	resp, err = svc.ListCourses(context.Background(), dto.CourseFilterRequest{}, 10, 2)
	require.NoError(t, err)
	require.Empty(t, listTitles(t, resp))
}

func TestGetCourse_WithOrderedLessons(t *testing.T) {
	store := newTestStore(t)
	svc := NewCourseService(store, zerolog.Nop())
	course := createCourse(t, svc, "Go Basics", "programming", nil)
	ctx := context.Background()

	_, err := svc.AddLesson(ctx, course.ID, &dto.CreateLessonRequest{
		Title: "Second", VideoURL: "https://videos.example.com/2.mp4", Position: 2,
	})
	require.NoError(t, err)
	_, err = svc.AddLesson(ctx, course.ID, &dto.CreateLessonRequest{
		Title: "First", VideoURL: "https://videos.example.com/1.mp4", Position: 1,
	})
	require.NoError(t, err)

	got, err := svc.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.LessonCount)
	require.Equal(t, "First", got.Lessons[0].Title)
	require.Equal(t, "Second", got.Lessons[1].Title)
}

func TestGetCourse_NotFound(t *testing.T) {
	store := newTestStore(t)
	svc := NewCourseService(store, zerolog.Nop())

	_, err := svc.GetCourse(context.Background(), 42)
	require.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestAddLesson_ZeroPositionAppends(t *testing.T) {
	store := newTestStore(t)
	svc := NewCourseService(store, zerolog.Nop())
	course := createCourse(t, svc, "Go Basics", "programming", nil)
	ctx := context.Background()

	first, err := svc.AddLesson(ctx, course.ID, &dto.CreateLessonRequest{
		Title: "Intro", VideoURL: "https://videos.example.com/1.mp4",
	})
	require.NoError(t, err)
	require.Equal(t, 1, first.Position)

	second, err := svc.AddLesson(ctx, course.ID, &dto.CreateLessonRequest{
		Title: "Setup", VideoURL: "https://videos.example.com/2.mp4",
	})
	require.NoError(t, err)
	require.Equal(t, 2, second.Position)
}

func TestUpdateCourse_NilThumbnailKeepsExisting(t *testing.T) {
	store := newTestStore(t)
	svc := NewCourseService(store, zerolog.Nop())
	ctx := context.Background()

	course := createCourse(t, svc, "Go Basics", "programming", nil)
	_, err := svc.UpdateThumbnail(ctx, course.ID, "/uploads/thumbnails/abc.png")
	require.NoError(t, err)

	updated, err := svc.UpdateCourse(ctx, course.ID, &dto.UpdateCourseRequest{
		Title:       "Go Basics, 2nd Edition",
		Description: course.Description,
		Category:    course.Category,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ThumbnailURL)
	require.Equal(t, "/uploads/thumbnails/abc.png", *updated.ThumbnailURL)
}

func TestDeleteCourse_RemovesLessons(t *testing.T) {
	store := newTestStore(t)
	svc := NewCourseService(store, zerolog.Nop())
	ctx := context.Background()

	course := createCourse(t, svc, "Go Basics", "programming", nil)
	lesson, err := svc.AddLesson(ctx, course.ID, &dto.CreateLessonRequest{
		Title: "Intro", VideoURL: "https://videos.example.com/1.mp4",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCourse(ctx, course.ID))

	_, err = store.Courses.GetLessonByID(ctx, lesson.ID)
	require.ErrorIs(t, err, apperrors.ErrLessonNotFound)
}
