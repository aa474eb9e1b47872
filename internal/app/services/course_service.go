package services

import (
	"context"
	"fmt"

	"github.com/kaan/learnhub/internal/app/models"
	"github.com/kaan/learnhub/internal/app/models/dto"
	"github.com/kaan/learnhub/internal/app/storage"
	"github.com/kaan/learnhub/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// CourseService handles catalog queries and course administration. It talks
// to whichever storage backend was selected at startup.
type CourseService struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(store storage.Store, logger zerolog.Logger) *CourseService {
	return &CourseService{
		store:  store,
		logger: logger,
	}
}

// ListCourses retrieves the catalog page matching the filter, newest first
func (s *CourseService) ListCourses(ctx context.Context, filter dto.CourseFilterRequest, page, size int) (*dto.PaginatedResponse, error) {
	courses, err := s.store.Courses.ListCourses(ctx, storage.CourseFilter{
		Search:     filter.Search,
		Category:   filter.Category,
		Difficulty: filter.Difficulty,
		Instructor: filter.Instructor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	totalItems := len(courses)
	start, end := helpers.CalculateSliceIndices(page, size, totalItems)

	items := courses[start:end]
	if items == nil {
		items = []*models.Course{}
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(int64(totalItems), page, size),
	}, nil
}

// GetCourse retrieves a single course with its ordered lessons
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.store.Courses.GetCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lessons, err := s.store.Courses.GetLessonsByCourseID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load lessons: %w", err)
	}

	course.Lessons = lessons
	course.LessonCount = len(lessons)
	return course, nil
}

// CreateCourse creates a new catalog entry. Difficulty is stored as given;
// unknown values are tolerated and simply not matched by the standard
// filters.
func (s *CourseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	course := &models.Course{
		Title:         req.Title,
		Description:   req.Description,
		Instructor:    req.Instructor,
		Category:      req.Category,
		Difficulty:    req.Difficulty,
		DurationHours: req.DurationHours,
		ThumbnailURL:  req.ThumbnailURL,
	}

	if err := s.store.Courses.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info().Int64("courseID", course.ID).Str("title", course.Title).Msg("Course created")
	return course, nil
}

// UpdateCourse updates an existing catalog entry
func (s *CourseService) UpdateCourse(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.store.Courses.GetCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Instructor = req.Instructor
	course.Category = req.Category
	course.Difficulty = req.Difficulty
	course.DurationHours = req.DurationHours
	if req.ThumbnailURL != nil {
		course.ThumbnailURL = req.ThumbnailURL
	}

	if err := s.store.Courses.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// DeleteCourse removes a course and its lessons
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.store.Courses.DeleteCourse(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

// UpdateThumbnail stores the URL of an uploaded course thumbnail
func (s *CourseService) UpdateThumbnail(ctx context.Context, courseID int64, url string) (*models.Course, error) {
	course, err := s.store.Courses.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	course.ThumbnailURL = &url
	if err := s.store.Courses.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// AddLesson appends a lesson to a course. A zero position places the lesson
// at the end.
func (s *CourseService) AddLesson(ctx context.Context, courseID int64, req *dto.CreateLessonRequest) (*models.Lesson, error) {
	if _, err := s.store.Courses.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	position := req.Position
	if position == 0 {
		count, err := s.store.Courses.CountLessonsByCourseID(ctx, courseID)
		if err != nil {
			return nil, fmt.Errorf("failed to count lessons: %w", err)
		}
		position = count + 1
	}

	lesson := &models.Lesson{
		CourseID: courseID,
		Title:    req.Title,
		VideoURL: req.VideoURL,
		Position: position,
	}

	if err := s.store.Courses.CreateLesson(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	return lesson, nil
}

// UpdateLesson updates an existing lesson
func (s *CourseService) UpdateLesson(ctx context.Context, lessonID int64, req *dto.UpdateLessonRequest) (*models.Lesson, error) {
	lesson, err := s.store.Courses.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	lesson.Title = req.Title
	lesson.VideoURL = req.VideoURL
	if req.Position > 0 {
		lesson.Position = req.Position
	}

	if err := s.store.Courses.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}

	return lesson, nil
}

// DeleteLesson removes a lesson from its course
func (s *CourseService) DeleteLesson(ctx context.Context, lessonID int64) error {
	return s.store.Courses.DeleteLesson(ctx, lessonID)
}
