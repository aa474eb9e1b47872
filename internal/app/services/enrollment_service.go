package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kaan/learnhub/internal/app/models"
	"github.com/kaan/learnhub/internal/app/models/dto"
	"github.com/kaan/learnhub/internal/app/storage"
	"github.com/kaan/learnhub/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// EnrollmentService handles the enrollment lifecycle and lesson progress.
// Progress is always derived from completion markers, never stored, so the
// two can never disagree.
type EnrollmentService struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(store storage.Store, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		store:  store,
		logger: logger,
	}
}

// IsEnrolled reports a user's enrollment status for a course. This check
// runs on every course page render, so it fails open: any storage error is
// logged and reported as not enrolled rather than surfaced.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, userID, courseID int64) *dto.EnrollmentStatusResponse {
	enrollment, err := s.store.Enrollments.GetEnrollment(ctx, userID, courseID)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrEnrollmentNotFound) {
			s.logger.Warn().Err(err).
				Int64("userID", userID).
				Int64("courseID", courseID).
				Msg("Enrollment status check failed, reporting not enrolled")
		}
		return &dto.EnrollmentStatusResponse{Enrolled: false}
	}

	progress, err := s.progressFor(ctx, userID, courseID)
	if err != nil {
		s.logger.Warn().Err(err).
			Int64("userID", userID).
			Int64("courseID", courseID).
			Msg("Progress computation failed, reporting zero progress")
		progress = 0
	}

	return &dto.EnrollmentStatusResponse{
		Enrolled: true,
		Status:   string(enrollment.Status),
		Progress: progress,
	}
}

// Enroll registers a user in a course. Enrolling twice is not an error: the
// existing enrollment is returned flagged as already enrolled.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID int64) (*dto.EnrollmentResponse, error) {
	if _, err := s.store.Courses.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	if existing, err := s.store.Enrollments.GetEnrollment(ctx, userID, courseID); err == nil {
		return s.enrollmentResponse(ctx, existing, true)
	} else if !apperrors.Is(err, apperrors.ErrEnrollmentNotFound) {
		return nil, fmt.Errorf("failed to check existing enrollment: %w", err)
	}

	enrollment := &models.Enrollment{
		UserID:    userID,
		CourseID:  courseID,
		Status:    models.EnrollmentEnrolled,
		StartedAt: time.Now(),
	}

	if err := s.store.Enrollments.CreateEnrollment(ctx, enrollment); err != nil {
		// Lost a race against a concurrent enroll; return the winner's row
		if apperrors.Is(err, apperrors.ErrAlreadyEnrolled) {
			existing, getErr := s.store.Enrollments.GetEnrollment(ctx, userID, courseID)
			if getErr != nil {
				return nil, fmt.Errorf("failed to load existing enrollment: %w", getErr)
			}
			return s.enrollmentResponse(ctx, existing, true)
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.logger.Info().Int64("userID", userID).Int64("courseID", courseID).Msg("User enrolled in course")

	return s.enrollmentResponse(ctx, enrollment, false)
}

// Unenroll removes an enrollment together with the user's completion markers
// for that course.
func (s *EnrollmentService) Unenroll(ctx context.Context, userID, enrollmentID int64) error {
	enrollment, err := s.store.Enrollments.GetEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return err
	}

	if enrollment.UserID != userID {
		// Do not reveal other users' enrollments
		return apperrors.ErrEnrollmentNotFound
	}

	if err := s.store.Enrollments.DeleteCompletedLessonsByCourse(ctx, userID, enrollment.CourseID); err != nil {
		return fmt.Errorf("failed to purge completion markers: %w", err)
	}

	if err := s.store.Enrollments.DeleteEnrollment(ctx, enrollmentID); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", userID).Int64("courseID", enrollment.CourseID).Msg("User unenrolled from course")
	return nil
}

// MarkLessonComplete records a lesson completion and recomputes the owning
// enrollment's progress. Marking the same lesson twice is a no-op.
func (s *EnrollmentService) MarkLessonComplete(ctx context.Context, userID, lessonID int64) (*dto.EnrollmentResponse, error) {
	lesson, err := s.store.Courses.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.store.Enrollments.GetEnrollment(ctx, userID, lesson.CourseID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrEnrollmentNotFound) {
			return nil, apperrors.ErrNotEnrolled
		}
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}

	if _, err := s.store.Enrollments.AddCompletedLesson(ctx, userID, lessonID); err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	return s.refreshProgress(ctx, enrollment)
}

// UnmarkLessonComplete removes a completion marker and recomputes progress.
// A completed enrollment reverts to in_progress when its progress drops
// below 100, clearing the completion timestamp.
func (s *EnrollmentService) UnmarkLessonComplete(ctx context.Context, userID, lessonID int64) (*dto.EnrollmentResponse, error) {
	lesson, err := s.store.Courses.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.store.Enrollments.GetEnrollment(ctx, userID, lesson.CourseID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrEnrollmentNotFound) {
			return nil, apperrors.ErrNotEnrolled
		}
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}

	if _, err := s.store.Enrollments.RemoveCompletedLesson(ctx, userID, lessonID); err != nil {
		return nil, fmt.Errorf("failed to remove completion: %w", err)
	}

	return s.refreshProgress(ctx, enrollment)
}

// ListMyEnrollments retrieves a user's enrollments newest first, each with
// its course and derived progress attached.
func (s *EnrollmentService) ListMyEnrollments(ctx context.Context, userID int64) ([]*dto.EnrollmentResponse, error) {
	enrollments, err := s.store.Enrollments.ListEnrollmentsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	responses := make([]*dto.EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		resp, err := s.enrollmentResponse(ctx, enrollment, false)
		if err != nil {
			return nil, err
		}

		course, err := s.store.Courses.GetCourseByID(ctx, enrollment.CourseID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrCourseNotFound) {
				// Course removed from the catalog; skip the orphaned row
				s.logger.Warn().Int64("courseID", enrollment.CourseID).Msg("Enrollment references missing course")
				continue
			}
			return nil, err
		}

		resp.Course = course
		responses = append(responses, resp)
	}

	return responses, nil
}

// refreshProgress recomputes an enrollment's progress and applies the
// status transition rules, persisting any change.
func (s *EnrollmentService) refreshProgress(ctx context.Context, enrollment *models.Enrollment) (*dto.EnrollmentResponse, error) {
	progress, err := s.progressFor(ctx, enrollment.UserID, enrollment.CourseID)
	if err != nil {
		return nil, err
	}

	oldStatus := enrollment.Status
	switch {
	case progress >= 100:
		enrollment.Status = models.EnrollmentCompleted
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	case progress > 0:
		enrollment.Status = models.EnrollmentInProgress
		enrollment.CompletedAt = nil
	default:
		// Zero progress only demotes a completed enrollment
		if enrollment.Status == models.EnrollmentCompleted {
			enrollment.Status = models.EnrollmentInProgress
			enrollment.CompletedAt = nil
		}
	}

	if enrollment.Status != oldStatus {
		if err := s.store.Enrollments.UpdateEnrollment(ctx, enrollment); err != nil {
			return nil, err
		}
	}

	return s.enrollmentResponse(ctx, enrollment, false)
}

// progressFor derives completion percentage from the markers: completed
// lessons over total lessons, rounded, clamped to [0,100]. A course with no
// lessons is always at zero.
func (s *EnrollmentService) progressFor(ctx context.Context, userID, courseID int64) (int, error) {
	total, err := s.store.Courses.CountLessonsByCourseID(ctx, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	if total == 0 {
		return 0, nil
	}

	completed, err := s.store.Enrollments.CountCompletedLessons(ctx, userID, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed lessons: %w", err)
	}

	progress := int(math.Round(100 * float64(completed) / float64(total)))
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return progress, nil
}

func (s *EnrollmentService) enrollmentResponse(ctx context.Context, enrollment *models.Enrollment, alreadyEnrolled bool) (*dto.EnrollmentResponse, error) {
	total, err := s.store.Courses.CountLessonsByCourseID(ctx, enrollment.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count lessons: %w", err)
	}

	completed := 0
	if total > 0 {
		completed, err = s.store.Enrollments.CountCompletedLessons(ctx, enrollment.UserID, enrollment.CourseID)
		if err != nil {
			return nil, fmt.Errorf("failed to count completed lessons: %w", err)
		}
	}

	progress := 0
	if total > 0 {
		progress = int(math.Round(100 * float64(completed) / float64(total)))
		if progress > 100 {
			progress = 100
		}
	}

	return &dto.EnrollmentResponse{
		ID:               enrollment.ID,
		UserID:           enrollment.UserID,
		CourseID:         enrollment.CourseID,
		Status:           string(enrollment.Status),
		Progress:         progress,
		LessonCount:      total,
		CompletedLessons: completed,
		StartedAt:        enrollment.StartedAt,
		CompletedAt:      enrollment.CompletedAt,
		AlreadyEnrolled:  alreadyEnrolled,
	}, nil
}
