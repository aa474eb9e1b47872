package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaan/learnhub/internal/app/models"
	"github.com/kaan/learnhub/internal/app/storage"
	"github.com/kaan/learnhub/internal/pkg/apperrors"
	"github.com/kaan/learnhub/internal/pkg/dberrors"
)

// EnrollmentStore serves enrollment and completed-lesson data from the
// relational tables.
type EnrollmentStore struct {
	db *pgxpool.Pool
}

var _ storage.EnrollmentStore = (*EnrollmentStore)(nil)

// NewEnrollmentStore creates a new relational enrollment store
func NewEnrollmentStore(db *pgxpool.Pool) *EnrollmentStore {
	return &EnrollmentStore{db: db}
}

// CreateEnrollment inserts a new enrollment. The unique constraint on
// (user_id, course_id) backs up the pre-insert existence check in the
// service layer.
func (s *EnrollmentStore) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (user_id, course_id, status, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRow(ctx, query,
		enrollment.UserID,
		enrollment.CourseID,
		enrollment.Status,
		enrollment.StartedAt,
		enrollment.CompletedAt,
	).Scan(&enrollment.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	return nil
}

// GetEnrollment retrieves the enrollment for a (user, course) pair
func (s *EnrollmentStore) GetEnrollment(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, status, started_at, completed_at
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2
	`

	var enrollment models.Enrollment
	err := s.db.QueryRow(ctx, query, userID, courseID).Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CourseID,
		&enrollment.Status,
		&enrollment.StartedAt,
		&enrollment.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &enrollment, nil
}

// GetEnrollmentByID retrieves an enrollment by ID
func (s *EnrollmentStore) GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, status, started_at, completed_at
		FROM enrollments
		WHERE id = $1
	`

	var enrollment models.Enrollment
	err := s.db.QueryRow(ctx, query, id).Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CourseID,
		&enrollment.Status,
		&enrollment.StartedAt,
		&enrollment.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &enrollment, nil
}

// UpdateEnrollment persists status and completion changes
func (s *EnrollmentStore) UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		UPDATE enrollments
		SET status = $1, completed_at = $2
		WHERE id = $3
	`

	cmdTag, err := s.db.Exec(ctx, query, enrollment.Status, enrollment.CompletedAt, enrollment.ID)
	if err != nil {
		return fmt.Errorf("error updating enrollment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// DeleteEnrollment removes an enrollment entirely
func (s *EnrollmentStore) DeleteEnrollment(ctx context.Context, id int64) error {
	cmdTag, err := s.db.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting enrollment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// ListEnrollmentsByUser retrieves all of a user's enrollments, newest first
func (s *EnrollmentStore) ListEnrollmentsByUser(ctx context.Context, userID int64) ([]*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, status, started_at, completed_at
		FROM enrollments
		WHERE user_id = $1
		ORDER BY started_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var enrollment models.Enrollment
		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.UserID,
			&enrollment.CourseID,
			&enrollment.Status,
			&enrollment.StartedAt,
			&enrollment.CompletedAt,
		); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, &enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

// AddCompletedLesson records a completion marker. ON CONFLICT makes the
// second call for the same (user, lesson) pair a no-op.
func (s *EnrollmentStore) AddCompletedLesson(ctx context.Context, userID, lessonID int64) (bool, error) {
	query := `
		INSERT INTO completed_lessons (user_id, lesson_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, lesson_id) DO NOTHING
	`

	cmdTag, err := s.db.Exec(ctx, query, userID, lessonID)
	if err != nil {
		return false, fmt.Errorf("error recording completed lesson: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// RemoveCompletedLesson deletes a completion marker
func (s *EnrollmentStore) RemoveCompletedLesson(ctx context.Context, userID, lessonID int64) (bool, error) {
	cmdTag, err := s.db.Exec(ctx,
		`DELETE FROM completed_lessons WHERE user_id = $1 AND lesson_id = $2`,
		userID, lessonID)
	if err != nil {
		return false, fmt.Errorf("error removing completed lesson: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// CountCompletedLessons counts a user's completion markers within a course
func (s *EnrollmentStore) CountCompletedLessons(ctx context.Context, userID, courseID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM completed_lessons cl
		JOIN lessons l ON l.id = cl.lesson_id
		WHERE cl.user_id = $1 AND l.course_id = $2
	`

	var count int
	err := s.db.QueryRow(ctx, query, userID, courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting completed lessons: %w", err)
	}

	return count, nil
}

// DeleteCompletedLessonsByCourse purges a user's markers for a course
func (s *EnrollmentStore) DeleteCompletedLessonsByCourse(ctx context.Context, userID, courseID int64) error {
	query := `
		DELETE FROM completed_lessons cl
		USING lessons l
		WHERE cl.lesson_id = l.id AND cl.user_id = $1 AND l.course_id = $2
	`

	_, err := s.db.Exec(ctx, query, userID, courseID)
	if err != nil {
		return fmt.Errorf("error purging completed lessons: %w", err)
	}

	return nil
}
