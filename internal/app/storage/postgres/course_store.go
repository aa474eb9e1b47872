package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaan/learnhub/internal/app/models"
	"github.com/kaan/learnhub/internal/app/storage"
	"github.com/kaan/learnhub/internal/pkg/apperrors"
)

// CourseStore serves catalog data from the relational tables.
type CourseStore struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

var _ storage.CourseStore = (*CourseStore)(nil)

// NewCourseStore creates a new relational course store
func NewCourseStore(db *pgxpool.Pool) *CourseStore {
	return &CourseStore{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateCourse inserts a new course
func (s *CourseStore) CreateCourse(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, description, instructor, category, difficulty, duration_hours, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := s.db.QueryRow(ctx, query,
		course.Title,
		course.Description,
		course.Instructor,
		course.Category,
		course.Difficulty,
		course.DurationHours,
		course.ThumbnailURL,
	).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// UpdateCourse updates an existing course
func (s *CourseStore) UpdateCourse(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = $1, description = $2, instructor = $3, category = $4,
		    difficulty = $5, duration_hours = $6, thumbnail_url = $7
		WHERE id = $8
	`

	cmdTag, err := s.db.Exec(ctx, query,
		course.Title,
		course.Description,
		course.Instructor,
		course.Category,
		course.Difficulty,
		course.DurationHours,
		course.ThumbnailURL,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// DeleteCourse deletes a course. Lessons cascade via the schema.
func (s *CourseStore) DeleteCourse(ctx context.Context, id int64) error {
	cmdTag, err := s.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// GetCourseByID retrieves a course with its derived rating and lesson count
func (s *CourseStore) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT c.id, c.title, c.description, c.instructor, c.category, c.difficulty,
		       c.duration_hours, c.thumbnail_url, c.created_at,
		       COALESCE(AVG(r.rating), 0) AS average_rating,
		       (SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id) AS lesson_count
		FROM courses c
		LEFT JOIN reviews r ON r.course_id = c.id
		WHERE c.id = $1
		GROUP BY c.id
	`

	var course models.Course
	err := s.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Instructor,
		&course.Category,
		&course.Difficulty,
		&course.DurationHours,
		&course.ThumbnailURL,
		&course.CreatedAt,
		&course.AverageRating,
		&course.LessonCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return &course, nil
}

// ListCourses retrieves courses matching the filter, newest first. Predicates
// are pushed into the query on this path.
func (s *CourseStore) ListCourses(ctx context.Context, filter storage.CourseFilter) ([]*models.Course, error) {
	builder := s.sb.Select(
		"c.id", "c.title", "c.description", "c.instructor", "c.category", "c.difficulty",
		"c.duration_hours", "c.thumbnail_url", "c.created_at",
		"COALESCE(AVG(r.rating), 0) AS average_rating",
		"(SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id) AS lesson_count",
	).
		From("courses c").
		LeftJoin("reviews r ON r.course_id = c.id").
		GroupBy("c.id").
		OrderBy("c.created_at DESC")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"c.title": pattern},
			squirrel.ILike{"c.description": pattern},
		})
	}
	if filter.Category != "" {
		builder = builder.Where(squirrel.Eq{"c.category": filter.Category})
	}
	if filter.Difficulty != "" {
		builder = builder.Where(squirrel.Eq{"c.difficulty": filter.Difficulty})
	}
	if filter.Instructor != "" {
		builder = builder.Where(squirrel.Eq{"c.instructor": filter.Instructor})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Description,
			&course.Instructor,
			&course.Category,
			&course.Difficulty,
			&course.DurationHours,
			&course.ThumbnailURL,
			&course.CreatedAt,
			&course.AverageRating,
			&course.LessonCount,
		); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// CreateLesson inserts a new lesson
func (s *CourseStore) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	query := `
		INSERT INTO lessons (course_id, title, video_url, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := s.db.QueryRow(ctx, query,
		lesson.CourseID,
		lesson.Title,
		lesson.VideoURL,
		lesson.Position,
	).Scan(&lesson.ID, &lesson.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating lesson: %w", err)
	}

	return nil
}

// UpdateLesson updates an existing lesson
func (s *CourseStore) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	query := `
		UPDATE lessons
		SET title = $1, video_url = $2, position = $3
		WHERE id = $4
	`

	cmdTag, err := s.db.Exec(ctx, query, lesson.Title, lesson.VideoURL, lesson.Position, lesson.ID)
	if err != nil {
		return fmt.Errorf("error updating lesson: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}

	return nil
}

// DeleteLesson deletes a lesson by ID
func (s *CourseStore) DeleteLesson(ctx context.Context, id int64) error {
	cmdTag, err := s.db.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting lesson: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}

	return nil
}

// GetLessonByID retrieves a lesson by ID
func (s *CourseStore) GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	query := `
		SELECT id, course_id, title, video_url, position, created_at
		FROM lessons
		WHERE id = $1
	`

	var lesson models.Lesson
	err := s.db.QueryRow(ctx, query, id).Scan(
		&lesson.ID,
		&lesson.CourseID,
		&lesson.Title,
		&lesson.VideoURL,
		&lesson.Position,
		&lesson.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("error retrieving lesson: %w", err)
	}

	return &lesson, nil
}

// GetLessonsByCourseID retrieves a course's lessons in position order
func (s *CourseStore) GetLessonsByCourseID(ctx context.Context, courseID int64) ([]models.Lesson, error) {
	query := `
		SELECT id, course_id, title, video_url, position, created_at
		FROM lessons
		WHERE course_id = $1
		ORDER BY position ASC, id ASC
	`

	rows, err := s.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var lesson models.Lesson
		if err := rows.Scan(
			&lesson.ID,
			&lesson.CourseID,
			&lesson.Title,
			&lesson.VideoURL,
			&lesson.Position,
			&lesson.CreatedAt,
		); err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lessons, nil
}

// CountLessonsByCourseID returns the number of lessons a course owns
func (s *CourseStore) CountLessonsByCourseID(ctx context.Context, courseID int64) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM lessons WHERE course_id = $1`, courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting lessons: %w", err)
	}
	return count, nil
}
