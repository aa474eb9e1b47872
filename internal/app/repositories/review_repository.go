package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaan/learnhub/internal/app/models"
	"github.com/kaan/learnhub/internal/pkg/apperrors"
	"github.com/kaan/learnhub/internal/pkg/dberrors"
)

// ReviewRepository handles course review database operations. Reviews stay
// relational regardless of which backend serves catalog data.
type ReviewRepository struct {
	db *pgxpool.Pool
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review. The unique constraint on (user_id, course_id)
// limits users to one review per course.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO reviews (course_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		review.CourseID, review.UserID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyRated
		}
		return fmt.Errorf("error creating review: %w", err)
	}

	return nil
}

// GetByUserAndCourse retrieves a user's review of a course
func (r *ReviewRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Review, error) {
	review := &models.Review{}
	err := r.db.QueryRow(ctx, `
		SELECT id, course_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE user_id = $1 AND course_id = $2`,
		userID, courseID).Scan(
		&review.ID, &review.CourseID, &review.UserID,
		&review.Rating, &review.Comment, &review.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, fmt.Errorf("error retrieving review: %w", err)
	}

	return review, nil
}

// ListByCourse retrieves a course's reviews newest first, with the
// reviewer's display name joined in.
func (r *ReviewRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Review, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.course_id, r.user_id, r.rating, r.comment, r.created_at,
		       u.first_name || ' ' || u.last_name AS user_name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.course_id = $1
		ORDER BY r.created_at DESC`,
		courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review := &models.Review{}
		if err := rows.Scan(
			&review.ID, &review.CourseID, &review.UserID,
			&review.Rating, &review.Comment, &review.CreatedAt,
			&review.UserName,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}

// AverageRating returns a course's average rating, 0 when unreviewed
func (r *ReviewRepository) AverageRating(ctx context.Context, courseID int64) (float64, error) {
	var avg float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE course_id = $1`,
		courseID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("error computing average rating: %w", err)
	}
	return avg, nil
}

// Delete removes a review by ID
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting review: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrReviewNotFound
	}

	return nil
}
