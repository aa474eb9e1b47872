package services

import (
	"context"
	"fmt"

	"github.com/kaan/learnhub/internal/app/models"
	"github.com/kaan/learnhub/internal/app/models/dto"
	"github.com/kaan/learnhub/internal/app/repositories"
	"github.com/kaan/learnhub/internal/app/storage"
	"github.com/kaan/learnhub/internal/pkg/apperrors"
	"github.com/kaan/learnhub/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// ReviewService handles course reviews. Reviews live in the relational
// database regardless of which backend serves the catalog; when no database
// is available the review endpoints are simply not wired up.
type ReviewService struct {
	reviewRepo *repositories.ReviewRepository
	store      storage.Store
	logger     zerolog.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo *repositories.ReviewRepository, store storage.Store, logger zerolog.Logger) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		store:      store,
		logger:     logger,
	}
}

// CreateReview records a user's rating of a course. A user may review a
// course only once.
func (s *ReviewService) CreateReview(ctx context.Context, userID, courseID int64, req *dto.CreateReviewRequest) (*models.Review, error) {
	if !validation.ValidRating(req.Rating) {
		return nil, apperrors.ErrInvalidRating
	}

	if _, err := s.store.Courses.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	review := &models.Review{
		CourseID: courseID,
		UserID:   userID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userID", userID).
		Int64("courseID", courseID).
		Int("rating", req.Rating).
		Msg("Review created")

	return review, nil
}

// ListReviews retrieves a course's reviews, newest first
func (s *ReviewService) ListReviews(ctx context.Context, courseID int64) ([]*models.Review, error) {
	if _, err := s.store.Courses.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	if reviews == nil {
		reviews = []*models.Review{}
	}
	return reviews, nil
}
