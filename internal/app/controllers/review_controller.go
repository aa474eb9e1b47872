package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaan/learnhub/internal/app/models/dto"
	"github.com/kaan/learnhub/internal/app/services"
	"github.com/kaan/learnhub/internal/middleware"
	"github.com/rs/zerolog"
)

// ReviewController handles course reviews
type ReviewController struct {
	reviewService *services.ReviewService
	logger        zerolog.Logger
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviewService *services.ReviewService, logger zerolog.Logger) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
		logger:        logger,
	}
}

// ListReviews returns a course's reviews
// @Summary List course reviews
// @Description Returns the course's reviews newest first with reviewer names
// @Tags reviews
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Review} "Review list"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/reviews [get]
func (c *ReviewController) ListReviews(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	reviews, err := c.reviewService.ListReviews(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: reviews,
	})
}

// CreateReview records the authenticated user's rating of a course
// @Summary Create review
// @Description Records a rating from 1 to 5 with an optional comment. One review per user per course.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.CreateReviewRequest true "Review fields"
// @Success 201 {object} dto.APIResponse{data=models.Review} "Review created"
// @Failure 400 {object} dto.ErrorResponse "Invalid rating"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course already reviewed"
// @Security BearerAuth
// @Router /courses/{id}/reviews [post]
func (c *ReviewController) CreateReview(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	review, err := c.reviewService.CreateReview(ctx.Request.Context(), userID, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:    review,
		Message: "Review created successfully",
	})
}
