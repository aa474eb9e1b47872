package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaan/learnhub/internal/app/models/dto"
	"github.com/kaan/learnhub/internal/app/services"
	"github.com/kaan/learnhub/internal/middleware"
	"github.com/rs/zerolog"
)

// EnrollmentController handles the enrollment lifecycle
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
	logger            zerolog.Logger
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService, logger zerolog.Logger) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

// Enroll registers the authenticated user in a course
// @Summary Enroll in course
// @Description Enrolls the authenticated user. Enrolling twice returns the existing enrollment flagged alreadyEnrolled.
// @Tags enrollments
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrollment created"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Already enrolled"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
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

	enrollment, err := c.enrollmentService.Enroll(ctx.Request.Context(), userID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusCreated
	message := "Enrolled successfully"
	if enrollment.AlreadyEnrolled {
		status = http.StatusOK
		message = "Already enrolled in this course"
	}

	ctx.JSON(status, dto.APIResponse{
		Data:    enrollment,
		Message: message,
	})
}

// Unenroll removes one of the authenticated user's enrollments
// @Summary Unenroll from course
// @Description Removes the enrollment and purges the user's completion markers for that course
// @Tags enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse "Enrollment removed"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Security BearerAuth
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	enrollmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.Unenroll(ctx.Request.Context(), userID, enrollmentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Message: "Unenrolled successfully",
	})
}

// MyEnrollments lists the authenticated user's enrollments
// @Summary List own enrollments
// @Description Returns the user's enrollments newest first, each with its course and derived progress
// @Tags enrollments
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentResponse} "Enrollment list"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Security BearerAuth
// @Router /me/enrollments [get]
func (c *EnrollmentController) MyEnrollments(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	enrollments, err := c.enrollmentService.ListMyEnrollments(ctx.Request.Context(), userID)
	if err != nil {
		c.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to list enrollments")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: enrollments,
	})
}

// EnrollmentStatus reports the user's enrollment status for a course
// @Summary Get enrollment status
// @Description Returns whether the user is enrolled in the course and their progress. Never errors; storage problems report not enrolled.
// @Tags enrollments
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentStatusResponse} "Enrollment status"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Security BearerAuth
// @Router /courses/{id}/enrollment [get]
func (c *EnrollmentController) EnrollmentStatus(ctx *gin.Context) {
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

	status := c.enrollmentService.IsEnrolled(ctx.Request.Context(), userID, courseID)

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: status,
	})
}
