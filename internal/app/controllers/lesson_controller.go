package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaan/learnhub/internal/app/models/dto"
	"github.com/kaan/learnhub/internal/app/services"
	"github.com/kaan/learnhub/internal/middleware"
	"github.com/rs/zerolog"
)

// LessonController handles lesson administration and lesson completion
type LessonController struct {
	courseService     *services.CourseService
	enrollmentService *services.EnrollmentService
	logger            zerolog.Logger
}

// NewLessonController creates a new LessonController
func NewLessonController(courseService *services.CourseService, enrollmentService *services.EnrollmentService, logger zerolog.Logger) *LessonController {
	return &LessonController{
		courseService:     courseService,
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

// AddLesson appends a lesson to a course
// @Summary Add lesson
// @Description Adds a lesson to a course. A zero position places it last. Admin only.
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.CreateLessonRequest true "Lesson fields"
// @Success 201 {object} dto.APIResponse{data=models.Lesson} "Lesson created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /courses/{id}/lessons [post]
func (c *LessonController) AddLesson(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	lesson, err := c.courseService.AddLesson(ctx.Request.Context(), courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:    lesson,
		Message: "Lesson created successfully",
	})
}

// UpdateLesson updates an existing lesson
// @Summary Update lesson
// @Description Updates a lesson's title, video and position. Admin only.
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param request body dto.UpdateLessonRequest true "Lesson fields"
// @Success 200 {object} dto.APIResponse{data=models.Lesson} "Lesson updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Security BearerAuth
// @Router /lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	lesson, err := c.courseService.UpdateLesson(ctx.Request.Context(), lessonID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:    lesson,
		Message: "Lesson updated successfully",
	})
}

// DeleteLesson removes a lesson
// @Summary Delete lesson
// @Description Removes a lesson from its course. Admin only.
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse "Lesson deleted"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Security BearerAuth
// @Router /lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteLesson(ctx.Request.Context(), lessonID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Message: "Lesson deleted successfully",
	})
}

// MarkComplete records a lesson completion for the authenticated user
// @Summary Mark lesson complete
// @Description Records a completion marker and returns the refreshed enrollment. Marking twice is a no-op.
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Refreshed enrollment"
// @Failure 400 {object} dto.ErrorResponse "Not enrolled in the lesson's course"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Security BearerAuth
// @Router /lessons/{id}/complete [post]
func (c *LessonController) MarkComplete(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.MarkLessonComplete(ctx.Request.Context(), userID, lessonID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: enrollment,
	})
}

// UnmarkComplete removes a lesson completion for the authenticated user
// @Summary Unmark lesson complete
// @Description Removes a completion marker and returns the refreshed enrollment. A completed course may revert to in progress.
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Refreshed enrollment"
// @Failure 400 {object} dto.ErrorResponse "Not enrolled in the lesson's course"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Security BearerAuth
// @Router /lessons/{id}/complete [delete]
func (c *LessonController) UnmarkComplete(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	lessonID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.UnmarkLessonComplete(ctx.Request.Context(), userID, lessonID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: enrollment,
	})
}
