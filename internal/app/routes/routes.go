package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kaan/learnhub/internal/app/controllers"
	"github.com/kaan/learnhub/internal/app/models"
	"github.com/kaan/learnhub/internal/app/models/dto"
	"github.com/kaan/learnhub/internal/app/storage"
	"github.com/kaan/learnhub/internal/middleware"
)

// HealthInfo is reported by the health endpoint so clients can see which
// storage backend is active and whether the lightweight rendering hint is
// set. Neither value alters API semantics.
type HealthInfo struct {
	StorageBackend  storage.Backend
	LightweightMode bool
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	courseController *controllers.CourseController,
	lessonController *controllers.LessonController,
	enrollmentController *controllers.EnrollmentController,
	reviewController *controllers.ReviewController,
	authMiddleware *middleware.AuthMiddleware,
	health HealthInfo,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Public Catalog routes ---
	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.GET("/:id", courseController.GetCourse)
		courses.GET("/:id/reviews", reviewController.ListReviews)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		authenticated.GET("/users/me", userController.GetMe)
		authenticated.PUT("/users/me", userController.UpdateMe)

		authenticated.POST("/courses/:id/enroll", enrollmentController.Enroll)
		authenticated.GET("/courses/:id/enrollment", enrollmentController.EnrollmentStatus)
		authenticated.GET("/me/enrollments", enrollmentController.MyEnrollments)
		authenticated.DELETE("/enrollments/:id", enrollmentController.Unenroll)

		authenticated.POST("/lessons/:id/complete", lessonController.MarkComplete)
		authenticated.DELETE("/lessons/:id/complete", lessonController.UnmarkComplete)

		authenticated.POST("/courses/:id/reviews", reviewController.CreateReview)

		// Admin-only catalog management
		admin := authenticated.Group("")
		admin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			admin.POST("/courses", courseController.CreateCourse)
			admin.PUT("/courses/:id", courseController.UpdateCourse)
			admin.DELETE("/courses/:id", courseController.DeleteCourse)
			admin.POST("/courses/:id/thumbnail", courseController.UploadThumbnail)

			admin.POST("/courses/:id/lessons", lessonController.AddLesson)
			admin.PUT("/lessons/:id", lessonController.UpdateLesson)
			admin.DELETE("/lessons/:id", lessonController.DeleteLesson)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{
				"status":          "ok",
				"storageBackend":  health.StorageBackend,
				"lightweightMode": health.LightweightMode,
			},
		})
	})
}
