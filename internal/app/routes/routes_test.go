package routes

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/kaan/learnhub/internal/app/controllers"
	"github.com/kaan/learnhub/internal/app/storage"
	"github.com/kaan/learnhub/internal/middleware"
	"github.com/kaan/learnhub/internal/pkg/auth"
)

// Registering routes never invokes a handler, so controllers built on nil
// services are enough to inspect the resulting route table.
func newRouteTable(t *testing.T) gin.RoutesInfo {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lgr := zerolog.Nop()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "learnhub.test",
	})

	router := gin.New()
	SetupRouter(
		router,
		controllers.NewAuthController(nil, lgr),
		controllers.NewUserController(nil, lgr),
		controllers.NewCourseController(nil, nil, lgr),
		controllers.NewLessonController(nil, nil, lgr),
		controllers.NewEnrollmentController(nil, lgr),
		controllers.NewReviewController(nil, lgr),
		middleware.NewAuthMiddleware(jwtService),
		HealthInfo{StorageBackend: storage.BackendLocal},
	)

	return router.Routes()
}

func hasRoute(routes gin.RoutesInfo, method, path string) bool {
	for _, r := range routes {
		if r.Method == method && r.Path == path {
			return true
		}
	}
	return false
}

func TestSetupRouter_RegistersAllRoutes(t *testing.T) {
	routes := newRouteTable(t)

	expected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/auth/register"},
		{http.MethodPost, "/api/v1/auth/login"},
		{http.MethodPost, "/api/v1/auth/refresh"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/courses"},
		{http.MethodGet, "/api/v1/courses/:id"},
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodPut, "/api/v1/users/me"},
		{http.MethodPost, "/api/v1/courses/:id/enroll"},
		{http.MethodGet, "/api/v1/courses/:id/enrollment"},
		{http.MethodGet, "/api/v1/me/enrollments"},
		{http.MethodDelete, "/api/v1/enrollments/:id"},
		{http.MethodPost, "/api/v1/lessons/:id/complete"},
		{http.MethodDelete, "/api/v1/lessons/:id/complete"},
		{http.MethodPost, "/api/v1/courses"},
		{http.MethodPut, "/api/v1/courses/:id"},
		{http.MethodDelete, "/api/v1/courses/:id"},
		{http.MethodPost, "/api/v1/courses/:id/thumbnail"},
		{http.MethodPost, "/api/v1/courses/:id/lessons"},
		{http.MethodPut, "/api/v1/lessons/:id"},
		{http.MethodDelete, "/api/v1/lessons/:id"},
		{http.MethodGet, "/api/v1/health"},
	}

	for _, route := range expected {
		require.True(t, hasRoute(routes, route.method, route.path),
			"expected route %s %s to be registered", route.method, route.path)
	}
}

// Review routes are part of the fixed route table; they are served by the
// relational store regardless of which backend handles catalog data.
func TestSetupRouter_ReviewRoutesAlwaysRegistered(t *testing.T) {
	routes := newRouteTable(t)

	require.True(t, hasRoute(routes, http.MethodGet, "/api/v1/courses/:id/reviews"))
	require.True(t, hasRoute(routes, http.MethodPost, "/api/v1/courses/:id/reviews"))
}
