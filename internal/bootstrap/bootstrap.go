package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/kaan/learnhub/internal/app/controllers"
	appMigrations "github.com/kaan/learnhub/internal/app/migrations"
	appRepos "github.com/kaan/learnhub/internal/app/repositories"
	appRoutes "github.com/kaan/learnhub/internal/app/routes"
	appServices "github.com/kaan/learnhub/internal/app/services"
	"github.com/kaan/learnhub/internal/app/storage"
	"github.com/kaan/learnhub/internal/app/storage/local"
	"github.com/kaan/learnhub/internal/app/storage/postgres"
	"github.com/kaan/learnhub/internal/config"
	"github.com/kaan/learnhub/internal/db"
	appMiddleware "github.com/kaan/learnhub/internal/middleware"
	pkgAuth "github.com/kaan/learnhub/internal/pkg/auth"
	"github.com/kaan/learnhub/internal/pkg/filestorage"
	"github.com/kaan/learnhub/internal/pkg/helpers"
	"github.com/kaan/learnhub/internal/pkg/logger"
	"github.com/kaan/learnhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                *appRepos.Repositories
	Store                storage.Store
	JWTService           *pkgAuth.JWTService
	FileStorage          *filestorage.LocalStorage
	AuthService          *appServices.AuthService
	CourseService        *appServices.CourseService
	EnrollmentService    *appServices.EnrollmentService
	ReviewService        *appServices.ReviewService
	AuthController       *appControllers.AuthController
	UserController       *appControllers.UserController
	CourseController     *appControllers.CourseController
	LessonController     *appControllers.LessonController
	EnrollmentController *appControllers.EnrollmentController
	ReviewController     *appControllers.ReviewController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data. Identity and token data always live in the relational
// store, so a reachable database is required regardless of which backend
// ends up serving catalog and enrollment data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// selectStore picks the catalog/enrollment backend once for the lifetime of
// the process. An explicit config override wins; "auto" probes the database
// for the required tables and falls back to the local JSON store.
func selectStore(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (storage.Store, error) {
	backend := storage.Backend(cfg.Storage.Backend)
	if cfg.Storage.Backend == config.StorageBackendAuto {
		backend = storage.Negotiate(context.Background(), dbPool, lgr)
	}

	switch backend {
	case storage.BackendPostgres:
		return storage.Store{
			Backend:     storage.BackendPostgres,
			Courses:     postgres.NewCourseStore(dbPool),
			Enrollments: postgres.NewEnrollmentStore(dbPool),
		}, nil
	case storage.BackendLocal:
		localDB, err := local.Open(cfg.Storage.LocalDir)
		if err != nil {
			return storage.Store{}, fmt.Errorf("failed to open local storage at %s: %w", cfg.Storage.LocalDir, err)
		}
		lgr.Info().Str("dir", cfg.Storage.LocalDir).Msg("Local storage backend active")
		return storage.Store{
			Backend:     storage.BackendLocal,
			Courses:     local.NewCourseStore(localDB),
			Enrollments: local.NewEnrollmentStore(localDB),
		}, nil
	default:
		return storage.Store{}, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// BuildDependencies initializes repositories, the storage backend, services
// and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	store, err := selectStore(cfg, dbPool, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize storage backend")
		return nil, err
	}
	deps.Store = store

	// File storage for course thumbnails; baseURL must match the static
	// file serving endpoint set up by the server.
	baseURL := "http://localhost:" + cfg.Server.Port
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.CourseService = appServices.NewCourseService(deps.Store, lgr)
	deps.EnrollmentService = appServices.NewEnrollmentService(deps.Store, lgr)
	deps.ReviewService = appServices.NewReviewService(deps.Repos.ReviewRepository, deps.Store, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.AuthService, lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService, deps.FileStorage, lgr)
	deps.LessonController = appControllers.NewLessonController(deps.CourseService, deps.EnrollmentService, lgr)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService, lgr)
	deps.ReviewController = appControllers.NewReviewController(deps.ReviewService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.CourseController,
		deps.LessonController,
		deps.EnrollmentController,
		deps.ReviewController,
		deps.AuthMiddleware,
		appRoutes.HealthInfo{
			StorageBackend:  deps.Store.Backend,
			LightweightMode: cfg.Features.LightweightMode,
		},
	)

	return router
}
