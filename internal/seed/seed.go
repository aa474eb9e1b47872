package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/kaan/learnhub/internal/app/models"
	appRepos "github.com/kaan/learnhub/internal/app/repositories"
	"github.com/kaan/learnhub/internal/app/storage/postgres"
)

// CreateDefaultData creates the default admin account and, on a completely
// empty catalog, a couple of starter courses. Safe to run on every startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	// --- Default Admin User --- //
	adminEmail := "admin@learnhub.app"
	exists, err := userRepo.EmailExists(ctx, adminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		lgr.Info().Msg("Creating default admin user...")

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, err)
		} else {
			admin := &appModels.User{
				Email:     adminEmail,
				Password:  string(hashedPassword),
				FirstName: "System",
				LastName:  "Administrator",
				RoleType:  appModels.RoleAdmin,
				IsActive:  true,
			}

			if err := userRepo.Create(ctx, admin); err != nil {
				lgr.Error().Err(err).Msg("Error creating admin user")
				finalErr = errors.Join(finalErr, err)
			} else {
				lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
			}
		}
	} else {
		lgr.Info().Msg("Admin user already exists, skipping creation")
	}

	// --- Starter Catalog --- //
	// Only seeded when the catalog is completely empty so real data is
	// never mixed with samples.
	var courseCount int
	if err := dbPool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&courseCount); err != nil {
		lgr.Error().Err(err).Msg("Error counting courses")
		return errors.Join(finalErr, err)
	}
	if courseCount > 0 {
		lgr.Info().Msg("Default data check/creation finished.")
		return finalErr
	}

	lgr.Info().Msg("Empty catalog detected, creating starter courses...")
	courseStore := postgres.NewCourseStore(dbPool)

	for _, seed := range starterCourses() {
		course := seed.course
		if err := courseStore.CreateCourse(ctx, &course); err != nil {
			lgr.Error().Err(err).Str("title", course.Title).Msg("Error creating starter course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		for i, lesson := range seed.lessons {
			lesson.CourseID = course.ID
			lesson.Position = i + 1
			if err := courseStore.CreateLesson(ctx, &lesson); err != nil {
				lgr.Error().Err(err).Str("title", lesson.Title).Msg("Error creating starter lesson")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

type courseSeed struct {
	course  appModels.Course
	lessons []appModels.Lesson
}

func starterCourses() []courseSeed {
	strPtr := func(s string) *string { return &s }
	intPtr := func(i int) *int { return &i }

	return []courseSeed{
		{
			course: appModels.Course{
				Title:         "Go for Backend Developers",
				Description:   "Build production HTTP services in Go, from routing to graceful shutdown.",
				Instructor:    strPtr("Elif Demir"),
				Category:      "programming",
				Difficulty:    strPtr("intermediate"),
				DurationHours: intPtr(12),
			},
			lessons: []appModels.Lesson{
				{Title: "Project layout and tooling", VideoURL: "https://videos.learnhub.app/go-backend/01.mp4"},
				{Title: "HTTP handlers and middleware", VideoURL: "https://videos.learnhub.app/go-backend/02.mp4"},
				{Title: "Talking to PostgreSQL", VideoURL: "https://videos.learnhub.app/go-backend/03.mp4"},
			},
		},
		{
			course: appModels.Course{
				Title:         "SQL Fundamentals",
				Description:   "Relational modelling, joins and aggregation for absolute beginners.",
				Instructor:    strPtr("Mert Aksoy"),
				Category:      "databases",
				Difficulty:    strPtr("beginner"),
				DurationHours: intPtr(8),
			},
			lessons: []appModels.Lesson{
				{Title: "Tables, rows and keys", VideoURL: "https://videos.learnhub.app/sql/01.mp4"},
				{Title: "SELECT and WHERE", VideoURL: "https://videos.learnhub.app/sql/02.mp4"},
			},
		},
	}
}
