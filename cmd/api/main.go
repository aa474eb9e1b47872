package main

import (
	"os"

	"github.com/kaan/learnhub/internal/pkg/logger" // Still needed for initial error logging
	"github.com/kaan/learnhub/internal/server"
)

// @title LearnHub API
// @version 1.0
// @description API for the LearnHub online learning platform

// @contact.name API Support
// @contact.url https://www.learnhub.app/support
// @contact.email support@learnhub.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// NewServer orchestrates config loading, database setup, dependency
	// wiring and route registration.
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
