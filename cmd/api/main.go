package main

import (
	"os"

	"github.com/ekinkoc/schoolhub/internal/pkg/logger"
	"github.com/ekinkoc/schoolhub/internal/server"
)

// @title SchoolHub API
// @version 1.0
// @description User, class and relation management backend for schools

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token, prefixed with "Bearer "

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}
