package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ekinkoc/schoolhub/internal/app/controllers"
	"github.com/ekinkoc/schoolhub/internal/app/migrations"
	"github.com/ekinkoc/schoolhub/internal/app/repositories"
	"github.com/ekinkoc/schoolhub/internal/app/routes"
	"github.com/ekinkoc/schoolhub/internal/app/services"
	"github.com/ekinkoc/schoolhub/internal/config"
	"github.com/ekinkoc/schoolhub/internal/db"
	"github.com/ekinkoc/schoolhub/internal/middleware"
	"github.com/ekinkoc/schoolhub/internal/pkg/auth"
	"github.com/ekinkoc/schoolhub/internal/pkg/logger"
	"github.com/ekinkoc/schoolhub/internal/seed"
)

// Dependencies holds the wired application components
type Dependencies struct {
	Repos              *repositories.Repositories
	JWTService         *auth.JWTService
	UserService        *services.UserService
	ClassService       *services.ClassService
	RelationService    *services.RelationService
	AuthService        *services.AuthService
	UserController     *controllers.UserController
	ClassController    *controllers.ClassController
	RelationController *controllers.RelationController
	AuthController     *controllers.AuthController
	AuthMiddleware     *middleware.AuthMiddleware
}

// LoadConfigAndSetupLogger loads configuration and configures the logger
func LoadConfigAndSetupLogger() (*config.Config, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	logger.Info().
		Str("logLevel", cfg.Logging.Level).
		Str("logFormat", cfg.Logging.Format).
		Msg("Logger configured")
	return cfg, nil
}

// SetupDatabase connects to Postgres, applies migrations and seeds
// the default data.
func SetupDatabase(cfg *config.Config) (*db.PostgresDB, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info().Msg("Database connection established")

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := migrations.NewMigrator(database.Pool)
	if err := migrator.ApplyDirectory(context.Background(), migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(context.Background(), database.Pool); err != nil {
		logger.Error().Err(err).Msg("Failed to seed default data, proceeding anyway")
	}

	return database, nil
}

// BuildDependencies wires repositories, services, controllers and middleware
func BuildDependencies(cfg *config.Config, database *db.PostgresDB) *Dependencies {
	deps := &Dependencies{}

	deps.Repos = repositories.NewRepositories(database.Pool)

	deps.JWTService = auth.NewJWTService(auth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenExp(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.UserService = services.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.ClassRepository,
		deps.Repos.TeacherStudentRepository,
		deps.Repos.ClassStudentRepository,
		database,
	)
	deps.ClassService = services.NewClassService(
		deps.Repos.ClassRepository,
		deps.Repos.ClassStudentRepository,
		database,
	)
	deps.RelationService = services.NewRelationService(
		deps.Repos.UserRepository,
		deps.Repos.ClassRepository,
		deps.Repos.TeacherStudentRepository,
		deps.Repos.ClassStudentRepository,
		database,
	)
	deps.AuthService = services.NewAuthService(deps.Repos.UserRepository, deps.JWTService)

	deps.AuthMiddleware = middleware.NewAuthMiddleware(deps.JWTService)

	deps.UserController = controllers.NewUserController(deps.UserService)
	deps.ClassController = controllers.NewClassController(deps.ClassService)
	deps.RelationController = controllers.NewRelationController(deps.RelationService)
	deps.AuthController = controllers.NewAuthController(deps.AuthService)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())

	routes.SetupSwagger(router)
	routes.SetupRouter(router,
		deps.UserController,
		deps.ClassController,
		deps.RelationController,
		deps.AuthController,
		deps.AuthMiddleware,
	)

	return router
}
