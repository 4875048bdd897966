package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekinkoc/schoolhub/internal/app/models"
	"github.com/ekinkoc/schoolhub/internal/app/repositories"
	"github.com/ekinkoc/schoolhub/internal/pkg/auth"
	"github.com/ekinkoc/schoolhub/internal/pkg/logger"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// CreateDefaultData ensures a default administrator account exists so a
// fresh deployment can be logged into.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool) error {
	userRepo := repositories.NewUserRepository(dbPool)

	exists, err := userRepo.ExistsByUsername(ctx, defaultAdminUsername, 0)
	if err != nil {
		return fmt.Errorf("failed to check for default admin: %w", err)
	}
	if exists {
		logger.Debug().Msg("Default admin account already present")
		return nil
	}

	hashed, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := &models.User{
		Username: defaultAdminUsername,
		Password: hashed,
		Name:     "Administrator",
		Email:    "admin@school.edu",
		Phone:    "00000000000",
		UserType: models.UserTypeAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	logger.Info().Int64("userId", admin.ID).Msg("Default admin account created, change its password")
	return nil
}
