package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ekinkoc/schoolhub/internal/app/models"
	"github.com/ekinkoc/schoolhub/internal/app/models/dto"
	"github.com/ekinkoc/schoolhub/internal/pkg/apperrors"
	"github.com/ekinkoc/schoolhub/internal/pkg/auth"
	"github.com/ekinkoc/schoolhub/internal/pkg/helpers"
	"github.com/ekinkoc/schoolhub/internal/pkg/logger"
	"github.com/ekinkoc/schoolhub/internal/pkg/validation"
	"github.com/jackc/pgx/v5"
)

// UserService handles user account management
type UserService struct {
	userRepo         UserStore
	classRepo        ClassStore
	teacherStudRepo  TeacherStudentStore
	classStudentRepo ClassStudentStore
	tx               TxRunner
}

// NewUserService creates a new UserService instance
func NewUserService(
	userRepo UserStore,
	classRepo ClassStore,
	teacherStudRepo TeacherStudentStore,
	classStudentRepo ClassStudentStore,
	tx TxRunner,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		classRepo:        classRepo,
		teacherStudRepo:  teacherStudRepo,
		classStudentRepo: classStudentRepo,
		tx:               tx,
	}
}

// CreateUser registers a new user after checking username, email and phone
// are not taken by another active account.
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	if !validation.Username(req.Username) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"username contains invalid characters").
			WithDetails(map[string]interface{}{"username": "contains invalid characters"})
	}
	if !validation.Password(req.Password) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"password must be between 6 and 72 characters").
			WithDetails(map[string]interface{}{"password": "must be between 6 and 72 characters"})
	}

	if err := s.checkUniqueFields(ctx, req.Username, req.Email, req.Phone, 0); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:   req.Username,
		Password:   hashed,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		UserType:   models.UserType(req.UserType),
		Address:    req.Address,
		Avatar:     req.Avatar,
		Department: req.Department,
		Position:   req.Position,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.Error().Err(err).Str("username", req.Username).Msg("Failed to create user")
		return nil, err
	}

	logger.Info().Int64("userId", user.ID).Str("username", user.Username).Msg("User created")
	return user, nil
}

// GetUserByID retrieves an active user by ID
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateUser applies a partial update to a user. Unique fields are only
// re-checked when the request actually changes them.
func (s *UserService) UpdateUser(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		if !validation.Username(*req.Username) {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
				"username contains invalid characters").
				WithDetails(map[string]interface{}{"username": "contains invalid characters"})
		}
		taken, err := s.userRepo.ExistsByUsername(ctx, *req.Username, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrUsernameExists
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.userRepo.ExistsByEmail(ctx, *req.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrEmailExists
		}
		user.Email = *req.Email
	}
	if req.Phone != nil && *req.Phone != user.Phone {
		taken, err := s.userRepo.ExistsByPhone(ctx, *req.Phone, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrPhoneExists
		}
		user.Phone = *req.Phone
	}

	if req.Password != nil {
		if !validation.Password(*req.Password) {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
				"password must be between 6 and 72 characters").
				WithDetails(map[string]interface{}{"password": "must be between 6 and 72 characters"})
		}
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashed
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.UserType != nil {
		user.UserType = models.UserType(*req.UserType)
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.Position != nil {
		user.Position = req.Position
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.Error().Err(err).Int64("userId", id).Msg("Failed to update user")
		return nil, err
	}
	return user, nil
}

// DeleteUser soft-deletes a user and removes its relations. Class rosters
// the student belonged to have their student counts decremented in the
// same transaction.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.userRepo.SoftDelete(txCtx, tx, id); err != nil {
			return err
		}

		if _, err := s.teacherStudRepo.DeleteByTeacher(txCtx, tx, id); err != nil {
			return err
		}
		if _, err := s.teacherStudRepo.DeleteByStudent(txCtx, tx, id); err != nil {
			return err
		}

		classIDs, err := s.classStudentRepo.DeleteByStudent(txCtx, tx, id)
		if err != nil {
			return err
		}
		for _, classID := range classIDs {
			if err := s.classRepo.AdjustStudentCount(txCtx, tx, classID, -1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("userId", id).Msg("Failed to delete user")
		return err
	}

	logger.Info().Int64("userId", id).Msg("User deleted")
	return nil
}

// SearchUsers returns a page of users matching the filter
func (s *UserService) SearchUsers(ctx context.Context, filter dto.UserSearchFilter, p helpers.PageParams) ([]*models.User, int64, error) {
	return s.userRepo.Search(ctx, filter, p)
}

// GetUserTeachers lists the teachers related to a student
func (s *UserService) GetUserTeachers(ctx context.Context, studentID int64) ([]*models.User, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, err
	}
	if student.UserType != models.UserTypeStudent {
		return nil, apperrors.ErrUserNotStudent
	}
	return s.teacherStudRepo.GetTeachersByStudent(ctx, studentID)
}

// GetUserStudents lists the students related to a teacher
func (s *UserService) GetUserStudents(ctx context.Context, teacherID int64) ([]*models.User, error) {
	teacher, err := s.userRepo.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrTeacherNotFound
		}
		return nil, err
	}
	if teacher.UserType != models.UserTypeTeacher {
		return nil, apperrors.ErrUserNotTeacher
	}
	return s.teacherStudRepo.GetStudentsByTeacher(ctx, teacherID)
}

// CheckUsernameAvailable reports whether a username is free among active
// users, ignoring the account identified by excludeID when non-zero.
func (s *UserService) CheckUsernameAvailable(ctx context.Context, username string, excludeID int64) (bool, error) {
	taken, err := s.userRepo.ExistsByUsername(ctx, username, excludeID)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// CheckEmailAvailable reports whether an email is free among active users
func (s *UserService) CheckEmailAvailable(ctx context.Context, email string, excludeID int64) (bool, error) {
	taken, err := s.userRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// CheckPhoneAvailable reports whether a phone number is free among active users
func (s *UserService) CheckPhoneAvailable(ctx context.Context, phone string, excludeID int64) (bool, error) {
	taken, err := s.userRepo.ExistsByPhone(ctx, phone, excludeID)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *UserService) checkUniqueFields(ctx context.Context, username, email, phone string, excludeID int64) error {
	taken, err := s.userRepo.ExistsByUsername(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrUsernameExists
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrEmailExists
	}

	taken, err = s.userRepo.ExistsByPhone(ctx, phone, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrPhoneExists
	}
	return nil
}
