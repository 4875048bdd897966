package services

import (
	"context"

	"github.com/ekinkoc/schoolhub/internal/app/models"
	"github.com/ekinkoc/schoolhub/internal/app/models/dto"
	"github.com/ekinkoc/schoolhub/internal/pkg/apperrors"
	"github.com/ekinkoc/schoolhub/internal/pkg/helpers"
	"github.com/ekinkoc/schoolhub/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// ClassService handles class management
type ClassService struct {
	classRepo        ClassStore
	classStudentRepo ClassStudentStore
	tx               TxRunner
}

// NewClassService creates a new ClassService instance
func NewClassService(classRepo ClassStore, classStudentRepo ClassStudentStore, tx TxRunner) *ClassService {
	return &ClassService{
		classRepo:        classRepo,
		classStudentRepo: classStudentRepo,
		tx:               tx,
	}
}

// CreateClass creates a new class. New classes always start with a
// student count of zero.
func (s *ClassService) CreateClass(ctx context.Context, req *dto.CreateClassRequest) (*models.ClassInfo, error) {
	taken, err := s.classRepo.ExistsByClassCode(ctx, req.ClassCode, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrClassCodeExists
	}

	class := &models.ClassInfo{
		ClassCode:   req.ClassCode,
		ClassName:   req.ClassName,
		Grade:       req.Grade,
		Description: req.Description,
	}

	if err := s.classRepo.Create(ctx, class); err != nil {
		logger.Error().Err(err).Str("classCode", req.ClassCode).Msg("Failed to create class")
		return nil, err
	}

	logger.Info().Int64("classId", class.ID).Str("classCode", class.ClassCode).Msg("Class created")
	return class, nil
}

// GetClassByID retrieves an active class by ID
func (s *ClassService) GetClassByID(ctx context.Context, id int64) (*models.ClassInfo, error) {
	return s.classRepo.GetByID(ctx, id)
}

// UpdateClass applies a partial update to a class. The student count is
// maintained by the roster operations and cannot be set here.
func (s *ClassService) UpdateClass(ctx context.Context, id int64, req *dto.UpdateClassRequest) (*models.ClassInfo, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClassCode != nil && *req.ClassCode != class.ClassCode {
		taken, err := s.classRepo.ExistsByClassCode(ctx, *req.ClassCode, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrClassCodeExists
		}
		class.ClassCode = *req.ClassCode
	}
	if req.ClassName != nil {
		class.ClassName = *req.ClassName
	}
	if req.Grade != nil {
		class.Grade = req.Grade
	}
	if req.Description != nil {
		class.Description = req.Description
	}

	if err := s.classRepo.Update(ctx, class); err != nil {
		logger.Error().Err(err).Int64("classId", id).Msg("Failed to update class")
		return nil, err
	}
	return class, nil
}

// DeleteClass soft-deletes a class and clears its roster in one transaction
func (s *ClassService) DeleteClass(ctx context.Context, id int64) error {
	if _, err := s.classRepo.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.classRepo.SoftDelete(txCtx, tx, id); err != nil {
			return err
		}
		_, err := s.classStudentRepo.DeleteByClass(txCtx, tx, id)
		return err
	})
	if err != nil {
		logger.Error().Err(err).Int64("classId", id).Msg("Failed to delete class")
		return err
	}

	logger.Info().Int64("classId", id).Msg("Class deleted")
	return nil
}

// SearchClasses returns a page of classes matching the filter
func (s *ClassService) SearchClasses(ctx context.Context, filter dto.ClassSearchFilter, p helpers.PageParams) ([]*models.ClassInfo, int64, error) {
	return s.classRepo.Search(ctx, filter, p)
}

// CheckClassCodeAvailable reports whether a class code is free among active
// classes, ignoring the class identified by excludeID when non-zero.
func (s *ClassService) CheckClassCodeAvailable(ctx context.Context, classCode string, excludeID int64) (bool, error) {
	taken, err := s.classRepo.ExistsByClassCode(ctx, classCode, excludeID)
	if err != nil {
		return false, err
	}
	return !taken, nil
}
