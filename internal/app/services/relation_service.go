package services

import (
	"context"
	"errors"

	"github.com/ekinkoc/schoolhub/internal/app/models"
	"github.com/ekinkoc/schoolhub/internal/app/models/dto"
	"github.com/ekinkoc/schoolhub/internal/pkg/apperrors"
	"github.com/ekinkoc/schoolhub/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// RelationService manages teacher-student links and class rosters
type RelationService struct {
	userRepo         UserStore
	classRepo        ClassStore
	teacherStudRepo  TeacherStudentStore
	classStudentRepo ClassStudentStore
	tx               TxRunner
}

// NewRelationService creates a new RelationService instance
func NewRelationService(
	userRepo UserStore,
	classRepo ClassStore,
	teacherStudRepo TeacherStudentStore,
	classStudentRepo ClassStudentStore,
	tx TxRunner,
) *RelationService {
	return &RelationService{
		userRepo:         userRepo,
		classRepo:        classRepo,
		teacherStudRepo:  teacherStudRepo,
		classStudentRepo: classStudentRepo,
		tx:               tx,
	}
}

// CreateTeacherStudentRelation links a teacher and a student. Both sides
// must exist, be active and carry the matching user type.
func (s *RelationService) CreateTeacherStudentRelation(ctx context.Context, req *dto.TeacherStudentRelationRequest) (*models.TeacherStudentRelation, error) {
	if err := s.requireTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}
	if err := s.requireStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	exists, err := s.teacherStudRepo.ExistsByPair(ctx, req.TeacherID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrRelationExists
	}

	relation := &models.TeacherStudentRelation{
		TeacherID:    req.TeacherID,
		StudentID:    req.StudentID,
		RelationType: req.RelationType,
		Notes:        req.Notes,
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		return s.teacherStudRepo.Create(txCtx, tx, relation)
	})
	if err != nil {
		logger.Error().Err(err).
			Int64("teacherId", req.TeacherID).
			Int64("studentId", req.StudentID).
			Msg("Failed to create teacher-student relation")
		return nil, err
	}

	logger.Info().
		Int64("teacherId", req.TeacherID).
		Int64("studentId", req.StudentID).
		Msg("Teacher-student relation created")
	return relation, nil
}

// DeleteTeacherStudentRelation removes the link between a teacher and a student
func (s *RelationService) DeleteTeacherStudentRelation(ctx context.Context, teacherID, studentID int64) error {
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		return s.teacherStudRepo.DeleteByPair(txCtx, tx, teacherID, studentID)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrRelationNotFound) {
			logger.Error().Err(err).
				Int64("teacherId", teacherID).
				Int64("studentId", studentID).
				Msg("Failed to delete teacher-student relation")
		}
		return err
	}
	return nil
}

// TeacherStudentRelationExists reports whether a teacher-student link exists
func (s *RelationService) TeacherStudentRelationExists(ctx context.Context, teacherID, studentID int64) (bool, error) {
	return s.teacherStudRepo.ExistsByPair(ctx, teacherID, studentID)
}

// GetStudentsByTeacher lists the students linked to a teacher
func (s *RelationService) GetStudentsByTeacher(ctx context.Context, teacherID int64) ([]*models.User, error) {
	if err := s.requireTeacher(ctx, teacherID); err != nil {
		return nil, err
	}
	return s.teacherStudRepo.GetStudentsByTeacher(ctx, teacherID)
}

// GetTeachersByStudent lists the teachers linked to a student
func (s *RelationService) GetTeachersByStudent(ctx context.Context, studentID int64) ([]*models.User, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return s.teacherStudRepo.GetTeachersByStudent(ctx, studentID)
}

// CreateClassStudentRelation enrolls a student in a class. The class
// student count is incremented in the same transaction as the insert.
func (s *RelationService) CreateClassStudentRelation(ctx context.Context, req *dto.ClassStudentRelationRequest) (*models.ClassStudentRelation, error) {
	if _, err := s.classRepo.GetByID(ctx, req.ClassID); err != nil {
		return nil, err
	}
	if err := s.requireStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	exists, err := s.classStudentRepo.ExistsByPair(ctx, req.ClassID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrRelationExists
	}

	relation := &models.ClassStudentRelation{
		ClassID:       req.ClassID,
		StudentID:     req.StudentID,
		StudentNumber: req.StudentNumber,
		SeatNumber:    req.SeatNumber,
		Notes:         req.Notes,
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.classStudentRepo.Create(txCtx, tx, relation); err != nil {
			return err
		}
		return s.classRepo.AdjustStudentCount(txCtx, tx, req.ClassID, 1)
	})
	if err != nil {
		logger.Error().Err(err).
			Int64("classId", req.ClassID).
			Int64("studentId", req.StudentID).
			Msg("Failed to enroll student in class")
		return nil, err
	}

	logger.Info().
		Int64("classId", req.ClassID).
		Int64("studentId", req.StudentID).
		Msg("Student enrolled in class")
	return relation, nil
}

// DeleteClassStudentRelation removes a student from a class roster and
// decrements the class student count in the same transaction.
func (s *RelationService) DeleteClassStudentRelation(ctx context.Context, classID, studentID int64) error {
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.classStudentRepo.DeleteByPair(txCtx, tx, classID, studentID); err != nil {
			return err
		}
		return s.classRepo.AdjustStudentCount(txCtx, tx, classID, -1)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrRelationNotFound) {
			logger.Error().Err(err).
				Int64("classId", classID).
				Int64("studentId", studentID).
				Msg("Failed to remove student from class")
		}
		return err
	}
	return nil
}

// ClassStudentRelationExists reports whether a student is enrolled in a class
func (s *RelationService) ClassStudentRelationExists(ctx context.Context, classID, studentID int64) (bool, error) {
	return s.classStudentRepo.ExistsByPair(ctx, classID, studentID)
}

// GetStudentsByClass lists the students enrolled in a class
func (s *RelationService) GetStudentsByClass(ctx context.Context, classID int64) ([]*models.User, error) {
	if _, err := s.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return s.classStudentRepo.GetStudentsByClass(ctx, classID)
}

// GetClassesByStudent lists the classes a student is enrolled in
func (s *RelationService) GetClassesByStudent(ctx context.Context, studentID int64) ([]*models.ClassInfo, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return s.classStudentRepo.GetClassesByStudent(ctx, studentID)
}

func (s *RelationService) requireTeacher(ctx context.Context, id int64) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrTeacherNotFound
		}
		return err
	}
	if user.UserType != models.UserTypeTeacher {
		return apperrors.ErrUserNotTeacher
	}
	return nil
}

func (s *RelationService) requireStudent(ctx context.Context, id int64) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return err
	}
	if user.UserType != models.UserTypeStudent {
		return apperrors.ErrUserNotStudent
	}
	return nil
}
