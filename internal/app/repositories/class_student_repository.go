package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekinkoc/schoolhub/internal/app/models"
	"github.com/ekinkoc/schoolhub/internal/db"
	"github.com/ekinkoc/schoolhub/internal/pkg/apperrors"
	"github.com/ekinkoc/schoolhub/internal/pkg/dberrors"
)

const constraintClassStudentPair = "uq_class_student_pair"

// ClassStudentRepository handles database operations for class-student relations
type ClassStudentRepository struct {
	db *pgxpool.Pool
}

// NewClassStudentRepository creates a new class-student relation repository
func NewClassStudentRepository(db *pgxpool.Pool) *ClassStudentRepository {
	return &ClassStudentRepository{db: db}
}

// Create inserts a relation row on the given handle. A concurrent duplicate
// loses at the unique index and surfaces as ErrRelationExists.
func (r *ClassStudentRepository) Create(ctx context.Context, q db.Querier, relation *models.ClassStudentRelation) error {
	query := `
		INSERT INTO class_student_relation (class_id, student_id, student_number, seat_number, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		relation.ClassID, relation.StudentID, relation.StudentNumber, relation.SeatNumber, relation.Notes,
	).Scan(&relation.ID, &relation.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintClassStudentPair) {
			return apperrors.ErrRelationExists
		}
		return fmt.Errorf("error creating class-student relation: %w", err)
	}

	return nil
}

// ExistsByPair checks whether the (class, student) pair already has a relation
func (r *ClassStudentRepository) ExistsByPair(ctx context.Context, classID, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM class_student_relation WHERE class_id = $1 AND student_id = $2)`,
		classID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking class-student relation existence: %w", err)
	}

	return exists, nil
}

// DeleteByPair removes the relation for the pair on the given handle.
func (r *ClassStudentRepository) DeleteByPair(ctx context.Context, q db.Querier, classID, studentID int64) error {
	cmdTag, err := q.Exec(ctx,
		`DELETE FROM class_student_relation WHERE class_id = $1 AND student_id = $2`,
		classID, studentID)
	if err != nil {
		return fmt.Errorf("error deleting class-student relation: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRelationNotFound
	}

	return nil
}

// DeleteByClass removes all relations for a class.
func (r *ClassStudentRepository) DeleteByClass(ctx context.Context, q db.Querier, classID int64) (int64, error) {
	cmdTag, err := q.Exec(ctx,
		`DELETE FROM class_student_relation WHERE class_id = $1`, classID)
	if err != nil {
		return 0, fmt.Errorf("error deleting relations by class: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

// DeleteByStudent removes all relations for a student and returns the ids of
// the affected classes so callers can decrement each class counter in the
// same transaction.
func (r *ClassStudentRepository) DeleteByStudent(ctx context.Context, q db.Querier, studentID int64) ([]int64, error) {
	rows, err := q.Query(ctx,
		`DELETE FROM class_student_relation WHERE student_id = $1 RETURNING class_id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("error deleting relations by student: %w", err)
	}
	defer rows.Close()

	var classIDs []int64
	for rows.Next() {
		var classID int64
		if err := rows.Scan(&classID); err != nil {
			return nil, err
		}
		classIDs = append(classIDs, classID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classIDs, nil
}

// GetStudentsByClass lists the non-deleted students enrolled in a class
func (r *ClassStudentRepository) GetStudentsByClass(ctx context.Context, classID int64) ([]*models.User, error) {
	query := `
		SELECT u.id, u.username, u.password, u.name, u.email, u.phone, u.user_type,
		       u.address, u.avatar, u.department, u.position, u.is_deleted, u.created_at, u.updated_at
		FROM class_student_relation r
		JOIN users u ON u.id = r.student_id
		WHERE r.class_id = $1 AND NOT u.is_deleted
		ORDER BY r.created_at
	`

	rows, err := r.db.Query(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("error listing students by class: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// GetClassesByStudent lists the non-deleted classes a student is enrolled in
func (r *ClassStudentRepository) GetClassesByStudent(ctx context.Context, studentID int64) ([]*models.ClassInfo, error) {
	query := `
		SELECT c.id, c.class_code, c.class_name, c.grade, c.description, c.student_count,
		       c.is_deleted, c.created_at, c.updated_at
		FROM class_student_relation r
		JOIN class_info c ON c.id = r.class_id
		WHERE r.student_id = $1 AND NOT c.is_deleted
		ORDER BY r.created_at
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing classes by student: %w", err)
	}
	defer rows.Close()

	return scanClasses(rows)
}
