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

const constraintTeacherStudentPair = "uq_teacher_student_pair"

// TeacherStudentRepository handles database operations for teacher-student relations
type TeacherStudentRepository struct {
	db *pgxpool.Pool
}

// NewTeacherStudentRepository creates a new teacher-student relation repository
func NewTeacherStudentRepository(db *pgxpool.Pool) *TeacherStudentRepository {
	return &TeacherStudentRepository{db: db}
}

// Create inserts a relation row on the given handle. A concurrent duplicate
// loses at the unique index and surfaces as ErrRelationExists.
func (r *TeacherStudentRepository) Create(ctx context.Context, q db.Querier, relation *models.TeacherStudentRelation) error {
	query := `
		INSERT INTO teacher_student_relation (teacher_id, student_id, relation_type, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		relation.TeacherID, relation.StudentID, relation.RelationType, relation.Notes,
	).Scan(&relation.ID, &relation.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintTeacherStudentPair) {
			return apperrors.ErrRelationExists
		}
		return fmt.Errorf("error creating teacher-student relation: %w", err)
	}

	return nil
}

// ExistsByPair checks whether the (teacher, student) pair already has a relation
func (r *TeacherStudentRepository) ExistsByPair(ctx context.Context, teacherID, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM teacher_student_relation WHERE teacher_id = $1 AND student_id = $2)`,
		teacherID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking teacher-student relation existence: %w", err)
	}

	return exists, nil
}

// DeleteByPair removes the relation for the pair on the given handle.
func (r *TeacherStudentRepository) DeleteByPair(ctx context.Context, q db.Querier, teacherID, studentID int64) error {
	cmdTag, err := q.Exec(ctx,
		`DELETE FROM teacher_student_relation WHERE teacher_id = $1 AND student_id = $2`,
		teacherID, studentID)
	if err != nil {
		return fmt.Errorf("error deleting teacher-student relation: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRelationNotFound
	}

	return nil
}

// DeleteByTeacher removes all relations where the user is the teacher.
func (r *TeacherStudentRepository) DeleteByTeacher(ctx context.Context, q db.Querier, teacherID int64) (int64, error) {
	cmdTag, err := q.Exec(ctx,
		`DELETE FROM teacher_student_relation WHERE teacher_id = $1`, teacherID)
	if err != nil {
		return 0, fmt.Errorf("error deleting relations by teacher: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

// DeleteByStudent removes all relations where the user is the student.
func (r *TeacherStudentRepository) DeleteByStudent(ctx context.Context, q db.Querier, studentID int64) (int64, error) {
	cmdTag, err := q.Exec(ctx,
		`DELETE FROM teacher_student_relation WHERE student_id = $1`, studentID)
	if err != nil {
		return 0, fmt.Errorf("error deleting relations by student: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

// GetStudentsByTeacher lists the non-deleted students related to a teacher
func (r *TeacherStudentRepository) GetStudentsByTeacher(ctx context.Context, teacherID int64) ([]*models.User, error) {
	query := `
		SELECT u.id, u.username, u.password, u.name, u.email, u.phone, u.user_type,
		       u.address, u.avatar, u.department, u.position, u.is_deleted, u.created_at, u.updated_at
		FROM teacher_student_relation r
		JOIN users u ON u.id = r.student_id
		WHERE r.teacher_id = $1 AND NOT u.is_deleted
		ORDER BY r.created_at
	`

	rows, err := r.db.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error listing students by teacher: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// GetTeachersByStudent lists the non-deleted teachers related to a student
func (r *TeacherStudentRepository) GetTeachersByStudent(ctx context.Context, studentID int64) ([]*models.User, error) {
	query := `
		SELECT u.id, u.username, u.password, u.name, u.email, u.phone, u.user_type,
		       u.address, u.avatar, u.department, u.position, u.is_deleted, u.created_at, u.updated_at
		FROM teacher_student_relation r
		JOIN users u ON u.id = r.teacher_id
		WHERE r.student_id = $1 AND NOT u.is_deleted
		ORDER BY r.created_at
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing teachers by student: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}
