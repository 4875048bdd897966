package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekinkoc/schoolhub/internal/app/models"
	"github.com/ekinkoc/schoolhub/internal/app/models/dto"
	"github.com/ekinkoc/schoolhub/internal/db"
	"github.com/ekinkoc/schoolhub/internal/pkg/apperrors"
	"github.com/ekinkoc/schoolhub/internal/pkg/dberrors"
	"github.com/ekinkoc/schoolhub/internal/pkg/helpers"
)

const constraintClassCode = "uq_class_info_class_code"

const classColumns = "id, class_code, class_name, grade, description, student_count, is_deleted, created_at, updated_at"

// ClassRepository handles database operations for classes
type ClassRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClassRepository creates a new class repository
func NewClassRepository(db *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new class with a zero student count.
func (r *ClassRepository) Create(ctx context.Context, class *models.ClassInfo) error {
	query := `
		INSERT INTO class_info (class_code, class_name, grade, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, student_count, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		class.ClassCode, class.ClassName, class.Grade, class.Description,
	).Scan(&class.ID, &class.StudentCount, &class.CreatedAt, &class.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintClassCode) {
			return apperrors.ErrClassCodeExists
		}
		return err
	}

	return nil
}

// GetByID retrieves a non-deleted class by ID
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.ClassInfo, error) {
	query := fmt.Sprintf(`SELECT %s FROM class_info WHERE id = $1 AND NOT is_deleted`, classColumns)

	class, err := scanClassRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error retrieving class: %w", err)
	}

	return class, nil
}

// Update writes the merged class row back. Student count is never written
// here; it only moves through AdjustStudentCount.
func (r *ClassRepository) Update(ctx context.Context, class *models.ClassInfo) error {
	query := `
		UPDATE class_info
		SET class_code = $1, class_name = $2, grade = $3, description = $4, updated_at = now()
		WHERE id = $5 AND NOT is_deleted
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		class.ClassCode, class.ClassName, class.Grade, class.Description, class.ID,
	).Scan(&class.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrClassNotFound
		}
		if dberrors.IsDuplicateConstraintError(err, constraintClassCode) {
			return apperrors.ErrClassCodeExists
		}
		return fmt.Errorf("error updating class: %w", err)
	}

	return nil
}

// SoftDelete flips the deletion flag on the given handle.
func (r *ClassRepository) SoftDelete(ctx context.Context, q db.Querier, id int64) error {
	cmdTag, err := q.Exec(ctx,
		`UPDATE class_info SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return fmt.Errorf("error soft-deleting class: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClassNotFound
	}

	return nil
}

// AdjustStudentCount applies a relative delta to the denormalized counter.
// The delta form keeps the increment atomic at the row level under concurrent
// requests; callers must never read-then-write the counter.
func (r *ClassRepository) AdjustStudentCount(ctx context.Context, q db.Querier, id int64, delta int) error {
	cmdTag, err := q.Exec(ctx,
		`UPDATE class_info SET student_count = student_count + $2, updated_at = now() WHERE id = $1 AND NOT is_deleted`,
		id, delta)
	if err != nil {
		return fmt.Errorf("error adjusting student count: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClassNotFound
	}

	return nil
}

// Search retrieves non-deleted classes matching the filter conjunction, with
// pagination and whitelisted sorting.
func (r *ClassRepository) Search(ctx context.Context, filter dto.ClassSearchFilter, p helpers.PageParams) ([]*models.ClassInfo, int64, error) {
	where := squirrel.And{squirrel.Expr("NOT is_deleted")}
	if filter.ClassName != "" {
		where = append(where, squirrel.ILike{"class_name": "%" + strings.TrimSpace(filter.ClassName) + "%"})
	}
	if filter.ClassCode != "" {
		where = append(where, squirrel.ILike{"class_code": "%" + strings.TrimSpace(filter.ClassCode) + "%"})
	}
	if filter.Grade != "" {
		where = append(where, squirrel.Eq{"grade": filter.Grade})
	}

	countSql, countArgs, err := r.sb.Select("COUNT(*)").From("class_info").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count classes query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count classes: %w", err)
	}

	if total == 0 {
		return []*models.ClassInfo{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(p.Page, p.Size)

	querySql, queryArgs, err := r.sb.Select(classColumns).
		From("class_info").
		Where(where).
		OrderBy(classSortClause(p)).
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build search classes query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search classes: %w", err)
	}
	defer rows.Close()

	classes, err := scanClasses(rows)
	if err != nil {
		return nil, 0, err
	}

	return classes, total, nil
}

// ExistsByClassCode checks if a non-deleted class other than excludeId holds the code.
// Pass excludeID 0 to consider all rows.
func (r *ClassRepository) ExistsByClassCode(ctx context.Context, classCode string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM class_info WHERE class_code = $1 AND NOT is_deleted AND ($2 = 0 OR id <> $2))`,
		classCode, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking class code existence: %w", err)
	}

	return exists, nil
}

func classSortClause(p helpers.PageParams) string {
	columns := map[string]string{
		"createdAt":    "created_at",
		"updatedAt":    "updated_at",
		"classCode":    "class_code",
		"className":    "class_name",
		"grade":        "grade",
		"studentCount": "student_count",
	}

	column, ok := columns[p.SortBy]
	if !ok {
		column = "created_at"
	}

	dir := "ASC"
	if p.SortDesc {
		dir = "DESC"
	}

	return column + " " + dir
}

func scanClassRow(row pgx.Row) (*models.ClassInfo, error) {
	var class models.ClassInfo
	err := row.Scan(
		&class.ID, &class.ClassCode, &class.ClassName, &class.Grade, &class.Description,
		&class.StudentCount, &class.IsDeleted, &class.CreatedAt, &class.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func scanClasses(rows pgx.Rows) ([]*models.ClassInfo, error) {
	var classes []*models.ClassInfo
	for rows.Next() {
		class, err := scanClassRow(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classes, nil
}
