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

// Unique constraint names from migrations/001_init.sql. Scoped to non-deleted
// rows via partial indexes, so soft-deleted values become reusable.
const (
	constraintUserUsername = "uq_users_username"
	constraintUserEmail    = "uq_users_email"
	constraintUserPhone    = "uq_users_phone"
)

const userColumns = "id, username, password, name, email, phone, user_type, address, avatar, department, position, is_deleted, created_at, updated_at"

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// mapUserConstraintError translates pg unique violations into typed conflicts.
// The unique indexes are the authoritative guard; service pre-checks are an
// optimization only.
func mapUserConstraintError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, constraintUserUsername):
		return apperrors.ErrUsernameExists
	case dberrors.IsDuplicateConstraintError(err, constraintUserEmail):
		return apperrors.ErrEmailExists
	case dberrors.IsDuplicateConstraintError(err, constraintUserPhone):
		return apperrors.ErrPhoneExists
	}
	return err
}

// Create inserts a new user and fills in the generated id and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password, name, email, phone, user_type, address, avatar, department, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.Username, user.Password, user.Name, user.Email, user.Phone, user.UserType,
		user.Address, user.Avatar, user.Department, user.Position,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return mapUserConstraintError(err)
	}

	return nil
}

// GetByID retrieves a non-deleted user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 AND NOT is_deleted`, userColumns)

	user, err := scanUserRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a non-deleted user by exact username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 AND NOT is_deleted`, userColumns)

	user, err := scanUserRow(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by username: %w", err)
	}

	return user, nil
}

// Update writes the merged user row back. The caller is responsible for
// having loaded and merged the entity first.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $1, password = $2, name = $3, email = $4, phone = $5, user_type = $6,
		    address = $7, avatar = $8, department = $9, position = $10, updated_at = now()
		WHERE id = $11 AND NOT is_deleted
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.Username, user.Password, user.Name, user.Email, user.Phone, user.UserType,
		user.Address, user.Avatar, user.Department, user.Position, user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrUserNotFound
		}
		return mapUserConstraintError(err)
	}

	return nil
}

// SoftDelete flips the deletion flag. Runs on the given handle so callers can
// compose it with relation cleanup in one transaction.
func (r *UserRepository) SoftDelete(ctx context.Context, q db.Querier, id int64) error {
	cmdTag, err := q.Exec(ctx,
		`UPDATE users SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return fmt.Errorf("error soft-deleting user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// Search retrieves non-deleted users matching the filter conjunction, with
// pagination and whitelisted sorting. Empty filter fields are ignored.
func (r *UserRepository) Search(ctx context.Context, filter dto.UserSearchFilter, p helpers.PageParams) ([]*models.User, int64, error) {
	where := squirrel.And{squirrel.Expr("NOT is_deleted")}
	if filter.Username != "" {
		where = append(where, squirrel.ILike{"username": "%" + strings.TrimSpace(filter.Username) + "%"})
	}
	if filter.Name != "" {
		where = append(where, squirrel.ILike{"name": "%" + strings.TrimSpace(filter.Name) + "%"})
	}
	if filter.Email != "" {
		where = append(where, squirrel.ILike{"email": "%" + strings.TrimSpace(filter.Email) + "%"})
	}
	if filter.Phone != "" {
		where = append(where, squirrel.ILike{"phone": "%" + strings.TrimSpace(filter.Phone) + "%"})
	}
	if filter.UserType != "" {
		where = append(where, squirrel.Eq{"user_type": filter.UserType})
	}

	countSql, countArgs, err := r.sb.Select("COUNT(*)").From("users").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count users query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	if total == 0 {
		return []*models.User{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(p.Page, p.Size)

	querySql, queryArgs, err := r.sb.Select(userColumns).
		From("users").
		Where(where).
		OrderBy(userSortClause(p)).
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build search users query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ExistsByUsername checks if a non-deleted user other than excludeId holds the username.
// Pass excludeID 0 to consider all rows.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.existsByField(ctx, "username", username, excludeID)
}

// ExistsByEmail checks if a non-deleted user other than excludeId holds the email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.existsByField(ctx, "email", email, excludeID)
}

// ExistsByPhone checks if a non-deleted user other than excludeId holds the phone number.
func (r *UserRepository) ExistsByPhone(ctx context.Context, phone string, excludeID int64) (bool, error) {
	return r.existsByField(ctx, "phone", phone, excludeID)
}

func (r *UserRepository) existsByField(ctx context.Context, field, value string, excludeID int64) (bool, error) {
	var exists bool
	query := fmt.Sprintf(
		`SELECT EXISTS(SELECT 1 FROM users WHERE %s = $1 AND NOT is_deleted AND ($2 = 0 OR id <> $2))`, field)

	if err := r.db.QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking user %s existence: %w", field, err)
	}

	return exists, nil
}

// userSortClause maps API sort fields onto DB columns; unknown fields fall
// back to created_at.
func userSortClause(p helpers.PageParams) string {
	columns := map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"username":  "username",
		"name":      "name",
		"email":     "email",
		"userType":  "user_type",
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

func scanUserRow(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Password, &user.Name, &user.Email, &user.Phone,
		&user.UserType, &user.Address, &user.Avatar, &user.Department, &user.Position,
		&user.IsDeleted, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUsers(rows pgx.Rows) ([]*models.User, error) {
	var users []*models.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
