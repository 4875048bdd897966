package services

import (
	"context"

	"github.com/ekinkoc/schoolhub/internal/app/models"
	"github.com/ekinkoc/schoolhub/internal/app/models/dto"
	"github.com/ekinkoc/schoolhub/internal/db"
	"github.com/ekinkoc/schoolhub/internal/pkg/helpers"
)

// The stores below are the repository surfaces the services depend on.
// Methods that must compose into a single unit of work take an explicit
// db.Querier handle; everything else runs on the repository's own pool.

// UserStore is the user repository surface used by services
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, q db.Querier, id int64) error
	Search(ctx context.Context, filter dto.UserSearchFilter, p helpers.PageParams) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	ExistsByPhone(ctx context.Context, phone string, excludeID int64) (bool, error)
}

// ClassStore is the class repository surface used by services
type ClassStore interface {
	Create(ctx context.Context, class *models.ClassInfo) error
	GetByID(ctx context.Context, id int64) (*models.ClassInfo, error)
	Update(ctx context.Context, class *models.ClassInfo) error
	SoftDelete(ctx context.Context, q db.Querier, id int64) error
	AdjustStudentCount(ctx context.Context, q db.Querier, id int64, delta int) error
	Search(ctx context.Context, filter dto.ClassSearchFilter, p helpers.PageParams) ([]*models.ClassInfo, int64, error)
	ExistsByClassCode(ctx context.Context, classCode string, excludeID int64) (bool, error)
}

// TeacherStudentStore is the teacher-student relation repository surface
type TeacherStudentStore interface {
	Create(ctx context.Context, q db.Querier, relation *models.TeacherStudentRelation) error
	ExistsByPair(ctx context.Context, teacherID, studentID int64) (bool, error)
	DeleteByPair(ctx context.Context, q db.Querier, teacherID, studentID int64) error
	DeleteByTeacher(ctx context.Context, q db.Querier, teacherID int64) (int64, error)
	DeleteByStudent(ctx context.Context, q db.Querier, studentID int64) (int64, error)
	GetStudentsByTeacher(ctx context.Context, teacherID int64) ([]*models.User, error)
	GetTeachersByStudent(ctx context.Context, studentID int64) ([]*models.User, error)
}

// ClassStudentStore is the class-student relation repository surface
type ClassStudentStore interface {
	Create(ctx context.Context, q db.Querier, relation *models.ClassStudentRelation) error
	ExistsByPair(ctx context.Context, classID, studentID int64) (bool, error)
	DeleteByPair(ctx context.Context, q db.Querier, classID, studentID int64) error
	DeleteByClass(ctx context.Context, q db.Querier, classID int64) (int64, error)
	DeleteByStudent(ctx context.Context, q db.Querier, studentID int64) ([]int64, error)
	GetStudentsByClass(ctx context.Context, classID int64) ([]*models.User, error)
	GetClassesByStudent(ctx context.Context, studentID int64) ([]*models.ClassInfo, error)
}

// TxRunner runs a function inside a database transaction
type TxRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}
