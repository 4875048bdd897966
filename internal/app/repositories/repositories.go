package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	UserRepository           *UserRepository
	ClassRepository          *ClassRepository
	TeacherStudentRepository *TeacherStudentRepository
	ClassStudentRepository   *ClassStudentRepository
}

// NewRepositories creates a container with all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:           NewUserRepository(db),
		ClassRepository:          NewClassRepository(db),
		TeacherStudentRepository: NewTeacherStudentRepository(db),
		ClassStudentRepository:   NewClassStudentRepository(db),
	}
}
