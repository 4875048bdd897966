package models

import (
	"time"
)

// UserType defines the user role type
type UserType string

const (
	UserTypeAdmin   UserType = "ADMIN"
	UserTypeTeacher UserType = "TEACHER"
	UserTypeStudent UserType = "STUDENT"
	UserTypeStaff   UserType = "STAFF"
)

// IsValid reports whether the value is one of the known user types.
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeAdmin, UserTypeTeacher, UserTypeStudent, UserTypeStaff:
		return true
	}
	return false
}

// User defines the user model based on the 'users' table
type User struct {
	ID         int64     `json:"id" db:"id" example:"1"`
	Username   string    `json:"username" db:"username" example:"jdoe"`
	Password   string    `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	Name       string    `json:"name" db:"name" example:"John Doe"`
	Email      string    `json:"email" db:"email" example:"jdoe@school.edu"`
	Phone      string    `json:"phone" db:"phone" example:"13800000000"`
	UserType   UserType  `json:"userType" db:"user_type" example:"STUDENT"`
	Address    *string   `json:"address,omitempty" db:"address"`
	Avatar     *string   `json:"avatar,omitempty" db:"avatar"`
	Department *string   `json:"department,omitempty" db:"department"`
	Position   *string   `json:"position,omitempty" db:"position"`
	IsDeleted  bool      `json:"-" db:"is_deleted"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`
}
