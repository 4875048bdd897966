package dto

import (
	"time"

	"github.com/ekinkoc/schoolhub/internal/app/models"
)

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Username   string  `json:"username" binding:"required,min=3,max=50" example:"jdoe"`
	Password   string  `json:"password" binding:"required,min=6" example:"secret123"`
	Name       string  `json:"name" binding:"required" example:"John Doe"`
	Email      string  `json:"email" binding:"required,email" example:"jdoe@school.edu"`
	Phone      string  `json:"phone" binding:"required,min=7,max=20" example:"13800000000"`
	UserType   string  `json:"userType" binding:"required,oneof=ADMIN TEACHER STUDENT STAFF" example:"STUDENT"`
	Address    *string `json:"address,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
}

// UpdateUserRequest represents a partial user update; nil fields are left untouched
type UpdateUserRequest struct {
	Username   *string `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	Password   *string `json:"password,omitempty" binding:"omitempty,min=6"`
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" binding:"omitempty,min=7,max=20"`
	UserType   *string `json:"userType,omitempty" binding:"omitempty,oneof=ADMIN TEACHER STUDENT STAFF"`
	Address    *string `json:"address,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
}

// UserResponse represents user data returned to clients; never carries the password
type UserResponse struct {
	ID         int64     `json:"id" example:"1"`
	Username   string    `json:"username" example:"jdoe"`
	Name       string    `json:"name" example:"John Doe"`
	Email      string    `json:"email" example:"jdoe@school.edu"`
	Phone      string    `json:"phone" example:"13800000000"`
	UserType   string    `json:"userType" example:"STUDENT"`
	Address    *string   `json:"address,omitempty"`
	Avatar     *string   `json:"avatar,omitempty"`
	Department *string   `json:"department,omitempty"`
	Position   *string   `json:"position,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UserSearchFilter carries the optional conjunction filters for user search
type UserSearchFilter struct {
	Username string
	Name     string
	Email    string
	Phone    string
	UserType string
}

// ToUserResponse maps a user entity to its response DTO
func ToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      user.Phone,
		UserType:   string(user.UserType),
		Address:    user.Address,
		Avatar:     user.Avatar,
		Department: user.Department,
		Position:   user.Position,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

// ToUserResponses maps a slice of user entities to response DTOs
func ToUserResponses(users []*models.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}
