package dto

import (
	"time"

	"github.com/ekinkoc/schoolhub/internal/app/models"
)

// CreateClassRequest represents a request to create a class
type CreateClassRequest struct {
	ClassCode   string  `json:"classCode" binding:"required,max=50" example:"CS-2024-1"`
	ClassName   string  `json:"className" binding:"required,max=100" example:"Computer Science 1"`
	Grade       *string `json:"grade,omitempty" example:"2024"`
	Description *string `json:"description,omitempty"`
}

// UpdateClassRequest represents a partial class update; nil fields are left untouched
type UpdateClassRequest struct {
	ClassCode   *string `json:"classCode,omitempty" binding:"omitempty,max=50"`
	ClassName   *string `json:"className,omitempty" binding:"omitempty,max=100"`
	Grade       *string `json:"grade,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ClassResponse represents class data returned to clients
type ClassResponse struct {
	ID           int64     `json:"id" example:"1"`
	ClassCode    string    `json:"classCode" example:"CS-2024-1"`
	ClassName    string    `json:"className" example:"Computer Science 1"`
	Grade        *string   `json:"grade,omitempty" example:"2024"`
	Description  *string   `json:"description,omitempty"`
	StudentCount int       `json:"studentCount" example:"30"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ClassSearchFilter carries the optional conjunction filters for class search
type ClassSearchFilter struct {
	ClassName string
	ClassCode string
	Grade     string
}

// ToClassResponse maps a class entity to its response DTO
func ToClassResponse(class *models.ClassInfo) *ClassResponse {
	if class == nil {
		return nil
	}
	return &ClassResponse{
		ID:           class.ID,
		ClassCode:    class.ClassCode,
		ClassName:    class.ClassName,
		Grade:        class.Grade,
		Description:  class.Description,
		StudentCount: class.StudentCount,
		CreatedAt:    class.CreatedAt,
		UpdatedAt:    class.UpdatedAt,
	}
}

// ToClassResponses maps a slice of class entities to response DTOs
func ToClassResponses(classes []*models.ClassInfo) []*ClassResponse {
	out := make([]*ClassResponse, 0, len(classes))
	for _, c := range classes {
		out = append(out, ToClassResponse(c))
	}
	return out
}
