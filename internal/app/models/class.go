package models

import "time"

// ClassInfo defines the class model based on the 'class_info' table
type ClassInfo struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	ClassCode    string    `json:"classCode" db:"class_code" example:"CS-2024-1"`
	ClassName    string    `json:"className" db:"class_name" example:"Computer Science 1"`
	Grade        *string   `json:"grade,omitempty" db:"grade" example:"2024"`
	Description  *string   `json:"description,omitempty" db:"description"`
	StudentCount int       `json:"studentCount" db:"student_count" example:"30"`
	IsDeleted    bool      `json:"-" db:"is_deleted"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
