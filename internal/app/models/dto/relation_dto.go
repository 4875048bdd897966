package dto

// TeacherStudentRelationRequest represents a request to link a teacher and student
type TeacherStudentRelationRequest struct {
	TeacherID    int64   `json:"teacherId" binding:"required,min=1" example:"1"`
	StudentID    int64   `json:"studentId" binding:"required,min=1" example:"2"`
	RelationType *string `json:"relationType,omitempty" example:"head teacher"`
	Notes        *string `json:"notes,omitempty"`
}

// ClassStudentRelationRequest represents a request to enroll a student in a class
type ClassStudentRelationRequest struct {
	ClassID       int64   `json:"classId" binding:"required,min=1" example:"1"`
	StudentID     int64   `json:"studentId" binding:"required,min=1" example:"2"`
	StudentNumber *string `json:"studentNumber,omitempty" example:"20240001"`
	SeatNumber    *string `json:"seatNumber,omitempty" example:"12"`
	Notes         *string `json:"notes,omitempty"`
}

// RelationCheckResponse reports whether a relation pair exists
type RelationCheckResponse struct {
	Exists bool `json:"exists" example:"true"`
}
