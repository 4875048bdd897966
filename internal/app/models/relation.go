package models

import "time"

// TeacherStudentRelation links a teacher to a student with optional metadata
type TeacherStudentRelation struct {
	ID           int64     `json:"id" db:"id"`
	TeacherID    int64     `json:"teacherId" db:"teacher_id"`
	StudentID    int64     `json:"studentId" db:"student_id"`
	RelationType *string   `json:"relationType,omitempty" db:"relation_type"`
	Notes        *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Teacher *User `json:"teacher,omitempty"`
	Student *User `json:"student,omitempty"`
}

// ClassStudentRelation links a class to a student with optional metadata
type ClassStudentRelation struct {
	ID            int64     `json:"id" db:"id"`
	ClassID       int64     `json:"classId" db:"class_id"`
	StudentID     int64     `json:"studentId" db:"student_id"`
	StudentNumber *string   `json:"studentNumber,omitempty" db:"student_number"`
	SeatNumber    *string   `json:"seatNumber,omitempty" db:"seat_number"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Class   *ClassInfo `json:"class,omitempty"`
	Student *User      `json:"student,omitempty"`
}
