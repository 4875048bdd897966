package dto

// Machine-readable business error codes returned to clients.
const (
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeTeacherNotFound  = "TEACHER_NOT_FOUND"
	CodeStudentNotFound  = "STUDENT_NOT_FOUND"
	CodeClassNotFound    = "CLASS_NOT_FOUND"
	CodeRelationNotFound = "RELATION_NOT_FOUND"
	CodeUsernameExists   = "USERNAME_EXISTS"
	CodeEmailExists      = "EMAIL_EXISTS"
	CodePhoneExists      = "PHONE_EXISTS"
	CodeClassCodeExists  = "CLASS_CODE_EXISTS"
	CodeRelationExists   = "RELATION_EXISTS"
	CodeUserNotTeacher   = "USER_NOT_TEACHER"
	CodeUserNotStudent   = "USER_NOT_STUDENT"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeInvalidCreds     = "INVALID_CREDENTIALS"
	CodeInternalError    = "INTERNAL_ERROR"
)

// ErrorResponse is the standard error body: {code, message, details?}.
type ErrorResponse struct {
	Code    string            `json:"code" example:"USERNAME_EXISTS"`
	Message string            `json:"message" example:"username already exists"`
	Details map[string]string `json:"details,omitempty"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// WithDetails attaches per-field details to the error response
func (e *ErrorResponse) WithDetails(details map[string]string) *ErrorResponse {
	e.Details = details
	return e
}
