package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekinkoc/schoolhub/internal/app/models/dto"
	"github.com/ekinkoc/schoolhub/internal/pkg/apperrors"
	"github.com/ekinkoc/schoolhub/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. Missing resources
// map to 404, authentication failures to 401, business rule violations to
// 400, and anything unrecognized to 500.
func HandleAPIError(c *gin.Context, err error) {
	status, resp := classifyError(err)

	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		if custom.Message != "" {
			resp.Message = custom.Message
		}
		if len(custom.Details) > 0 {
			details := make(map[string]string, len(custom.Details))
			for k, v := range custom.Details {
				if s, ok := v.(string); ok {
					details[k] = s
				}
			}
			resp = resp.WithDetails(details)
		}
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	}

	c.JSON(status, resp)
}

func classifyError(err error) (int, *dto.ErrorResponse) {
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(dto.CodeUserNotFound, "user not found")
	case errors.Is(err, apperrors.ErrTeacherNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(dto.CodeTeacherNotFound, "teacher not found")
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(dto.CodeStudentNotFound, "student not found")
	case errors.Is(err, apperrors.ErrClassNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(dto.CodeClassNotFound, "class not found")
	case errors.Is(err, apperrors.ErrRelationNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(dto.CodeRelationNotFound, "relation not found")
	case errors.Is(err, apperrors.ErrUsernameExists):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.CodeUsernameExists, "username already exists")
	case errors.Is(err, apperrors.ErrEmailExists):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.CodeEmailExists, "email already exists")
	case errors.Is(err, apperrors.ErrPhoneExists):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.CodePhoneExists, "phone already exists")
	case errors.Is(err, apperrors.ErrClassCodeExists):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.CodeClassCodeExists, "class code already exists")
	case errors.Is(err, apperrors.ErrRelationExists):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.CodeRelationExists, "relation already exists")
	case errors.Is(err, apperrors.ErrUserNotTeacher):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.CodeUserNotTeacher, "user is not a teacher")
	case errors.Is(err, apperrors.ErrUserNotStudent):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.CodeUserNotStudent, "user is not a student")
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.CodeValidationError, "validation failed")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.CodeInvalidCreds, "invalid credentials")
	default:
		return http.StatusInternalServerError, dto.NewErrorResponse(dto.CodeInternalError, "internal server error")
	}
}

// HandleValidationError turns a request binding failure into a 400 response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.CodeValidationError, err.Error()))
}
