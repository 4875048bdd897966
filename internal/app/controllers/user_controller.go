package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ekinkoc/schoolhub/internal/app/models"
	"github.com/ekinkoc/schoolhub/internal/app/models/dto"
	"github.com/ekinkoc/schoolhub/internal/app/services"
	"github.com/ekinkoc/schoolhub/internal/middleware"
	"github.com/ekinkoc/schoolhub/internal/pkg/helpers"
)

// UserController handles user management endpoints
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// CreateUser handles user creation
// @Summary Create a new user
// @Description Creates a user account with a unique username, email and phone
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User information"
// @Success 201 {object} dto.UserResponse "User created"
// @Failure 400 {object} dto.ErrorResponse "Validation failure or duplicate field"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	user, err := c.userService.CreateUser(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// GetUserByID retrieves a user by ID
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponse "User found"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) GetUserByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetUserByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// UpdateUser applies a partial update to a user
// @Summary Update user
// @Description Updates the provided fields only; absent fields are left unchanged
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse "User updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failure or duplicate field"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	user, err := c.userService.UpdateUser(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// DeleteUser soft-deletes a user
// @Summary Delete user
// @Description Soft-deletes the user and removes all of their relations
// @Tags users
// @Param id path int true "User ID"
// @Success 204 "User deleted"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListUsers returns a page of users
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Param sort query string false "Sort, e.g. createdAt,desc"
// @Success 200 {object} dto.PageResponse "Page of users"
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	c.searchUsers(ctx, dto.UserSearchFilter{})
}

// ListUsersByType returns a page of users of the given type
// @Summary List users by type
// @Tags users
// @Produce json
// @Param userType path string true "User type" Enums(ADMIN, TEACHER, STUDENT, STAFF)
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.PageResponse "Page of users"
// @Failure 400 {object} dto.ErrorResponse "Unknown user type"
// @Router /users/type/{userType} [get]
func (c *UserController) ListUsersByType(ctx *gin.Context) {
	userType := models.UserType(ctx.Param("userType"))
	if !userType.IsValid() {
		ctx.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.CodeValidationError, "unknown user type"))
		return
	}
	c.searchUsers(ctx, dto.UserSearchFilter{UserType: string(userType)})
}

// SearchUsers returns a page of users matching the query filters
// @Summary Search users
// @Description All provided filters are combined with AND; text filters match as substrings
// @Tags users
// @Produce json
// @Param username query string false "Username contains"
// @Param name query string false "Name contains"
// @Param email query string false "Email contains"
// @Param phone query string false "Phone contains"
// @Param userType query string false "Exact user type"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Param sort query string false "Sort, e.g. name,asc"
// @Success 200 {object} dto.PageResponse "Page of users"
// @Router /users/search [get]
func (c *UserController) SearchUsers(ctx *gin.Context) {
	c.searchUsers(ctx, dto.UserSearchFilter{
		Username: ctx.Query("username"),
		Name:     ctx.Query("name"),
		Email:    ctx.Query("email"),
		Phone:    ctx.Query("phone"),
		UserType: ctx.Query("userType"),
	})
}

func (c *UserController) searchUsers(ctx *gin.Context, filter dto.UserSearchFilter) {
	params := helpers.ParsePageParams(ctx)

	users, total, err := c.userService.SearchUsers(ctx.Request.Context(), filter, params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	totalPages := helpers.TotalPages(total, params.Size)
	ctx.JSON(http.StatusOK, dto.NewPageResponse(
		dto.ToUserResponses(users), total, params.Page, params.Size, totalPages))
}

// GetUserTeachers lists the teachers of a student
// @Summary List a student's teachers
// @Tags users
// @Produce json
// @Param id path int true "Student user ID"
// @Success 200 {array} dto.UserResponse "Teachers"
// @Failure 400 {object} dto.ErrorResponse "User is not a student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /users/{id}/teachers [get]
func (c *UserController) GetUserTeachers(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	teachers, err := c.userService.GetUserTeachers(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponses(teachers))
}

// GetUserStudents lists the students of a teacher
// @Summary List a teacher's students
// @Tags users
// @Produce json
// @Param id path int true "Teacher user ID"
// @Success 200 {array} dto.UserResponse "Students"
// @Failure 400 {object} dto.ErrorResponse "User is not a teacher"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /users/{id}/students [get]
func (c *UserController) GetUserStudents(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	students, err := c.userService.GetUserStudents(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponses(students))
}

// ValidateUsername checks whether a username is available
// @Summary Check username availability
// @Tags users
// @Produce json
// @Param value query string true "Username to check"
// @Param excludeId query int false "User ID to ignore, for in-place edits"
// @Success 200 {object} dto.AvailabilityResponse "Availability"
// @Router /users/validate/username [get]
func (c *UserController) ValidateUsername(ctx *gin.Context) {
	c.validateField(ctx, c.userService.CheckUsernameAvailable)
}

// ValidateEmail checks whether an email is available
// @Summary Check email availability
// @Tags users
// @Produce json
// @Param value query string true "Email to check"
// @Param excludeId query int false "User ID to ignore, for in-place edits"
// @Success 200 {object} dto.AvailabilityResponse "Availability"
// @Router /users/validate/email [get]
func (c *UserController) ValidateEmail(ctx *gin.Context) {
	c.validateField(ctx, c.userService.CheckEmailAvailable)
}

// ValidatePhone checks whether a phone number is available
// @Summary Check phone availability
// @Tags users
// @Produce json
// @Param value query string true "Phone to check"
// @Param excludeId query int false "User ID to ignore, for in-place edits"
// @Success 200 {object} dto.AvailabilityResponse "Availability"
// @Router /users/validate/phone [get]
func (c *UserController) ValidatePhone(ctx *gin.Context) {
	c.validateField(ctx, c.userService.CheckPhoneAvailable)
}

func (c *UserController) validateField(ctx *gin.Context, check func(context.Context, string, int64) (bool, error)) {
	value := ctx.Query("value")
	if value == "" {
		ctx.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.CodeValidationError, "value query parameter is required"))
		return
	}

	excludeID, ok := parseOptionalIDQuery(ctx, "excludeId")
	if !ok {
		return
	}

	available, err := check(ctx.Request.Context(), value, excludeID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AvailabilityResponse{Available: available})
}

// parseIDParam parses a numeric path parameter, answering 400 itself on failure
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.CodeValidationError, name+" must be a positive number"))
		return 0, false
	}
	return id, true
}

// parseRequiredIDQuery parses a required numeric query parameter
func parseRequiredIDQuery(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Query(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.CodeValidationError, name+" must be a positive number"))
		return 0, false
	}
	return id, true
}

// parseOptionalIDQuery parses a numeric query parameter, treating absence as zero
func parseOptionalIDQuery(ctx *gin.Context, name string) (int64, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.CodeValidationError, name+" must be a number"))
		return 0, false
	}
	return id, true
}
