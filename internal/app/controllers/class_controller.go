package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekinkoc/schoolhub/internal/app/models/dto"
	"github.com/ekinkoc/schoolhub/internal/app/services"
	"github.com/ekinkoc/schoolhub/internal/middleware"
	"github.com/ekinkoc/schoolhub/internal/pkg/helpers"
)

// ClassController handles class management endpoints
type ClassController struct {
	classService *services.ClassService
}

// NewClassController creates a new ClassController
func NewClassController(classService *services.ClassService) *ClassController {
	return &ClassController{classService: classService}
}

// CreateClass handles class creation
// @Summary Create a new class
// @Description Creates a class with a unique class code; the student count starts at zero
// @Tags classes
// @Accept json
// @Produce json
// @Param request body dto.CreateClassRequest true "Class information"
// @Success 201 {object} dto.ClassResponse "Class created"
// @Failure 400 {object} dto.ErrorResponse "Validation failure or duplicate class code"
// @Router /classes [post]
func (c *ClassController) CreateClass(ctx *gin.Context) {
	var req dto.CreateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	class, err := c.classService.CreateClass(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToClassResponse(class))
}

// GetClassByID retrieves a class by ID
// @Summary Get class by ID
// @Tags classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} dto.ClassResponse "Class found"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id} [get]
func (c *ClassController) GetClassByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	class, err := c.classService.GetClassByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToClassResponse(class))
}

// UpdateClass applies a partial update to a class
// @Summary Update class
// @Description Updates the provided fields only; the student count cannot be set through this endpoint
// @Tags classes
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Param request body dto.UpdateClassRequest true "Fields to update"
// @Success 200 {object} dto.ClassResponse "Class updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failure or duplicate class code"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id} [put]
func (c *ClassController) UpdateClass(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	class, err := c.classService.UpdateClass(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToClassResponse(class))
}

// DeleteClass soft-deletes a class
// @Summary Delete class
// @Description Soft-deletes the class and clears its roster; enrolled students keep their accounts
// @Tags classes
// @Param id path int true "Class ID"
// @Success 204 "Class deleted"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id} [delete]
func (c *ClassController) DeleteClass(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.classService.DeleteClass(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListClasses returns a page of classes
// @Summary List classes
// @Tags classes
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Param sort query string false "Sort, e.g. className,asc"
// @Success 200 {object} dto.PageResponse "Page of classes"
// @Router /classes [get]
func (c *ClassController) ListClasses(ctx *gin.Context) {
	c.searchClasses(ctx, dto.ClassSearchFilter{})
}

// ListClassesByGrade returns a page of classes in the given grade
// @Summary List classes by grade
// @Tags classes
// @Produce json
// @Param grade path string true "Grade"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.PageResponse "Page of classes"
// @Router /classes/grade/{grade} [get]
func (c *ClassController) ListClassesByGrade(ctx *gin.Context) {
	c.searchClasses(ctx, dto.ClassSearchFilter{Grade: ctx.Param("grade")})
}

// SearchClasses returns a page of classes matching the query filters
// @Summary Search classes
// @Description All provided filters are combined with AND; text filters match as substrings
// @Tags classes
// @Produce json
// @Param className query string false "Class name contains"
// @Param classCode query string false "Class code contains"
// @Param grade query string false "Exact grade"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.PageResponse "Page of classes"
// @Router /classes/search [get]
func (c *ClassController) SearchClasses(ctx *gin.Context) {
	c.searchClasses(ctx, dto.ClassSearchFilter{
		ClassName: ctx.Query("className"),
		ClassCode: ctx.Query("classCode"),
		Grade:     ctx.Query("grade"),
	})
}

func (c *ClassController) searchClasses(ctx *gin.Context, filter dto.ClassSearchFilter) {
	params := helpers.ParsePageParams(ctx)

	classes, total, err := c.classService.SearchClasses(ctx.Request.Context(), filter, params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	totalPages := helpers.TotalPages(total, params.Size)
	ctx.JSON(http.StatusOK, dto.NewPageResponse(
		dto.ToClassResponses(classes), total, params.Page, params.Size, totalPages))
}

// ValidateClassCode checks whether a class code is available
// @Summary Check class code availability
// @Tags classes
// @Produce json
// @Param value query string true "Class code to check"
// @Param excludeId query int false "Class ID to ignore, for in-place edits"
// @Success 200 {object} dto.AvailabilityResponse "Availability"
// @Router /classes/validate/classCode [get]
func (c *ClassController) ValidateClassCode(ctx *gin.Context) {
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

	available, err := c.classService.CheckClassCodeAvailable(ctx.Request.Context(), value, excludeID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AvailabilityResponse{Available: available})
}
