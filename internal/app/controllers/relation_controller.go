package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekinkoc/schoolhub/internal/app/models/dto"
	"github.com/ekinkoc/schoolhub/internal/app/services"
	"github.com/ekinkoc/schoolhub/internal/middleware"
)

// RelationController handles teacher-student links and class rosters
type RelationController struct {
	relationService *services.RelationService
}

// NewRelationController creates a new RelationController
func NewRelationController(relationService *services.RelationService) *RelationController {
	return &RelationController{relationService: relationService}
}

// CreateTeacherStudentRelation links a teacher and a student
// @Summary Link a teacher and a student
// @Description Both users must exist, be active and carry the matching type
// @Tags relations
// @Accept json
// @Produce json
// @Param request body dto.TeacherStudentRelationRequest true "Relation information"
// @Success 201 {object} models.TeacherStudentRelation "Relation created"
// @Failure 400 {object} dto.ErrorResponse "Type mismatch or relation already exists"
// @Failure 404 {object} dto.ErrorResponse "Teacher or student not found"
// @Router /relations/teacher-student [post]
func (c *RelationController) CreateTeacherStudentRelation(ctx *gin.Context) {
	var req dto.TeacherStudentRelationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	relation, err := c.relationService.CreateTeacherStudentRelation(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, relation)
}

// DeleteTeacherStudentRelation removes a teacher-student link
// @Summary Unlink a teacher and a student
// @Tags relations
// @Param teacherId query int true "Teacher user ID"
// @Param studentId query int true "Student user ID"
// @Success 204 "Relation deleted"
// @Failure 404 {object} dto.ErrorResponse "Relation not found"
// @Router /relations/teacher-student [delete]
func (c *RelationController) DeleteTeacherStudentRelation(ctx *gin.Context) {
	teacherID, studentID, ok := parsePairQuery(ctx, "teacherId", "studentId")
	if !ok {
		return
	}

	if err := c.relationService.DeleteTeacherStudentRelation(ctx.Request.Context(), teacherID, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// CheckTeacherStudentRelation reports whether a teacher-student link exists
// @Summary Check a teacher-student link
// @Tags relations
// @Produce json
// @Param teacherId query int true "Teacher user ID"
// @Param studentId query int true "Student user ID"
// @Success 200 {object} dto.RelationCheckResponse "Existence"
// @Router /relations/check/teacher-student [get]
func (c *RelationController) CheckTeacherStudentRelation(ctx *gin.Context) {
	teacherID, studentID, ok := parsePairQuery(ctx, "teacherId", "studentId")
	if !ok {
		return
	}

	exists, err := c.relationService.TeacherStudentRelationExists(ctx.Request.Context(), teacherID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RelationCheckResponse{Exists: exists})
}

// GetStudentsByTeacher lists the students linked to a teacher
// @Summary List students of a teacher
// @Tags relations
// @Produce json
// @Param id path int true "Teacher user ID"
// @Success 200 {array} dto.UserResponse "Students"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /relations/teacher/{id}/students [get]
func (c *RelationController) GetStudentsByTeacher(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	students, err := c.relationService.GetStudentsByTeacher(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponses(students))
}

// GetTeachersByStudent lists the teachers linked to a student
// @Summary List teachers of a student
// @Tags relations
// @Produce json
// @Param id path int true "Student user ID"
// @Success 200 {array} dto.UserResponse "Teachers"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /relations/student/{id}/teachers [get]
func (c *RelationController) GetTeachersByStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	teachers, err := c.relationService.GetTeachersByStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponses(teachers))
}

// CreateClassStudentRelation enrolls a student in a class
// @Summary Enroll a student in a class
// @Description The class student count is updated within the same transaction
// @Tags relations
// @Accept json
// @Produce json
// @Param request body dto.ClassStudentRelationRequest true "Enrollment information"
// @Success 201 {object} models.ClassStudentRelation "Enrollment created"
// @Failure 400 {object} dto.ErrorResponse "Type mismatch or already enrolled"
// @Failure 404 {object} dto.ErrorResponse "Class or student not found"
// @Router /relations/class-student [post]
func (c *RelationController) CreateClassStudentRelation(ctx *gin.Context) {
	var req dto.ClassStudentRelationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	relation, err := c.relationService.CreateClassStudentRelation(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, relation)
}

// DeleteClassStudentRelation removes a student from a class
// @Summary Remove a student from a class
// @Description The class student count is updated within the same transaction
// @Tags relations
// @Param classId query int true "Class ID"
// @Param studentId query int true "Student user ID"
// @Success 204 "Enrollment deleted"
// @Failure 404 {object} dto.ErrorResponse "Relation not found"
// @Router /relations/class-student [delete]
func (c *RelationController) DeleteClassStudentRelation(ctx *gin.Context) {
	classID, studentID, ok := parsePairQuery(ctx, "classId", "studentId")
	if !ok {
		return
	}

	if err := c.relationService.DeleteClassStudentRelation(ctx.Request.Context(), classID, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// CheckClassStudentRelation reports whether a student is enrolled in a class
// @Summary Check a class enrollment
// @Tags relations
// @Produce json
// @Param classId query int true "Class ID"
// @Param studentId query int true "Student user ID"
// @Success 200 {object} dto.RelationCheckResponse "Existence"
// @Router /relations/check/class-student [get]
func (c *RelationController) CheckClassStudentRelation(ctx *gin.Context) {
	classID, studentID, ok := parsePairQuery(ctx, "classId", "studentId")
	if !ok {
		return
	}

	exists, err := c.relationService.ClassStudentRelationExists(ctx.Request.Context(), classID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RelationCheckResponse{Exists: exists})
}

// GetStudentsByClass lists the students enrolled in a class
// @Summary List students of a class
// @Tags relations
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {array} dto.UserResponse "Students"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /relations/class/{id}/students [get]
func (c *RelationController) GetStudentsByClass(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	students, err := c.relationService.GetStudentsByClass(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponses(students))
}

// GetClassesByStudent lists the classes a student is enrolled in
// @Summary List classes of a student
// @Tags relations
// @Produce json
// @Param id path int true "Student user ID"
// @Success 200 {array} dto.ClassResponse "Classes"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /relations/student/{id}/classes [get]
func (c *RelationController) GetClassesByStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	classes, err := c.relationService.GetClassesByStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToClassResponses(classes))
}

// parsePairQuery parses two required numeric query parameters
func parsePairQuery(ctx *gin.Context, firstName, secondName string) (int64, int64, bool) {
	first, ok := parseRequiredIDQuery(ctx, firstName)
	if !ok {
		return 0, 0, false
	}
	second, ok := parseRequiredIDQuery(ctx, secondName)
	if !ok {
		return 0, 0, false
	}
	return first, second, true
}
