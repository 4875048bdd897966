package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekinkoc/schoolhub/internal/app/controllers"
	"github.com/ekinkoc/schoolhub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	userController *controllers.UserController,
	classController *controllers.ClassController,
	relationController *controllers.RelationController,
	authController *controllers.AuthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.JWTAuth(), authController.Me)
	}

	users := v1.Group("/users")
	{
		users.POST("", userController.CreateUser)
		users.GET("", userController.ListUsers)
		users.GET("/search", userController.SearchUsers)
		users.GET("/type/:userType", userController.ListUsersByType)
		users.GET("/validate/username", userController.ValidateUsername)
		users.GET("/validate/email", userController.ValidateEmail)
		users.GET("/validate/phone", userController.ValidatePhone)
		users.GET("/:id", userController.GetUserByID)
		users.PUT("/:id", userController.UpdateUser)
		users.DELETE("/:id", userController.DeleteUser)
		users.GET("/:id/teachers", userController.GetUserTeachers)
		users.GET("/:id/students", userController.GetUserStudents)
	}

	classes := v1.Group("/classes")
	{
		classes.POST("", classController.CreateClass)
		classes.GET("", classController.ListClasses)
		classes.GET("/search", classController.SearchClasses)
		classes.GET("/grade/:grade", classController.ListClassesByGrade)
		classes.GET("/validate/classCode", classController.ValidateClassCode)
		classes.GET("/:id", classController.GetClassByID)
		classes.PUT("/:id", classController.UpdateClass)
		classes.DELETE("/:id", classController.DeleteClass)
	}

	relations := v1.Group("/relations")
	{
		relations.POST("/teacher-student", relationController.CreateTeacherStudentRelation)
		relations.DELETE("/teacher-student", relationController.DeleteTeacherStudentRelation)
		relations.POST("/class-student", relationController.CreateClassStudentRelation)
		relations.DELETE("/class-student", relationController.DeleteClassStudentRelation)
		relations.GET("/check/teacher-student", relationController.CheckTeacherStudentRelation)
		relations.GET("/check/class-student", relationController.CheckClassStudentRelation)
		relations.GET("/teacher/:id/students", relationController.GetStudentsByTeacher)
		relations.GET("/student/:id/teachers", relationController.GetTeachersByStudent)
		relations.GET("/class/:id/students", relationController.GetStudentsByClass)
		relations.GET("/student/:id/classes", relationController.GetClassesByStudent)
	}
}
