package routes

import (
	"gradschool-portal/internal/controllers"
	"gradschool-portal/pkg/constants"
	"gradschool-portal/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runExamRouter(secureGroup *echo.Group, examCtrl *controllers.ExamController, authMW *middleware.AuthMiddleware) {
	review := authMW.RequireRole(constants.RoleCoordinator, constants.RoleDean, constants.RoleSuperAdmin)

	secureGroup.POST("/exam-applications", examCtrl.Apply, authMW.RequireRole(constants.RoleStudent))
	secureGroup.GET("/my/exam-applications", examCtrl.MyApplications)
	secureGroup.GET("/exam-applications", examCtrl.ListByStatus, review)
	secureGroup.GET("/exam-application/:id", examCtrl.Get)
	secureGroup.PUT("/exam-application/:id/review", examCtrl.Review, review)
}
