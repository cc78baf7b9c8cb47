package routes

import (
	"gradschool-portal/internal/controllers"
	"gradschool-portal/pkg/constants"
	"gradschool-portal/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runAdviserRouter(secureGroup *echo.Group, adviserCtrl *controllers.AdviserController, authMW *middleware.AuthMiddleware) {
	manage := authMW.RequireRole(constants.RoleCoordinator, constants.RoleDean, constants.RoleSuperAdmin)

	secureGroup.POST("/adviser-assignments", adviserCtrl.Assign, manage)
	secureGroup.DELETE("/adviser-assignment/:id", adviserCtrl.Unassign, manage)
	secureGroup.GET("/my/advisees", adviserCtrl.MyAdvisees)
	secureGroup.GET("/my/advisers", adviserCtrl.MyAdvisers)
}
