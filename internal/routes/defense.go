package routes

import (
	"gradschool-portal/internal/controllers"
	"gradschool-portal/pkg/constants"
	"gradschool-portal/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runDefenseRouter(secureGroup *echo.Group, defenseCtrl *controllers.DefenseController, authMW *middleware.AuthMiddleware) {
	manage := authMW.RequireRole(constants.RoleCoordinator, constants.RoleDean, constants.RoleSuperAdmin)

	secureGroup.GET("/defenses", defenseCtrl.List)
	secureGroup.GET("/defense/:id", defenseCtrl.Get)
	secureGroup.POST("/defense", defenseCtrl.Create, manage)
	secureGroup.PUT("/defense/:id", defenseCtrl.Update, manage)
	secureGroup.DELETE("/defense/:id", defenseCtrl.Delete, manage)
}
