package routes

import (
	"gradschool-portal/internal/controllers"
	"gradschool-portal/pkg/constants"
	"gradschool-portal/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runUserRouter(secureGroup *echo.Group, userCtrl *controllers.UserController, authMW *middleware.AuthMiddleware) {
	staffOnly := authMW.RequireRole(constants.RoleCoordinator, constants.RoleDean, constants.RoleChair, constants.RoleSuperAdmin)

	secureGroup.GET("/users", userCtrl.GetUsers, staffOnly)
	secureGroup.GET("/user/:id", userCtrl.GetUser, staffOnly)
	secureGroup.GET("/roles", userCtrl.GetRoles, staffOnly)
	secureGroup.POST("/user/:id/roles", userCtrl.GrantRole, authMW.RequireRole(constants.RoleSuperAdmin))
}
