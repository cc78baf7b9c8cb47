package routes

import (
	"gradschool-portal/internal/controllers"
	"gradschool-portal/pkg/constants"
	"gradschool-portal/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runPaymentRouter(secureGroup *echo.Group, paymentCtrl *controllers.PaymentController, authMW *middleware.AuthMiddleware) {
	review := authMW.RequireRole(constants.RoleCoordinator, constants.RoleDean, constants.RoleSuperAdmin)

	secureGroup.POST("/exam-payments", paymentCtrl.Submit, authMW.RequireRole(constants.RoleStudent))
	secureGroup.GET("/exam-payments", paymentCtrl.List, review)
	secureGroup.GET("/exam-payment/:id", paymentCtrl.Get, review)
	secureGroup.PUT("/exam-payment/:id/review", paymentCtrl.Review, review)
}
