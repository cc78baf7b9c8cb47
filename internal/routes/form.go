package routes

import (
	"gradschool-portal/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runFormRouter(secureGroup *echo.Group, formCtrl *controllers.FormController) {
	secureGroup.POST("/forms/generate", formCtrl.Generate)
}
