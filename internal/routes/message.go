package routes

import (
	"gradschool-portal/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runMessageRouter(secureGroup *echo.Group, messageCtrl *controllers.MessageController) {
	secureGroup.POST("/messages", messageCtrl.Send)
	secureGroup.GET("/messages/inbox", messageCtrl.Inbox)
	secureGroup.GET("/messages/sent", messageCtrl.Sent)
	secureGroup.GET("/message/:id", messageCtrl.Read)
}
