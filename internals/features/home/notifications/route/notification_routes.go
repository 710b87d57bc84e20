// file: internals/features/home/notifications/route/notification_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	notificationController "studycase_backend/internals/features/home/notifications/controller"
)

func NotificationUserRoutes(r fiber.Router, db *gorm.DB) {
	h := notificationController.NewNotificationController(db)

	notifications := r.Group("/notifications")
	{
		notifications.Get("/", h.MyInbox)
		notifications.Post("/read-all", h.MarkAllRead)
		notifications.Post("/:id/read", h.MarkRead)
	}
}
