// file: internals/features/advisory/tasks/route/task_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	taskController "studycase_backend/internals/features/advisory/tasks/controller"
)

func TaskUserRoutes(r fiber.Router, db *gorm.DB) {
	h := taskController.NewTaskController(db)

	tasks := r.Group("/tasks")
	{
		tasks.Get("/my", h.MyTasks)
		tasks.Post("/:id/start", h.Start)
	}

	r.Get("/cases/:id/tasks", h.ListByCase)
}
