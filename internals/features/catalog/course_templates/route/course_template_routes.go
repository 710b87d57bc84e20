// file: internals/features/catalog/course_templates/route/course_template_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseTemplateController "studycase_backend/internals/features/catalog/course_templates/controller"
)

// Counselor butuh daftar course aktif saat menyusun prescription.
func CourseTemplateUserRoutes(r fiber.Router, db *gorm.DB) {
	h := courseTemplateController.NewCourseTemplateController(db)

	templates := r.Group("/course-templates")
	{
		templates.Get("/", h.List)
		templates.Get("/:id", h.GetByID)
	}
}

func CourseTemplateAdminRoutes(r fiber.Router, db *gorm.DB) {
	h := courseTemplateController.NewCourseTemplateController(db)

	templates := r.Group("/course-templates")
	{
		templates.Post("/", h.Create)
		templates.Patch("/:id", h.Update)
		templates.Delete("/:id", h.Delete)
	}
}
