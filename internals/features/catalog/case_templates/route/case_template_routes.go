// file: internals/features/catalog/case_templates/route/case_template_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	caseTemplateController "studycase_backend/internals/features/catalog/case_templates/controller"
)

// Katalog penawaran bisa dilihat tanpa login.
func CaseTemplatePublicRoutes(r fiber.Router, db *gorm.DB) {
	h := caseTemplateController.NewCaseTemplateController(db)

	templates := r.Group("/case-templates")
	{
		templates.Get("/", h.List)
		templates.Get("/:id", h.GetByID)
	}
}

// CRUD katalog hanya untuk admin.
func CaseTemplateAdminRoutes(r fiber.Router, db *gorm.DB) {
	h := caseTemplateController.NewCaseTemplateController(db)

	templates := r.Group("/case-templates")
	{
		templates.Post("/", h.Create)
		templates.Patch("/:id", h.Update)
		templates.Delete("/:id", h.Delete)
	}
}
