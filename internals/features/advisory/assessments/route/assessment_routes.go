// file: internals/features/advisory/assessments/route/assessment_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"studycase_backend/internals/constants"
	assessmentController "studycase_backend/internals/features/advisory/assessments/controller"
	middleware "studycase_backend/internals/middlewares/auth"
)

func AssessmentUserRoutes(r fiber.Router, db *gorm.DB) {
	h := assessmentController.NewAssessmentController(db)

	assessments := r.Group("/assessments")
	{
		assessments.Post("/",
			middleware.RequireRoles(constants.RoleErrorStaff("membuat assessment"),
				constants.RoleAnalyst, constants.RoleAdmin),
			h.Create)
		assessments.Post("/:id/start-review",
			middleware.RequireRoles(constants.RoleErrorStaff("review assessment"),
				constants.RoleAnalyst, constants.RoleAdmin),
			h.StartReview)
		assessments.Post("/:id/submit",
			middleware.RequireRoles(constants.RoleErrorStaff("submit analisis"),
				constants.RoleAnalyst, constants.RoleAdmin),
			h.SubmitAnalysis)
		assessments.Get("/:id", h.GetByID)
	}
}
