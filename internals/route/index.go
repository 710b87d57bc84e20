// file: internals/route/index.go
package routes

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"studycase_backend/internals/constants"
	assessmentRoute "studycase_backend/internals/features/advisory/assessments/route"
	caseRoute "studycase_backend/internals/features/advisory/cases/route"
	prescriptionRoute "studycase_backend/internals/features/advisory/prescriptions/route"
	taskRoute "studycase_backend/internals/features/advisory/tasks/route"
	caseTemplateRoute "studycase_backend/internals/features/catalog/case_templates/route"
	courseTemplateRoute "studycase_backend/internals/features/catalog/course_templates/route"
	notificationRoute "studycase_backend/internals/features/home/notifications/route"
	paymentRoute "studycase_backend/internals/features/payment/gateway/route"
	middleware "studycase_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")

	caseTemplateRoute.CaseTemplatePublicRoutes(public, db)
	paymentRoute.PaymentWebhookRoutes(public, db)

	public.Get("/uptime", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"uptime": time.Since(startTime).String()})
	})

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u",
		middleware.AuthJWT(middleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)

	caseRoute.CaseUserRoutes(private, db)
	prescriptionRoute.PrescriptionUserRoutes(private, db)
	assessmentRoute.AssessmentUserRoutes(private, db)
	taskRoute.TaskUserRoutes(private, db)
	courseTemplateRoute.CourseTemplateUserRoutes(private, db)
	notificationRoute.NotificationUserRoutes(private, db)
	paymentRoute.PaymentUserRoutes(private, db)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		middleware.AuthJWT(middleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
		middleware.RequireRoles(constants.RoleErrorAdmin("panel admin"), constants.AdminOnly...),
	)

	caseTemplateRoute.CaseTemplateAdminRoutes(admin, db)
	courseTemplateRoute.CourseTemplateAdminRoutes(admin, db)
}
