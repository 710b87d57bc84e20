// file: internals/features/advisory/cases/route/case_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"studycase_backend/internals/constants"
	caseController "studycase_backend/internals/features/advisory/cases/controller"
	middleware "studycase_backend/internals/middlewares/auth"
)

// CaseUserRoutes memasang seluruh operasi workflow case di group user (JWT).
func CaseUserRoutes(r fiber.Router, db *gorm.DB) {
	h := caseController.NewCaseWorkflowController(db)
	notes := caseController.NewCaseNoteController(db)

	cases := r.Group("/cases")
	{
		// enroll + intake (planner)
		cases.Post("/",
			middleware.RequireRoles(constants.RoleErrorPlanner("membuka case"),
				constants.RolePlanner, constants.RoleAdmin),
			h.OpenCase)
		cases.Post("/:id/confirm-payment",
			middleware.RequireRoles(constants.RoleErrorPlanner("konfirmasi pembayaran"),
				constants.RolePlanner, constants.RoleAdmin),
			h.ConfirmPayment)
		cases.Post("/:id/line-group",
			middleware.RequireRoles(constants.RoleErrorPlanner("membuat grup LINE"),
				constants.RolePlanner, constants.RoleAdmin),
			h.CreateLineGroup)
		cases.Post("/:id/assign-counselor",
			middleware.RequireRoles(constants.RoleErrorPlanner("menunjuk counselor"),
				constants.RolePlanner, constants.RoleAdmin),
			h.AssignCounselor)
		cases.Post("/:id/assign-analyst",
			middleware.RequireRoles(constants.RoleErrorPlanner("menunjuk analyst"),
				constants.RolePlanner, constants.RoleAdmin),
			h.AssignAnalyst)

		// counseling + cycling (counselor)
		cases.Post("/:id/strategy",
			middleware.RequireRoles(constants.RoleErrorStaff("menyusun strategi"),
				constants.RoleCounselor, constants.RoleAdmin),
			h.IssueStrategy)
		cases.Post("/:id/review",
			middleware.RequireRoles(constants.RoleErrorStaff("review analisis"),
				constants.RoleCounselor, constants.RoleAdmin),
			h.ReviewAnalysis)

		// cancel boleh oleh staff mana pun yang terlibat
		cases.Post("/:id/cancel",
			middleware.RequireRoles(constants.RoleErrorStaff("membatalkan case"),
				constants.StaffRoles...),
			h.CancelCase)

		// query
		cases.Get("/:id", h.GetCase)

		// notes append-only
		cases.Post("/:id/notes",
			middleware.RequireRoles(constants.RoleErrorStaff("menulis catatan"),
				constants.StaffRoles...),
			notes.Create)
		cases.Get("/:id/notes", notes.List)
	}
}
