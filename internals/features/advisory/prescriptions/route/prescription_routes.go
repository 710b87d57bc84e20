// file: internals/features/advisory/prescriptions/route/prescription_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"studycase_backend/internals/constants"
	prescriptionController "studycase_backend/internals/features/advisory/prescriptions/controller"
	middleware "studycase_backend/internals/middlewares/auth"
)

func PrescriptionUserRoutes(r fiber.Router, db *gorm.DB) {
	h := prescriptionController.NewPrescriptionController(db)

	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.Post("/:id/finalize",
			middleware.RequireRoles(constants.RoleErrorStaff("menerbitkan prescription"),
				constants.RoleCounselor, constants.RoleAdmin),
			h.Finalize)
		prescriptions.Get("/:id", h.GetByID)
	}

	// riwayat siklus per case
	r.Get("/cases/:id/prescriptions", h.ListByCase)

	// progres tugas belajar (siswa + staff)
	r.Patch("/learning-tasks/:id", h.UpdateLearningTask)
}
