// file: internals/features/advisory/prescriptions/controller/prescription_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	caseDto "studycase_backend/internals/features/advisory/cases/dto"
	caseService "studycase_backend/internals/features/advisory/cases/service"
	"studycase_backend/internals/features/advisory/prescriptions/dto"
	prescriptionService "studycase_backend/internals/features/advisory/prescriptions/service"
	notifierService "studycase_backend/internals/features/home/notifications/service"
	helper "studycase_backend/internals/helpers"
	helperAuth "studycase_backend/internals/helpers/auth"
)

type PrescriptionController struct {
	DB            *gorm.DB
	Workflow      *caseService.WorkflowService
	Prescriptions *prescriptionService.PrescriptionService
	validate      *validator.Validate
}

func NewPrescriptionController(db *gorm.DB) *PrescriptionController {
	return &PrescriptionController{
		DB:            db,
		Workflow:      caseService.NewWorkflowService(db, notifierService.NewNotifier(db)),
		Prescriptions: prescriptionService.NewPrescriptionService(db),
		validate:      validator.New(),
	}
}

func (ctrl *PrescriptionController) workflowError(c *fiber.Ctx, err error) error {
	if we := caseService.AsWorkflowError(err); we != nil {
		switch we.Kind {
		case caseService.KindNotFound:
			return helper.JsonError(c, fiber.StatusNotFound, we.Message)
		case caseService.KindInvalidTransition, caseService.KindConflict:
			return helper.JsonError(c, fiber.StatusConflict, we.Message)
		case caseService.KindPreconditionUnmet:
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, we.Message)
		}
	}
	return helper.FromFiberError(c, err)
}

/* ===================== FINALIZE ===================== */
// POST /prescriptions/:id/finalize
// draft → issued; konten (courses, learning tasks, items) dikunci di sini.
func (ctrl *PrescriptionController) Finalize(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}
	prescriptionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Prescription ID tidak valid")
	}

	var req dto.FinalizePrescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	in := caseService.FinalizePrescriptionInput{
		PrescriptionID: prescriptionID,
		ActorID:        actorID,
	}
	for _, cr := range req.Courses {
		in.Courses = append(in.Courses, caseService.CourseRecommendationInput{
			CourseTemplateID:    cr.CourseTemplateID,
			Reason:              cr.Reason,
			RecommendedSessions: cr.RecommendedSessions,
		})
	}
	for _, lt := range req.LearningTasks {
		in.LearningTasks = append(in.LearningTasks, caseService.LearningTaskInput{
			Title:       lt.Title,
			Description: lt.Description,
			DueDate:     lt.DueDate,
		})
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, caseService.PrescriptionItemInput{
			Type:    it.Type,
			Content: it.Content,
		})
	}

	res, err := ctrl.Workflow.FinalizePrescription(c.UserContext(), in)
	if err != nil {
		return ctrl.workflowError(c, err)
	}
	return helper.JsonOK(c, "Prescription diterbitkan", caseDto.NewOperationResponse(res))
}

/* ===================== QUERY ===================== */
// GET /prescriptions/:id
func (ctrl *PrescriptionController) GetByID(c *fiber.Ctx) error {
	prescriptionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Prescription ID tidak valid")
	}

	p, err := ctrl.Prescriptions.GetWithAssociations(c.UserContext(), prescriptionID)
	if err != nil {
		if errors.Is(err, prescriptionService.ErrPrescriptionNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Prescription tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil prescription")
	}

	resp := dto.NewPrescriptionResponse(*p)
	if rate, err := ctrl.Prescriptions.TaskCompletionRate(c.UserContext(), prescriptionID); err == nil {
		resp.TaskCompletionRate = &rate
	}
	return helper.JsonOK(c, "", resp)
}

// GET /cases/:id/prescriptions
// Riwayat siklus satu case, urut cycle_number.
func (ctrl *PrescriptionController) ListByCase(c *fiber.Ctx) error {
	caseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Case ID tidak valid")
	}

	list, err := ctrl.Prescriptions.ListByCase(c.UserContext(), caseID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil prescription")
	}
	return helper.JsonOK(c, "", dto.NewPrescriptionResponseList(list))
}

/* ===================== LEARNING TASK ===================== */
// PATCH /learning-tasks/:id
func (ctrl *PrescriptionController) UpdateLearningTask(c *fiber.Ctx) error {
	learningTaskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Learning task ID tidak valid")
	}

	var req dto.UpdateLearningTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	lt, err := ctrl.Prescriptions.UpdateLearningTask(c.UserContext(), prescriptionService.UpdateLearningTaskInput{
		LearningTaskID: learningTaskID,
		Status:         req.Status,
		Progress:       req.Progress,
		DueDate:        req.DueDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, prescriptionService.ErrLearningTaskNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Learning task tidak ditemukan")
		case errors.Is(err, prescriptionService.ErrInvalidProgress):
			return helper.JsonError(c, fiber.StatusBadRequest, "Progress harus 0..100")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui learning task")
	}
	return helper.JsonUpdated(c, "Learning task diperbarui", dto.NewLearningTaskResponse(*lt))
}
