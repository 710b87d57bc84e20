// file: internals/features/advisory/cases/controller/case_workflow_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studycase_backend/internals/features/advisory/cases/dto"
	caseService "studycase_backend/internals/features/advisory/cases/service"
	notifierService "studycase_backend/internals/features/home/notifications/service"
	helper "studycase_backend/internals/helpers"
	helperAuth "studycase_backend/internals/helpers/auth"
)

type CaseWorkflowController struct {
	DB       *gorm.DB
	Workflow *caseService.WorkflowService
	validate *validator.Validate
}

func NewCaseWorkflowController(db *gorm.DB) *CaseWorkflowController {
	return &CaseWorkflowController{
		DB:       db,
		Workflow: caseService.NewWorkflowService(db, notifierService.NewNotifier(db)),
		validate: validator.New(),
	}
}

// fromWorkflowError memetakan taksonomi engine → HTTP status.
// Pelanggaran aturan domain tidak boleh jatuh ke 500 generic.
func fromWorkflowError(c *fiber.Ctx, err error) error {
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

func caseIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Case ID tidak valid")
	}
	return id, nil
}

/* ===================== OPEN (enroll) ===================== */
// POST /cases
func (ctrl *CaseWorkflowController) OpenCase(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}

	var req dto.OpenCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res, err := ctrl.Workflow.OpenCase(c.UserContext(), caseService.OpenCaseInput{
		CaseTemplateID: req.CaseTemplateID,
		StudentID:      req.StudentID,
		PlannerID:      actorID,
	})
	if err != nil {
		return fromWorkflowError(c, err)
	}
	return helper.JsonCreated(c, "Case dibuat", dto.NewOperationResponse(res))
}

/* ===================== GET ===================== */
// GET /cases/:id
func (ctrl *CaseWorkflowController) GetCase(c *fiber.Ctx) error {
	caseID, err := caseIDParam(c)
	if err != nil {
		return err
	}
	res, err := ctrl.Workflow.GetCase(c.UserContext(), caseID)
	if err != nil {
		return fromWorkflowError(c, err)
	}
	return helper.JsonOK(c, "", dto.NewOperationResponse(res))
}

/* ===================== PLANNING ===================== */
// POST /cases/:id/confirm-payment
func (ctrl *CaseWorkflowController) ConfirmPayment(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}
	caseID, err := caseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res, err := ctrl.Workflow.ConfirmPayment(c.UserContext(), caseService.ConfirmPaymentInput{
		CaseID:  caseID,
		ActorID: actorID,
		Method:  req.PaymentMethod,
		Note:    req.PaymentNote,
	})
	if err != nil {
		return fromWorkflowError(c, err)
	}
	return helper.JsonOK(c, "Pembayaran dikonfirmasi", dto.NewOperationResponse(res))
}

// POST /cases/:id/line-group
func (ctrl *CaseWorkflowController) CreateLineGroup(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}
	caseID, err := caseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.CreateLineGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res, err := ctrl.Workflow.CreateLineGroup(c.UserContext(), caseService.CreateLineGroupInput{
		CaseID:   caseID,
		ActorID:  actorID,
		GroupURL: req.GroupURL,
	})
	if err != nil {
		return fromWorkflowError(c, err)
	}
	return helper.JsonOK(c, "Grup LINE tersimpan", dto.NewOperationResponse(res))
}

// POST /cases/:id/assign-counselor
func (ctrl *CaseWorkflowController) AssignCounselor(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}
	caseID, err := caseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.AssignCounselorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res, err := ctrl.Workflow.AssignCounselor(c.UserContext(), caseService.AssignCounselorInput{
		CaseID:      caseID,
		ActorID:     actorID,
		CounselorID: req.CounselorID,
	})
	if err != nil {
		return fromWorkflowError(c, err)
	}
	return helper.JsonOK(c, "Counselor ditunjuk", dto.NewOperationResponse(res))
}

// POST /cases/:id/assign-analyst
func (ctrl *CaseWorkflowController) AssignAnalyst(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}
	caseID, err := caseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.AssignAnalystRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res, err := ctrl.Workflow.AssignAnalyst(c.UserContext(), caseService.AssignAnalystInput{
		CaseID:    caseID,
		ActorID:   actorID,
		AnalystID: req.AnalystID,
	})
	if err != nil {
		return fromWorkflowError(c, err)
	}
	return helper.JsonOK(c, "Analyst ditunjuk", dto.NewOperationResponse(res))
}

/* ===================== COUNSELING ===================== */
// POST /cases/:id/strategy
func (ctrl *CaseWorkflowController) IssueStrategy(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}
	caseID, err := caseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.IssueStrategyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res, err := ctrl.Workflow.IssueStrategy(c.UserContext(), caseService.IssueStrategyInput{
		CaseID:    caseID,
		ActorID:   actorID,
		Strategy:  req.Strategy,
		Notes:     req.Notes,
		Goals:     req.Goals,
		SessionID: req.SessionID,
	})
	if err != nil {
		return fromWorkflowError(c, err)
	}
	return helper.JsonCreated(c, "Prescription draft dibuat", dto.NewOperationResponse(res))
}

/* ===================== CYCLING ===================== */
// POST /cases/:id/review
func (ctrl *CaseWorkflowController) ReviewAnalysis(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}
	caseID, err := caseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.ReviewAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res, err := ctrl.Workflow.ReviewAnalysis(c.UserContext(), caseService.ReviewAnalysisInput{
		CaseID:        caseID,
		ActorID:       actorID,
		ContinueCycle: req.ContinueCycle,
		Note:          req.Note,
	})
	if err != nil {
		return fromWorkflowError(c, err)
	}
	return helper.JsonOK(c, "Review diproses", dto.NewOperationResponse(res))
}

/* ===================== CANCEL ===================== */
// POST /cases/:id/cancel
func (ctrl *CaseWorkflowController) CancelCase(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}
	caseID, err := caseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.CancelCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res, err := ctrl.Workflow.CancelCase(c.UserContext(), caseService.CancelCaseInput{
		CaseID:  caseID,
		ActorID: actorID,
		Reason:  req.Reason,
	})
	if err != nil {
		return fromWorkflowError(c, err)
	}
	return helper.JsonOK(c, "Case dibatalkan", dto.NewOperationResponse(res))
}
