// file: internals/features/advisory/assessments/controller/assessment_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studycase_backend/internals/features/advisory/assessments/dto"
	assessmentModel "studycase_backend/internals/features/advisory/assessments/model"
	caseDto "studycase_backend/internals/features/advisory/cases/dto"
	caseService "studycase_backend/internals/features/advisory/cases/service"
	notifierService "studycase_backend/internals/features/home/notifications/service"
	helper "studycase_backend/internals/helpers"
	helperAuth "studycase_backend/internals/helpers/auth"
)

type AssessmentController struct {
	DB       *gorm.DB
	Workflow *caseService.WorkflowService
	validate *validator.Validate
}

func NewAssessmentController(db *gorm.DB) *AssessmentController {
	return &AssessmentController{
		DB:       db,
		Workflow: caseService.NewWorkflowService(db, notifierService.NewNotifier(db)),
		validate: validator.New(),
	}
}

func (ctrl *AssessmentController) workflowError(c *fiber.Ctx, err error) error {
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

func assessmentIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Assessment ID tidak valid")
	}
	return id, nil
}

// POST /assessments
// Draft assessment untuk satu prescription issued (tepat satu per prescription).
func (ctrl *AssessmentController) Create(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}

	var req dto.CreateAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res, err := ctrl.Workflow.CreateAssessment(c.UserContext(), caseService.CreateAssessmentInput{
		PrescriptionID: req.PrescriptionID,
		ActorID:        actorID,
		TestContent:    req.TestContent,
	})
	if err != nil {
		return ctrl.workflowError(c, err)
	}
	return helper.JsonCreated(c, "Assessment dibuat", caseDto.NewOperationResponse(res))
}

// POST /assessments/:id/start-review
func (ctrl *AssessmentController) StartReview(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}
	assessmentID, err := assessmentIDParam(c)
	if err != nil {
		return err
	}

	res, err := ctrl.Workflow.StartAssessmentReview(c.UserContext(), assessmentID, actorID)
	if err != nil {
		return ctrl.workflowError(c, err)
	}
	return helper.JsonOK(c, "Review assessment dimulai", caseDto.NewOperationResponse(res))
}

// POST /assessments/:id/submit
// Finalisasi analisis: assessment completed, prescription completed,
// case masuk cycling.
func (ctrl *AssessmentController) SubmitAnalysis(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}
	assessmentID, err := assessmentIDParam(c)
	if err != nil {
		return err
	}

	var req dto.SubmitAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res, err := ctrl.Workflow.SubmitAnalysis(c.UserContext(), caseService.SubmitAnalysisInput{
		AssessmentID:    assessmentID,
		ActorID:         actorID,
		Report:          req.Report,
		Metrics:         req.Metrics,
		Recommendations: req.Recommendations,
		TestResults:     req.TestResults,
		TestScore:       req.TestScore,
		StudyHours:      req.StudyHours,
		TasksCompleted:  req.TasksCompleted,
		CoursesAttended: req.CoursesAttended,
	})
	if err != nil {
		return ctrl.workflowError(c, err)
	}
	return helper.JsonOK(c, "Analisis disubmit", caseDto.NewOperationResponse(res))
}

// GET /assessments/:id
func (ctrl *AssessmentController) GetByID(c *fiber.Ctx) error {
	assessmentID, err := assessmentIDParam(c)
	if err != nil {
		return err
	}

	var a assessmentModel.AdvisoryAssessmentModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("advisory_assessment_id = ?", assessmentID).
		Take(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Assessment tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil assessment")
	}
	return helper.JsonOK(c, "", dto.NewAssessmentResponse(a))
}
