// file: internals/features/advisory/cases/controller/case_note_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"studycase_backend/internals/features/advisory/cases/dto"
	caseModel "studycase_backend/internals/features/advisory/cases/model"
	caseService "studycase_backend/internals/features/advisory/cases/service"
	notifierService "studycase_backend/internals/features/home/notifications/service"
	helper "studycase_backend/internals/helpers"
	helperAuth "studycase_backend/internals/helpers/auth"
)

type CaseNoteController struct {
	DB       *gorm.DB
	Workflow *caseService.WorkflowService
	validate *validator.Validate
}

func NewCaseNoteController(db *gorm.DB) *CaseNoteController {
	return &CaseNoteController{
		DB:       db,
		Workflow: caseService.NewWorkflowService(db, notifierService.NewNotifier(db)),
		validate: validator.New(),
	}
}

// POST /cases/:id/notes
func (ctrl *CaseNoteController) Create(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}
	caseID, err := caseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.CreateCaseNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	note, err := ctrl.Workflow.AddNote(c.UserContext(), caseService.AddNoteInput{
		CaseID:      caseID,
		ActorID:     actorID,
		Type:        req.NoteType,
		Content:     req.Content,
		Attachments: req.Attachments,
	})
	if err != nil {
		return fromWorkflowError(c, err)
	}
	return helper.JsonCreated(c, "Catatan dibuat", dto.NewCaseNoteResponse(*note))
}

// GET /cases/:id/notes
// Catatan append-only, urut kronologis; filter tipe opsional (?type=).
func (ctrl *CaseNoteController) List(c *fiber.Ctx) error {
	caseID, err := caseIDParam(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&caseModel.AdvisoryCaseNoteModel{}).
		Where("advisory_case_note_case_id = ?", caseID)
	if t := c.Query("type"); t != "" {
		q = q.Where("advisory_case_note_type = ?", t)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung catatan")
	}

	var notes []caseModel.AdvisoryCaseNoteModel
	if err := q.Order("advisory_case_note_created_at ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&notes).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil catatan")
	}

	out := dto.NewCaseNoteResponseList(notes)
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage, len(out)))
}
