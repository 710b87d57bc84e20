// file: internals/features/advisory/tasks/controller/task_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studycase_backend/internals/features/advisory/tasks/dto"
	taskModel "studycase_backend/internals/features/advisory/tasks/model"
	taskService "studycase_backend/internals/features/advisory/tasks/service"
	helper "studycase_backend/internals/helpers"
	helperAuth "studycase_backend/internals/helpers/auth"
)

type TaskController struct {
	DB    *gorm.DB
	Tasks *taskService.TaskGraphService
}

func NewTaskController(db *gorm.DB) *TaskController {
	return &TaskController{
		DB:    db,
		Tasks: taskService.NewTaskGraphService(),
	}
}

// GET /cases/:id/tasks
// Seluruh task satu case; filter ?status= opsional.
func (ctrl *TaskController) ListByCase(c *fiber.Ctx) error {
	caseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Case ID tidak valid")
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&taskModel.AdvisoryTaskModel{}).
		Where("advisory_task_case_id = ?", caseID)
	if st := c.Query("status"); st != "" {
		q = q.Where("advisory_task_status = ?", st)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung task")
	}

	var tasks []taskModel.AdvisoryTaskModel
	if err := q.Order("advisory_task_created_at ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&tasks).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil task")
	}

	out := dto.NewTaskResponseList(tasks)
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage, len(out)))
}

// GET /tasks/my
// Worklist aktor login: task open miliknya, urut prioritas lalu umur.
func (ctrl *TaskController) MyTasks(c *fiber.Ctx) error {
	actorID, err := helperAuth.GetActorID(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&taskModel.AdvisoryTaskModel{}).
		Where("advisory_task_assignee_user_id = ?", actorID).
		Where("advisory_task_status IN ?", []string{
			taskModel.TaskStatusPending,
			taskModel.TaskStatusInProgress,
			taskModel.TaskStatusBlocked,
		})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung task")
	}

	var tasks []taskModel.AdvisoryTaskModel
	if err := q.
		Order("CASE advisory_task_priority WHEN 'high' THEN 0 WHEN 'normal' THEN 1 ELSE 2 END").
		Order("advisory_task_created_at ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&tasks).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil task")
	}

	out := dto.NewTaskResponseList(tasks)
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage, len(out)))
}

// POST /tasks/:id/start
// pending → in_progress; task blocked ditolak.
func (ctrl *TaskController) Start(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Task ID tidak valid")
	}

	var started *taskModel.AdvisoryTaskModel
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		started, err = ctrl.Tasks.MarkStarted(tx, taskID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, taskService.ErrTaskNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Task tidak ditemukan")
		case errors.Is(err, taskService.ErrTaskBlocked):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Task masih terblokir dependency")
		case errors.Is(err, taskService.ErrTaskNotPending):
			return helper.JsonError(c, fiber.StatusConflict, "Task tidak dalam status pending")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memulai task")
	}
	return helper.JsonUpdated(c, "Task dimulai", dto.NewTaskResponse(*started))
}
