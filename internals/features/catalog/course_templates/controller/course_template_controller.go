// file: internals/features/catalog/course_templates/controller/course_template_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studycase_backend/internals/features/catalog/course_templates/dto"
	"studycase_backend/internals/features/catalog/course_templates/model"
	helper "studycase_backend/internals/helpers"
)

type CourseTemplateController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewCourseTemplateController(db *gorm.DB) *CourseTemplateController {
	return &CourseTemplateController{DB: db, validate: validator.New()}
}

// POST /course-templates (admin)
func (ctrl *CourseTemplateController) Create(c *fiber.Ctx) error {
	var req dto.CreateCourseTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	tpl := model.CourseTemplateModel{
		CourseTemplateName:            req.Name,
		CourseTemplateSubject:         req.Subject,
		CourseTemplateLevel:           req.Level,
		CourseTemplateDescription:     req.Description,
		CourseTemplateDefaultSessions: req.DefaultSessions,
		CourseTemplateIsActive:        true,
	}
	if err := ctrl.DB.WithContext(c.UserContext()).Create(&tpl).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat course template")
	}
	return helper.JsonCreated(c, "Course template dibuat", dto.NewCourseTemplateResponse(tpl))
}

// GET /course-templates
// ?active=true hanya yang masih boleh direkomendasikan.
func (ctrl *CourseTemplateController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.WithContext(c.UserContext()).Model(&model.CourseTemplateModel{})
	if c.Query("active") == "true" {
		q = q.Where("course_template_is_active = ?", true)
	}
	if subject := c.Query("subject"); subject != "" {
		q = q.Where("course_template_subject = ?", subject)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung course template")
	}

	var list []model.CourseTemplateModel
	if err := q.Order("course_template_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&list).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil course template")
	}

	out := dto.NewCourseTemplateResponseList(list)
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage, len(out)))
}

// GET /course-templates/:id
func (ctrl *CourseTemplateController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Course template ID tidak valid")
	}

	var tpl model.CourseTemplateModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("course_template_id = ?", id).Take(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course template tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil course template")
	}
	return helper.JsonOK(c, "", dto.NewCourseTemplateResponse(tpl))
}

// PATCH /course-templates/:id (admin)
func (ctrl *CourseTemplateController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Course template ID tidak valid")
	}

	var req dto.UpdateCourseTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["course_template_name"] = *req.Name
	}
	if req.Subject != nil {
		updates["course_template_subject"] = *req.Subject
	}
	if req.Level != nil {
		updates["course_template_level"] = *req.Level
	}
	if req.Description != nil {
		updates["course_template_description"] = *req.Description
	}
	if req.DefaultSessions != nil {
		updates["course_template_default_sessions"] = *req.DefaultSessions
	}
	if req.IsActive != nil {
		updates["course_template_is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	var tpl model.CourseTemplateModel
	err = ctrl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_template_id = ?", id).Take(&tpl).Error; err != nil {
			return err
		}
		if err := tx.Model(&tpl).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("course_template_id = ?", id).Take(&tpl).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course template tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui course template")
	}
	return helper.JsonUpdated(c, "Course template diperbarui", dto.NewCourseTemplateResponse(tpl))
}

// DELETE /course-templates/:id (admin, soft delete)
func (ctrl *CourseTemplateController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Course template ID tidak valid")
	}

	res := ctrl.DB.WithContext(c.UserContext()).
		Where("course_template_id = ?", id).
		Delete(&model.CourseTemplateModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus course template")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Course template tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Course template dihapus", fiber.Map{"course_template_id": id})
}
