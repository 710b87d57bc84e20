// file: internals/features/catalog/case_templates/controller/case_template_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studycase_backend/internals/features/catalog/case_templates/dto"
	"studycase_backend/internals/features/catalog/case_templates/model"
	helper "studycase_backend/internals/helpers"
)

type CaseTemplateController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewCaseTemplateController(db *gorm.DB) *CaseTemplateController {
	return &CaseTemplateController{DB: db, validate: validator.New()}
}

// POST /case-templates (admin)
func (ctrl *CaseTemplateController) Create(c *fiber.Ctx) error {
	var req dto.CreateCaseTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	tpl := model.CaseTemplateModel{
		CaseTemplateName:        req.Name,
		CaseTemplateDescription: req.Description,
		CaseTemplatePrice:       req.Price,
		CaseTemplateIsActive:    true,
	}
	if err := ctrl.DB.WithContext(c.UserContext()).Create(&tpl).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat case template")
	}
	return helper.JsonCreated(c, "Case template dibuat", dto.NewCaseTemplateResponse(tpl))
}

// GET /case-templates (publik — katalog penawaran)
func (ctrl *CaseTemplateController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.WithContext(c.UserContext()).Model(&model.CaseTemplateModel{})
	if c.Query("active") == "true" {
		q = q.Where("case_template_is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung case template")
	}

	var list []model.CaseTemplateModel
	if err := q.Order("case_template_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&list).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil case template")
	}

	out := dto.NewCaseTemplateResponseList(list)
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage, len(out)))
}

// GET /case-templates/:id
func (ctrl *CaseTemplateController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Case template ID tidak valid")
	}

	var tpl model.CaseTemplateModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("case_template_id = ?", id).Take(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Case template tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil case template")
	}
	return helper.JsonOK(c, "", dto.NewCaseTemplateResponse(tpl))
}

// PATCH /case-templates/:id (admin)
func (ctrl *CaseTemplateController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Case template ID tidak valid")
	}

	var req dto.UpdateCaseTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["case_template_name"] = *req.Name
	}
	if req.Description != nil {
		updates["case_template_description"] = *req.Description
	}
	if req.Price != nil {
		updates["case_template_price"] = *req.Price
	}
	if req.IsActive != nil {
		updates["case_template_is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	var tpl model.CaseTemplateModel
	err = ctrl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_template_id = ?", id).Take(&tpl).Error; err != nil {
			return err
		}
		if err := tx.Model(&tpl).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("case_template_id = ?", id).Take(&tpl).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Case template tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui case template")
	}
	return helper.JsonUpdated(c, "Case template diperbarui", dto.NewCaseTemplateResponse(tpl))
}

// DELETE /case-templates/:id (admin, soft delete)
func (ctrl *CaseTemplateController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Case template ID tidak valid")
	}

	res := ctrl.DB.WithContext(c.UserContext()).
		Where("case_template_id = ?", id).
		Delete(&model.CaseTemplateModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus case template")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Case template tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Case template dihapus", fiber.Map{"case_template_id": id})
}
