// file: internals/features/catalog/case_templates/dto/case_template_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "studycase_backend/internals/features/catalog/case_templates/model"
)

type CreateCaseTemplateRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Price       int64   `json:"price" validate:"required,min=0"`
}

type UpdateCaseTemplateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Price       *int64  `json:"price" validate:"omitempty,min=0"`
	IsActive    *bool   `json:"is_active"`
}

type CaseTemplateResponse struct {
	CaseTemplateID uuid.UUID `json:"case_template_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Price          int64     `json:"price"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewCaseTemplateResponse(mdl m.CaseTemplateModel) CaseTemplateResponse {
	return CaseTemplateResponse{
		CaseTemplateID: mdl.CaseTemplateID,
		Name:           mdl.CaseTemplateName,
		Description:    mdl.CaseTemplateDescription,
		Price:          mdl.CaseTemplatePrice,
		IsActive:       mdl.CaseTemplateIsActive,
		CreatedAt:      mdl.CaseTemplateCreatedAt,
	}
}

func NewCaseTemplateResponseList(models []m.CaseTemplateModel) []CaseTemplateResponse {
	out := make([]CaseTemplateResponse, 0, len(models))
	for i := range models {
		out = append(out, NewCaseTemplateResponse(models[i]))
	}
	return out
}
