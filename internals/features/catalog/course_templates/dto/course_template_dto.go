// file: internals/features/catalog/course_templates/dto/course_template_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "studycase_backend/internals/features/catalog/course_templates/model"
)

type CreateCourseTemplateRequest struct {
	Name            string  `json:"name" validate:"required,max=255"`
	Subject         string  `json:"subject" validate:"required,max=100"`
	Level           *string `json:"level" validate:"omitempty,max=50"`
	Description     *string `json:"description" validate:"omitempty,max=5000"`
	DefaultSessions int     `json:"default_sessions" validate:"required,min=1,max=100"`
}

type UpdateCourseTemplateRequest struct {
	Name            *string `json:"name" validate:"omitempty,max=255"`
	Subject         *string `json:"subject" validate:"omitempty,max=100"`
	Level           *string `json:"level" validate:"omitempty,max=50"`
	Description     *string `json:"description" validate:"omitempty,max=5000"`
	DefaultSessions *int    `json:"default_sessions" validate:"omitempty,min=1,max=100"`
	IsActive        *bool   `json:"is_active"`
}

type CourseTemplateResponse struct {
	CourseTemplateID uuid.UUID `json:"course_template_id"`
	Name             string    `json:"name"`
	Subject          string    `json:"subject"`
	Level            *string   `json:"level,omitempty"`
	Description      *string   `json:"description,omitempty"`
	DefaultSessions  int       `json:"default_sessions"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewCourseTemplateResponse(mdl m.CourseTemplateModel) CourseTemplateResponse {
	return CourseTemplateResponse{
		CourseTemplateID: mdl.CourseTemplateID,
		Name:             mdl.CourseTemplateName,
		Subject:          mdl.CourseTemplateSubject,
		Level:            mdl.CourseTemplateLevel,
		Description:      mdl.CourseTemplateDescription,
		DefaultSessions:  mdl.CourseTemplateDefaultSessions,
		IsActive:         mdl.CourseTemplateIsActive,
		CreatedAt:        mdl.CourseTemplateCreatedAt,
	}
}

func NewCourseTemplateResponseList(models []m.CourseTemplateModel) []CourseTemplateResponse {
	out := make([]CourseTemplateResponse, 0, len(models))
	for i := range models {
		out = append(out, NewCourseTemplateResponse(models[i]))
	}
	return out
}
