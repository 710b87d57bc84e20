// file: internals/features/advisory/tasks/dto/task_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "studycase_backend/internals/features/advisory/tasks/model"
)

type TaskResponse struct {
	TaskID uuid.UUID `json:"task_id"`
	CaseID uuid.UUID `json:"case_id"`

	AssigneeUserID uuid.UUID `json:"assignee_user_id"`
	AssigneeRole   string    `json:"assignee_role"`

	SubjectKind string    `json:"subject_kind"`
	SubjectID   uuid.UUID `json:"subject_id"`

	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority string `json:"priority"`

	DueAt       *time.Time `json:"due_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewTaskResponse(mdl m.AdvisoryTaskModel) TaskResponse {
	return TaskResponse{
		TaskID:         mdl.AdvisoryTaskID,
		CaseID:         mdl.AdvisoryTaskCaseID,
		AssigneeUserID: mdl.AdvisoryTaskAssigneeUserID,
		AssigneeRole:   mdl.AdvisoryTaskAssigneeRole,
		SubjectKind:    mdl.AdvisoryTaskSubjectKind,
		SubjectID:      mdl.AdvisoryTaskSubjectID,
		Type:           mdl.AdvisoryTaskType,
		Title:          mdl.AdvisoryTaskTitle,
		Status:         mdl.AdvisoryTaskStatus,
		Priority:       mdl.AdvisoryTaskPriority,
		DueAt:          mdl.AdvisoryTaskDueAt,
		StartedAt:      mdl.AdvisoryTaskStartedAt,
		CompletedAt:    mdl.AdvisoryTaskCompletedAt,
		CreatedAt:      mdl.AdvisoryTaskCreatedAt,
	}
}

func NewTaskResponseList(models []m.AdvisoryTaskModel) []TaskResponse {
	out := make([]TaskResponse, 0, len(models))
	for _, mdl := range models {
		out = append(out, NewTaskResponse(mdl))
	}
	return out
}
