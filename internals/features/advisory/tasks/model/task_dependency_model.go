package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Edge dependency antar task (directed, acyclic by construction:
// generator hanya membuat edge ke task yang sudah ada lebih dulu).
type AdvisoryTaskDependencyModel struct {
	AdvisoryTaskDependencyID uuid.UUID `gorm:"column:advisory_task_dependency_id;type:uuid;primaryKey" json:"advisory_task_dependency_id"`

	AdvisoryTaskDependencyTaskID      uuid.UUID `gorm:"column:advisory_task_dependency_task_id;type:uuid;not null;index:idx_advisory_task_dependencies_task;uniqueIndex:uq_advisory_task_dependency_edge,priority:1" json:"advisory_task_dependency_task_id"`
	AdvisoryTaskDependencyDependsOnID uuid.UUID `gorm:"column:advisory_task_dependency_depends_on_task_id;type:uuid;not null;index:idx_advisory_task_dependencies_depends_on;uniqueIndex:uq_advisory_task_dependency_edge,priority:2" json:"advisory_task_dependency_depends_on_task_id"`

	AdvisoryTaskDependencyCreatedAt time.Time `gorm:"column:advisory_task_dependency_created_at;autoCreateTime" json:"advisory_task_dependency_created_at"`
}

func (AdvisoryTaskDependencyModel) TableName() string { return "advisory_task_dependencies" }

func (m *AdvisoryTaskDependencyModel) BeforeCreate(tx *gorm.DB) error {
	if m.AdvisoryTaskDependencyID == uuid.Nil {
		m.AdvisoryTaskDependencyID = uuid.New()
	}
	return nil
}
