package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studycase_backend/internals/features/advisory/tasks/model"
)

var (
	ErrTaskNotFound   = errors.New("task tidak ditemukan")
	ErrTaskBlocked    = errors.New("task masih blocked oleh dependency")
	ErrTaskNotPending = errors.New("task hanya bisa dimulai dari status pending")
	ErrTaskClosed     = errors.New("task sudah completed/cancelled")
)

// TaskGraphService memegang aturan blocking + generate batch task per stage.
// Semua method menerima tx milik caller: mutasi task selalu ikut transaksi
// operasi workflow yang memanggilnya.
type TaskGraphService struct{}

func NewTaskGraphService() *TaskGraphService {
	return &TaskGraphService{}
}

// Spec satu task yang akan di-instantiate saat case masuk stage tertentu.
type TaskSpec struct {
	Type     string
	Title    string
	Priority string
	Role     string
}

// CreateBatch meng-instantiate daftar TaskSpec untuk satu assignee.
// Tidak ada edge dependency di dalam satu batch; edge hanya dibuat
// lintas siklus lewat AddDependency.
func (s *TaskGraphService) CreateBatch(tx *gorm.DB, caseID, assigneeID uuid.UUID, subject model.TaskSubject, specs []TaskSpec) ([]model.AdvisoryTaskModel, error) {
	out := make([]model.AdvisoryTaskModel, 0, len(specs))
	for _, spec := range specs {
		t := model.AdvisoryTaskModel{
			AdvisoryTaskCaseID:         caseID,
			AdvisoryTaskAssigneeUserID: assigneeID,
			AdvisoryTaskAssigneeRole:   spec.Role,
			AdvisoryTaskType:           spec.Type,
			AdvisoryTaskTitle:          spec.Title,
			AdvisoryTaskStatus:         model.TaskStatusPending,
			AdvisoryTaskPriority:       spec.Priority,
		}
		t.SetSubject(subject)
		if err := tx.Create(&t).Error; err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// AddDependency menambah edge task→dependsOn dan menyetel status blocked
// kalau dependency-nya belum completed. Caller bertanggung jawab tidak
// membuat siklus (generator hanya menunjuk task yang dibuat lebih dulu).
func (s *TaskGraphService) AddDependency(tx *gorm.DB, taskID, dependsOnID uuid.UUID) error {
	edge := model.AdvisoryTaskDependencyModel{
		AdvisoryTaskDependencyTaskID:      taskID,
		AdvisoryTaskDependencyDependsOnID: dependsOnID,
	}
	if err := tx.Create(&edge).Error; err != nil {
		return err
	}

	var dep model.AdvisoryTaskModel
	if err := tx.Where("advisory_task_id = ?", dependsOnID).Take(&dep).Error; err != nil {
		return err
	}
	if dep.AdvisoryTaskStatus != model.TaskStatusCompleted {
		return tx.Model(&model.AdvisoryTaskModel{}).
			Where("advisory_task_id = ? AND advisory_task_status = ?", taskID, model.TaskStatusPending).
			Update("advisory_task_status", model.TaskStatusBlocked).Error
	}
	return nil
}

// IsBlocked: true kalau status blocked, atau ada dependency yang belum completed.
func (s *TaskGraphService) IsBlocked(tx *gorm.DB, taskID uuid.UUID) (bool, error) {
	var t model.AdvisoryTaskModel
	if err := tx.Where("advisory_task_id = ?", taskID).Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrTaskNotFound
		}
		return false, err
	}
	if t.AdvisoryTaskStatus == model.TaskStatusBlocked {
		return true, nil
	}

	var n int64
	err := tx.Model(&model.AdvisoryTaskDependencyModel{}).
		Joins("JOIN advisory_tasks dep ON dep.advisory_task_id = advisory_task_dependencies.advisory_task_dependency_depends_on_task_id").
		Where("advisory_task_dependencies.advisory_task_dependency_task_id = ?", taskID).
		Where("dep.advisory_task_status <> ?", model.TaskStatusCompleted).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkStarted: pending → in_progress, hanya kalau tidak blocked.
func (s *TaskGraphService) MarkStarted(tx *gorm.DB, taskID uuid.UUID) (*model.AdvisoryTaskModel, error) {
	var t model.AdvisoryTaskModel
	if err := tx.Where("advisory_task_id = ?", taskID).Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if t.AdvisoryTaskStatus != model.TaskStatusPending {
		if t.AdvisoryTaskStatus == model.TaskStatusBlocked {
			return nil, ErrTaskBlocked
		}
		return nil, ErrTaskNotPending
	}
	if blocked, err := s.IsBlocked(tx, taskID); err != nil {
		return nil, err
	} else if blocked {
		return nil, ErrTaskBlocked
	}

	now := time.Now()
	t.AdvisoryTaskStatus = model.TaskStatusInProgress
	t.AdvisoryTaskStartedAt = &now
	if err := tx.Model(&model.AdvisoryTaskModel{}).
		Where("advisory_task_id = ?", taskID).
		Updates(map[string]any{
			"advisory_task_status":     model.TaskStatusInProgress,
			"advisory_task_started_at": now,
		}).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkCompleted menyelesaikan task lalu re-evaluasi semua task yang
// bergantung padanya: yang seluruh dependency-nya sudah completed turun
// dari blocked ke pending (tidak pernah auto-start ke in_progress).
func (s *TaskGraphService) MarkCompleted(tx *gorm.DB, taskID uuid.UUID) (*model.AdvisoryTaskModel, error) {
	var t model.AdvisoryTaskModel
	if err := tx.Where("advisory_task_id = ?", taskID).Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if t.AdvisoryTaskStatus == model.TaskStatusCompleted || t.AdvisoryTaskStatus == model.TaskStatusCancelled {
		return nil, ErrTaskClosed
	}
	if blocked, err := s.IsBlocked(tx, taskID); err != nil {
		return nil, err
	} else if blocked {
		return nil, ErrTaskBlocked
	}

	now := time.Now()
	if err := tx.Model(&model.AdvisoryTaskModel{}).
		Where("advisory_task_id = ?", taskID).
		Updates(map[string]any{
			"advisory_task_status":       model.TaskStatusCompleted,
			"advisory_task_completed_at": now,
		}).Error; err != nil {
		return nil, err
	}
	t.AdvisoryTaskStatus = model.TaskStatusCompleted
	t.AdvisoryTaskCompletedAt = &now

	if err := s.unblockDependents(tx, taskID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskGraphService) unblockDependents(tx *gorm.DB, completedID uuid.UUID) error {
	var edges []model.AdvisoryTaskDependencyModel
	if err := tx.Where("advisory_task_dependency_depends_on_task_id = ?", completedID).
		Find(&edges).Error; err != nil {
		return err
	}

	for _, e := range edges {
		var remaining int64
		err := tx.Model(&model.AdvisoryTaskDependencyModel{}).
			Joins("JOIN advisory_tasks dep ON dep.advisory_task_id = advisory_task_dependencies.advisory_task_dependency_depends_on_task_id").
			Where("advisory_task_dependencies.advisory_task_dependency_task_id = ?", e.AdvisoryTaskDependencyTaskID).
			Where("dep.advisory_task_status <> ?", model.TaskStatusCompleted).
			Count(&remaining).Error
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := tx.Model(&model.AdvisoryTaskModel{}).
				Where("advisory_task_id = ? AND advisory_task_status = ?", e.AdvisoryTaskDependencyTaskID, model.TaskStatusBlocked).
				Update("advisory_task_status", model.TaskStatusPending).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// CompleteByType menyelesaikan task bertipe tertentu milik satu case.
// Return (nil, true, nil) kalau task-nya sudah completed sebelumnya —
// sinyal no-op idempoten untuk engine. Error kalau tidak ada sama sekali.
func (s *TaskGraphService) CompleteByType(tx *gorm.DB, caseID uuid.UUID, taskType string) (*model.AdvisoryTaskModel, bool, error) {
	var t model.AdvisoryTaskModel
	err := tx.Where("advisory_task_case_id = ? AND advisory_task_type = ?", caseID, taskType).
		Where("advisory_task_status IN ?", []string{model.TaskStatusPending, model.TaskStatusInProgress, model.TaskStatusBlocked}).
		Order("advisory_task_created_at DESC").
		Limit(1).
		Take(&t).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
		// Tidak ada yang open: cek apakah sudah pernah diselesaikan
		var done int64
		if err := tx.Model(&model.AdvisoryTaskModel{}).
			Where("advisory_task_case_id = ? AND advisory_task_type = ? AND advisory_task_status = ?",
				caseID, taskType, model.TaskStatusCompleted).
			Count(&done).Error; err != nil {
			return nil, false, err
		}
		if done > 0 {
			return nil, true, nil
		}
		return nil, false, ErrTaskNotFound
	}

	completed, err := s.MarkCompleted(tx, t.AdvisoryTaskID)
	if err != nil {
		return nil, false, err
	}
	return completed, false, nil
}

// CancelOpenTasks: bulk-cancel semua task pending/in_progress/blocked milik
// case. Dipanggil handler terminal (completed/cancelled) di dalam transaksi
// yang sama — pengganti eksplisit untuk cascade ORM.
func (s *TaskGraphService) CancelOpenTasks(tx *gorm.DB, caseID uuid.UUID) (int64, error) {
	res := tx.Model(&model.AdvisoryTaskModel{}).
		Where("advisory_task_case_id = ?", caseID).
		Where("advisory_task_status IN ?", []string{model.TaskStatusPending, model.TaskStatusInProgress, model.TaskStatusBlocked}).
		Update("advisory_task_status", model.TaskStatusCancelled)
	return res.RowsAffected, res.Error
}
