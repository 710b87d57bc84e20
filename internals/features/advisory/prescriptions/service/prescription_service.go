package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studycase_backend/internals/features/advisory/prescriptions/model"
)

var (
	ErrPrescriptionNotFound = errors.New("prescription tidak ditemukan")
	ErrLearningTaskNotFound = errors.New("learning task tidak ditemukan")
	ErrInvalidProgress      = errors.New("progress harus 0..100")
)

type PrescriptionService struct {
	db *gorm.DB
}

func NewPrescriptionService(db *gorm.DB) *PrescriptionService {
	return &PrescriptionService{db: db}
}

// GetWithAssociations memuat prescription + courses + learning tasks + items.
func (s *PrescriptionService) GetWithAssociations(ctx context.Context, id uuid.UUID) (*model.AdvisoryPrescriptionModel, error) {
	var p model.AdvisoryPrescriptionModel
	err := s.db.WithContext(ctx).
		Preload("Courses").
		Preload("LearningTasks").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("prescription_item_position ASC")
		}).
		Where("advisory_prescription_id = ?", id).
		Take(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByCase mengembalikan seluruh prescription milik case, urut cycle.
func (s *PrescriptionService) ListByCase(ctx context.Context, caseID uuid.UUID) ([]model.AdvisoryPrescriptionModel, error) {
	var out []model.AdvisoryPrescriptionModel
	err := s.db.WithContext(ctx).
		Where("advisory_prescription_case_id = ?", caseID).
		Order("advisory_prescription_cycle_number ASC").
		Find(&out).Error
	return out, err
}

// TaskCompletionRate = learning task completed / total (0 kalau kosong).
func (s *PrescriptionService) TaskCompletionRate(ctx context.Context, prescriptionID uuid.UUID) (float64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.PrescriptionLearningTaskModel{}).
		Where("prescription_learning_task_prescription_id = ?", prescriptionID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	var done int64
	if err := db.Model(&model.PrescriptionLearningTaskModel{}).
		Where("prescription_learning_task_prescription_id = ? AND prescription_learning_task_status = ?",
			prescriptionID, model.LearningTaskStatusCompleted).
		Count(&done).Error; err != nil {
		return 0, err
	}
	return float64(done) / float64(total), nil
}

type UpdateLearningTaskInput struct {
	LearningTaskID uuid.UUID
	Status         *string
	Progress       *int
	DueDate        *time.Time
}

// UpdateLearningTask: progres/status tugas belajar (data advisory, bukan
// bagian state machine case). Progress 100 otomatis menandai completed.
func (s *PrescriptionService) UpdateLearningTask(ctx context.Context, in UpdateLearningTaskInput) (*model.PrescriptionLearningTaskModel, error) {
	var lt model.PrescriptionLearningTaskModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prescription_learning_task_id = ?", in.LearningTaskID).
			Take(&lt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLearningTaskNotFound
			}
			return err
		}

		updates := map[string]any{}
		if in.Progress != nil {
			if *in.Progress < 0 || *in.Progress > 100 {
				return ErrInvalidProgress
			}
			updates["prescription_learning_task_progress"] = *in.Progress
			if *in.Progress >= 100 {
				updates["prescription_learning_task_status"] = model.LearningTaskStatusCompleted
			}
		}
		if in.Status != nil {
			updates["prescription_learning_task_status"] = *in.Status
			if *in.Status == model.LearningTaskStatusCompleted {
				updates["prescription_learning_task_progress"] = 100
			}
		}
		if in.DueDate != nil {
			updates["prescription_learning_task_due_date"] = *in.DueDate
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&model.PrescriptionLearningTaskModel{}).
			Where("prescription_learning_task_id = ?", in.LearningTaskID).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("prescription_learning_task_id = ?", in.LearningTaskID).Take(&lt).Error
	})
	if err != nil {
		return nil, err
	}
	return &lt, nil
}
