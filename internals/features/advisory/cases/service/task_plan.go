package service

import (
	"fmt"

	"studycase_backend/internals/constants"
	taskModel "studycase_backend/internals/features/advisory/tasks/model"
	taskService "studycase_backend/internals/features/advisory/tasks/service"
)

// Batch task per stage, deklaratif. Tiap transisi stage punya daftar
// (type, title, priority, role) tetap; engine tinggal meng-instantiate.
// Dependency antar task dalam satu batch tidak ada — edge hanya dibuat
// lintas siklus (review_analysis ← submit_analysis).

// plannerIntakeTasks: dibuat saat case lahir (stage planning).
func plannerIntakeTasks() []taskService.TaskSpec {
	return []taskService.TaskSpec{
		{Type: taskModel.TaskTypeConfirmPayment, Title: "Konfirmasi pembayaran case", Priority: taskModel.TaskPriorityHigh, Role: constants.RolePlanner},
		{Type: taskModel.TaskTypeCreateLineGroup, Title: "Buat grup LINE case", Priority: taskModel.TaskPriorityNormal, Role: constants.RolePlanner},
		{Type: taskModel.TaskTypeAssignCounselor, Title: "Tunjuk counselor", Priority: taskModel.TaskPriorityHigh, Role: constants.RolePlanner},
		{Type: taskModel.TaskTypeAssignAnalyst, Title: "Tunjuk analyst", Priority: taskModel.TaskPriorityHigh, Role: constants.RolePlanner},
	}
}

// counselorStageTasks: dibuat saat masuk counseling.
// continuation=true untuk ronde lanjutan setelah review (judul menyebut siklus).
func counselorStageTasks(cycleCount int, continuation bool) []taskService.TaskSpec {
	strategyTitle := "Susun strategi belajar"
	issueTitle := "Terbitkan prescription"
	if continuation {
		strategyTitle = fmt.Sprintf("Susun strategi belajar (lanjutan siklus %d)", cycleCount)
		issueTitle = fmt.Sprintf("Terbitkan prescription (lanjutan siklus %d)", cycleCount)
	}
	return []taskService.TaskSpec{
		{Type: taskModel.TaskTypeCreateStrategy, Title: strategyTitle, Priority: taskModel.TaskPriorityHigh, Role: constants.RoleCounselor},
		{Type: taskModel.TaskTypeIssuePrescription, Title: issueTitle, Priority: taskModel.TaskPriorityNormal, Role: constants.RoleCounselor},
	}
}

// analystStageTasks: dibuat saat masuk analyzing (prescription terbit).
func analystStageTasks(cycleNumber int) []taskService.TaskSpec {
	return []taskService.TaskSpec{
		{Type: taskModel.TaskTypeCreateAssessment, Title: fmt.Sprintf("Buat assessment siklus %d", cycleNumber), Priority: taskModel.TaskPriorityHigh, Role: constants.RoleAnalyst},
		{Type: taskModel.TaskTypeSubmitAnalysis, Title: fmt.Sprintf("Submit hasil analisis siklus %d", cycleNumber), Priority: taskModel.TaskPriorityNormal, Role: constants.RoleAnalyst},
	}
}

// counselorReviewTask: dibuat saat masuk cycling (analisis selesai).
func counselorReviewTask(cycleNumber int) []taskService.TaskSpec {
	return []taskService.TaskSpec{
		{Type: taskModel.TaskTypeReviewAnalysis, Title: fmt.Sprintf("Review hasil analisis siklus %d", cycleNumber), Priority: taskModel.TaskPriorityHigh, Role: constants.RoleCounselor},
	}
}
