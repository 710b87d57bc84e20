package database

import (
	"log"

	assessmentModel "studycase_backend/internals/features/advisory/assessments/model"
	caseModel "studycase_backend/internals/features/advisory/cases/model"
	prescriptionModel "studycase_backend/internals/features/advisory/prescriptions/model"
	taskModel "studycase_backend/internals/features/advisory/tasks/model"
	caseTemplateModel "studycase_backend/internals/features/catalog/case_templates/model"
	courseTemplateModel "studycase_backend/internals/features/catalog/course_templates/model"
	notificationModel "studycase_backend/internals/features/home/notifications/model"
)

// Migrate menjalankan AutoMigrate untuk semua model fitur.
// Urutan: parent dulu baru child (FK).
func Migrate() {
	if err := DB.AutoMigrate(
		caseTemplateModel.CaseTemplateModel{},
		courseTemplateModel.CourseTemplateModel{},
		caseModel.AdvisoryCaseModel{},
		caseModel.AdvisoryCaseNoteModel{},
		taskModel.AdvisoryTaskModel{},
		taskModel.AdvisoryTaskDependencyModel{},
		prescriptionModel.AdvisoryPrescriptionModel{},
		prescriptionModel.PrescriptionCourseModel{},
		prescriptionModel.PrescriptionLearningTaskModel{},
		prescriptionModel.PrescriptionItemModel{},
		assessmentModel.AdvisoryAssessmentModel{},
		notificationModel.NotificationModel{},
		notificationModel.UserNotificationModel{},
	); err != nil {
		log.Fatalf("❌ Gagal migrate: %v", err)
	}
	log.Println("✅ Migrasi selesai.")
}
