package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"studycase_backend/internals/features/home/notifications/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		model.NotificationModel{},
		model.UserNotificationModel{},
	))
	return db
}

func TestDispatchFansOutToAllRecipients(t *testing.T) {
	db := newTestDB(t)
	n := NewNotifier(db)
	caseID := uuid.New()
	r1, r2 := uuid.New(), uuid.New()

	n.Dispatch([]uuid.UUID{r1, r2}, model.EventAnalystAssigned,
		"Analyst ditugaskan", "Case siap masuk counseling", caseID)

	var notifs []model.NotificationModel
	require.NoError(t, db.Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, model.EventAnalystAssigned, notifs[0].NotificationEventType)
	assert.Equal(t, "Analyst ditugaskan", notifs[0].NotificationTitle)
	require.NotNil(t, notifs[0].NotificationCaseID)
	assert.Equal(t, caseID, *notifs[0].NotificationCaseID)
	assert.Equal(t, []string{"advisory", model.EventAnalystAssigned}, []string(notifs[0].NotificationTags))

	var inbox []model.UserNotificationModel
	require.NoError(t, db.Order("user_notification_created_at").Find(&inbox).Error)
	require.Len(t, inbox, 2)
	users := []uuid.UUID{inbox[0].UserNotificationUserID, inbox[1].UserNotificationUserID}
	assert.ElementsMatch(t, []uuid.UUID{r1, r2}, users)
	for _, un := range inbox {
		assert.Equal(t, notifs[0].NotificationID, un.UserNotificationNotificationID)
		assert.False(t, un.UserNotificationIsRead)
		assert.Nil(t, un.UserNotificationReadAt)
	}
}

func TestDispatchNoRecipientsWritesNothing(t *testing.T) {
	db := newTestDB(t)
	n := NewNotifier(db)

	n.Dispatch(nil, model.EventCaseCompleted, "Selesai", "", uuid.New())
	n.Dispatch([]uuid.UUID{}, model.EventCaseCompleted, "Selesai", "", uuid.New())

	var count int64
	require.NoError(t, db.Model(&model.NotificationModel{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&model.UserNotificationModel{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDispatchSeparateEventsSeparateRows(t *testing.T) {
	db := newTestDB(t)
	n := NewNotifier(db)
	caseID := uuid.New()
	recipient := uuid.New()

	n.Dispatch([]uuid.UUID{recipient}, model.EventCycleStarted, "Siklus baru", "", caseID)
	n.Dispatch([]uuid.UUID{recipient}, model.EventCaseCompleted, "Case selesai", "", caseID)

	var notifs []model.NotificationModel
	require.NoError(t, db.Order("notification_created_at").Find(&notifs).Error)
	require.Len(t, notifs, 2)

	var inboxCount int64
	require.NoError(t, db.Model(&model.UserNotificationModel{}).
		Where("user_notification_user_id = ?", recipient).
		Count(&inboxCount).Error)
	assert.Equal(t, int64(2), inboxCount)
}
