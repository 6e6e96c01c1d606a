package jobs

import (
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"coachhub/backend/models"
	"coachhub/backend/services"
	"coachhub/backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "reminders_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, utils.MigrateModels(db))
	return db
}

func createLinkedClient(t *testing.T, db *gorm.DB, name, email, status string) models.Client {
	t.Helper()

	user := models.User{Name: name, Email: email, PasswordHash: "x", Role: "client"}
	require.NoError(t, db.Create(&user).Error)

	client := models.Client{CoachID: 1, UserID: &user.ID, Name: name, Email: email, Status: status}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func TestSendCheckInReminders(t *testing.T) {
	db := newTestDB(t)
	job := NewReminderJob(db, log.New(io.Discard, "", 0))

	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	today := now.Format(services.CheckInDateLayout)

	// Уже отметился сегодня, напоминание не нужно
	diligent := createLinkedClient(t, db, "Anna", "anna@example.com", "active")
	require.NoError(t, db.Create(&models.CheckIn{ClientID: diligent.ID, Date: today}).Error)

	// Чек-ин только за вчера, напоминание нужно
	slacker := createLinkedClient(t, db, "Boris", "boris@example.com", "active")
	require.NoError(t, db.Create(&models.CheckIn{ClientID: slacker.ID, Date: "2025-06-14"}).Error)

	// Архивным и непривязанным не шлем
	createLinkedClient(t, db, "Vera", "vera@example.com", "archived")
	require.NoError(t, db.Create(&models.Client{CoachID: 1, Name: "NoAccount", Status: "active"}).Error)

	sent, err := job.SendCheckInReminders(now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	var notifications []models.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, *slacker.UserID, notifications[0].UserID)
	assert.Equal(t, "checkin_reminder", notifications[0].Type)
	assert.False(t, notifications[0].IsRead)
}

func TestSendCheckInRemindersIdleWhenAllDone(t *testing.T) {
	db := newTestDB(t)
	job := NewReminderJob(db, log.New(io.Discard, "", 0))

	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	client := createLinkedClient(t, db, "Anna", "anna@example.com", "active")
	require.NoError(t, db.Create(&models.CheckIn{
		ClientID: client.ID, Date: now.Format(services.CheckInDateLayout),
	}).Error)

	sent, err := job.SendCheckInReminders(now)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
