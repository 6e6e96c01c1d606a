package jobs

import (
	"log"
	"time"

	"coachhub/backend/models"
	"coachhub/backend/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReminderJob каждый вечер напоминает клиентам, не заполнившим
// сегодняшний чек-ин.
type ReminderJob struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewReminderJob(db *gorm.DB, logger *log.Logger) *ReminderJob {
	return &ReminderJob{DB: db, Logger: logger}
}

// Start регистрирует задачу в планировщике и запускает его.
func (j *ReminderJob) Start() *cron.Cron {
	scheduler := cron.New()

	// 18:00 каждый день
	_, err := scheduler.AddFunc("0 18 * * *", func() {
		sent, err := j.SendCheckInReminders(time.Now())
		if err != nil {
			j.Logger.Printf("checkin reminders: %v", err)
			return
		}
		j.Logger.Printf("checkin reminders: sent %d", sent)
	})
	if err != nil {
		j.Logger.Printf("checkin reminders: schedule: %v", err)
	}

	scheduler.Start()
	return scheduler
}

// SendCheckInReminders создает уведомление каждому активному клиенту
// с аккаунтом, у которого нет чек-ина за сегодняшнюю дату.
// Ошибка по одному клиенту не останавливает рассылку.
func (j *ReminderJob) SendCheckInReminders(now time.Time) (int, error) {
	today := now.UTC().Format(services.CheckInDateLayout)

	var clients []models.Client
	err := j.DB.Where(
		"status = ? AND user_id IS NOT NULL AND id NOT IN (SELECT client_id FROM check_ins WHERE date = ?)",
		"active", today).Find(&clients).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, client := range clients {
		notification := models.Notification{
			UserID:  *client.UserID,
			Title:   "Daily check-in",
			Message: "You haven't filled in today's check-in yet",
			Type:    "checkin_reminder",
		}
		if err := j.DB.Create(&notification).Error; err != nil {
			j.Logger.Printf("checkin reminders: client %d: %v", client.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}
