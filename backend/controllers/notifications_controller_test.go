package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"coachhub/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsScopedToUser(t *testing.T) {
	app, db, _ := newTestApp(t)
	mine, token := createUser(t, db, "Anna", "anna@example.com", "coach")
	other, _ := createUser(t, db, "Boris", "boris@example.com", "coach")

	require.NoError(t, db.Create(&models.Notification{
		UserID: mine.ID, Title: "Mine", Type: "system",
	}).Error)
	require.NoError(t, db.Create(&models.Notification{
		UserID: other.ID, Title: "Not mine", Type: "system",
	}).Error)

	response := doRequest(t, app, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	var body struct {
		Data []models.Notification `json:"data"`
	}
	decodeBody(t, response, &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Mine", body.Data[0].Title)
}

func TestMarkNotificationRead(t *testing.T) {
	app, db, _ := newTestApp(t)
	user, token := createUser(t, db, "Anna", "anna@example.com", "coach")

	notification := models.Notification{UserID: user.ID, Title: "Reminder", Type: "checkin_reminder"}
	require.NoError(t, db.Create(&notification).Error)

	url := fmt.Sprintf("/api/notifications/%d/read", notification.ID)
	response := doRequest(t, app, http.MethodPut, url, token, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	var stored models.Notification
	require.NoError(t, db.First(&stored, notification.ID).Error)
	assert.True(t, stored.IsRead)

	// Чужое уведомление пометить нельзя
	_, otherToken := createUser(t, db, "Boris", "boris@example.com", "coach")
	response = doRequest(t, app, http.MethodPut, url, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	app, db, _ := newTestApp(t)
	user, token := createUser(t, db, "Anna", "anna@example.com", "coach")

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Notification{
			UserID: user.ID, Title: fmt.Sprintf("N%d", i), Type: "system",
		}).Error)
	}

	response := doRequest(t, app, http.MethodPut, "/api/notifications/mark-all-read", token, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	var unread int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).Count(&unread).Error)
	assert.Equal(t, int64(0), unread)

	// Фильтр непрочитанных возвращает пустой список
	response = doRequest(t, app, http.MethodGet, "/api/notifications?unread=true", token, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	var body struct {
		Data []models.Notification `json:"data"`
	}
	decodeBody(t, response, &body)
	assert.Empty(t, body.Data)
}
