package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"coachhub/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitCheckInCreatesAndUpdates(t *testing.T) {
	app, db, _ := newTestApp(t)
	coach, _ := createUser(t, db, "Coach", "coach@example.com", "coach")
	client := createClient(t, db, coach.ID, "Boris", "boris@example.com")
	_, clientToken := linkClientAccount(t, db, &client)

	response := doRequest(t, app, http.MethodPost, "/api/checkin", clientToken, map[string]interface{}{
		"date":       "2025-06-01",
		"goalScores": map[string]interface{}{"1": 4},
		"notes":      "good day",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)

	var created struct {
		ID        uint   `json:"id"`
		Date      string `json:"date"`
		Operation string `json:"operation"`
	}
	decodeBody(t, response, &created)
	assert.Equal(t, "created", created.Operation)
	assert.Equal(t, "2025-06-01", created.Date)

	// Повторная отправка на ту же дату перезаписывает, а не дублирует
	response = doRequest(t, app, http.MethodPost, "/api/checkin", clientToken, map[string]interface{}{
		"date":       "2025-06-01",
		"goalScores": map[string]interface{}{"1": 2},
	})
	require.Equal(t, http.StatusOK, response.StatusCode)

	var updated struct {
		ID        uint   `json:"id"`
		Operation string `json:"operation"`
	}
	decodeBody(t, response, &updated)
	assert.Equal(t, "updated", updated.Operation)
	assert.Equal(t, created.ID, updated.ID)

	var count int64
	require.NoError(t, db.Model(&models.CheckIn{}).
		Where("client_id = ? AND date = ?", client.ID, "2025-06-01").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored models.CheckIn
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.JSONEq(t, `{"1": 2}`, stored.GoalScores)
}

func TestSubmitCheckInValidation(t *testing.T) {
	app, db, _ := newTestApp(t)
	coach, _ := createUser(t, db, "Coach", "coach@example.com", "coach")
	client := createClient(t, db, coach.ID, "Boris", "boris@example.com")
	_, clientToken := linkClientAccount(t, db, &client)

	// Оценка вне диапазона 0-5
	response := doRequest(t, app, http.MethodPost, "/api/checkin", clientToken, map[string]interface{}{
		"goalScores": map[string]interface{}{"1": 7},
	})
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)

	response = doRequest(t, app, http.MethodPost, "/api/checkin", clientToken, map[string]interface{}{
		"habitScores": map[string]interface{}{"1": "bad"},
	})
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)

	response = doRequest(t, app, http.MethodPost, "/api/checkin", clientToken, map[string]interface{}{
		"date": "01.06.2025",
	})
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestSubmitCheckInWithoutClientRecord(t *testing.T) {
	app, db, _ := newTestApp(t)
	_, token := createUser(t, db, "Nobody", "nobody@example.com", "client")

	response := doRequest(t, app, http.MethodPost, "/api/checkin", token, map[string]interface{}{
		"goalScores": map[string]interface{}{"1": 3},
	})
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestGetClientCheckIns(t *testing.T) {
	app, db, _ := newTestApp(t)
	coach, token := createUser(t, db, "Coach", "coach@example.com", "coach")
	client := createClient(t, db, coach.ID, "Boris", "boris@example.com")

	for _, date := range []string{"2025-06-01", "2025-06-02", "2025-06-10"} {
		require.NoError(t, db.Create(&models.CheckIn{
			ClientID: client.ID, Date: date, GoalScores: `{"1": 3}`,
		}).Error)
	}

	url := fmt.Sprintf("/api/clients/%d/checkins?from=2025-06-01&to=2025-06-05", client.ID)
	response := doRequest(t, app, http.MethodGet, url, token, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	var body struct {
		Success bool             `json:"success"`
		Data    []models.CheckIn `json:"data"`
	}
	decodeBody(t, response, &body)
	require.True(t, body.Success)
	require.Len(t, body.Data, 2)
	// Сортировка по дате, новые сверху
	assert.Equal(t, "2025-06-02", body.Data[0].Date)
	assert.Equal(t, "2025-06-01", body.Data[1].Date)
}

func TestGetClientCheckInsForeignCoach(t *testing.T) {
	app, db, _ := newTestApp(t)
	owner, _ := createUser(t, db, "Owner", "owner@example.com", "coach")
	client := createClient(t, db, owner.ID, "Boris", "boris@example.com")
	_, otherToken := createUser(t, db, "Other", "other@example.com", "coach")

	url := fmt.Sprintf("/api/clients/%d/checkins", client.ID)
	response := doRequest(t, app, http.MethodGet, url, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}
