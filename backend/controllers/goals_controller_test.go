package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"coachhub/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGoalAndHabit(t *testing.T) {
	app, db, _ := newTestApp(t)
	coach, token := createUser(t, db, "Coach", "coach@example.com", "coach")
	client := createClient(t, db, coach.ID, "Boris", "boris@example.com")

	response := doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/clients/%d/goals", client.ID), token,
		map[string]interface{}{"name": "Sleep 8 hours", "order": 1})
	require.Equal(t, http.StatusCreated, response.StatusCode)

	var goal struct {
		Data models.Goal `json:"data"`
	}
	decodeBody(t, response, &goal)
	assert.True(t, goal.Data.IsActive)

	response = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/clients/%d/habits", client.ID), token,
		map[string]interface{}{"name": "Doomscrolling"})
	require.Equal(t, http.StatusCreated, response.StatusCode)

	// Без имени не создается
	response = doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/clients/%d/goals", client.ID), token,
		map[string]interface{}{"order": 2})
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestGetClientGoalsWithLatestCheckIn(t *testing.T) {
	app, db, _ := newTestApp(t)
	coach, token := createUser(t, db, "Coach", "coach@example.com", "coach")
	client := createClient(t, db, coach.ID, "Boris", "boris@example.com")

	goal := models.Goal{ClientID: client.ID, Name: "Sleep", IsActive: true}
	require.NoError(t, db.Create(&goal).Error)
	habit := models.Habit{ClientID: client.ID, Name: "Sugar", IsActive: true}
	require.NoError(t, db.Create(&habit).Error)

	// Два чек-ина, в ответе должны быть оценки последнего
	require.NoError(t, db.Create(&models.CheckIn{
		ClientID: client.ID, Date: "2025-06-01", GoalScores: fmt.Sprintf(`{"%d": 2}`, goal.ID),
	}).Error)
	require.NoError(t, db.Create(&models.CheckIn{
		ClientID: client.ID, Date: "2025-06-02", GoalScores: fmt.Sprintf(`{"%d": 5}`, goal.ID),
	}).Error)

	response := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/clients/%d/goals", client.ID), token, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	var body struct {
		Data struct {
			Goals         []models.Goal  `json:"goals"`
			Habits        []models.Habit `json:"habits"`
			LatestCheckIn struct {
				Date       string             `json:"date"`
				GoalScores map[string]float64 `json:"goalScores"`
			} `json:"latestCheckIn"`
		} `json:"data"`
	}
	decodeBody(t, response, &body)
	require.Len(t, body.Data.Goals, 1)
	require.Len(t, body.Data.Habits, 1)
	assert.Equal(t, "2025-06-02", body.Data.LatestCheckIn.Date)
	assert.Equal(t, 5.0, body.Data.LatestCheckIn.GoalScores[fmt.Sprint(goal.ID)])
}

func TestUpdateGoalOwnership(t *testing.T) {
	app, db, _ := newTestApp(t)
	owner, ownerToken := createUser(t, db, "Owner", "owner@example.com", "coach")
	client := createClient(t, db, owner.ID, "Boris", "boris@example.com")
	goal := models.Goal{ClientID: client.ID, Name: "Sleep", IsActive: true}
	require.NoError(t, db.Create(&goal).Error)

	_, otherToken := createUser(t, db, "Other", "other@example.com", "coach")

	url := fmt.Sprintf("/api/goals/%d", goal.ID)
	response := doRequest(t, app, http.MethodPut, url, otherToken, map[string]interface{}{
		"name": "Hijacked",
	})
	assert.Equal(t, http.StatusNotFound, response.StatusCode)

	inactive := false
	response = doRequest(t, app, http.MethodPut, url, ownerToken, map[string]interface{}{
		"name":     "Sleep 8 hours",
		"isActive": inactive,
	})
	require.Equal(t, http.StatusOK, response.StatusCode)

	var updated struct {
		Data models.Goal `json:"data"`
	}
	decodeBody(t, response, &updated)
	assert.Equal(t, "Sleep 8 hours", updated.Data.Name)
	assert.False(t, updated.Data.IsActive)
}

func TestDeleteHabit(t *testing.T) {
	app, db, _ := newTestApp(t)
	coach, token := createUser(t, db, "Coach", "coach@example.com", "coach")
	client := createClient(t, db, coach.ID, "Boris", "boris@example.com")
	habit := models.Habit{ClientID: client.ID, Name: "Sugar", IsActive: true}
	require.NoError(t, db.Create(&habit).Error)

	response := doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/habits/%d", habit.ID), token, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	var remaining int64
	require.NoError(t, db.Model(&models.Habit{}).Where("id = ?", habit.ID).Count(&remaining).Error)
	assert.Equal(t, int64(0), remaining)
}
