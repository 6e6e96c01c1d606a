package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	app, db, _ := newTestApp(t)
	user, token := createUser(t, db, "Anna", "anna@example.com", "coach")

	response := doRequest(t, app, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	var profile struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decodeBody(t, response, &profile)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "Anna", profile.Name)
	assert.Equal(t, "coach", profile.Role)
}

func TestUpdateProfileChangesPassword(t *testing.T) {
	app, db, _ := newTestApp(t)
	_, token := createUser(t, db, "Anna", "anna@example.com", "coach")

	response := doRequest(t, app, http.MethodPut, "/api/user/profile", token, map[string]interface{}{
		"name":     "Anna K",
		"password": "newpass456",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)

	login := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "anna@example.com",
		"password": "newpass456",
	})
	assert.Equal(t, http.StatusOK, login.StatusCode)
}
