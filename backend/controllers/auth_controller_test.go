package controllers_test

import (
	"net/http"
	"regexp"
	"testing"

	"coachhub/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	app, _, _ := newTestApp(t)

	response := doRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Coach Anna",
		"email":    "anna@example.com",
		"password": "secret123",
		"role":     "coach",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)

	var registered struct {
		Token string `json:"token"`
		User  struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decodeBody(t, response, &registered)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "coach", registered.User.Role)

	response = doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "anna@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)

	var loggedIn struct {
		Token string `json:"token"`
	}
	decodeBody(t, response, &loggedIn)
	assert.NotEmpty(t, loggedIn.Token)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	app, db, _ := newTestApp(t)

	response := doRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "sneaky@example.com",
		"password": "secret123",
		"role":     "admin",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)

	var user models.User
	require.NoError(t, db.Where("email = ?", "sneaky@example.com").First(&user).Error)
	assert.Equal(t, "client", user.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, db, _ := newTestApp(t)
	createUser(t, db, "Anna", "anna@example.com", "coach")

	response := doRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "anna@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestRegisterLinksExistingClientRecord(t *testing.T) {
	app, db, _ := newTestApp(t)
	coach, _ := createUser(t, db, "Coach", "coach@example.com", "coach")
	client := createClient(t, db, coach.ID, "Boris", "boris@example.com")

	response := doRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Boris",
		"email":    "boris@example.com",
		"password": "secret123",
		"role":     "client",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)

	var linked models.Client
	require.NoError(t, db.First(&linked, client.ID).Error)
	require.NotNil(t, linked.UserID)

	var user models.User
	require.NoError(t, db.Where("email = ?", "boris@example.com").First(&user).Error)
	assert.Equal(t, user.ID, *linked.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	app, db, _ := newTestApp(t)
	createUser(t, db, "Anna", "anna@example.com", "coach")

	response := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "anna@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
}

func TestLoginUnknownEmail(t *testing.T) {
	app, _, _ := newTestApp(t)

	response := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
}

func TestPasswordResetFlow(t *testing.T) {
	app, db, mailer := newTestApp(t)
	createUser(t, db, "Anna", "anna@example.com", "coach")

	response := doRequest(t, app, http.MethodPost, "/api/auth/forgot-password", "", map[string]interface{}{
		"email": "anna@example.com",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Equal(t, "anna@example.com", mailer.To)

	matches := regexp.MustCompile(`[0-9a-f]{64}`).FindString(mailer.Body)
	require.NotEmpty(t, matches, "reset mail must contain the token")

	response = doRequest(t, app, http.MethodPost, "/api/auth/reset-password", "", map[string]interface{}{
		"token":    matches,
		"password": "newpass456",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)

	// Старый пароль больше не работает, новый работает
	response = doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "anna@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)

	response = doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "anna@example.com",
		"password": "newpass456",
	})
	assert.Equal(t, http.StatusOK, response.StatusCode)

	// Токен одноразовый
	response = doRequest(t, app, http.MethodPost, "/api/auth/reset-password", "", map[string]interface{}{
		"token":    matches,
		"password": "another789",
	})
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestForgotPasswordUnknownEmailSameReply(t *testing.T) {
	app, _, mailer := newTestApp(t)

	response := doRequest(t, app, http.MethodPost, "/api/auth/forgot-password", "", map[string]interface{}{
		"email": "ghost@example.com",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Empty(t, mailer.To, "no mail for unknown address")

	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, response, &body)
	assert.Equal(t, "If the email exists, a reset link has been sent", body.Message)
}
