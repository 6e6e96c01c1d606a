package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"coachhub/backend/config"
	"coachhub/backend/models"
	"coachhub/backend/routes"
	"coachhub/backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testPassword = "password123"

var testCfg = &config.Config{JWTSecret: "test-secret"}

// captureMailer запоминает последнее письмо вместо отправки.
type captureMailer struct {
	To      string
	Subject string
	Body    string
}

func (m *captureMailer) Send(to, subject, body string) error {
	m.To = to
	m.Subject = subject
	m.Body = body
	return nil
}

// newTestApp поднимает приложение на файловой sqlite-базе во временной
// директории теста.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *captureMailer) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "coachhub_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, utils.MigrateModels(db))

	mailer := &captureMailer{}
	app := fiber.New()
	routes.SetupRoutes(app, db, testCfg, log.New(io.Discard, "", 0), mailer)
	return app, db, mailer
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Name: name, Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateJWTToken(user.ID, user.Role, testCfg)
	require.NoError(t, err)
	return user, token
}

func createClient(t *testing.T, db *gorm.DB, coachID uint, name, email string) models.Client {
	t.Helper()

	client := models.Client{CoachID: coachID, Name: name, Email: email, Status: "active"}
	require.NoError(t, db.Create(&client).Error)
	return client
}

// linkClientAccount регистрирует аккаунт клиента и привязывает его к записи.
func linkClientAccount(t *testing.T, db *gorm.DB, client *models.Client) (models.User, string) {
	t.Helper()

	user, token := createUser(t, db, client.Name, client.Email, "client")
	require.NoError(t, db.Model(client).Update("user_id", user.ID).Error)
	return user, token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", token)
	}

	response, err := app.Test(request, -1)
	require.NoError(t, err)
	return response
}

func decodeBody(t *testing.T, response *http.Response, out interface{}) {
	t.Helper()

	defer response.Body.Close()
	require.NoError(t, json.NewDecoder(response.Body).Decode(out))
}
