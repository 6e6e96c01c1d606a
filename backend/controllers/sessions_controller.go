package controllers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"coachhub/backend/config"
	"coachhub/backend/models"
	"coachhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SessionsController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
}

func NewSessionsController(db *gorm.DB, cfg *config.Config, logger *log.Logger) *SessionsController {
	return &SessionsController{DB: db, Cfg: cfg, Logger: logger}
}

var sessionStatuses = map[string]bool{
	"scheduled": true,
	"completed": true,
	"cancelled": true,
}

// GetSessions godoc
// @Summary List coach's sessions
// @Description Returns sessions of the coach's clients and groups, optionally filtered by date range
// @Tags sessions
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /sessions [get]
func (sc *SessionsController) GetSessions(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	query := sc.DB.Where(
		"client_id IN (SELECT id FROM clients WHERE coach_id = ?) OR group_id IN (SELECT id FROM groups WHERE coach_id = ?)",
		coachID, coachID)

	if from := c.Query("from"); from != "" {
		fromDate, err := time.Parse("2006-01-02", from)
		if err != nil {
			return utils.BadRequest(c, "Invalid from date. Use YYYY-MM-DD")
		}
		query = query.Where("session_date >= ?", fromDate)
	}
	if to := c.Query("to"); to != "" {
		toDate, err := time.Parse("2006-01-02", to)
		if err != nil {
			return utils.BadRequest(c, "Invalid to date. Use YYYY-MM-DD")
		}
		query = query.Where("session_date < ?", toDate.AddDate(0, 0, 1))
	}

	var sessions []models.Session
	if err := query.Order("session_date ASC").Find(&sessions).Error; err != nil {
		sc.Logger.Printf("list sessions: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Success(c, fiber.StatusOK, sessions)
}

// CreateSession godoc
// @Summary Schedule a session
// @Description Creates a session for a client or a group owned by the coach
// @Tags sessions
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /sessions [post]
func (sc *SessionsController) CreateSession(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type SessionInput struct {
		ClientID    *uint     `json:"clientId"`
		GroupID     *uint     `json:"groupId"`
		SessionDate time.Time `json:"sessionDate"`
		SessionType string    `json:"sessionType"`
	}
	var input SessionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	// Сессия принадлежит ровно одному владельцу: клиенту или группе
	if (input.ClientID == nil) == (input.GroupID == nil) {
		return utils.BadRequest(c, "Exactly one of clientId or groupId is required")
	}
	if input.SessionDate.IsZero() {
		return utils.BadRequest(c, "Session date is required")
	}

	if input.ClientID != nil {
		var client models.Client
		if err := sc.DB.Where("id = ? AND coach_id = ?", *input.ClientID, coachID).
			First(&client).Error; err != nil {
			return utils.NotFound(c, "Client not found or access denied")
		}
	} else {
		var group models.Group
		if err := sc.DB.Where("id = ? AND coach_id = ?", *input.GroupID, coachID).
			First(&group).Error; err != nil {
			return utils.NotFound(c, "Group not found or access denied")
		}
	}

	session := models.Session{
		ClientID:    input.ClientID,
		GroupID:     input.GroupID,
		SessionDate: input.SessionDate,
		SessionType: input.SessionType,
		Status:      "scheduled",
	}
	if err := sc.DB.Create(&session).Error; err != nil {
		sc.Logger.Printf("create session: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Created(c, session)
}

// UpdateSession godoc
// @Summary Update a session's status or date
// @Tags sessions
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /sessions/{id} [put]
func (sc *SessionsController) UpdateSession(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	sessionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid session ID")
	}

	var session models.Session
	err = sc.DB.Where(
		"id = ? AND (client_id IN (SELECT id FROM clients WHERE coach_id = ?) OR group_id IN (SELECT id FROM groups WHERE coach_id = ?))",
		sessionID, coachID, coachID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Session not found")
		}
		sc.Logger.Printf("update session: %v", err)
		return utils.InternalServerError(c)
	}

	type SessionInput struct {
		Status      *string    `json:"status"`
		SessionDate *time.Time `json:"sessionDate"`
	}
	var input SessionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Status != nil {
		if !sessionStatuses[*input.Status] {
			return utils.BadRequest(c, "Status must be scheduled, completed or cancelled")
		}
		session.Status = *input.Status
	}
	if input.SessionDate != nil {
		session.SessionDate = *input.SessionDate
	}

	if err := sc.DB.Save(&session).Error; err != nil {
		sc.Logger.Printf("update session: save: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Success(c, fiber.StatusOK, session)
}
