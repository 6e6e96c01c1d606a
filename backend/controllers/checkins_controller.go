package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"coachhub/backend/config"
	"coachhub/backend/models"
	"coachhub/backend/services"
	"coachhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CheckInsController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
}

func NewCheckInsController(db *gorm.DB, cfg *config.Config, logger *log.Logger) *CheckInsController {
	return &CheckInsController{DB: db, Cfg: cfg, Logger: logger}
}

// validateScores проверяет, что каждая оценка — число в диапазоне 0-5.
func validateScores(scores map[string]interface{}, kind string) (string, error) {
	if scores == nil {
		return "{}", nil
	}
	for id, value := range scores {
		score, ok := value.(float64)
		if !ok || score < 0 || score > 5 {
			return "", fmt.Errorf("Invalid score for %s %s. Must be a number between 0 and 5", kind, id)
		}
	}
	encoded, err := json.Marshal(scores)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// SubmitCheckIn godoc
// @Summary Submit a daily check-in
// @Description Upserts the caller's check-in for the given date (one per day)
// @Tags checkins
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /checkin [post]
func (cic *CheckInsController) SubmitCheckIn(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractClaimsFromToken(c, cic.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	client, err := findClientForUser(cic.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Client record not found")
		}
		cic.Logger.Printf("submit checkin: find client: %v", err)
		return utils.InternalServerError(c)
	}

	type CheckInInput struct {
		GoalScores  map[string]interface{} `json:"goalScores"`
		HabitScores map[string]interface{} `json:"habitScores"`
		Notes       string                 `json:"notes"`
		Date        string                 `json:"date"`
	}
	var input CheckInInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	goalScores, err := validateScores(input.GoalScores, "goal")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	habitScores, err := validateScores(input.HabitScores, "habit")
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	date := input.Date
	if date == "" {
		date = time.Now().UTC().Format(services.CheckInDateLayout)
	}
	if _, err := time.Parse(services.CheckInDateLayout, date); err != nil {
		return utils.BadRequest(c, "Invalid date format. Use YYYY-MM-DD")
	}

	// Один чек-ин на дату: повторная отправка перезаписывает оценки
	var checkIn models.CheckIn
	err = cic.DB.Where("client_id = ? AND date = ?", client.ID, date).First(&checkIn).Error
	operation := "updated"
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		checkIn = models.CheckIn{ClientID: client.ID, Date: date}
		operation = "created"
	case err != nil:
		cic.Logger.Printf("submit checkin: lookup: %v", err)
		return utils.InternalServerError(c)
	}

	checkIn.GoalScores = goalScores
	checkIn.HabitScores = habitScores
	checkIn.Notes = input.Notes

	if err := cic.DB.Save(&checkIn).Error; err != nil {
		cic.Logger.Printf("submit checkin: save: %v", err)
		return utils.InternalServerError(c)
	}

	return c.JSON(fiber.Map{
		"id":        checkIn.ID,
		"date":      checkIn.Date,
		"operation": operation,
	})
}

// GetClientCheckIns godoc
// @Summary List a client's check-ins
// @Tags checkins
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /clients/{id}/checkins [get]
func (cic *CheckInsController) GetClientCheckIns(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, cic.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	client, err := findOwnedClient(cic.DB, coachID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Client not found or access denied")
		}
		cic.Logger.Printf("list checkins: %v", err)
		return utils.InternalServerError(c)
	}

	query := cic.DB.Where("client_id = ?", client.ID)
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}

	var checkIns []models.CheckIn
	if err := query.Order("date DESC").Find(&checkIns).Error; err != nil {
		cic.Logger.Printf("list checkins: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Success(c, fiber.StatusOK, checkIns)
}
