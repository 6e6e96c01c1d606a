package controllers

import (
	"errors"
	"log"
	"strconv"

	"coachhub/backend/config"
	"coachhub/backend/models"
	"coachhub/backend/services"
	"coachhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GoalsController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
}

func NewGoalsController(db *gorm.DB, cfg *config.Config, logger *log.Logger) *GoalsController {
	return &GoalsController{DB: db, Cfg: cfg, Logger: logger}
}

// GetClientGoals godoc
// @Summary Get client's goals and habits
// @Description Returns goals, habits and scores from the latest check-in
// @Tags goals
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /clients/{id}/goals [get]
func (gc *GoalsController) GetClientGoals(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	client, err := findOwnedClient(gc.DB, coachID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Client not found or access denied")
		}
		gc.Logger.Printf("get goals: %v", err)
		return utils.InternalServerError(c)
	}

	var goals []models.Goal
	if err := gc.DB.Where("client_id = ?", client.ID).
		Order("item_order ASC, created_at ASC").Find(&goals).Error; err != nil {
		gc.Logger.Printf("get goals: %v", err)
		return utils.InternalServerError(c)
	}

	var habits []models.Habit
	if err := gc.DB.Where("client_id = ?", client.ID).
		Order("item_order ASC, created_at ASC").Find(&habits).Error; err != nil {
		gc.Logger.Printf("get habits: %v", err)
		return utils.InternalServerError(c)
	}

	// Оценки из последнего чек-ина, чтобы коуч видел текущий срез
	latestScores := fiber.Map{}
	var latest models.CheckIn
	if err := gc.DB.Where("client_id = ?", client.ID).
		Order("date DESC").First(&latest).Error; err == nil {
		goalScores, parseErr := services.ParseScoreMap(latest.GoalScores)
		if parseErr != nil {
			gc.Logger.Printf("get goals: checkin %s goalScores: %v", latest.Date, parseErr)
		}
		habitScores, parseErr := services.ParseScoreMap(latest.HabitScores)
		if parseErr != nil {
			gc.Logger.Printf("get goals: checkin %s habitScores: %v", latest.Date, parseErr)
		}
		latestScores = fiber.Map{
			"date":        latest.Date,
			"goalScores":  goalScores,
			"habitScores": habitScores,
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"goals":         goals,
		"habits":        habits,
		"latestCheckIn": latestScores,
	})
}

type trackedItemInput struct {
	Name     string `json:"name"`
	Order    int    `json:"order"`
	IsActive *bool  `json:"isActive"`
}

// CreateGoal godoc
// @Summary Add a goal for a client
// @Tags goals
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /clients/{id}/goals [post]
func (gc *GoalsController) CreateGoal(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	client, err := findOwnedClient(gc.DB, coachID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Client not found or access denied")
		}
		gc.Logger.Printf("create goal: %v", err)
		return utils.InternalServerError(c)
	}

	var input trackedItemInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Name == "" {
		return utils.BadRequest(c, "Name is required")
	}

	goal := models.Goal{
		ClientID: client.ID,
		Name:     input.Name,
		Order:    input.Order,
		IsActive: true,
	}
	if err := gc.DB.Create(&goal).Error; err != nil {
		gc.Logger.Printf("create goal: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Created(c, goal)
}

// CreateHabit godoc
// @Summary Add a habit for a client
// @Tags goals
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /clients/{id}/habits [post]
func (gc *GoalsController) CreateHabit(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	client, err := findOwnedClient(gc.DB, coachID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Client not found or access denied")
		}
		gc.Logger.Printf("create habit: %v", err)
		return utils.InternalServerError(c)
	}

	var input trackedItemInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Name == "" {
		return utils.BadRequest(c, "Name is required")
	}

	habit := models.Habit{
		ClientID: client.ID,
		Name:     input.Name,
		Order:    input.Order,
		IsActive: true,
	}
	if err := gc.DB.Create(&habit).Error; err != nil {
		gc.Logger.Printf("create habit: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Created(c, habit)
}

// ownedGoal находит цель, клиент которой принадлежит коучу.
func (gc *GoalsController) ownedGoal(coachID uint, idParam string) (*models.Goal, error) {
	goalID, err := strconv.Atoi(idParam)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	var goal models.Goal
	err = gc.DB.Where("id = ? AND client_id IN (SELECT id FROM clients WHERE coach_id = ?)",
		goalID, coachID).First(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (gc *GoalsController) ownedHabit(coachID uint, idParam string) (*models.Habit, error) {
	habitID, err := strconv.Atoi(idParam)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	var habit models.Habit
	err = gc.DB.Where("id = ? AND client_id IN (SELECT id FROM clients WHERE coach_id = ?)",
		habitID, coachID).First(&habit).Error
	if err != nil {
		return nil, err
	}
	return &habit, nil
}

// UpdateGoal godoc
// @Summary Update a goal
// @Tags goals
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /goals/{goalId} [put]
func (gc *GoalsController) UpdateGoal(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	goal, err := gc.ownedGoal(coachID, c.Params("goalId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Goal not found")
		}
		gc.Logger.Printf("update goal: %v", err)
		return utils.InternalServerError(c)
	}

	var input trackedItemInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name != "" {
		goal.Name = input.Name
	}
	goal.Order = input.Order
	if input.IsActive != nil {
		goal.IsActive = *input.IsActive
	}

	if err := gc.DB.Save(goal).Error; err != nil {
		gc.Logger.Printf("update goal: save: %v", err)
		return utils.InternalServerError(c)
	}
	return utils.Success(c, fiber.StatusOK, goal)
}

// UpdateHabit godoc
// @Summary Update a habit
// @Tags goals
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits/{habitId} [put]
func (gc *GoalsController) UpdateHabit(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	habit, err := gc.ownedHabit(coachID, c.Params("habitId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Habit not found")
		}
		gc.Logger.Printf("update habit: %v", err)
		return utils.InternalServerError(c)
	}

	var input trackedItemInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name != "" {
		habit.Name = input.Name
	}
	habit.Order = input.Order
	if input.IsActive != nil {
		habit.IsActive = *input.IsActive
	}

	if err := gc.DB.Save(habit).Error; err != nil {
		gc.Logger.Printf("update habit: save: %v", err)
		return utils.InternalServerError(c)
	}
	return utils.Success(c, fiber.StatusOK, habit)
}

// DeleteGoal godoc
// @Summary Delete a goal
// @Tags goals
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /goals/{goalId} [delete]
func (gc *GoalsController) DeleteGoal(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	goal, err := gc.ownedGoal(coachID, c.Params("goalId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Goal not found")
		}
		gc.Logger.Printf("delete goal: %v", err)
		return utils.InternalServerError(c)
	}

	if err := gc.DB.Delete(goal).Error; err != nil {
		gc.Logger.Printf("delete goal: %v", err)
		return utils.InternalServerError(c)
	}
	return utils.Message(c, "Goal deleted")
}

// DeleteHabit godoc
// @Summary Delete a habit
// @Tags goals
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /habits/{habitId} [delete]
func (gc *GoalsController) DeleteHabit(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	habit, err := gc.ownedHabit(coachID, c.Params("habitId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Habit not found")
		}
		gc.Logger.Printf("delete habit: %v", err)
		return utils.InternalServerError(c)
	}

	if err := gc.DB.Delete(habit).Error; err != nil {
		gc.Logger.Printf("delete habit: %v", err)
		return utils.InternalServerError(c)
	}
	return utils.Message(c, "Habit deleted")
}
