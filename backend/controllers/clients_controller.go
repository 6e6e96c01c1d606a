package controllers

import (
	"errors"
	"log"

	"coachhub/backend/config"
	"coachhub/backend/models"
	"coachhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ClientsController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
}

func NewClientsController(db *gorm.DB, cfg *config.Config, logger *log.Logger) *ClientsController {
	return &ClientsController{DB: db, Cfg: cfg, Logger: logger}
}

// GetClients godoc
// @Summary List coach's clients
// @Tags clients
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /clients [get]
func (cc *ClientsController) GetClients(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	query := cc.DB.Where("coach_id = ?", coachID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var clients []models.Client
	if err := query.Order("name ASC").Find(&clients).Error; err != nil {
		cc.Logger.Printf("list clients: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Success(c, fiber.StatusOK, clients)
}

// CreateClient godoc
// @Summary Create a client
// @Tags clients
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /clients [post]
func (cc *ClientsController) CreateClient(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type ClientInput struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	var input ClientInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Name == "" {
		return utils.BadRequest(c, "Name is required")
	}

	client := models.Client{
		CoachID: coachID,
		Name:    input.Name,
		Email:   input.Email,
		Status:  "active",
	}

	// Если у клиента уже есть аккаунт с этим email, связываем сразу
	if input.Email != "" {
		var user models.User
		if err := cc.DB.Where("email = ? AND role = ?", input.Email, "client").
			First(&user).Error; err == nil {
			client.UserID = &user.ID
		}
	}

	if err := cc.DB.Create(&client).Error; err != nil {
		cc.Logger.Printf("create client: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Created(c, client)
}

// GetClient godoc
// @Summary Get one client
// @Tags clients
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /clients/{id} [get]
func (cc *ClientsController) GetClient(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	client, err := findOwnedClient(cc.DB, coachID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Client not found or access denied")
		}
		cc.Logger.Printf("get client: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Success(c, fiber.StatusOK, client)
}

// UpdateClient godoc
// @Summary Update a client
// @Tags clients
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /clients/{id} [put]
func (cc *ClientsController) UpdateClient(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	client, err := findOwnedClient(cc.DB, coachID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Client not found or access denied")
		}
		cc.Logger.Printf("update client: %v", err)
		return utils.InternalServerError(c)
	}

	type ClientInput struct {
		Name   *string `json:"name"`
		Email  *string `json:"email"`
		Status *string `json:"status"`
	}
	var input ClientInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Status != nil {
		if *input.Status != "active" && *input.Status != "archived" {
			return utils.BadRequest(c, "Status must be active or archived")
		}
		client.Status = *input.Status
	}

	if err := cc.DB.Save(client).Error; err != nil {
		cc.Logger.Printf("update client: save: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Success(c, fiber.StatusOK, client)
}

// DeleteClient архивирует клиента; история чек-инов и сессий остается.
// @Summary Archive a client
// @Tags clients
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /clients/{id} [delete]
func (cc *ClientsController) DeleteClient(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	client, err := findOwnedClient(cc.DB, coachID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Client not found or access denied")
		}
		cc.Logger.Printf("archive client: %v", err)
		return utils.InternalServerError(c)
	}

	if err := cc.DB.Model(client).Update("status", "archived").Error; err != nil {
		cc.Logger.Printf("archive client: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Message(c, "Client archived")
}
