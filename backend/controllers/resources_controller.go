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

type ResourcesController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
}

func NewResourcesController(db *gorm.DB, cfg *config.Config, logger *log.Logger) *ResourcesController {
	return &ResourcesController{DB: db, Cfg: cfg, Logger: logger}
}

// GetResources godoc
// @Summary List coach's resources
// @Tags resources
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /resources [get]
func (rc *ResourcesController) GetResources(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, rc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var resources []models.Resource
	if err := rc.DB.Where("coach_id = ?", coachID).Order("title ASC").
		Find(&resources).Error; err != nil {
		rc.Logger.Printf("list resources: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Success(c, fiber.StatusOK, resources)
}

// CreateResource godoc
// @Summary Create a resource
// @Tags resources
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /resources [post]
func (rc *ResourcesController) CreateResource(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, rc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type ResourceInput struct {
		Title        string `json:"title"`
		ResourceType string `json:"resourceType"`
		URL          string `json:"url"`
	}
	var input ResourceInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	resource := models.Resource{
		CoachID:      coachID,
		Title:        input.Title,
		ResourceType: input.ResourceType,
		URL:          input.URL,
	}
	if err := rc.DB.Create(&resource).Error; err != nil {
		rc.Logger.Printf("create resource: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Created(c, resource)
}

func (rc *ResourcesController) ownedResource(coachID uint, idParam string) (*models.Resource, error) {
	resourceID, err := strconv.Atoi(idParam)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	var resource models.Resource
	if err := rc.DB.Where("id = ? AND coach_id = ?", resourceID, coachID).
		First(&resource).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

// ShareResource godoc
// @Summary Share a resource with clients and groups
// @Tags resources
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /resources/{id}/share [post]
func (rc *ResourcesController) ShareResource(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, rc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	resource, err := rc.ownedResource(coachID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Resource not found")
		}
		rc.Logger.Printf("share resource: %v", err)
		return utils.InternalServerError(c)
	}

	type ShareInput struct {
		ClientIDs []uint `json:"clientIds"`
		GroupIDs  []uint `json:"groupIds"`
	}
	var input ShareInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	for _, clientID := range input.ClientIDs {
		var client models.Client
		if err := rc.DB.Where("id = ? AND coach_id = ?", clientID, coachID).
			First(&client).Error; err != nil {
			return utils.BadRequest(c, "All clients must be yours")
		}
		// Повторное назначение игнорируется
		var existing models.ResourceClient
		if err := rc.DB.Where("resource_id = ? AND client_id = ?", resource.ID, clientID).
			First(&existing).Error; err == nil {
			continue
		}
		assignment := models.ResourceClient{ResourceID: resource.ID, ClientID: clientID}
		if err := rc.DB.Create(&assignment).Error; err != nil {
			rc.Logger.Printf("share resource: client %d: %v", clientID, err)
			return utils.InternalServerError(c)
		}
	}

	for _, groupID := range input.GroupIDs {
		var group models.Group
		if err := rc.DB.Where("id = ? AND coach_id = ?", groupID, coachID).
			First(&group).Error; err != nil {
			return utils.BadRequest(c, "All groups must be yours")
		}
		var existing models.ResourceGroup
		if err := rc.DB.Where("resource_id = ? AND group_id = ?", resource.ID, groupID).
			First(&existing).Error; err == nil {
			continue
		}
		assignment := models.ResourceGroup{ResourceID: resource.ID, GroupID: groupID}
		if err := rc.DB.Create(&assignment).Error; err != nil {
			rc.Logger.Printf("share resource: group %d: %v", groupID, err)
			return utils.InternalServerError(c)
		}
	}

	return utils.Message(c, "Resource shared")
}

// DeleteResource godoc
// @Summary Delete a resource
// @Tags resources
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /resources/{id} [delete]
func (rc *ResourcesController) DeleteResource(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, rc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	resource, err := rc.ownedResource(coachID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Resource not found")
		}
		rc.Logger.Printf("delete resource: %v", err)
		return utils.InternalServerError(c)
	}

	if err := rc.DB.Delete(resource).Error; err != nil {
		rc.Logger.Printf("delete resource: %v", err)
		return utils.InternalServerError(c)
	}
	return utils.Message(c, "Resource deleted")
}

// CompleteResource godoc
// @Summary Record that the calling client viewed a resource
// @Tags resources
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /resources/{resourceId}/complete [post]
func (rc *ResourcesController) CompleteResource(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractClaimsFromToken(c, rc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	client, err := findClientForUser(rc.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Client record not found")
		}
		rc.Logger.Printf("complete resource: find client: %v", err)
		return utils.InternalServerError(c)
	}

	resourceID, err := strconv.Atoi(c.Params("resourceId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid resource ID")
	}

	// Ресурс должен быть назначен клиенту напрямую либо через группу
	var count int64
	rc.DB.Model(&models.Resource{}).Where(
		"id = ? AND (id IN (SELECT resource_id FROM resource_clients WHERE client_id = ?)"+
			" OR id IN (SELECT resource_id FROM resource_groups WHERE group_id IN (SELECT group_id FROM group_members WHERE client_id = ?)))",
		resourceID, client.ID, client.ID).Count(&count)
	if count == 0 {
		return utils.NotFound(c, "Resource not found")
	}

	completion := models.ResourceCompletion{
		ClientID:    client.ID,
		ResourceID:  uint(resourceID),
		CompletedAt: time.Now(),
	}
	if err := rc.DB.Create(&completion).Error; err != nil {
		rc.Logger.Printf("complete resource: create: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Created(c, completion)
}
