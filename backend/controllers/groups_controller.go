package controllers

import (
	"errors"
	"log"
	"strconv"

	"coachhub/backend/config"
	"coachhub/backend/models"
	"coachhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GroupsController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
}

func NewGroupsController(db *gorm.DB, cfg *config.Config, logger *log.Logger) *GroupsController {
	return &GroupsController{DB: db, Cfg: cfg, Logger: logger}
}

// GetGroups godoc
// @Summary List coach's groups
// @Tags groups
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /groups [get]
func (gc *GroupsController) GetGroups(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var groups []models.Group
	if err := gc.DB.Where("coach_id = ?", coachID).Order("name ASC").
		Find(&groups).Error; err != nil {
		gc.Logger.Printf("list groups: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Success(c, fiber.StatusOK, groups)
}

// CreateGroup godoc
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /groups [post]
func (gc *GroupsController) CreateGroup(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	type GroupInput struct {
		Name string `json:"name"`
	}
	var input GroupInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Name == "" {
		return utils.BadRequest(c, "Name is required")
	}

	group := models.Group{CoachID: coachID, Name: input.Name}
	if err := gc.DB.Create(&group).Error; err != nil {
		gc.Logger.Printf("create group: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Created(c, group)
}

func (gc *GroupsController) ownedGroup(coachID uint, idParam string) (*models.Group, error) {
	groupID, err := strconv.Atoi(idParam)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	var group models.Group
	if err := gc.DB.Where("id = ? AND coach_id = ?", groupID, coachID).
		First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// GetGroup godoc
// @Summary Get a group with its members
// @Tags groups
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /groups/{id} [get]
func (gc *GroupsController) GetGroup(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	group, err := gc.ownedGroup(coachID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Group not found")
		}
		gc.Logger.Printf("get group: %v", err)
		return utils.InternalServerError(c)
	}

	var members []models.Client
	err = gc.DB.Where("id IN (SELECT client_id FROM group_members WHERE group_id = ?)", group.ID).
		Order("name ASC").Find(&members).Error
	if err != nil {
		gc.Logger.Printf("get group: members: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"group":   group,
		"members": members,
	})
}

// UpdateGroupMembers godoc
// @Summary Replace the group's member list
// @Tags groups
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /groups/{id}/members [put]
func (gc *GroupsController) UpdateGroupMembers(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	group, err := gc.ownedGroup(coachID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Group not found")
		}
		gc.Logger.Printf("update members: %v", err)
		return utils.InternalServerError(c)
	}

	type MembersInput struct {
		ClientIDs []uint `json:"clientIds"`
	}
	var input MembersInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	// Все участники должны быть клиентами этого коуча
	if len(input.ClientIDs) > 0 {
		var count int64
		gc.DB.Model(&models.Client{}).
			Where("id IN ? AND coach_id = ?", input.ClientIDs, coachID).
			Count(&count)
		if count != int64(len(input.ClientIDs)) {
			return utils.BadRequest(c, "All members must be your clients")
		}
	}

	err = gc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("group_id = ?", group.ID).
			Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		for _, clientID := range input.ClientIDs {
			member := models.GroupMember{GroupID: group.ID, ClientID: clientID}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		gc.Logger.Printf("update members: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Message(c, "Members updated")
}
