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

type NotificationsController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
}

func NewNotificationsController(db *gorm.DB, cfg *config.Config, logger *log.Logger) *NotificationsController {
	return &NotificationsController{DB: db, Cfg: cfg, Logger: logger}
}

// GetNotifications godoc
// @Summary List caller's notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /notifications [get]
func (nc *NotificationsController) GetNotifications(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractClaimsFromToken(c, nc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	query := nc.DB.Where("user_id = ?", userID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(100).
		Find(&notifications).Error; err != nil {
		nc.Logger.Printf("list notifications: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Success(c, fiber.StatusOK, notifications)
}

// MarkRead godoc
// @Summary Mark one notification as read
// @Tags notifications
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /notifications/{id}/read [put]
func (nc *NotificationsController) MarkRead(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractClaimsFromToken(c, nc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	notificationID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid notification ID")
	}

	var notification models.Notification
	if err := nc.DB.Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Notification not found")
		}
		nc.Logger.Printf("mark read: %v", err)
		return utils.InternalServerError(c)
	}

	if err := nc.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		nc.Logger.Printf("mark read: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Message(c, "Notification marked as read")
}

// MarkAllRead godoc
// @Summary Mark all caller's notifications as read
// @Tags notifications
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /notifications/mark-all-read [put]
func (nc *NotificationsController) MarkAllRead(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractClaimsFromToken(c, nc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	if err := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		nc.Logger.Printf("mark all read: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Message(c, "All notifications marked as read")
}
