package controllers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"coachhub/backend/config"
	"coachhub/backend/models"
	"coachhub/backend/services"
	"coachhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ProgressController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
}

func NewProgressController(db *gorm.DB, cfg *config.Config, logger *log.Logger) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg, Logger: logger}
}

// GetClientProgress godoc
// @Summary Get client progress
// @Description Returns 8-week wellbeing/performance series and summary stats for a client
// @Tags progress
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} services.ProgressReport
// @Failure 401 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /clients/{id}/progress [get]
func (pc *ProgressController) GetClientProgress(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	idParam := c.Params("id")
	if idParam == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Client ID is required",
		})
	}
	clientID, err := strconv.Atoi(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Client ID is required",
		})
	}

	// Клиент должен принадлежать запрашивающему коучу. Чужой и
	// несуществующий клиент неразличимы в ответе.
	var client models.Client
	if err := pc.DB.Where("id = ? AND coach_id = ?", clientID, coachID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Client not found or access denied",
			})
		}
		pc.Logger.Printf("client progress: lookup client %d: %v", clientID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	now := time.Now()
	windowStart := services.StartOfDay(now.UTC()).AddDate(0, 0, -services.ProgressWindowDays)
	windowEnd := services.StartOfDay(now.UTC())

	var (
		goals             []models.Goal
		habits            []models.Habit
		checkIns          []models.CheckIn
		taskCompletions   []models.TaskCompletion
		tasksDue          []models.Task
		sessions          []models.Session
		resourceViews     []models.ResourceCompletion
		assignedResources int64
	)

	// Выборки независимы и читают разные таблицы, поэтому выполняются
	// параллельно; корзины строятся только после завершения всех.
	var g errgroup.Group

	g.Go(func() error {
		return pc.DB.Where("client_id = ? AND is_active = ?", client.ID, true).
			Order("item_order ASC, created_at ASC").
			Find(&goals).Error
	})
	g.Go(func() error {
		return pc.DB.Where("client_id = ? AND is_active = ?", client.ID, true).
			Order("item_order ASC, created_at ASC").
			Find(&habits).Error
	})
	g.Go(func() error {
		return pc.DB.Where("client_id = ? AND date >= ?", client.ID, windowStart.Format(services.CheckInDateLayout)).
			Order("date ASC").
			Find(&checkIns).Error
	})
	g.Go(func() error {
		return pc.DB.Where("client_id = ? AND completed_at >= ?", client.ID, windowStart).
			Order("completed_at ASC").
			Find(&taskCompletions).Error
	})
	g.Go(func() error {
		return pc.DB.Where("client_id = ? AND due_date >= ? AND due_date < ?", client.ID, windowStart, windowEnd).
			Find(&tasksDue).Error
	})
	g.Go(func() error {
		return pc.DB.Where(
			"session_date >= ? AND (client_id = ? OR group_id IN (SELECT group_id FROM group_members WHERE client_id = ?))",
			windowStart, client.ID, client.ID).
			Order("session_date ASC").
			Find(&sessions).Error
	})
	g.Go(func() error {
		return pc.DB.Where("client_id = ? AND completed_at >= ?", client.ID, windowStart).
			Order("completed_at ASC").
			Find(&resourceViews).Error
	})
	g.Go(func() error {
		return pc.DB.Model(&models.Resource{}).Where(
			"id IN (SELECT resource_id FROM resource_clients WHERE client_id = ?)"+
				" OR id IN (SELECT resource_id FROM resource_groups WHERE group_id IN (SELECT group_id FROM group_members WHERE client_id = ?))",
			client.ID, client.ID).
			Count(&assignedResources).Error
	})

	if err := g.Wait(); err != nil {
		pc.Logger.Printf("client progress: fetch for client %d: %v", client.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	parsedCheckIns, problems := services.ParseCheckIns(checkIns)
	for _, problem := range problems {
		// Битые карты оценок не валят запрос, просто попадают в лог
		pc.Logger.Printf("client progress: %v", problem)
	}

	data := services.ProgressData{
		Goals:             goals,
		Habits:            habits,
		CheckIns:          parsedCheckIns,
		AssignedResources: assignedResources,
	}
	for _, completion := range taskCompletions {
		data.TaskCompletions = append(data.TaskCompletions, completion.CompletedAt)
	}
	for _, task := range tasksDue {
		data.TaskDueDates = append(data.TaskDueDates, task.DueDate)
	}
	for _, session := range sessions {
		data.Sessions = append(data.Sessions, services.SessionRecord{
			Date:      session.SessionDate,
			Completed: session.Status == "completed",
		})
	}
	for _, view := range resourceViews {
		data.ResourceViews = append(data.ResourceViews, view.CompletedAt)
	}

	report := services.BuildProgressReport(client.ID, client.Name, data, now)
	return c.JSON(report)
}
