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

type TasksController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
}

func NewTasksController(db *gorm.DB, cfg *config.Config, logger *log.Logger) *TasksController {
	return &TasksController{DB: db, Cfg: cfg, Logger: logger}
}

// GetClientTasks godoc
// @Summary List a client's tasks
// @Tags tasks
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /clients/{id}/tasks [get]
func (tc *TasksController) GetClientTasks(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	client, err := findOwnedClient(tc.DB, coachID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Client not found or access denied")
		}
		tc.Logger.Printf("list tasks: %v", err)
		return utils.InternalServerError(c)
	}

	var tasks []models.Task
	if err := tc.DB.Where("client_id = ?", client.ID).
		Order("due_date ASC").Find(&tasks).Error; err != nil {
		tc.Logger.Printf("list tasks: %v", err)
		return utils.InternalServerError(c)
	}

	// Задачи возвращаются вместе с отметками выполнения
	var completions []models.TaskCompletion
	if err := tc.DB.Where("client_id = ?", client.ID).Find(&completions).Error; err != nil {
		tc.Logger.Printf("list tasks: completions: %v", err)
		return utils.InternalServerError(c)
	}
	completedTasks := make(map[uint]time.Time, len(completions))
	for _, completion := range completions {
		completedTasks[completion.TaskID] = completion.CompletedAt
	}

	type taskView struct {
		models.Task
		CompletedAt *time.Time `json:"completedAt"`
	}
	views := make([]taskView, len(tasks))
	for i, task := range tasks {
		views[i] = taskView{Task: task}
		if completedAt, ok := completedTasks[task.ID]; ok {
			views[i].CompletedAt = &completedAt
		}
	}

	return utils.Success(c, fiber.StatusOK, views)
}

// CreateTask godoc
// @Summary Create a task for a client
// @Tags tasks
// @Accept json
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /clients/{id}/tasks [post]
func (tc *TasksController) CreateTask(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	client, err := findOwnedClient(tc.DB, coachID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Client not found or access denied")
		}
		tc.Logger.Printf("create task: %v", err)
		return utils.InternalServerError(c)
	}

	type TaskInput struct {
		Title    string    `json:"title"`
		TaskType string    `json:"taskType"`
		DueDate  time.Time `json:"dueDate"`
	}
	var input TaskInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}
	if input.DueDate.IsZero() {
		return utils.BadRequest(c, "Due date is required")
	}

	task := models.Task{
		ClientID: client.ID,
		Title:    input.Title,
		TaskType: input.TaskType,
		DueDate:  input.DueDate,
	}
	if err := tc.DB.Create(&task).Error; err != nil {
		tc.Logger.Printf("create task: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Created(c, task)
}

func (tc *TasksController) ownedTask(coachID uint, idParam string) (*models.Task, error) {
	taskID, err := strconv.Atoi(idParam)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	var task models.Task
	err = tc.DB.Where("id = ? AND client_id IN (SELECT id FROM clients WHERE coach_id = ?)",
		taskID, coachID).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks/{taskId} [put]
func (tc *TasksController) UpdateTask(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	task, err := tc.ownedTask(coachID, c.Params("taskId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Task not found")
		}
		tc.Logger.Printf("update task: %v", err)
		return utils.InternalServerError(c)
	}

	type TaskInput struct {
		Title    *string    `json:"title"`
		TaskType *string    `json:"taskType"`
		DueDate  *time.Time `json:"dueDate"`
	}
	var input TaskInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.TaskType != nil {
		task.TaskType = *input.TaskType
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}

	if err := tc.DB.Save(task).Error; err != nil {
		tc.Logger.Printf("update task: save: %v", err)
		return utils.InternalServerError(c)
	}
	return utils.Success(c, fiber.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks/{taskId} [delete]
func (tc *TasksController) DeleteTask(c *fiber.Ctx) error {
	coachID, _, err := utils.ExtractClaimsFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	task, err := tc.ownedTask(coachID, c.Params("taskId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Task not found")
		}
		tc.Logger.Printf("delete task: %v", err)
		return utils.InternalServerError(c)
	}

	if err := tc.DB.Delete(task).Error; err != nil {
		tc.Logger.Printf("delete task: %v", err)
		return utils.InternalServerError(c)
	}
	return utils.Message(c, "Task deleted")
}

// CompleteTask godoc
// @Summary Mark own task as completed
// @Description Records a completion for the calling client's task
// @Tags tasks
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks/{taskId}/complete [post]
func (tc *TasksController) CompleteTask(c *fiber.Ctx) error {
	userID, _, err := utils.ExtractClaimsFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	client, err := findClientForUser(tc.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Client record not found")
		}
		tc.Logger.Printf("complete task: find client: %v", err)
		return utils.InternalServerError(c)
	}

	taskID, err := strconv.Atoi(c.Params("taskId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid task ID")
	}

	var task models.Task
	if err := tc.DB.Where("id = ? AND client_id = ?", taskID, client.ID).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Task not found")
		}
		tc.Logger.Printf("complete task: %v", err)
		return utils.InternalServerError(c)
	}

	// Повторное завершение не создает дублей
	var existing models.TaskCompletion
	if err := tc.DB.Where("task_id = ? AND client_id = ?", task.ID, client.ID).
		First(&existing).Error; err == nil {
		return utils.Success(c, fiber.StatusOK, existing)
	}

	completion := models.TaskCompletion{
		ClientID:    client.ID,
		TaskID:      task.ID,
		CompletedAt: time.Now(),
	}
	if err := tc.DB.Create(&completion).Error; err != nil {
		tc.Logger.Printf("complete task: create: %v", err)
		return utils.InternalServerError(c)
	}

	return utils.Created(c, completion)
}
