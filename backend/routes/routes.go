package routes

import (
	"log"

	"coachhub/backend/config"
	"coachhub/backend/controllers"
	"coachhub/backend/middleware"
	"coachhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger, mailer utils.Mailer) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg, logger, mailer)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Post("/api/auth/forgot-password", authController.ForgotPassword)
	app.Post("/api/auth/reset-password", authController.ResetPassword)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	coachMiddleware := middleware.CoachMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg, logger)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Client management (coach only)
	clientsController := controllers.NewClientsController(db, cfg, logger)
	clients := app.Group("/api/clients", authMiddleware, coachMiddleware)
	clients.Get("/", clientsController.GetClients)
	clients.Post("/", clientsController.CreateClient)
	clients.Get("/:id", clientsController.GetClient)
	clients.Put("/:id", clientsController.UpdateClient)
	clients.Delete("/:id", clientsController.DeleteClient)

	// Progress report
	progressController := controllers.NewProgressController(db, cfg, logger)
	clients.Get("/:id/progress", progressController.GetClientProgress)

	// Goals and habits
	goalsController := controllers.NewGoalsController(db, cfg, logger)
	clients.Get("/:id/goals", goalsController.GetClientGoals)
	clients.Post("/:id/goals", goalsController.CreateGoal)
	clients.Post("/:id/habits", goalsController.CreateHabit)
	app.Put("/api/goals/:goalId", authMiddleware, coachMiddleware, goalsController.UpdateGoal)
	app.Delete("/api/goals/:goalId", authMiddleware, coachMiddleware, goalsController.DeleteGoal)
	app.Put("/api/habits/:habitId", authMiddleware, coachMiddleware, goalsController.UpdateHabit)
	app.Delete("/api/habits/:habitId", authMiddleware, coachMiddleware, goalsController.DeleteHabit)

	// Check-ins
	checkInsController := controllers.NewCheckInsController(db, cfg, logger)
	app.Post("/api/checkin", authMiddleware, checkInsController.SubmitCheckIn)
	clients.Get("/:id/checkins", checkInsController.GetClientCheckIns)

	// Tasks
	tasksController := controllers.NewTasksController(db, cfg, logger)
	clients.Get("/:id/tasks", tasksController.GetClientTasks)
	clients.Post("/:id/tasks", tasksController.CreateTask)
	app.Put("/api/tasks/:taskId", authMiddleware, coachMiddleware, tasksController.UpdateTask)
	app.Delete("/api/tasks/:taskId", authMiddleware, coachMiddleware, tasksController.DeleteTask)
	app.Post("/api/tasks/:taskId/complete", authMiddleware, tasksController.CompleteTask)

	// Sessions
	sessionsController := controllers.NewSessionsController(db, cfg, logger)
	sessions := app.Group("/api/sessions", authMiddleware, coachMiddleware)
	sessions.Get("/", sessionsController.GetSessions)
	sessions.Post("/", sessionsController.CreateSession)
	sessions.Put("/:id", sessionsController.UpdateSession)

	// Groups
	groupsController := controllers.NewGroupsController(db, cfg, logger)
	groups := app.Group("/api/groups", authMiddleware, coachMiddleware)
	groups.Get("/", groupsController.GetGroups)
	groups.Post("/", groupsController.CreateGroup)
	groups.Get("/:id", groupsController.GetGroup)
	groups.Put("/:id/members", groupsController.UpdateGroupMembers)

	// Resources
	resourcesController := controllers.NewResourcesController(db, cfg, logger)
	resources := app.Group("/api/resources", authMiddleware)
	resources.Get("/", coachMiddleware, resourcesController.GetResources)
	resources.Post("/", coachMiddleware, resourcesController.CreateResource)
	resources.Post("/:id/share", coachMiddleware, resourcesController.ShareResource)
	resources.Delete("/:id", coachMiddleware, resourcesController.DeleteResource)
	resources.Post("/:resourceId/complete", resourcesController.CompleteResource)

	// Notifications
	notificationsController := controllers.NewNotificationsController(db, cfg, logger)
	app.Get("/api/notifications", authMiddleware, notificationsController.GetNotifications)
	app.Put("/api/notifications/mark-all-read", authMiddleware, notificationsController.MarkAllRead)
	app.Put("/api/notifications/:id/read", authMiddleware, notificationsController.MarkRead)
}
