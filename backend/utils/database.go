package utils

import (
	"fmt"

	"coachhub/backend/config"
	"coachhub/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB открывает соединение с Postgres и прогоняет миграции.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := MigrateModels(db); err != nil {
		return nil, err
	}

	return db, nil
}

// MigrateModels выполняет AutoMigrate для всех моделей приложения.
// Вынесено отдельно, чтобы тесты могли мигрировать sqlite in-memory базу.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.PasswordResetToken{},
		&models.Client{},
		&models.Goal{},
		&models.Habit{},
		&models.CheckIn{},
		&models.Task{},
		&models.TaskCompletion{},
		&models.Session{},
		&models.Group{},
		&models.GroupMember{},
		&models.Resource{},
		&models.ResourceClient{},
		&models.ResourceGroup{},
		&models.ResourceCompletion{},
		&models.Notification{},
	)
}
