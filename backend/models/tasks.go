package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model
	ClientID uint      `json:"clientId" gorm:"index;not null"`
	Title    string    `json:"title"`
	TaskType string    `json:"taskType"` // action, reflection, reading
	DueDate  time.Time `json:"dueDate" gorm:"index"`
}

type TaskCompletion struct {
	gorm.Model
	ClientID    uint      `json:"clientId" gorm:"index;not null"`
	TaskID      uint      `json:"taskId" gorm:"not null"`
	CompletedAt time.Time `json:"completedAt" gorm:"index"`
}
