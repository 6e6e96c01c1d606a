package models

import (
	"time"

	"gorm.io/gorm"
)

type Resource struct {
	gorm.Model
	CoachID      uint   `json:"coachId" gorm:"index;not null"`
	Title        string `json:"title"`
	ResourceType string `json:"resourceType"` // article, video, sound, worksheet
	URL          string `json:"url"`
}

// ResourceClient — назначение ресурса конкретному клиенту.
type ResourceClient struct {
	gorm.Model
	ResourceID uint `json:"resourceId" gorm:"index:idx_resource_client,unique;not null"`
	ClientID   uint `json:"clientId" gorm:"index:idx_resource_client,unique;not null"`
}

// ResourceGroup — назначение ресурса всем участникам группы.
type ResourceGroup struct {
	gorm.Model
	ResourceID uint `json:"resourceId" gorm:"index:idx_resource_group,unique;not null"`
	GroupID    uint `json:"groupId" gorm:"index:idx_resource_group,unique;not null"`
}

type ResourceCompletion struct {
	gorm.Model
	ClientID    uint      `json:"clientId" gorm:"index;not null"`
	ResourceID  uint      `json:"resourceId" gorm:"not null"`
	CompletedAt time.Time `json:"completedAt" gorm:"index"`
}
