package models

import (
	"time"

	"gorm.io/gorm"
)

// Session принадлежит либо клиенту напрямую, либо группе,
// в которой клиент состоит.
type Session struct {
	gorm.Model
	ClientID    *uint     `json:"clientId" gorm:"index"`
	GroupID     *uint     `json:"groupId" gorm:"index"`
	SessionDate time.Time `json:"sessionDate" gorm:"index"`
	SessionType string    `json:"sessionType"` // one_on_one, group, intro
	Status      string    `json:"status" gorm:"default:scheduled"` // scheduled, completed, cancelled
}

type Group struct {
	gorm.Model
	CoachID uint   `json:"coachId" gorm:"index;not null"`
	Name    string `json:"name"`
}

type GroupMember struct {
	gorm.Model
	GroupID  uint `json:"groupId" gorm:"index:idx_group_member,unique;not null"`
	ClientID uint `json:"clientId" gorm:"index:idx_group_member,unique;not null"`
}
