package models

import "gorm.io/gorm"

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userId" gorm:"index;not null"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"` // checkin_reminder, session, system
	IsRead  bool   `json:"isRead" gorm:"default:false"`
}
