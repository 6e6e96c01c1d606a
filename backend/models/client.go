package models

import "gorm.io/gorm"

type Client struct {
	gorm.Model
	CoachID uint   `json:"coachId" gorm:"index;not null"`
	UserID  *uint  `json:"userId" gorm:"index"` // login account, if the client signed up
	Name    string `json:"name"`
	Email   string `json:"email"`
	Status  string `json:"status" gorm:"default:active"` // active, archived
}
