package controllers

import (
	"strconv"

	"coachhub/backend/models"

	"gorm.io/gorm"
)

// findOwnedClient возвращает клиента только если он принадлежит коучу.
// Чужой клиент неотличим от несуществующего (gorm.ErrRecordNotFound).
func findOwnedClient(db *gorm.DB, coachID uint, idParam string) (*models.Client, error) {
	clientID, err := strconv.Atoi(idParam)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	var client models.Client
	if err := db.Where("id = ? AND coach_id = ?", clientID, coachID).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// findClientForUser возвращает запись клиента, привязанную к аккаунту.
func findClientForUser(db *gorm.DB, userID uint) (*models.Client, error) {
	var client models.Client
	if err := db.Where("user_id = ?", userID).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}
