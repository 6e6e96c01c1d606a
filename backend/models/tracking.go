package models

import "gorm.io/gorm"

// Goal — положительный фактор благополучия клиента, оценивается 0-5.
type Goal struct {
	gorm.Model
	ClientID uint   `json:"clientId" gorm:"index;not null"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive" gorm:"default:true"`
	Order    int    `json:"order" gorm:"column:item_order;default:0"`
}

// Habit — отрицательный фактор, его оценка снижает благополучие.
type Habit struct {
	gorm.Model
	ClientID uint   `json:"clientId" gorm:"index;not null"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive" gorm:"default:true"`
	Order    int    `json:"order" gorm:"column:item_order;default:0"`
}

// CheckIn — ежедневный самоотчет клиента, один на дату.
// GoalScores/HabitScores хранятся как JSON-объект {goalId: score 0-5}.
type CheckIn struct {
	gorm.Model
	ClientID    uint   `json:"clientId" gorm:"index:idx_checkin_client_date,unique;not null"`
	Date        string `json:"date" gorm:"index:idx_checkin_client_date,unique;not null"` // YYYY-MM-DD
	GoalScores  string `json:"goalScores"`  // JSON object
	HabitScores string `json:"habitScores"` // JSON object
	Notes       string `json:"notes"`
}
