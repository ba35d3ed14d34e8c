package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"not null"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Category        string          `json:"category" gorm:"not null;index"`
	Image           string          `json:"image"`
	IsAvailable     bool            `json:"is_available"`
	PreparationTime int             `json:"preparation_time" gorm:"default:15"` // minutes
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// DefaultPreparationTime is used when a menu item is created without one.
const DefaultPreparationTime = 15
