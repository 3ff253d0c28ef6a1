package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Menu struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	RestaurantID uint            `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant      `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CategoryID   uint            `gorm:"not null" json:"category_id"`
	Category     MenuCategory    `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable  bool            `gorm:"not null;default:true" json:"is_available"`
	Description  string          `gorm:"type:text" json:"description"`
	ImageUrl     *string         `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}
