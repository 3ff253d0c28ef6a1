package models

import "time"

type Restaurant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Address     string    `gorm:"type:text;not null" json:"address"`
	Phone       string    `gorm:"type:varchar(30)" json:"phone"`
	ImageUrl    *string   `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	IsOpen      bool      `gorm:"not null;default:true" json:"is_open"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
