package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null;size:100" json:"name"`
	Email        string    `gorm:"unique;not null;size:255;index" json:"email"`
	Address      string    `gorm:"size:255" json:"address"`
	Username     string    `gorm:"unique;not null;size:50;index" json:"username"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	APIKeys     []APIKey             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"api_keys,omitempty"`
	ResetTokens []PasswordResetToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
