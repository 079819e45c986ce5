package models

import (
	"time"
)

// APIKey holds only the SHA-256 hash of an issued key. The raw value is
// returned to the caller once at creation and is not recoverable afterwards.
type APIKey struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	KeyHash   string    `gorm:"unique;not null;size:128;index" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
}

// TableName overrides the default pluralization (`api_keys`, not `apikeys`).
func (APIKey) TableName() string {
	return "api_keys"
}
