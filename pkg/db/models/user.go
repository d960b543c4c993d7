package models

import (
	"time"

	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Email        string           `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	Role         enums.UserRole   `gorm:"column:role;type:text;not null;default:user"`
	Department   string           `gorm:"column:department;not null;default:''"`
	Status       enums.UserStatus `gorm:"column:status;type:text;not null;default:pending"`
	DenialReason *string          `gorm:"column:denial_reason"`
	LastLogin    *time.Time       `gorm:"column:last_login"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
