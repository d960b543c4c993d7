package models

import (
	"time"

	dbtypes "github.com/angelmondragon/roomreserve-backend/pkg/db/types"
	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	"github.com/google/uuid"
)

// Room is a bookable space.
type Room struct {
	ID        uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string             `gorm:"column:name;not null"`
	Capacity  int                `gorm:"column:capacity;not null"`
	Floor     int                `gorm:"column:floor;not null;default:0"`
	Building  string             `gorm:"column:building;not null;default:''"`
	ImageURL  string             `gorm:"column:image_url;not null;default:''"`
	Amenities dbtypes.StringList `gorm:"column:amenities;type:text;not null;default:'[]'"`
	Status    enums.RoomStatus   `gorm:"column:status;type:text;not null;default:available"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
