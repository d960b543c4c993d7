package models

import (
	"time"

	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	"github.com/angelmondragon/roomreserve-backend/pkg/interval"
	"github.com/google/uuid"
)

// Booking is a request for a room over a half-open time range.
type Booking struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RoomID       uuid.UUID           `gorm:"column:room_id;type:uuid;not null;index"`
	UserID       uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	StartTime    time.Time           `gorm:"column:start_time;not null"`
	EndTime      time.Time           `gorm:"column:end_time;not null"`
	Title        string              `gorm:"column:title;not null"`
	Description  string              `gorm:"column:description;not null;default:''"`
	Status       enums.BookingStatus `gorm:"column:status;type:text;not null;default:pending"`
	DenialReason *string             `gorm:"column:denial_reason"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Interval returns the booked time range.
func (b Booking) Interval() interval.Interval {
	return interval.Interval{Start: b.StartTime.UTC(), End: b.EndTime.UTC()}
}
