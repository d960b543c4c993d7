package bookings

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/roomreserve-backend/pkg/db/models"
	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	"github.com/angelmondragon/roomreserve-backend/pkg/types"
)

// BookingDTO is the transport shape of a booking.
type BookingDTO struct {
	ID           uuid.UUID           `json:"id"`
	RoomID       uuid.UUID           `json:"room_id"`
	UserID       uuid.UUID           `json:"user_id"`
	StartTime    types.Timestamp     `json:"start_time"`
	EndTime      types.Timestamp     `json:"end_time"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       enums.BookingStatus `json:"status"`
	DenialReason *string             `json:"denial_reason,omitempty"`
	CreatedAt    types.Timestamp     `json:"created_at"`
}

// CreateBookingRequest is the body accepted when requesting a room.
type CreateBookingRequest struct {
	RoomID      uuid.UUID       `json:"room_id" validate:"required"`
	StartTime   types.Timestamp `json:"start_time"`
	EndTime     types.Timestamp `json:"end_time"`
	Title       string          `json:"title" validate:"required,notblank,max=200"`
	Description string          `json:"description" validate:"max=2000"`
}

// CreateBookingInput is the service-level booking request.
type CreateBookingInput struct {
	RoomID      uuid.UUID
	UserID      uuid.UUID
	Start       types.Timestamp
	End         types.Timestamp
	Title       string
	Description string
}

// UpdateStatusRequest is the admin review body.
type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=approved rejected"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

// ListFilter narrows the booking listing. Nil fields are ignored.
type ListFilter struct {
	RoomID *uuid.UUID
	UserID *uuid.UUID
	Status *enums.BookingStatus
}

func FromModel(b *models.Booking) *BookingDTO {
	if b == nil {
		return nil
	}
	return &BookingDTO{
		ID:           b.ID,
		RoomID:       b.RoomID,
		UserID:       b.UserID,
		StartTime:    types.NewTimestamp(b.StartTime),
		EndTime:      types.NewTimestamp(b.EndTime),
		Title:        b.Title,
		Description:  b.Description,
		Status:       b.Status,
		DenialReason: b.DenialReason,
		CreatedAt:    types.NewTimestamp(b.CreatedAt),
	}
}

// FromModels maps a slice of bookings, never returning nil.
func FromModels(list []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
