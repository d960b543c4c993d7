package bookings

import (
	"context"
	"time"

	"github.com/angelmondragon/roomreserve-backend/pkg/db/models"
	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	"github.com/angelmondragon/roomreserve-backend/pkg/interval"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes booking persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a bookings repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the booking, assigning an id when missing.
func (r *Repository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(booking).Error
}

// FindByID loads a booking by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindRoom loads the room a booking targets.
func (r *Repository) FindRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", roomID).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// List returns bookings newest first, optionally narrowed to a room or user.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Booking, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{})
	if filter.RoomID != nil {
		query = query.Where("room_id = ?", *filter.RoomID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var out []models.Booking
	if err := query.Order("start_time DESC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListSlotHolders returns the non-rejected bookings of a room whose range
// intersects iv, earliest first.
func (r *Repository) ListSlotHolders(ctx context.Context, roomID uuid.UUID, iv interval.Interval, exclude *uuid.UUID) ([]models.Booking, error) {
	query := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("status <> ?", enums.BookingStatusRejected).
		Where("start_time < ? AND end_time > ?", iv.End, iv.Start)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}

	var out []models.Booking
	if err := query.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves a pending booking to status. It reports false when the
// booking is missing or was already reviewed.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus, reason *string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, enums.BookingStatusPending).
		Updates(map[string]any{
			"status":        status,
			"denial_reason": reason,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteByRoom removes every booking of the room.
func (r *Repository) DeleteByRoom(ctx context.Context, roomID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&models.Booking{})
	return res.RowsAffected, res.Error
}

// DeleteByUser removes every booking made by the user.
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Booking{})
	return res.RowsAffected, res.Error
}
