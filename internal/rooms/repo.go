package rooms

import (
	"context"

	"github.com/angelmondragon/roomreserve-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes room persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a rooms repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the room, assigning an id when missing.
func (r *Repository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(room).Error
}

// FindByID loads a room by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// List returns all rooms ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Room, error) {
	var out []models.Room
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Save overwrites every mutable column of the room.
func (r *Repository) Save(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).
		Model(room).
		Select("name", "capacity", "floor", "building", "image_url", "amenities", "status", "updated_at").
		Updates(room).Error
}

// Delete removes the room row. Deleting a missing room is not an error.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Room{})
	return res.RowsAffected, res.Error
}
