package rooms

import (
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/roomreserve-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/roomreserve-backend/pkg/db/types"
	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	"github.com/angelmondragon/roomreserve-backend/pkg/types"
)

// RoomDTO is the transport shape of a room.
type RoomDTO struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Capacity  int              `json:"capacity"`
	Floor     int              `json:"floor"`
	Building  string           `json:"building"`
	ImageURL  string           `json:"image_url"`
	Amenities []string         `json:"amenities"`
	Status    enums.RoomStatus `json:"status"`
	CreatedAt types.Timestamp  `json:"created_at"`
	UpdatedAt types.Timestamp  `json:"updated_at"`
}

// RoomInput carries the mutable room fields for create and full-replace update.
// A nil Status means available on create and unchanged on update.
type RoomInput struct {
	Name      string   `json:"name" validate:"required,notblank,max=120"`
	Capacity  int      `json:"capacity" validate:"required,gt=0"`
	Floor     int      `json:"floor"`
	Building  string   `json:"building" validate:"max=120"`
	ImageURL  string   `json:"image_url" validate:"omitempty,url"`
	Amenities []string `json:"amenities" validate:"omitempty,dive,required,max=60"`
	Status    *string  `json:"status,omitempty" validate:"omitempty,oneof=available maintenance"`
}

func FromModel(r *models.Room) *RoomDTO {
	if r == nil {
		return nil
	}
	amenities := []string(r.Amenities)
	if amenities == nil {
		amenities = []string{}
	}
	return &RoomDTO{
		ID:        r.ID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Floor:     r.Floor,
		Building:  r.Building,
		ImageURL:  r.ImageURL,
		Amenities: append([]string(nil), amenities...),
		Status:    r.Status,
		CreatedAt: types.NewTimestamp(r.CreatedAt),
		UpdatedAt: types.NewTimestamp(r.UpdatedAt),
	}
}

// FromModels maps a slice of rooms, never returning nil.
func FromModels(list []models.Room) []RoomDTO {
	out := make([]RoomDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func (in RoomInput) apply(room *models.Room) {
	room.Name = strings.TrimSpace(in.Name)
	room.Capacity = in.Capacity
	room.Floor = in.Floor
	room.Building = strings.TrimSpace(in.Building)
	room.ImageURL = strings.TrimSpace(in.ImageURL)
	amenities := make(dbtypes.StringList, 0, len(in.Amenities))
	for _, a := range in.Amenities {
		if label := strings.TrimSpace(a); label != "" {
			amenities = append(amenities, label)
		}
	}
	room.Amenities = amenities
}
