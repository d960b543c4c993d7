package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/roomreserve-backend/internal/bookings"
	"github.com/angelmondragon/roomreserve-backend/pkg/db/models"
	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/roomreserve-backend/pkg/errors"
	"github.com/angelmondragon/roomreserve-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the room inventory operations.
type Service interface {
	List(ctx context.Context) ([]RoomDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*RoomDTO, error)
	Create(ctx context.Context, input RoomInput) (*RoomDTO, error)
	Update(ctx context.Context, id uuid.UUID, input RoomInput) (*RoomDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type roomsRepository interface {
	Create(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	List(ctx context.Context) ([]models.Room, error)
	Save(ctx context.Context, room *models.Room) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies required to build a rooms service.
type ServiceParams struct {
	Repo   roomsRepository
	TX     txRunner
	Logger *logger.Logger
}

type service struct {
	repo roomsRepository
	tx   txRunner
	logg *logger.Logger
}

// NewService constructs the rooms service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("rooms repository is required")
	}
	if params.TX == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: params.Repo, tx: params.TX, logg: params.Logger}, nil
}

func (s *service) List(ctx context.Context) ([]RoomDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list rooms")
	}
	return FromModels(list), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RoomDTO, error) {
	room, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(room), nil
}

func (s *service) Create(ctx context.Context, input RoomInput) (*RoomDTO, error) {
	status, err := validateInput(input, enums.RoomStatusAvailable)
	if err != nil {
		return nil, err
	}

	room := &models.Room{Status: status}
	input.apply(room)
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create room")
	}

	s.logInfo(ctx, room.ID, "room.created")
	return FromModel(room), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input RoomInput) (*RoomDTO, error) {
	room, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := validateInput(input, room.Status)
	if err != nil {
		return nil, err
	}

	input.apply(room)
	room.Status = status
	room.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, room); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update room")
	}

	s.logInfo(ctx, room.ID, "room.updated")
	return s.Get(ctx, id)
}

// Delete removes the room and its bookings together. Unknown ids succeed.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	var removedBookings int64
	var removed int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		removedBookings, err = bookings.NewRepository(tx).DeleteByRoom(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete room bookings")
		}
		removed, err = NewRepository(tx).Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete room")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if removed > 0 && s.logg != nil {
		logCtx := s.logg.WithRoomID(ctx, id.String())
		logCtx = s.logg.WithField(logCtx, "bookings_removed", removedBookings)
		s.logg.Info(logCtx, "room.deleted")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load room")
	}
	return room, nil
}

func (s *service) logInfo(ctx context.Context, id uuid.UUID, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithRoomID(ctx, id.String()), msg)
}

func validateInput(input RoomInput, fallback enums.RoomStatus) (enums.RoomStatus, error) {
	if strings.TrimSpace(input.Name) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Capacity <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "capacity must be greater than zero")
	}
	if input.Status == nil {
		return fallback, nil
	}
	status, err := enums.ParseRoomStatus(strings.TrimSpace(*input.Status))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid room status")
	}
	return status, nil
}
