package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/roomreserve-backend/pkg/db"
	"github.com/angelmondragon/roomreserve-backend/pkg/db/models"
	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/roomreserve-backend/pkg/errors"
	"github.com/angelmondragon/roomreserve-backend/pkg/interval"
	"github.com/angelmondragon/roomreserve-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the booking lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateBookingInput) (*BookingDTO, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus, reason *string) (*BookingDTO, error)
	List(ctx context.Context, filter ListFilter) ([]BookingDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*BookingDTO, error)
	FindConflict(ctx context.Context, roomID uuid.UUID, iv interval.Interval, exclude *uuid.UUID) (*BookingDTO, error)
}

type bookingsRepository interface {
	slotHolderLister
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, filter ListFilter) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus, reason *string) (bool, error)
}

type txRunner interface {
	WithSerializableTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type bookingMetrics interface {
	IncBookingCreated()
	IncSlotConflict()
	IncBookingDecision(status string)
}

// ServiceParams bundles the dependencies required to build a bookings service.
type ServiceParams struct {
	Repo    bookingsRepository
	TX      txRunner
	Logger  *logger.Logger
	Metrics bookingMetrics
}

type service struct {
	repo    bookingsRepository
	tx      txRunner
	logg    *logger.Logger
	metrics bookingMetrics
}

// NewService constructs the bookings service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("bookings repository is required")
	}
	if params.TX == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		repo:    params.Repo,
		tx:      params.TX,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateBookingInput) (*BookingDTO, error) {
	if input.RoomID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room_id is required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	iv, err := interval.New(input.Start.Time, input.End.Time)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "end_time must be after start_time")
	}

	var created *models.Booking
	err = s.tx.WithSerializableTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		room, err := repo.FindRoom(ctx, input.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load room")
		}
		if room.Status == enums.RoomStatusMaintenance {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "room is under maintenance")
		}

		conflict, err := findConflict(ctx, repo, room.ID, iv, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check booking conflicts")
		}
		if conflict != nil {
			return slotConflict(&conflict.ID)
		}

		booking := &models.Booking{
			RoomID:      room.ID,
			UserID:      input.UserID,
			StartTime:   iv.Start,
			EndTime:     iv.End,
			Title:       title,
			Description: strings.TrimSpace(input.Description),
			Status:      enums.BookingStatusPending,
		}
		if err := repo.Create(ctx, booking); err != nil {
			return err
		}
		created = booking
		return nil
	})
	if err != nil {
		err = classifyCreateError(err)
		if pkgerrors.Is(err, pkgerrors.CodeSlotConflict) {
			s.incSlotConflict()
		}
		return nil, err
	}

	s.incCreated()
	if s.logg != nil {
		logCtx := s.logg.WithBookingID(ctx, created.ID.String())
		logCtx = s.logg.WithRoomID(logCtx, created.RoomID.String())
		s.logg.Info(logCtx, "booking.created")
	}
	return FromModel(created), nil
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus, reason *string) (*BookingDTO, error) {
	if !status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be approved or rejected")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "booking not found", "load booking")
	}
	if !booking.Status.CanTransitionTo(status) {
		return nil, invalidTransition(booking.Status, status)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status, reason)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update booking status")
	}
	if !updated {
		// another reviewer got there first
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, notFoundOrInternal(err, "booking not found", "reload booking")
		}
		return nil, invalidTransition(current.Status, status)
	}

	reloaded, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "booking not found", "reload booking")
	}

	if s.metrics != nil {
		s.metrics.IncBookingDecision(status.String())
	}
	if s.logg != nil {
		logCtx := s.logg.WithBookingID(ctx, id.String())
		logCtx = s.logg.WithField(logCtx, "status", status.String())
		s.logg.Info(logCtx, "booking.status_changed")
	}
	return FromModel(reloaded), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]BookingDTO, error) {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bookings")
	}
	return FromModels(list), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "booking not found", "load booking")
	}
	return FromModel(booking), nil
}

func (s *service) FindConflict(ctx context.Context, roomID uuid.UUID, iv interval.Interval, exclude *uuid.UUID) (*BookingDTO, error) {
	conflict, err := findConflict(ctx, s.repo, roomID, iv, exclude)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check booking conflicts")
	}
	return FromModel(conflict), nil
}

func (s *service) incCreated() {
	if s.metrics != nil {
		s.metrics.IncBookingCreated()
	}
}

func (s *service) incSlotConflict() {
	if s.metrics != nil {
		s.metrics.IncSlotConflict()
	}
}

// classifyCreateError maps races caught by the database to slot conflicts.
func classifyCreateError(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if db.IsExclusionViolation(err) || db.IsSerializationFailure(err) {
		return slotConflict(nil)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create booking")
}

func slotConflict(conflictingID *uuid.UUID) error {
	err := pkgerrors.New(pkgerrors.CodeSlotConflict, "time slot already booked")
	if conflictingID != nil {
		return err.WithDetails(map[string]any{"conflicting_booking_id": conflictingID.String()})
	}
	return err
}

func invalidTransition(from, to enums.BookingStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("booking is %s and cannot become %s", from, to)).
		WithDetails(map[string]any{"current_status": from.String()})
}

func notFoundOrInternal(err error, notFound, internal string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, internal)
}
