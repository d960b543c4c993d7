package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/roomreserve-backend/internal/bookings"
	"github.com/angelmondragon/roomreserve-backend/pkg/db/models"
	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/roomreserve-backend/pkg/errors"
	"github.com/angelmondragon/roomreserve-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the administrator's account roster operations.
type Service interface {
	List(ctx context.Context) ([]UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Approve(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Deny(ctx context.Context, id uuid.UUID, reason string) (*UserDTO, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Decide(ctx context.Context, id uuid.UUID, status enums.UserStatus, reason *string) (bool, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type decisionMetrics interface {
	IncAccountDecision(status string)
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo    usersRepository
	TX      txRunner
	Logger  *logger.Logger
	Metrics decisionMetrics
}

type service struct {
	repo    usersRepository
	tx      txRunner
	logg    *logger.Logger
	metrics decisionMetrics
}

// NewService constructs the users service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
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

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return FromModels(list), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Approve(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	return s.decide(ctx, id, enums.UserStatusApproved, nil)
}

// Deny records the decision with reason, which may be empty.
func (s *service) Deny(ctx context.Context, id uuid.UUID, reason string) (*UserDTO, error) {
	return s.decide(ctx, id, enums.UserStatusDenied, &reason)
}

func (s *service) decide(ctx context.Context, id uuid.UUID, status enums.UserStatus, reason *string) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.Status.CanTransitionTo(status) {
		return nil, accountAlreadyDecided(user.Status)
	}

	updated, err := s.repo.Decide(ctx, id, status, reason)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user status")
	}
	if !updated {
		current, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, accountAlreadyDecided(current.Status)
	}

	reloaded, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncAccountDecision(status.String())
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, id.String()), "user."+status.String())
	}
	return FromModel(reloaded), nil
}

// Delete removes the user and every booking they made. Unknown ids succeed.
func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "administrators cannot delete their own account")
	}

	var removed int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		removed, err = bookings.NewRepository(tx).DeleteByUser(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user bookings")
		}
		if err := NewRepository(tx).Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.logg != nil {
		logCtx := s.logg.WithField(s.logg.WithUserID(ctx, id.String()), "bookings_removed", removed)
		s.logg.Info(logCtx, "user.deleted")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

func accountAlreadyDecided(current enums.UserStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("account is already %s", current)).
		WithDetails(map[string]any{"current_status": current.String()})
}
