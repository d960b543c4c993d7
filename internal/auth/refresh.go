package auth

import (
	"context"
	"errors"
	"time"

	pkgAuth "github.com/angelmondragon/roomreserve-backend/pkg/auth"
	"github.com/angelmondragon/roomreserve-backend/pkg/auth/session"
	"github.com/angelmondragon/roomreserve-backend/pkg/config"
	"github.com/angelmondragon/roomreserve-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/roomreserve-backend/pkg/errors"
	"github.com/angelmondragon/roomreserve-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type refreshUserLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type sessionRotator interface {
	Rotate(ctx context.Context, oldAccessID, provided string) (session.Session, error)
	Revoke(ctx context.Context, accessID string) error
}

// RefreshService rotates refresh sessions and re-mints access tokens.
type RefreshService interface {
	Refresh(ctx context.Context, input RefreshInput) (*RefreshResult, error)
}

// RefreshServiceParams bundles dependencies for the refresh flow.
type RefreshServiceParams struct {
	UserRepo       refreshUserLoader
	SessionManager sessionRotator
	JWTConfig      config.JWTConfig
}

type refreshService struct {
	users   refreshUserLoader
	session sessionRotator
	jwtCfg  config.JWTConfig
	now     func() time.Time
}

// NewRefreshService constructs the service.
func NewRefreshService(params RefreshServiceParams) (RefreshService, error) {
	if params.UserRepo == nil {
		return nil, errors.New("user repository required")
	}
	if params.SessionManager == nil {
		return nil, errors.New("session manager required")
	}
	return &refreshService{
		users:   params.UserRepo,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
		now:     time.Now,
	}, nil
}

// Refresh swaps the refresh token for a new pair. The account is re-read so a
// deleted or no longer approved user loses the session, and the new token
// carries the current role.
func (s *refreshService) Refresh(ctx context.Context, input RefreshInput) (*RefreshResult, error) {
	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token subject")
	}

	next, err := s.session.Rotate(ctx, input.AccessTokenID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		_ = s.session.Revoke(ctx, next.AccessID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if err := checkAccountStatus(user); err != nil {
		_ = s.session.Revoke(ctx, next.AccessID)
		return nil, err
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    next.AccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &RefreshResult{
		AccessToken:      accessToken,
		RefreshToken:     next.RefreshToken,
		RefreshExpiresAt: types.NewTimestamp(next.ExpiresAt),
	}, nil
}
