package auth

import (
	"context"
	"strings"

	"github.com/angelmondragon/roomreserve-backend/internal/users"
	"github.com/angelmondragon/roomreserve-backend/pkg/config"
	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/roomreserve-backend/pkg/errors"
	"github.com/angelmondragon/roomreserve-backend/pkg/logger"
	"github.com/angelmondragon/roomreserve-backend/pkg/security"
)

// AdminRegisterService seeds the bootstrap administrator at start-up.
type AdminRegisterService interface {
	EnsureAdmin(ctx context.Context, cfg config.AdminConfig) (bool, error)
}

// AdminRegisterServiceParams names the dependencies for the admin bootstrap.
type AdminRegisterServiceParams struct {
	DB             txRunner
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type adminRegisterService struct {
	db          txRunner
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewAdminRegisterService builds the admin bootstrap service.
func NewAdminRegisterService(params AdminRegisterServiceParams) (AdminRegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &adminRegisterService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

// EnsureAdmin creates an approved administrator when the configured email is
// not registered yet. It reports whether a user was created; an existing
// account is left untouched whatever its role.
func (s *adminRegisterService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) (bool, error) {
	if !cfg.Enabled() {
		return false, nil
	}

	passwordHash, err := security.HashPassword(cfg.Password, s.passwordCfg)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash admin password")
	}

	created, err := createUser(ctx, s.db, users.CreateUserDTO{
		Name:         strings.TrimSpace(cfg.Name),
		Email:        normalizeEmail(cfg.Email),
		PasswordHash: passwordHash,
		Department:   strings.TrimSpace(cfg.Department),
		Role:         enums.UserRoleAdmin,
		Status:       enums.UserStatusApproved,
	})
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeDuplicateEmail) {
			return false, nil
		}
		return false, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, created.ID.String()), "admin.bootstrapped")
	}
	return true, nil
}
