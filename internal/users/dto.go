package users

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/roomreserve-backend/pkg/db/models"
	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	"github.com/angelmondragon/roomreserve-backend/pkg/types"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Role         enums.UserRole   `json:"role"`
	Department   string           `json:"department"`
	Status       enums.UserStatus `json:"status"`
	DenialReason *string          `json:"denial_reason,omitempty"`
	LastLogin    *types.Timestamp `json:"last_login"`
	CreatedAt    types.Timestamp  `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Department   string
	Role         enums.UserRole
	Status       enums.UserStatus
}

// DenyUserRequest carries the administrator's reason for denying an account.
type DenyUserRequest struct {
	Reason *string `json:"reason" validate:"required"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	dto := &UserDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Status:     u.Status,
		LastLogin:  types.NullableTimestamp(u.LastLogin),
		CreatedAt:  types.NewTimestamp(u.CreatedAt),
	}
	if u.Status == enums.UserStatusDenied {
		dto.DenialReason = u.DenialReason
	}
	return dto
}

// FromModels maps a slice of users, never returning nil.
func FromModels(list []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	status := c.Status
	if status == "" {
		status = enums.UserStatusPending
	}

	return &models.User{
		ID:           uuid.New(),
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         role,
		Department:   c.Department,
		Status:       status,
	}
}
