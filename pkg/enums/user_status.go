package enums

import "fmt"

// UserStatus captures the approval lifecycle of an account.
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusDenied   UserStatus = "denied"
)

var validUserStatuses = []UserStatus{
	UserStatusPending,
	UserStatusApproved,
	UserStatusDenied,
}

// String implements fmt.Stringer.
func (s UserStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known UserStatus.
func (s UserStatus) IsValid() bool {
	for _, candidate := range validUserStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether an administrator already decided on the account.
func (s UserStatus) IsTerminal() bool {
	return s == UserStatusApproved || s == UserStatusDenied
}

// CanTransitionTo reports whether moving from s to next is permitted.
// Only pending accounts may be decided, and a decision is final.
func (s UserStatus) CanTransitionTo(next UserStatus) bool {
	return s == UserStatusPending && next.IsTerminal()
}

// ParseUserStatus converts raw input into a UserStatus.
func ParseUserStatus(value string) (UserStatus, error) {
	for _, candidate := range validUserStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user status %q", value)
}
