package enums

import "fmt"

// RoomStatus reports whether a room can currently be booked.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

var validRoomStatuses = []RoomStatus{
	RoomStatusAvailable,
	RoomStatusMaintenance,
}

// String implements fmt.Stringer.
func (s RoomStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known RoomStatus.
func (s RoomStatus) IsValid() bool {
	for _, candidate := range validRoomStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRoomStatus converts raw input into a RoomStatus.
func ParseRoomStatus(value string) (RoomStatus, error) {
	for _, candidate := range validRoomStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid room status %q", value)
}
