package bookings

import (
	"testing"
	"time"

	"github.com/angelmondragon/roomreserve-backend/pkg/db/models"
	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	"github.com/angelmondragon/roomreserve-backend/pkg/interval"
	"github.com/google/uuid"
)

func booking(status enums.BookingStatus, startHour, endHour int) models.Booking {
	return models.Booking{
		ID:        uuid.New(),
		StartTime: day.Add(time.Duration(startHour) * time.Hour),
		EndTime:   day.Add(time.Duration(endHour) * time.Hour),
		Status:    status,
	}
}

func window(startHour, endHour int) interval.Interval {
	return interval.MustNew(day.Add(time.Duration(startHour)*time.Hour), day.Add(time.Duration(endHour)*time.Hour))
}

func TestDetectConflictReturnsEarliestOverlap(t *testing.T) {
	late := booking(enums.BookingStatusApproved, 11, 13)
	early := booking(enums.BookingStatusPending, 9, 11)
	got := DetectConflict([]models.Booking{late, early}, window(10, 12), nil)
	if got == nil || got.ID != early.ID {
		t.Fatalf("expected earliest conflict %s, got %+v", early.ID, got)
	}
}

func TestDetectConflictSkipsRejectedAndTouching(t *testing.T) {
	existing := []models.Booking{
		booking(enums.BookingStatusRejected, 10, 11),
		booking(enums.BookingStatusApproved, 9, 10),
		booking(enums.BookingStatusPending, 11, 12),
	}
	if got := DetectConflict(existing, window(10, 11), nil); got != nil {
		t.Fatalf("expected no conflict, got %+v", got)
	}
}

func TestDetectConflictExcludesGivenBooking(t *testing.T) {
	self := booking(enums.BookingStatusPending, 10, 11)
	if got := DetectConflict([]models.Booking{self}, window(10, 11), &self.ID); got != nil {
		t.Fatalf("expected excluded booking to be ignored, got %+v", got)
	}
	if got := DetectConflict([]models.Booking{self}, window(10, 11), nil); got == nil {
		t.Fatal("expected conflict without exclusion")
	}
}
