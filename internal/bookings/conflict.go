package bookings

import (
	"context"
	"sort"

	"github.com/angelmondragon/roomreserve-backend/pkg/db/models"
	"github.com/angelmondragon/roomreserve-backend/pkg/interval"
	"github.com/google/uuid"
)

type slotHolderLister interface {
	ListSlotHolders(ctx context.Context, roomID uuid.UUID, iv interval.Interval, exclude *uuid.UUID) ([]models.Booking, error)
}

// DetectConflict returns the earliest booking in existing that still holds its
// slot and overlaps candidate, or nil. Bookings of other rooms must already be
// filtered out by the caller.
func DetectConflict(existing []models.Booking, candidate interval.Interval, exclude *uuid.UUID) *models.Booking {
	var hits []models.Booking
	for _, b := range existing {
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if !b.Status.HoldsSlot() {
			continue
		}
		if b.Interval().Overlaps(candidate) {
			hits = append(hits, b)
		}
	}
	if len(hits) == 0 {
		return nil
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].StartTime.Before(hits[j].StartTime)
	})
	conflict := hits[0]
	return &conflict
}

// findConflict narrows candidates in SQL, then confirms the overlap with the
// half-open interval rule.
func findConflict(ctx context.Context, repo slotHolderLister, roomID uuid.UUID, iv interval.Interval, exclude *uuid.UUID) (*models.Booking, error) {
	candidates, err := repo.ListSlotHolders(ctx, roomID, iv, exclude)
	if err != nil {
		return nil, err
	}
	return DetectConflict(candidates, iv, exclude), nil
}
