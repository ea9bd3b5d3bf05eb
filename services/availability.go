package services

import (
	"fmt"

	"github.com/Vjc5h3nt/EaseSpace/models"
)

// conflictingBooking scans the Confirmed bookings for a space and date and
// returns a ConflictError naming the first booking whose window overlaps the
// candidate range, or nil. excludeID skips the booking being re-validated.
// Only Confirmed rows block: pending requests for the same slot coexist.
func conflictingBooking(st BookingStore, spaceType string, spaceID uint, date string, rng TimeRange, excludeID uint) error {
	existing, err := st.BookingsForSpaceDate(spaceType, spaceID, date, []string{models.StatusConfirmed})
	if err != nil {
		return err
	}
	for _, b := range existing {
		if b.ID == excludeID {
			continue
		}
		other, err := NewTimeRange(b.StartTime, b.EndTime)
		if err != nil {
			// Malformed historical row; it cannot block a new booking.
			continue
		}
		if rng.Overlaps(other) {
			return &ConflictError{
				BookingID: b.ID,
				StartTime: b.StartTime,
				EndTime:   b.EndTime,
				Message:   fmt.Sprintf("conflicts with booking %d (%s - %s)", b.ID, b.StartTime, b.EndTime),
			}
		}
	}
	return nil
}

// CheckAvailability answers whether a space is free for the given range.
// It is a pure read: running it twice with no intervening writes yields the
// same verdict. Returns nil when available, a ConflictError carrying the
// blocking booking's window otherwise, a NotFoundError for an unknown space
// and a ValidationError for malformed or past input.
//
// Meeting rooms are exclusive, so any overlapping Confirmed booking blocks.
// Cafeteria availability is per table: tableID scopes the answer to one
// table, and without it the cafeteria counts as available while any table
// still has a free seat for the slot.
func (s *BookingService) CheckAvailability(spaceType string, spaceID uint, tableID, date, startTime, endTime string, excludeBookingID uint) error {
	day, err := parseDate(date)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if isPastDate(day, s.clock.Now()) {
		return validationErrorf("cannot book on a past date")
	}
	rng, err := NewTimeRange(startTime, endTime)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}

	switch spaceType {
	case models.SpaceTypeCafeteria:
		cafeteria, err := s.store.CafeteriaByID(spaceID)
		if err != nil {
			return err
		}
		return cafeteriaAvailability(s.store, cafeteria, tableID, date, startTime)
	case models.SpaceTypeMeetingRoom:
		if tableID != "" {
			return validationErrorf("tableID applies to cafeteria availability only")
		}
		if _, err := s.store.MeetingRoomByID(spaceID); err != nil {
			return err
		}
		return conflictingBooking(s.store, models.SpaceTypeMeetingRoom, spaceID, date, rng, excludeBookingID)
	default:
		return validationErrorf("unknown space type %q", spaceType)
	}
}
