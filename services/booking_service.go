package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Vjc5h3nt/EaseSpace/models"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// SlotLocker serializes booking attempts for one slot key across server
// instances. The store transaction remains the authority; the lock only
// prevents two instances from racing the same check-then-write.
type SlotLocker interface {
	// Acquire returns a release func, or an error if the slot is
	// currently being booked by another request.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// Policy carries the configurable booking rules. The meeting-room duration
// cap is policy, not a law of the domain.
type Policy struct {
	MaxMeetingDuration time.Duration
	MaxSeatsPerRequest int
}

func DefaultPolicy() Policy {
	return Policy{
		MaxMeetingDuration: 3 * time.Hour,
		MaxSeatsPerRequest: 3,
	}
}

// PolicyFromEnv reads MAX_MEETING_HOURS, falling back to the default cap.
func PolicyFromEnv() Policy {
	p := DefaultPolicy()
	if v := os.Getenv("MAX_MEETING_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			p.MaxMeetingDuration = time.Duration(hours) * time.Hour
		}
	}
	return p
}

// CanTransition is the booking state machine. Cancelled and rejected are
// terminal; status is the only field that ever changes after creation.
func CanTransition(from, to string) bool {
	switch models.NormalizeStatus(from) {
	case models.StatusRequiresApproval:
		return to == models.StatusConfirmed || to == models.StatusRejected || to == models.StatusCancelled
	case models.StatusConfirmed:
		return to == models.StatusCancelled
	}
	return false
}

// BookingService is the single decision path for every booking intent,
// whether it came from a form or from the language assistant.
type BookingService struct {
	store  BookingStore
	locker SlotLocker
	policy Policy
	clock  Clock
}

func NewBookingService(store BookingStore, locker SlotLocker, policy Policy, clock Clock) *BookingService {
	if clock == nil {
		clock = RealClock{}
	}
	return &BookingService{store: store, locker: locker, policy: policy, clock: clock}
}

func slotLockKey(spaceID uint, tableID, date, slotStart string) string {
	if tableID == "" {
		return fmt.Sprintf("booking:lock:%d:%s:%s", spaceID, date, slotStart)
	}
	return fmt.Sprintf("booking:lock:%d:%s:%s:%s", spaceID, tableID, date, slotStart)
}

func (s *BookingService) withSlotLock(ctx context.Context, key string, fn func() error) error {
	if s.locker == nil {
		return fn()
	}
	release, err := s.locker.Acquire(ctx, key, 5*time.Second)
	if err != nil {
		return &ConflictError{Message: "another booking for this slot is in progress, try again"}
	}
	defer release()
	return fn()
}

type CafeteriaBookingInput struct {
	OrgID       uint
	UserID      uint
	CafeteriaID uint
	TableID     string
	Date        string
	SlotStart   string
	SlotEnd     string
	SeatCount   int
}

// BookCafeteriaSeats grants N seats at a table for a slot. Cafeteria
// bookings are self-service: the seat check and the Confirmed write commit
// in one transaction, so two concurrent requests cannot both see the same
// free seats.
func (s *BookingService) BookCafeteriaSeats(ctx context.Context, in CafeteriaBookingInput) (*models.Booking, error) {
	day, err := parseDate(in.Date)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if isPastDate(day, s.clock.Now()) {
		return nil, validationErrorf("cannot book on a past date")
	}
	if _, err := NewTimeRange(in.SlotStart, in.SlotEnd); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if in.TableID == "" {
		return nil, validationErrorf("table is required")
	}
	if in.SeatCount < 1 {
		return nil, validationErrorf("select at least one seat")
	}
	if in.SeatCount > s.policy.MaxSeatsPerRequest {
		return nil, validationErrorf("you can book at most %d seats per request", s.policy.MaxSeatsPerRequest)
	}

	var booking *models.Booking
	key := slotLockKey(in.CafeteriaID, in.TableID, in.Date, in.SlotStart)
	err = s.withSlotLock(ctx, key, func() error {
		return s.store.Transact(func(tx BookingStore) error {
			cafeteria, err := tx.CafeteriaByID(in.CafeteriaID)
			if err != nil {
				return err
			}
			if err := checkSeatGrant(tx, cafeteria, in.TableID, in.Date, in.SlotStart, in.SeatCount); err != nil {
				return err
			}
			booking = &models.Booking{
				OrgID:     in.OrgID,
				UserID:    in.UserID,
				SpaceID:   in.CafeteriaID,
				SpaceType: models.SpaceTypeCafeteria,
				Date:      in.Date,
				StartTime: in.SlotStart,
				EndTime:   in.SlotEnd,
				Status:    models.StatusConfirmed,
				TableID:   in.TableID,
				SeatCount: in.SeatCount,
			}
			return tx.CreateBooking(booking)
		})
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

type MeetingRoomRequestInput struct {
	OrgID        uint
	UserID       uint
	RoomID       uint
	Date         string
	StartTime    string
	EndTime      string
	Purpose      string
	Participants []string
	EmployeeID   string
	Contact      string
}

// RequestMeetingRoom submits a meeting-room booking for admin approval. It
// is created requires_approval regardless of current conflicts: pending
// requests for the same slot coexist and only the Confirmed set blocks.
// Validation (duration cap included) runs before any availability logic.
func (s *BookingService) RequestMeetingRoom(ctx context.Context, in MeetingRoomRequestInput) (*models.Booking, error) {
	day, err := parseDate(in.Date)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if isPastDate(day, s.clock.Now()) {
		return nil, validationErrorf("cannot book on a past date")
	}
	rng, err := NewTimeRange(in.StartTime, in.EndTime)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if rng.Duration() > s.policy.MaxMeetingDuration {
		return nil, validationErrorf("bookings cannot exceed %v", s.policy.MaxMeetingDuration)
	}
	if in.Purpose == "" {
		return nil, validationErrorf("purpose is required")
	}

	if _, err := s.store.MeetingRoomByID(in.RoomID); err != nil {
		return nil, err
	}

	participants, err := json.Marshal(in.Participants)
	if err != nil {
		return nil, &StoreError{Op: "booking.participants", Err: err}
	}
	booking := &models.Booking{
		OrgID:        in.OrgID,
		UserID:       in.UserID,
		SpaceID:      in.RoomID,
		SpaceType:    models.SpaceTypeMeetingRoom,
		Date:         in.Date,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Status:       models.StatusRequiresApproval,
		Purpose:      in.Purpose,
		Participants: participants,
		EmployeeID:   in.EmployeeID,
		Contact:      in.Contact,
	}
	if err := s.store.CreateBooking(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// ApproveBooking re-validates a pending request against the current
// Confirmed set before committing the transition. Other approvals may have
// landed since the request was submitted, so the state at submission time is
// never trusted. On conflict the approval is refused, the booking stays
// requires_approval unchanged and the blocking window is reported.
func (s *BookingService) ApproveBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	var approved *models.Booking
	err := s.store.Transact(func(tx BookingStore) error {
		booking, err := tx.BookingByID(bookingID)
		if err != nil {
			return err
		}
		if !CanTransition(booking.Status, models.StatusConfirmed) {
			return validationErrorf("booking %d is %s and cannot be approved", booking.ID, booking.Status)
		}
		rng, err := NewTimeRange(booking.StartTime, booking.EndTime)
		if err != nil {
			return &ValidationError{Message: err.Error()}
		}
		if err := conflictingBooking(tx, booking.SpaceType, booking.SpaceID, booking.Date, rng, booking.ID); err != nil {
			return err
		}
		if err := tx.UpdateBookingStatus(booking.ID, models.StatusConfirmed); err != nil {
			return err
		}
		booking.Status = models.StatusConfirmed
		approved = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// RejectBooking moves a pending request to the terminal rejected status.
func (s *BookingService) RejectBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	return s.transition(bookingID, 0, models.StatusRejected)
}

// CancelBooking lets a user cancel their own booking. Confirmed bookings
// move to cancelled and immediately stop counting against capacity; pending
// requests may be withdrawn the same way.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID uint) (*models.Booking, error) {
	return s.transition(bookingID, userID, models.StatusCancelled)
}

func (s *BookingService) transition(bookingID, requireUserID uint, to string) (*models.Booking, error) {
	var updated *models.Booking
	err := s.store.Transact(func(tx BookingStore) error {
		booking, err := tx.BookingByID(bookingID)
		if err != nil {
			return err
		}
		if requireUserID != 0 && booking.UserID != requireUserID {
			return &NotFoundError{Resource: "booking", ID: bookingID}
		}
		if !CanTransition(booking.Status, to) {
			return validationErrorf("booking %d is %s and cannot become %s", booking.ID, booking.Status, to)
		}
		if err := tx.UpdateBookingStatus(booking.ID, to); err != nil {
			return err
		}
		booking.Status = to
		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
