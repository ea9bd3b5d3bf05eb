package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Vjc5h3nt/EaseSpace/models"
)

const testDate = "2025-09-10"

func cafeteriaInput(cafeteriaID uint, tableID string, seats int) CafeteriaBookingInput {
	return CafeteriaBookingInput{
		OrgID:       1,
		UserID:      7,
		CafeteriaID: cafeteriaID,
		TableID:     tableID,
		Date:        testDate,
		SlotStart:   "12:00",
		SlotEnd:     "13:00",
		SeatCount:   seats,
	}
}

func roomRequest(roomID uint, start, end string) MeetingRoomRequestInput {
	return MeetingRoomRequestInput{
		OrgID:     1,
		UserID:    7,
		RoomID:    roomID,
		Date:      testDate,
		StartTime: start,
		EndTime:   end,
		Purpose:   "Sprint planning",
	}
}

func TestCafeteriaBookingConfirmedImmediately(t *testing.T) {
	store := newMemStore()
	caf := store.addCafeteria(1, "Main Canteen", "T1", "T2")
	svc := newTestService(store)

	booking, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 3))
	if err != nil {
		t.Fatalf("BookCafeteriaSeats: %v", err)
	}
	if booking.Status != models.StatusConfirmed {
		t.Fatalf("status = %s, want %s", booking.Status, models.StatusConfirmed)
	}
	if booking.SpaceType != models.SpaceTypeCafeteria {
		t.Fatalf("space type = %s", booking.SpaceType)
	}
}

func TestTableCapacityRejectionReportsFreeSeats(t *testing.T) {
	store := newMemStore()
	caf := store.addCafeteria(1, "Main Canteen", "T1", "T2")
	svc := newTestService(store)

	if _, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 3)); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 2))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.FreeSeats == nil || *conflict.FreeSeats != 1 {
		t.Fatalf("free seats = %v, want 1", conflict.FreeSeats)
	}
	if !strings.Contains(conflict.Message, "1 seat") {
		t.Fatalf("message %q should report the free seat count", conflict.Message)
	}

	// A fitting request still goes through.
	if _, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 1)); err != nil {
		t.Fatalf("1-seat booking after rejection: %v", err)
	}
}

func TestTablesAreIndependent(t *testing.T) {
	store := newMemStore()
	caf := store.addCafeteria(1, "Main Canteen", "T1", "T2")
	svc := newTestService(store)

	if _, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 3)); err != nil {
		t.Fatalf("T1 booking: %v", err)
	}
	if _, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 1)); err != nil {
		t.Fatalf("filling T1: %v", err)
	}
	// T1 is full; T2 is untouched by it.
	if _, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T2", 3)); err != nil {
		t.Fatalf("T2 booking should not see T1 occupancy: %v", err)
	}
}

func TestSeatCountBounds(t *testing.T) {
	store := newMemStore()
	caf := store.addCafeteria(1, "Main Canteen", "T1")
	svc := newTestService(store)

	var validation *ValidationError
	_, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 0))
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for zero seats, got %v", err)
	}
	_, err = svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 4))
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError above request ceiling, got %v", err)
	}
}

func TestUnknownTableRejected(t *testing.T) {
	store := newMemStore()
	caf := store.addCafeteria(1, "Main Canteen", "T1")
	svc := newTestService(store)

	var validation *ValidationError
	_, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T9", 1))
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for unknown table, got %v", err)
	}
}

func TestUnknownSpaceNotFound(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	var notFound *NotFoundError
	_, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(99, "T1", 1))
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	err = svc.CheckAvailability(models.SpaceTypeMeetingRoom, 99, "", testDate, "09:00", "10:00", 0)
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError from availability check, got %v", err)
	}
}

func TestPastDateRejected(t *testing.T) {
	store := newMemStore()
	caf := store.addCafeteria(1, "Main Canteen", "T1")
	svc := newTestService(store)

	in := cafeteriaInput(caf.ID, "T1", 1)
	in.Date = "2025-08-20" // clock is pinned to 2025-09-01
	var validation *ValidationError
	if _, err := svc.BookCafeteriaSeats(context.Background(), in); !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for past date, got %v", err)
	}
}

func TestPendingRequestsCoexist(t *testing.T) {
	store := newMemStore()
	room := store.addMeetingRoom(1, "Room A", 8)
	svc := newTestService(store)

	first, err := svc.RequestMeetingRoom(context.Background(), roomRequest(room.ID, "09:00", "10:00"))
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := svc.RequestMeetingRoom(context.Background(), roomRequest(room.ID, "09:30", "10:30"))
	if err != nil {
		t.Fatalf("overlapping pending request must be accepted: %v", err)
	}
	if first.Status != models.StatusRequiresApproval || second.Status != models.StatusRequiresApproval {
		t.Fatalf("statuses = %s / %s, want both %s", first.Status, second.Status, models.StatusRequiresApproval)
	}
}

func TestApprovalRevalidatesAgainstConfirmedSet(t *testing.T) {
	store := newMemStore()
	room := store.addMeetingRoom(1, "Room A", 8)
	svc := newTestService(store)

	first, err := svc.RequestMeetingRoom(context.Background(), roomRequest(room.ID, "09:00", "10:00"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.RequestMeetingRoom(context.Background(), roomRequest(room.ID, "09:30", "10:30"))
	if err != nil {
		t.Fatal(err)
	}

	approved, err := svc.ApproveBooking(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("approving first request: %v", err)
	}
	if approved.Status != models.StatusConfirmed {
		t.Fatalf("first status = %s, want %s", approved.Status, models.StatusConfirmed)
	}

	_, err = svc.ApproveBooking(context.Background(), second.ID)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError approving second request, got %v", err)
	}
	if conflict.BookingID != first.ID {
		t.Fatalf("conflict names booking %d, want %d", conflict.BookingID, first.ID)
	}
	if conflict.StartTime != "09:00" || conflict.EndTime != "10:00" {
		t.Fatalf("conflict window %s-%s, want 09:00-10:00", conflict.StartTime, conflict.EndTime)
	}

	// The refused request is unchanged, still awaiting a decision.
	if got := store.statusOf(second.ID); got != models.StatusRequiresApproval {
		t.Fatalf("second request status = %s, want %s", got, models.StatusRequiresApproval)
	}
}

func TestDurationCapRunsBeforeAvailability(t *testing.T) {
	store := newMemStore()
	room := store.addMeetingRoom(1, "Room A", 8)
	svc := newTestService(store)

	_, err := svc.RequestMeetingRoom(context.Background(), roomRequest(room.ID, "09:00", "13:00"))
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for 4h booking, got %v", err)
	}
	// Nothing was written.
	pending, err := store.BookingsForSpaceDate(models.SpaceTypeMeetingRoom, room.ID, testDate, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Fatalf("found %d bookings after rejected request, want 0", len(pending))
	}
}

func TestDurationCapIsConfigurable(t *testing.T) {
	store := newMemStore()
	room := store.addMeetingRoom(1, "Room A", 8)
	policy := DefaultPolicy()
	policy.MaxMeetingDuration = 5 * time.Hour
	clock := fixedClock{now: time.Date(2025, time.September, 1, 8, 0, 0, 0, time.UTC)}
	svc := NewBookingService(store, nil, policy, clock)

	if _, err := svc.RequestMeetingRoom(context.Background(), roomRequest(room.ID, "09:00", "13:00")); err != nil {
		t.Fatalf("4h booking under a 5h cap: %v", err)
	}
}

func TestAdjacentBookingsAllowed(t *testing.T) {
	store := newMemStore()
	room := store.addMeetingRoom(1, "Room A", 8)
	svc := newTestService(store)

	first, err := svc.RequestMeetingRoom(context.Background(), roomRequest(room.ID, "09:00", "10:00"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ApproveBooking(context.Background(), first.ID); err != nil {
		t.Fatal(err)
	}

	if err := svc.CheckAvailability(models.SpaceTypeMeetingRoom, room.ID, "", testDate, "10:00", "11:00", 0); err != nil {
		t.Fatalf("back-to-back slot should be available: %v", err)
	}
	err = svc.CheckAvailability(models.SpaceTypeMeetingRoom, room.ID, "", testDate, "09:30", "10:30", 0)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("overlapping slot should conflict, got %v", err)
	}
}

func TestAvailabilityCheckIsIdempotent(t *testing.T) {
	store := newMemStore()
	room := store.addMeetingRoom(1, "Room A", 8)
	svc := newTestService(store)

	first, err := svc.RequestMeetingRoom(context.Background(), roomRequest(room.ID, "09:00", "10:00"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ApproveBooking(context.Background(), first.ID); err != nil {
		t.Fatal(err)
	}

	errA := svc.CheckAvailability(models.SpaceTypeMeetingRoom, room.ID, "", testDate, "09:30", "10:30", 0)
	errB := svc.CheckAvailability(models.SpaceTypeMeetingRoom, room.ID, "", testDate, "09:30", "10:30", 0)
	var conflictA, conflictB *ConflictError
	if !errors.As(errA, &conflictA) || !errors.As(errB, &conflictB) {
		t.Fatalf("expected conflicts from both checks, got %v / %v", errA, errB)
	}
	if conflictA.BookingID != conflictB.BookingID {
		t.Fatalf("verdicts differ: %d vs %d", conflictA.BookingID, conflictB.BookingID)
	}
}

func TestCancelFreesSeats(t *testing.T) {
	store := newMemStore()
	caf := store.addCafeteria(1, "Main Canteen", "T1")
	svc := newTestService(store)

	big, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 3))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 1)); err != nil {
		t.Fatal(err)
	}

	// Table is full now.
	if _, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 1)); err == nil {
		t.Fatal("expected full table to reject another seat")
	}

	cancelled, err := svc.CancelBooking(context.Background(), big.ID, big.UserID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Fatalf("status = %s, want %s", cancelled.Status, models.StatusCancelled)
	}

	occupancy, err := svc.TableOccupancy(caf.ID, testDate, "12:00")
	if err != nil {
		t.Fatal(err)
	}
	if occupancy["T1"] != 1 {
		t.Fatalf("occupancy after cancel = %d, want 1", occupancy["T1"])
	}
	if _, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 3)); err != nil {
		t.Fatalf("freed seats should be bookable again: %v", err)
	}
}

func TestCancelRequiresOwnership(t *testing.T) {
	store := newMemStore()
	caf := store.addCafeteria(1, "Main Canteen", "T1")
	svc := newTestService(store)

	booking, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 1))
	if err != nil {
		t.Fatal(err)
	}
	var notFound *NotFoundError
	if _, err := svc.CancelBooking(context.Background(), booking.ID, booking.UserID+1); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError cancelling someone else's booking, got %v", err)
	}
}

func TestTerminalStatusesAreFinal(t *testing.T) {
	store := newMemStore()
	room := store.addMeetingRoom(1, "Room A", 8)
	svc := newTestService(store)

	req, err := svc.RequestMeetingRoom(context.Background(), roomRequest(room.ID, "09:00", "10:00"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RejectBooking(context.Background(), req.ID); err != nil {
		t.Fatal(err)
	}

	var validation *ValidationError
	if _, err := svc.ApproveBooking(context.Background(), req.ID); !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError approving a rejected booking, got %v", err)
	}
	if _, err := svc.CancelBooking(context.Background(), req.ID, req.UserID); !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError cancelling a rejected booking, got %v", err)
	}
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.StatusRequiresApproval, models.StatusConfirmed, true},
		{models.StatusRequiresApproval, models.StatusRejected, true},
		{models.StatusRequiresApproval, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusRequiresApproval, false},
		{models.StatusCancelled, models.StatusConfirmed, false},
		{models.StatusRejected, models.StatusConfirmed, false},
		// Legacy pending behaves exactly like requires_approval.
		{models.StatusPending, models.StatusConfirmed, true},
		{models.StatusPending, models.StatusRejected, true},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestNoOverlapInvariantAcrossConfirmedSet(t *testing.T) {
	store := newMemStore()
	room := store.addMeetingRoom(1, "Room A", 8)
	svc := newTestService(store)

	windows := [][2]string{
		{"09:00", "10:00"},
		{"09:30", "10:30"},
		{"10:00", "11:00"},
		{"10:15", "10:45"},
		{"11:00", "12:00"},
	}
	for _, w := range windows {
		req, err := svc.RequestMeetingRoom(context.Background(), roomRequest(room.ID, w[0], w[1]))
		if err != nil {
			t.Fatal(err)
		}
		// Approvals race in submission order; conflicts are expected
		// and must leave the confirmed set overlap-free.
		svc.ApproveBooking(context.Background(), req.ID)
	}

	confirmed, err := store.BookingsForSpaceDate(models.SpaceTypeMeetingRoom, room.ID, testDate, []string{models.StatusConfirmed})
	if err != nil {
		t.Fatal(err)
	}
	for i := range confirmed {
		for j := i + 1; j < len(confirmed); j++ {
			a, _ := NewTimeRange(confirmed[i].StartTime, confirmed[i].EndTime)
			b, _ := NewTimeRange(confirmed[j].StartTime, confirmed[j].EndTime)
			if a.Overlaps(b) {
				t.Fatalf("confirmed bookings %d and %d overlap", confirmed[i].ID, confirmed[j].ID)
			}
		}
	}
}

func TestSpacesWithSameNumericIDDoNotCollide(t *testing.T) {
	store := newMemStore()
	caf := store.addCafeteria(1, "Main Canteen", "T1")
	room := store.addMeetingRoom(1, "Room A", 8)
	if caf.ID != room.ID {
		t.Fatalf("fixture ids diverged: cafeteria %d, room %d", caf.ID, room.ID)
	}
	svc := newTestService(store)

	if _, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 2)); err != nil {
		t.Fatalf("cafeteria booking: %v", err)
	}

	req, err := svc.RequestMeetingRoom(context.Background(), roomRequest(room.ID, "12:30", "13:30"))
	if err != nil {
		t.Fatalf("room request: %v", err)
	}
	approved, err := svc.ApproveBooking(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("cafeteria booking must not block the room sharing its id: %v", err)
	}
	if approved.Status != models.StatusConfirmed {
		t.Fatalf("status = %s, want %s", approved.Status, models.StatusConfirmed)
	}

	if err := svc.CheckAvailability(models.SpaceTypeMeetingRoom, room.ID, "", testDate, "14:00", "15:00", 0); err != nil {
		t.Fatalf("room availability picked up cafeteria rows: %v", err)
	}
}

func TestCafeteriaAvailabilityIsPerTable(t *testing.T) {
	store := newMemStore()
	caf := store.addCafeteria(1, "Main Canteen", "T1", "T2")
	svc := newTestService(store)

	if _, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 2)); err != nil {
		t.Fatal(err)
	}

	// A partially occupied table blocks nothing.
	if err := svc.CheckAvailability(models.SpaceTypeCafeteria, caf.ID, "", testDate, "12:00", "13:00", 0); err != nil {
		t.Fatalf("cafeteria with free seats reported unavailable: %v", err)
	}
	if err := svc.CheckAvailability(models.SpaceTypeCafeteria, caf.ID, "T1", testDate, "12:00", "13:00", 0); err != nil {
		t.Fatalf("table with free seats reported unavailable: %v", err)
	}

	// Fill T1.
	if _, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", 2)); err != nil {
		t.Fatal(err)
	}

	err := svc.CheckAvailability(models.SpaceTypeCafeteria, caf.ID, "T1", testDate, "12:00", "13:00", 0)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError for full table, got %v", err)
	}
	if conflict.FreeSeats == nil || *conflict.FreeSeats != 0 {
		t.Fatalf("free seats = %v, want 0", conflict.FreeSeats)
	}

	// T2 still has seats, so the cafeteria as a whole stays available.
	if err := svc.CheckAvailability(models.SpaceTypeCafeteria, caf.ID, "", testDate, "12:00", "13:00", 0); err != nil {
		t.Fatalf("full T1 must not block the whole cafeteria: %v", err)
	}
	if err := svc.CheckAvailability(models.SpaceTypeCafeteria, caf.ID, "T2", testDate, "12:00", "13:00", 0); err != nil {
		t.Fatalf("T2 reported unavailable: %v", err)
	}

	// Fill T2 too; now nothing is left.
	if _, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T2", 3)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T2", 1)); err != nil {
		t.Fatal(err)
	}
	if err := svc.CheckAvailability(models.SpaceTypeCafeteria, caf.ID, "", testDate, "12:00", "13:00", 0); !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError with every table full, got %v", err)
	}

	var validation *ValidationError
	if err := svc.CheckAvailability(models.SpaceTypeCafeteria, caf.ID, "T9", testDate, "12:00", "13:00", 0); !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for unknown table, got %v", err)
	}
}

func TestCapacityInvariantPerTableSlot(t *testing.T) {
	store := newMemStore()
	caf := store.addCafeteria(1, "Main Canteen", "T1", "T2")
	svc := newTestService(store)

	// Hammer the same table with varying seat counts; every accepted
	// booking must keep the committed sum within the table size.
	for _, seats := range []int{2, 3, 1, 2, 1, 1} {
		svc.BookCafeteriaSeats(context.Background(), cafeteriaInput(caf.ID, "T1", seats))
	}

	occupancy, err := svc.TableOccupancy(caf.ID, testDate, "12:00")
	if err != nil {
		t.Fatal(err)
	}
	if occupancy["T1"] > models.SeatsPerTable {
		t.Fatalf("table T1 committed %d seats, capacity is %d", occupancy["T1"], models.SeatsPerTable)
	}
	if occupancy["T2"] != 0 {
		t.Fatalf("table T2 committed %d seats, want 0", occupancy["T2"])
	}
}
