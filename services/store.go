package services

import (
	"github.com/Vjc5h3nt/EaseSpace/models"
)

// BookingStore abstracts the reservation collection and the space catalog.
// The production implementation is GORM/Postgres (storage package); tests
// use an in-memory implementation. Implementations normalize the legacy
// pending status to requires_approval on every read and return typed
// service errors (NotFoundError, StoreError).
type BookingStore interface {
	CafeteriaByID(id uint) (*models.Cafeteria, error)
	CafeteriaByName(orgID uint, name string) (*models.Cafeteria, error)
	MeetingRoomByID(id uint) (*models.MeetingRoom, error)
	MeetingRoomByName(orgID uint, name string) (*models.MeetingRoom, error)

	BookingByID(id uint) (*models.Booking, error)
	// BookingsForSpaceDate returns bookings for one space and calendar
	// date, optionally filtered to a status set. Cafeterias and meeting
	// rooms live in separate tables with independent ids, so the space is
	// identified by (spaceType, spaceID). Inside Transact the rows are
	// read under a write lock.
	BookingsForSpaceDate(spaceType string, spaceID uint, date string, statuses []string) ([]models.Booking, error)
	CreateBooking(b *models.Booking) error
	UpdateBookingStatus(id uint, status string) error

	// Transact runs fn atomically: the availability read and the booking
	// write it performs either commit together or not at all.
	Transact(fn func(BookingStore) error) error
}
