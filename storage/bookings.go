package storage

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Vjc5h3nt/EaseSpace/models"
	"github.com/Vjc5h3nt/EaseSpace/services"
)

// GormBookingStore is the Postgres-backed services.BookingStore. Inside
// Transact the booking reads take row-level write locks, so the
// availability check and the booking write commit as one unit.
type GormBookingStore struct {
	db   *gorm.DB
	inTx bool
}

func NewBookingStore(db *gorm.DB) *GormBookingStore {
	return &GormBookingStore{db: db}
}

func (s *GormBookingStore) CafeteriaByID(id uint) (*models.Cafeteria, error) {
	var cafeteria models.Cafeteria
	if err := s.db.First(&cafeteria, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &services.NotFoundError{Resource: "cafeteria", ID: id}
		}
		return nil, &services.StoreError{Op: "cafeteria.get", Err: err}
	}
	return &cafeteria, nil
}

func (s *GormBookingStore) CafeteriaByName(orgID uint, name string) (*models.Cafeteria, error) {
	var cafeteria models.Cafeteria
	if err := s.db.Where("org_id = ? AND LOWER(name) = LOWER(?)", orgID, name).First(&cafeteria).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &services.NotFoundError{Resource: "cafeteria"}
		}
		return nil, &services.StoreError{Op: "cafeteria.get", Err: err}
	}
	return &cafeteria, nil
}

func (s *GormBookingStore) MeetingRoomByID(id uint) (*models.MeetingRoom, error) {
	var room models.MeetingRoom
	if err := s.db.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &services.NotFoundError{Resource: "meeting room", ID: id}
		}
		return nil, &services.StoreError{Op: "meeting_room.get", Err: err}
	}
	return &room, nil
}

func (s *GormBookingStore) MeetingRoomByName(orgID uint, name string) (*models.MeetingRoom, error) {
	var room models.MeetingRoom
	if err := s.db.Where("org_id = ? AND LOWER(name) = LOWER(?)", orgID, name).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &services.NotFoundError{Resource: "meeting room"}
		}
		return nil, &services.StoreError{Op: "meeting_room.get", Err: err}
	}
	return &room, nil
}

func (s *GormBookingStore) BookingByID(id uint) (*models.Booking, error) {
	q := s.db
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var booking models.Booking
	if err := q.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &services.NotFoundError{Resource: "booking", ID: id}
		}
		return nil, &services.StoreError{Op: "booking.get", Err: err}
	}
	booking.Status = models.NormalizeStatus(booking.Status)
	return &booking, nil
}

func (s *GormBookingStore) BookingsForSpaceDate(spaceType string, spaceID uint, date string, statuses []string) ([]models.Booking, error) {
	q := s.db.Where("space_type = ? AND space_id = ? AND date = ?", spaceType, spaceID, date)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", expandLegacyStatuses(statuses))
	}
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var bookings []models.Booking
	if err := q.Order("start_time ASC").Find(&bookings).Error; err != nil {
		return nil, &services.StoreError{Op: "booking.list", Err: err}
	}
	for i := range bookings {
		bookings[i].Status = models.NormalizeStatus(bookings[i].Status)
	}
	return bookings, nil
}

// expandLegacyStatuses makes a requires_approval filter also match rows
// still carrying the legacy pending status.
func expandLegacyStatuses(statuses []string) []string {
	expanded := make([]string, 0, len(statuses)+1)
	for _, st := range statuses {
		expanded = append(expanded, st)
		if st == models.StatusRequiresApproval {
			expanded = append(expanded, models.StatusPending)
		}
	}
	return expanded
}

func (s *GormBookingStore) CreateBooking(b *models.Booking) error {
	if err := s.db.Create(b).Error; err != nil {
		return &services.StoreError{Op: "booking.create", Err: err}
	}
	return nil
}

func (s *GormBookingStore) UpdateBookingStatus(id uint, status string) error {
	result := s.db.Model(&models.Booking{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return &services.StoreError{Op: "booking.update_status", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return &services.NotFoundError{Resource: "booking", ID: id}
	}
	return nil
}

func (s *GormBookingStore) Transact(fn func(services.BookingStore) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormBookingStore{db: tx, inTx: true})
	})
}
