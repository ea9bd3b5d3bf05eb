package services

import (
	"encoding/json"
	"time"

	"github.com/Vjc5h3nt/EaseSpace/models"
)

// memStore is a single-goroutine BookingStore test double.
type memStore struct {
	cafeterias map[uint]*models.Cafeteria
	rooms      map[uint]*models.MeetingRoom
	bookings   map[uint]*models.Booking
	nextID     uint
}

func newMemStore() *memStore {
	return &memStore{
		cafeterias: make(map[uint]*models.Cafeteria),
		rooms:      make(map[uint]*models.MeetingRoom),
		bookings:   make(map[uint]*models.Booking),
	}
}

// Space ids count up per kind, mirroring the independent auto-increment
// sequences of the cafeteria and meeting-room tables.
func (m *memStore) addCafeteria(orgID uint, name string, tableIDs ...string) *models.Cafeteria {
	tables := make([]models.TableLayout, 0, len(tableIDs))
	for i, id := range tableIDs {
		tables = append(tables, models.TableLayout{ID: id, X: i * 100, Y: 0})
	}
	raw, _ := json.Marshal(tables)
	c := &models.Cafeteria{
		ID:       uint(len(m.cafeterias) + 1),
		OrgID:    orgID,
		Name:     name,
		Capacity: len(tables) * models.SeatsPerTable,
		Layout:   raw,
	}
	m.cafeterias[c.ID] = c
	return c
}

func (m *memStore) addMeetingRoom(orgID uint, name string, capacity int) *models.MeetingRoom {
	r := &models.MeetingRoom{ID: uint(len(m.rooms) + 1), OrgID: orgID, Name: name, Capacity: capacity}
	m.rooms[r.ID] = r
	return r
}

func (m *memStore) CafeteriaByID(id uint) (*models.Cafeteria, error) {
	if c, ok := m.cafeterias[id]; ok {
		return c, nil
	}
	return nil, &NotFoundError{Resource: "cafeteria", ID: id}
}

func (m *memStore) CafeteriaByName(orgID uint, name string) (*models.Cafeteria, error) {
	for _, c := range m.cafeterias {
		if c.OrgID == orgID && c.Name == name {
			return c, nil
		}
	}
	return nil, &NotFoundError{Resource: "cafeteria"}
}

func (m *memStore) MeetingRoomByID(id uint) (*models.MeetingRoom, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, &NotFoundError{Resource: "meeting room", ID: id}
}

func (m *memStore) MeetingRoomByName(orgID uint, name string) (*models.MeetingRoom, error) {
	for _, r := range m.rooms {
		if r.OrgID == orgID && r.Name == name {
			return r, nil
		}
	}
	return nil, &NotFoundError{Resource: "meeting room"}
}

func (m *memStore) BookingByID(id uint) (*models.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, &NotFoundError{Resource: "booking", ID: id}
	}
	copied := *b
	copied.Status = models.NormalizeStatus(copied.Status)
	return &copied, nil
}

func (m *memStore) BookingsForSpaceDate(spaceType string, spaceID uint, date string, statuses []string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.SpaceType != spaceType || b.SpaceID != spaceID || b.Date != date {
			continue
		}
		status := models.NormalizeStatus(b.Status)
		if len(statuses) > 0 && !containsStatus(statuses, status) {
			continue
		}
		copied := *b
		copied.Status = status
		out = append(out, copied)
	}
	return out, nil
}

func containsStatus(statuses []string, status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (m *memStore) CreateBooking(b *models.Booking) error {
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = time.Now()
	copied := *b
	m.bookings[b.ID] = &copied
	return nil
}

func (m *memStore) UpdateBookingStatus(id uint, status string) error {
	b, ok := m.bookings[id]
	if !ok {
		return &NotFoundError{Resource: "booking", ID: id}
	}
	b.Status = status
	return nil
}

func (m *memStore) Transact(fn func(BookingStore) error) error {
	return fn(m)
}

// statusOf reads the raw stored status, bypassing normalization.
func (m *memStore) statusOf(id uint) string {
	if b, ok := m.bookings[id]; ok {
		return b.Status
	}
	return ""
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newTestService(store BookingStore) *BookingService {
	clock := fixedClock{now: time.Date(2025, time.September, 1, 8, 0, 0, 0, time.UTC)}
	return NewBookingService(store, nil, DefaultPolicy(), clock)
}
