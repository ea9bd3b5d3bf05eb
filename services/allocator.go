package services

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/Vjc5h3nt/EaseSpace/models"
)

// tableOccupancy recomputes the per-table committed seat counts for one
// cafeteria, date and slot from the Confirmed bookings. It is derived on
// demand and never cached, so the answer is always current at decision time.
// Cafeteria slots are fixed-width, so bookings are matched on start time.
func tableOccupancy(st BookingStore, cafeteriaID uint, date, slotStart string) (map[string]int, error) {
	bookings, err := st.BookingsForSpaceDate(models.SpaceTypeCafeteria, cafeteriaID, date, []string{models.StatusConfirmed})
	if err != nil {
		return nil, err
	}
	occupancy := make(map[string]int)
	for _, b := range bookings {
		if b.StartTime != slotStart || b.TableID == "" {
			continue
		}
		occupancy[b.TableID] += b.SeatCount
	}
	return occupancy, nil
}

// checkSeatGrant answers whether seatCount more seats can be granted at the
// given table. Tables are independent four-seat sub-resources: a request for
// more seats than remain free is rejected outright with the exact free count
// reported, never partially granted.
func checkSeatGrant(st BookingStore, cafeteria *models.Cafeteria, tableID, date, slotStart string, seatCount int) error {
	tables, err := cafeteria.Tables()
	if err != nil {
		return &StoreError{Op: "cafeteria.layout", Err: err}
	}
	tableIDs := make([]string, 0, len(tables))
	for _, t := range tables {
		tableIDs = append(tableIDs, t.ID)
	}
	if !slices.Contains(tableIDs, tableID) {
		return validationErrorf("table %s does not exist in cafeteria %s", tableID, cafeteria.Name)
	}

	occupancy, err := tableOccupancy(st, cafeteria.ID, date, slotStart)
	if err != nil {
		return err
	}
	free := models.SeatsPerTable - occupancy[tableID]
	if seatCount > free {
		return &ConflictError{
			FreeSeats: &free,
			Message:   fmt.Sprintf("only %d seat(s) available at table %s for this slot", free, tableID),
		}
	}
	return nil
}

// cafeteriaAvailability answers from the per-table occupancy snapshot.
// Tables are independent: a full table never blocks the rest of the
// cafeteria. With a tableID the answer is scoped to that table; without one
// the cafeteria is available while any table has a free seat for the slot.
func cafeteriaAvailability(st BookingStore, cafeteria *models.Cafeteria, tableID, date, slotStart string) error {
	tables, err := cafeteria.Tables()
	if err != nil {
		return &StoreError{Op: "cafeteria.layout", Err: err}
	}
	occupancy, err := tableOccupancy(st, cafeteria.ID, date, slotStart)
	if err != nil {
		return err
	}

	if tableID != "" {
		found := false
		for _, t := range tables {
			if t.ID == tableID {
				found = true
				break
			}
		}
		if !found {
			return validationErrorf("table %s does not exist in cafeteria %s", tableID, cafeteria.Name)
		}
		free := models.SeatsPerTable - occupancy[tableID]
		if free <= 0 {
			return &ConflictError{
				FreeSeats: &free,
				Message:   fmt.Sprintf("table %s is full for this slot", tableID),
			}
		}
		return nil
	}

	for _, t := range tables {
		if occupancy[t.ID] < models.SeatsPerTable {
			return nil
		}
	}
	return &ConflictError{Message: fmt.Sprintf("all tables in %s are full for this slot", cafeteria.Name)}
}

// TableOccupancy exposes the seat snapshot for the table-map UI: committed
// seats per table for every table in the layout, including empty ones.
func (s *BookingService) TableOccupancy(cafeteriaID uint, date, slotStart string) (map[string]int, error) {
	cafeteria, err := s.store.CafeteriaByID(cafeteriaID)
	if err != nil {
		return nil, err
	}
	if _, err := parseDate(date); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if _, err := parseClock(slotStart); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	occupancy, err := tableOccupancy(s.store, cafeteriaID, date, slotStart)
	if err != nil {
		return nil, err
	}
	tables, err := cafeteria.Tables()
	if err != nil {
		return nil, &StoreError{Op: "cafeteria.layout", Err: err}
	}
	snapshot := make(map[string]int, len(tables))
	for _, t := range tables {
		snapshot[t.ID] = occupancy[t.ID]
	}
	return snapshot, nil
}
