package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Vjc5h3nt/EaseSpace/models"
)

// BookingIntent is the structured output of the natural-language parser.
// IsAvailable and ConfirmationMessage are the parser's own opinion and are
// never trusted for booking decisions; every intent goes through the same
// availability and allocation checks as a form submission.
type BookingIntent struct {
	SpaceKind           string `json:"spaceKind"` // cafeteria | meeting_room
	SpaceName           string `json:"spaceName"`
	Date                string `json:"date"`      // YYYY-MM-DD
	StartTime           string `json:"startTime"` // HH:MM
	EndTime             string `json:"endTime"`
	SeatCount           int    `json:"seatCount"`
	TableID             string `json:"tableId"`
	Purpose             string `json:"purpose"`
	IsAvailable         bool   `json:"isAvailable"`
	ConfirmationMessage string `json:"confirmationMessage"`
}

// IntentParser is the language-model collaborator, treated as an opaque
// oracle that turns a free-text query into a BookingIntent.
type IntentParser interface {
	ParseBookingIntent(ctx context.Context, query string) (*BookingIntent, error)
}

// HTTPIntentParser calls an external parser service.
type HTTPIntentParser struct {
	URL    string
	Client *http.Client
}

func NewHTTPIntentParser(url string) *HTTPIntentParser {
	return &HTTPIntentParser{URL: url, Client: &http.Client{Timeout: 15 * time.Second}}
}

func (p *HTTPIntentParser) ParseBookingIntent(ctx context.Context, query string) (*BookingIntent, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &StoreError{Op: "assistant.parse", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &StoreError{Op: "assistant.parse", Err: fmt.Errorf("parser returned %d", resp.StatusCode)}
	}
	var intent BookingIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, &StoreError{Op: "assistant.parse", Err: err}
	}
	return &intent, nil
}

// Assistant turns free-text booking queries into real bookings. It resolves
// the named space within the caller's organization and hands the intent to
// the exact same BookingService path the forms use.
type Assistant struct {
	parser   IntentParser
	bookings *BookingService
	store    BookingStore
}

func NewAssistant(parser IntentParser, bookings *BookingService, store BookingStore) *Assistant {
	return &Assistant{parser: parser, bookings: bookings, store: store}
}

// Book parses the query and executes the booking. The returned message is
// built from the actual outcome, not from the parser's confirmation text.
func (a *Assistant) Book(ctx context.Context, orgID, userID uint, query string) (*models.Booking, string, error) {
	if query == "" {
		return nil, "", validationErrorf("query is required")
	}
	intent, err := a.parser.ParseBookingIntent(ctx, query)
	if err != nil {
		return nil, "", err
	}

	switch intent.SpaceKind {
	case models.SpaceTypeCafeteria:
		return a.bookCafeteria(ctx, orgID, userID, intent)
	case models.SpaceTypeMeetingRoom:
		return a.requestMeetingRoom(ctx, orgID, userID, intent)
	default:
		return nil, "", validationErrorf("could not tell whether you want a cafeteria table or a meeting room")
	}
}

func (a *Assistant) bookCafeteria(ctx context.Context, orgID, userID uint, intent *BookingIntent) (*models.Booking, string, error) {
	cafeteria, err := a.store.CafeteriaByName(orgID, intent.SpaceName)
	if err != nil {
		return nil, "", err
	}
	seats := intent.SeatCount
	if seats < 1 {
		seats = 1
	}
	tableID := intent.TableID
	if tableID == "" {
		tableID, err = a.pickTable(cafeteria, intent.Date, intent.StartTime, seats)
		if err != nil {
			return nil, "", err
		}
	}
	booking, err := a.bookings.BookCafeteriaSeats(ctx, CafeteriaBookingInput{
		OrgID:       orgID,
		UserID:      userID,
		CafeteriaID: cafeteria.ID,
		TableID:     tableID,
		Date:        intent.Date,
		SlotStart:   intent.StartTime,
		SlotEnd:     intent.EndTime,
		SeatCount:   seats,
	})
	if err != nil {
		return nil, "", err
	}
	msg := fmt.Sprintf("Booked %d seat(s) at table %s in %s on %s, %s - %s.",
		seats, tableID, cafeteria.Name, booking.Date, booking.StartTime, booking.EndTime)
	return booking, msg, nil
}

// pickTable chooses the first table in layout order with enough free seats.
func (a *Assistant) pickTable(cafeteria *models.Cafeteria, date, slotStart string, seats int) (string, error) {
	tables, err := cafeteria.Tables()
	if err != nil {
		return "", &StoreError{Op: "cafeteria.layout", Err: err}
	}
	occupancy, err := tableOccupancy(a.store, cafeteria.ID, date, slotStart)
	if err != nil {
		return "", err
	}
	for _, t := range tables {
		if models.SeatsPerTable-occupancy[t.ID] >= seats {
			return t.ID, nil
		}
	}
	return "", &ConflictError{Message: fmt.Sprintf("no table in %s has %d free seat(s) for this slot", cafeteria.Name, seats)}
}

func (a *Assistant) requestMeetingRoom(ctx context.Context, orgID, userID uint, intent *BookingIntent) (*models.Booking, string, error) {
	room, err := a.store.MeetingRoomByName(orgID, intent.SpaceName)
	if err != nil {
		return nil, "", err
	}
	purpose := intent.Purpose
	if purpose == "" {
		purpose = "Booked via assistant"
	}
	booking, err := a.bookings.RequestMeetingRoom(ctx, MeetingRoomRequestInput{
		OrgID:     orgID,
		UserID:    userID,
		RoomID:    room.ID,
		Date:      intent.Date,
		StartTime: intent.StartTime,
		EndTime:   intent.EndTime,
		Purpose:   purpose,
	})
	if err != nil {
		return nil, "", err
	}
	msg := fmt.Sprintf("Your request for %s on %s, %s - %s has been submitted for approval.",
		room.Name, booking.Date, booking.StartTime, booking.EndTime)
	return booking, msg, nil
}
