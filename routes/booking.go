package routes

import (
	"github.com/kataras/iris/v12"

	"github.com/Vjc5h3nt/EaseSpace/models"
	"github.com/Vjc5h3nt/EaseSpace/services"
	"github.com/Vjc5h3nt/EaseSpace/storage"
	"github.com/Vjc5h3nt/EaseSpace/utils"
)

type CafeteriaBookingInput struct {
	CafeteriaID uint   `json:"cafeteriaID" validate:"required"`
	TableID     string `json:"tableID" validate:"required"`
	Date        string `json:"date" validate:"required"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	SeatCount   int    `json:"seatCount" validate:"required,min=1"`
}

type MeetingRoomBookingInput struct {
	RoomID       uint     `json:"roomID" validate:"required"`
	Date         string   `json:"date" validate:"required"`
	StartTime    string   `json:"startTime" validate:"required"`
	EndTime      string   `json:"endTime" validate:"required"`
	Purpose      string   `json:"purpose" validate:"required"`
	Participants []string `json:"participants"`
}

// POST /api/bookings/cafeteria
func CreateCafeteriaBooking(ctx iris.Context) {
	userID, orgID, ok := requestUser(ctx)
	if !ok {
		return
	}

	var input CafeteriaBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	booking, err := Bookings.BookCafeteriaSeats(ctx.Request().Context(), services.CafeteriaBookingInput{
		OrgID:       orgID,
		UserID:      userID,
		CafeteriaID: input.CafeteriaID,
		TableID:     input.TableID,
		Date:        input.Date,
		SlotStart:   input.StartTime,
		SlotEnd:     input.EndTime,
		SeatCount:   input.SeatCount,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Booking confirmed",
		"data":    booking,
	})
}

// POST /api/bookings/meeting-room
func CreateMeetingRoomBooking(ctx iris.Context) {
	userID, orgID, ok := requestUser(ctx)
	if !ok {
		return
	}

	var input MeetingRoomBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Employee ID and contact are denormalized onto the booking so the
	// approval screen does not need a user lookup.
	var user models.User
	var employeeID, contact string
	if err := storage.DB.First(&user, userID).Error; err == nil {
		employeeID = user.EmployeeID
		contact = user.MobileNumber
	}

	booking, err := Bookings.RequestMeetingRoom(ctx.Request().Context(), services.MeetingRoomRequestInput{
		OrgID:        orgID,
		UserID:       userID,
		RoomID:       input.RoomID,
		Date:         input.Date,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		Purpose:      input.Purpose,
		Participants: input.Participants,
		EmployeeID:   employeeID,
		Contact:      contact,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Your request has been sent for approval",
		"data":    booking,
	})
}

// GET /api/bookings/mine
func GetMyBookings(ctx iris.Context) {
	userID, _, ok := requestUser(ctx)
	if !ok {
		return
	}

	var bookings []models.Booking
	if err := storage.DB.Where("user_id = ?", userID).
		Order("date DESC, start_time DESC").
		Find(&bookings).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", "Failed to fetch bookings")
		return
	}
	for i := range bookings {
		bookings[i].Status = models.NormalizeStatus(bookings[i].Status)
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    bookings,
	})
}

// POST /api/bookings/{id}/cancel
func CancelBooking(ctx iris.Context) {
	userID, _, ok := requestUser(ctx)
	if !ok {
		return
	}

	bookingID := ctx.Params().GetUintDefault("id", 0)
	if bookingID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid booking id")
		return
	}

	booking, err := Bookings.CancelBooking(ctx.Request().Context(), bookingID, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Booking cancelled",
		"data":    booking,
	})
}
