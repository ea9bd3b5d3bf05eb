package routes

import (
	"fmt"
	"net/http"

	"github.com/kataras/iris/v12"

	"github.com/Vjc5h3nt/EaseSpace/models"
	"github.com/Vjc5h3nt/EaseSpace/services"
	"github.com/Vjc5h3nt/EaseSpace/storage"
	"github.com/Vjc5h3nt/EaseSpace/utils"
)

// GET /api/admin/bookings
func AdminListBookings(ctx iris.Context) {
	_, orgID, ok := requestUser(ctx)
	if !ok {
		return
	}

	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := ctx.URLParamDefault("status", "")
	spaceID := ctx.URLParamDefault("space_id", "")
	date := ctx.URLParamDefault("date", "")

	q := storage.DB.Model(&models.Booking{}).Where("org_id = ?", orgID)
	if status != "" {
		if status == models.StatusRequiresApproval {
			q = q.Where("status IN ?", []string{models.StatusRequiresApproval, models.StatusPending})
		} else {
			q = q.Where("status = ?", status)
		}
	}
	if spaceID != "" {
		q = q.Where("space_id = ?", spaceID)
	}
	if date != "" {
		q = q.Where("date = ?", date)
	}

	var total int64
	q.Count(&total)

	var items []models.Booking
	if err := q.Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&items).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	for i := range items {
		items[i].Status = models.NormalizeStatus(items[i].Status)
	}
	utils.JSONPage(ctx, items, page, perPage, total)
}

// adminBooking loads a booking for an admin decision, scoped to the
// caller's organization. A booking from another org answers 404, same as a
// missing one, so ids cannot be probed across tenants.
func adminBooking(ctx iris.Context) (*models.Booking, bool) {
	_, orgID, ok := requestUser(ctx)
	if !ok {
		return nil, false
	}
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return nil, false
	}
	booking, err := BookingStore.BookingByID(id)
	if err != nil {
		respondServiceError(ctx, err)
		return nil, false
	}
	if booking.OrgID != orgID {
		respondServiceError(ctx, &services.NotFoundError{Resource: "booking", ID: id})
		return nil, false
	}
	return booking, true
}

// GET /api/admin/bookings/{id}
func AdminGetBooking(ctx iris.Context) {
	booking, ok := adminBooking(ctx)
	if !ok {
		return
	}

	// Enrichment only; a missing user degrades to a placeholder.
	userName := "Unknown User"
	var user models.User
	if err := storage.DB.First(&user, booking.UserID).Error; err == nil {
		userName = user.FullName
	}

	ctx.JSON(iris.Map{"data": booking, "meta": iris.Map{"userName": userName}, "links": iris.Map{}})
}

// POST /api/admin/bookings/{id}/approve
//
// Approval re-validates against the current Confirmed set before the
// transition commits. A 409 here means another booking was confirmed for an
// overlapping window since this request was submitted; the request itself
// stays pending.
func AdminApproveBooking(ctx iris.Context) {
	before, ok := adminBooking(ctx)
	if !ok {
		return
	}

	booking, err := Bookings.ApproveBooking(ctx.Request().Context(), before.ID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "booking.approve", "booking", booking.ID, before, booking)
	notifyBookingDecision(booking, "booking_approved", "Booking Approved",
		fmt.Sprintf("Your booking on %s from %s to %s has been approved.", booking.Date, booking.StartTime, booking.EndTime))

	ctx.JSON(iris.Map{"success": true, "message": "Booking approved", "data": booking})
}

// POST /api/admin/bookings/{id}/reject
func AdminRejectBooking(ctx iris.Context) {
	before, ok := adminBooking(ctx)
	if !ok {
		return
	}

	booking, err := Bookings.RejectBooking(ctx.Request().Context(), before.ID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "booking.reject", "booking", booking.ID, before, booking)
	notifyBookingDecision(booking, "booking_rejected", "Booking Rejected",
		fmt.Sprintf("Your booking request on %s from %s to %s was rejected.", booking.Date, booking.StartTime, booking.EndTime))

	ctx.JSON(iris.Map{"success": true, "message": "Booking rejected", "data": booking})
}

func notifyBookingDecision(booking *models.Booking, notifType, title, message string) {
	notification := models.Notification{
		UserID:  booking.UserID,
		Type:    notifType,
		Title:   title,
		Message: message,
		RefType: "booking",
		RefID:   booking.ID,
	}
	storage.DB.Create(&notification)
}

// GET /api/admin/bookings/stats?date=YYYY-MM-DD
//
// Utilization snapshot for the analytics dashboard: confirmed seats over
// cafeteria capacity and confirmed room-bookings over room count.
func AdminBookingStats(ctx iris.Context) {
	_, orgID, ok := requestUser(ctx)
	if !ok {
		return
	}

	date := ctx.URLParam("date")
	if date == "" {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_params", "date is required")
		return
	}

	var cafeterias []models.Cafeteria
	storage.DB.Where("org_id = ?", orgID).Find(&cafeterias)
	var roomCount int64
	storage.DB.Model(&models.MeetingRoom{}).Where("org_id = ?", orgID).Count(&roomCount)

	var bookings []models.Booking
	if err := storage.DB.Where("org_id = ? AND date = ? AND status = ?", orgID, date, models.StatusConfirmed).Find(&bookings).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	cafeteriaCapacity := 0
	for _, c := range cafeterias {
		cafeteriaCapacity += c.Capacity
	}
	seatsBooked := 0
	roomBookings := 0
	for _, b := range bookings {
		switch b.SpaceType {
		case models.SpaceTypeCafeteria:
			seatsBooked += b.SeatCount
		case models.SpaceTypeMeetingRoom:
			roomBookings++
		}
	}

	cafeteriaUtilization := 0.0
	if cafeteriaCapacity > 0 {
		cafeteriaUtilization = float64(seatsBooked) / float64(cafeteriaCapacity) * 100
	}
	roomUtilization := 0.0
	if roomCount > 0 {
		roomUtilization = float64(roomBookings) / float64(roomCount) * 100
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"date":                   date,
			"seatsBooked":            seatsBooked,
			"cafeteriaCapacity":      cafeteriaCapacity,
			"cafeteriaUtilization":   cafeteriaUtilization,
			"meetingRoomBookings":    roomBookings,
			"meetingRoomCount":       roomCount,
			"meetingRoomUtilization": roomUtilization,
		},
	})
}
