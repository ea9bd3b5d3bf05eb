package routes

import (
	"errors"

	"github.com/kataras/iris/v12"

	"github.com/Vjc5h3nt/EaseSpace/models"
	"github.com/Vjc5h3nt/EaseSpace/services"
	"github.com/Vjc5h3nt/EaseSpace/utils"
)

// GET /api/bookings/availability?spaceType=&spaceID=&date=&startTime=&endTime=&tableID=
//
// Returns the availability verdict for a candidate range. A conflict is a
// 200 with available=false and the blocking detail, not an error: the
// caller asked a question and got an answer. tableID scopes a cafeteria
// check to one table; without it the cafeteria counts as available while
// any table still has free seats.
func CheckAvailability(ctx iris.Context) {
	spaceType := ctx.URLParam("spaceType")
	spaceID := uint(ctx.URLParamUint64("spaceID"))
	tableID := ctx.URLParam("tableID")
	date := ctx.URLParam("date")
	startTime := ctx.URLParam("startTime")
	endTime := ctx.URLParam("endTime")

	if spaceID == 0 || date == "" || startTime == "" || endTime == "" {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_params", "spaceID, date, startTime and endTime are required")
		return
	}

	err := Bookings.CheckAvailability(spaceType, spaceID, tableID, date, startTime, endTime, 0)
	if err == nil {
		ctx.JSON(iris.Map{"success": true, "available": true})
		return
	}

	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		detail := iris.Map{"message": conflict.Message}
		if conflict.BookingID != 0 {
			detail["bookingID"] = conflict.BookingID
			detail["startTime"] = conflict.StartTime
			detail["endTime"] = conflict.EndTime
		}
		if conflict.FreeSeats != nil {
			detail["freeSeats"] = *conflict.FreeSeats
		}
		ctx.JSON(iris.Map{
			"success":   true,
			"available": false,
			"conflict":  detail,
		})
		return
	}
	respondServiceError(ctx, err)
}

// GET /api/bookings/occupancy?cafeteriaID=&date=&slotStart=
//
// Per-table committed and free seats for one cafeteria slot; drives the
// table map. Always recomputed from the booking rows.
func GetTableOccupancy(ctx iris.Context) {
	cafeteriaID := uint(ctx.URLParamUint64("cafeteriaID"))
	date := ctx.URLParam("date")
	slotStart := ctx.URLParam("slotStart")

	if cafeteriaID == 0 || date == "" || slotStart == "" {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_params", "cafeteriaID, date and slotStart are required")
		return
	}

	occupancy, err := Bookings.TableOccupancy(cafeteriaID, date, slotStart)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	tables := make(map[string]iris.Map, len(occupancy))
	for tableID, booked := range occupancy {
		tables[tableID] = iris.Map{
			"booked": booked,
			"free":   models.SeatsPerTable - booked,
		}
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    tables,
	})
}
