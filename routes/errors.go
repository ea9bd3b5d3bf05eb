package routes

import (
	"errors"
	"net/http"

	"github.com/kataras/iris/v12"

	"github.com/Vjc5h3nt/EaseSpace/services"
	"github.com/Vjc5h3nt/EaseSpace/utils"
)

// respondServiceError translates the service error taxonomy to HTTP.
func respondServiceError(ctx iris.Context, err error) {
	var ve *services.ValidationError
	var ce *services.ConflictError
	var nf *services.NotFoundError
	var se *services.StoreError

	switch {
	case errors.As(err, &ve):
		utils.JSONError(ctx, http.StatusBadRequest, "validation_error", ve.Message)
	case errors.As(err, &ce):
		payload := iris.Map{"error": "conflict", "message": ce.Message}
		if ce.BookingID != 0 {
			payload["conflictingBookingID"] = ce.BookingID
			payload["conflictingStart"] = ce.StartTime
			payload["conflictingEnd"] = ce.EndTime
		}
		if ce.FreeSeats != nil {
			payload["freeSeats"] = *ce.FreeSeats
		}
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(payload)
	case errors.As(err, &nf):
		utils.JSONError(ctx, http.StatusNotFound, "not_found", nf.Error())
	case errors.As(err, &se):
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "a storage error occurred, please try again")
	default:
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func requestUser(ctx iris.Context) (userID uint, orgID uint, ok bool) {
	userIDValue := ctx.Values().Get("userID")
	orgIDValue := ctx.Values().Get("orgID")
	if userIDValue == nil || orgIDValue == nil {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "User not authenticated"})
		return 0, 0, false
	}
	userID, uok := userIDValue.(uint)
	orgID, ook := orgIDValue.(uint)
	if !uok || !ook {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "Invalid user ID"})
		return 0, 0, false
	}
	return userID, orgID, true
}
