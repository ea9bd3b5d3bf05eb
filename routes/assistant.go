package routes

import (
	"errors"

	"github.com/kataras/iris/v12"

	"github.com/Vjc5h3nt/EaseSpace/services"
	"github.com/Vjc5h3nt/EaseSpace/utils"
)

type AssistantBookingInput struct {
	Query string `json:"query" validate:"required"`
}

// POST /api/assistant/booking
//
// Free-text booking. The parsed intent runs through the same availability
// and allocation checks as the forms; the parser's own availability claim
// is never used. A conflict comes back as a friendly answer, not an error.
func AssistantBooking(ctx iris.Context) {
	userID, orgID, ok := requestUser(ctx)
	if !ok {
		return
	}

	var input AssistantBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	booking, message, err := Assistant.Book(ctx.Request().Context(), orgID, userID, input.Query)
	if err != nil {
		var conflict *services.ConflictError
		if errors.As(err, &conflict) {
			ctx.JSON(iris.Map{
				"success": true,
				"booked":  false,
				"message": "That slot is not available: " + conflict.Message,
			})
			return
		}
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"booked":  true,
		"message": message,
		"data":    booking,
	})
}
