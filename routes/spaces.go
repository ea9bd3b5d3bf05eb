package routes

import (
	"encoding/json"

	"github.com/kataras/iris/v12"

	"github.com/Vjc5h3nt/EaseSpace/models"
	"github.com/Vjc5h3nt/EaseSpace/storage"
	"github.com/Vjc5h3nt/EaseSpace/utils"
)

type CafeteriaInput struct {
	Name   string               `json:"name" validate:"required"`
	Layout []models.TableLayout `json:"layout" validate:"required,min=1,dive"`
}

type MeetingRoomInput struct {
	Name      string   `json:"name" validate:"required"`
	Capacity  int      `json:"capacity" validate:"required,min=1"`
	Amenities []string `json:"amenities"`
	Floor     int      `json:"floor"`
	Location  string   `json:"location"`
	ImageURL  string   `json:"imageURL"`
}

// GET /api/spaces/cafeterias
func ListCafeterias(ctx iris.Context) {
	_, orgID, ok := requestUser(ctx)
	if !ok {
		return
	}

	var cafeterias []models.Cafeteria
	if err := storage.DB.Where("org_id = ?", orgID).Order("name ASC").Find(&cafeterias).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", "Failed to fetch cafeterias")
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": cafeterias})
}

// GET /api/spaces/cafeterias/{id}
func GetCafeteria(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	var cafeteria models.Cafeteria
	if err := storage.DB.First(&cafeteria, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "cafeteria not found")
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": cafeteria})
}

// GET /api/spaces/meeting-rooms
func ListMeetingRooms(ctx iris.Context) {
	_, orgID, ok := requestUser(ctx)
	if !ok {
		return
	}

	var rooms []models.MeetingRoom
	if err := storage.DB.Where("org_id = ?", orgID).Order("name ASC").Find(&rooms).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", "Failed to fetch meeting rooms")
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": rooms})
}

// GET /api/spaces/meeting-rooms/{id}
func GetMeetingRoom(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	var room models.MeetingRoom
	if err := storage.DB.First(&room, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "meeting room not found")
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": room})
}

// POST /api/spaces/cafeterias (admin)
func AdminCreateCafeteria(ctx iris.Context) {
	_, orgID, ok := requestUser(ctx)
	if !ok {
		return
	}

	var input CafeteriaInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	cafeteria := models.Cafeteria{OrgID: orgID, Name: input.Name}
	if err := cafeteria.SetLayout(input.Layout); err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_layout", err.Error())
		return
	}
	if err := storage.DB.Create(&cafeteria).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", "Failed to create cafeteria")
		return
	}

	utils.Audit(ctx, "cafeteria.create", "cafeteria", cafeteria.ID, nil, cafeteria)
	ctx.JSON(iris.Map{"success": true, "data": cafeteria})
}

// PUT /api/spaces/cafeterias/{id}/layout (admin)
//
// Layout editor save. Capacity is re-derived from the table count; existing
// bookings keep their table ids, so removing an occupied table is an admin
// decision the UI warns about, not something enforced here.
func AdminUpdateCafeteriaLayout(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var input struct {
		Layout []models.TableLayout `json:"layout" validate:"required,min=1,dive"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var cafeteria models.Cafeteria
	if err := storage.DB.First(&cafeteria, id).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "cafeteria not found")
		return
	}

	before := cafeteria
	if err := cafeteria.SetLayout(input.Layout); err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_layout", err.Error())
		return
	}
	if err := storage.DB.Save(&cafeteria).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", "Failed to update layout")
		return
	}

	utils.Audit(ctx, "cafeteria.layout_update", "cafeteria", cafeteria.ID, before, cafeteria)
	ctx.JSON(iris.Map{"success": true, "data": cafeteria})
}

// POST /api/spaces/meeting-rooms (admin)
func AdminCreateMeetingRoom(ctx iris.Context) {
	_, orgID, ok := requestUser(ctx)
	if !ok {
		return
	}

	var input MeetingRoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	room := models.MeetingRoom{
		OrgID:    orgID,
		Name:     input.Name,
		Capacity: input.Capacity,
		Floor:    input.Floor,
		Location: input.Location,
		ImageURL: input.ImageURL,
	}
	if input.Amenities != nil {
		raw, err := json.Marshal(input.Amenities)
		if err != nil {
			utils.JSONError(ctx, iris.StatusBadRequest, "invalid_amenities", err.Error())
			return
		}
		room.Amenities = raw
	}
	if err := storage.DB.Create(&room).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", "Failed to create meeting room")
		return
	}

	utils.Audit(ctx, "meeting_room.create", "meeting_room", room.ID, nil, room)
	ctx.JSON(iris.Map{"success": true, "data": room})
}
