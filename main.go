package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/Vjc5h3nt/EaseSpace/routes"
	"github.com/Vjc5h3nt/EaseSpace/services"
	"github.com/Vjc5h3nt/EaseSpace/storage"
	"github.com/Vjc5h3nt/EaseSpace/utils"
)

func main() {
	godotenv.Load()
	db := storage.InitializeDB()
	storage.InitializeRedis()

	store := storage.NewBookingStore(db)
	locker := storage.NewSlotLock(storage.Redis)
	bookings := services.NewBookingService(store, locker, services.PolicyFromEnv(), nil)

	parserURL := os.Getenv("INTENT_PARSER_URL")
	if parserURL == "" {
		log.Println("INTENT_PARSER_URL not set, assistant booking disabled")
	}
	assistant := services.NewAssistant(services.NewHTTPIntentParser(parserURL), bookings, store)

	routes.InitServices(store, bookings, assistant)

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
	}

	spaces := app.Party("/api/spaces", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		spaces.Get("/cafeterias", routes.ListCafeterias)
		spaces.Get("/cafeterias/{id:uint}", routes.GetCafeteria)
		spaces.Get("/meeting-rooms", routes.ListMeetingRooms)
		spaces.Get("/meeting-rooms/{id:uint}", routes.GetMeetingRoom)
	}

	adminSpaces := app.Party("/api/spaces", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		adminSpaces.Post("/cafeterias", routes.AdminCreateCafeteria)
		adminSpaces.Put("/cafeterias/{id:uint}/layout", routes.AdminUpdateCafeteriaLayout)
		adminSpaces.Post("/meeting-rooms", routes.AdminCreateMeetingRoom)
	}

	bookingsParty := app.Party("/api/bookings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		bookingsParty.Post("/cafeteria", routes.CreateCafeteriaBooking)
		bookingsParty.Post("/meeting-room", routes.CreateMeetingRoomBooking)
		bookingsParty.Get("/mine", routes.GetMyBookings)
		bookingsParty.Post("/{id:uint}/cancel", routes.CancelBooking)
		bookingsParty.Get("/availability", routes.CheckAvailability)
		bookingsParty.Get("/occupancy", routes.GetTableOccupancy)
	}

	assistantParty := app.Party("/api/assistant", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		assistantParty.Post("/booking", routes.AssistantBooking)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/bookings", routes.AdminListBookings)
		admin.Get("/bookings/stats", routes.AdminBookingStats)
		admin.Get("/bookings/{id:uint}", routes.AdminGetBooking)
		admin.Post("/bookings/{id:uint}/approve", routes.AdminApproveBooking)
		admin.Post("/bookings/{id:uint}/reject", routes.AdminRejectBooking)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	app.Listen(":" + port)
}
