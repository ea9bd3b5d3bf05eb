package routes

import (
	"github.com/Vjc5h3nt/EaseSpace/services"
)

// Shared service instances, wired once at startup.
var (
	Bookings     *services.BookingService
	BookingStore services.BookingStore
	Assistant    *services.Assistant
)

func InitServices(store services.BookingStore, bookings *services.BookingService, assistant *services.Assistant) {
	BookingStore = store
	Bookings = bookings
	Assistant = assistant
}
