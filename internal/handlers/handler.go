package handlers

import (
	"go.uber.org/zap"

	"github.com/harentsoaR/doctors-portal/internal/services"
)

// Handler groups the services every route handler needs.
type Handler struct {
	Availability *services.AvailabilityService
	Bookings     *services.BookingService
	Directory    *services.DirectoryService
	Access       *services.AccessService
	Logger       *zap.Logger
}

func NewHandler(
	availability *services.AvailabilityService,
	bookings *services.BookingService,
	directory *services.DirectoryService,
	access *services.AccessService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Availability: availability,
		Bookings:     bookings,
		Directory:    directory,
		Access:       access,
		Logger:       logger,
	}
}
