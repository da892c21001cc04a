package services

import (
	"context"

	"github.com/harentsoaR/doctors-portal/internal/models"
	"github.com/harentsoaR/doctors-portal/internal/store"
	"github.com/harentsoaR/doctors-portal/internal/utils"
)

type AvailabilityService struct {
	Services store.ServiceRepository
	Bookings store.BookingRepository
}

func NewAvailabilityService(services store.ServiceRepository, bookings store.BookingRepository) *AvailabilityService {
	return &AvailabilityService{Services: services, Bookings: bookings}
}

// ListServices returns the master service list untouched.
func (s *AvailabilityService) ListServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.Services.List(ctx)
	if err != nil {
		return nil, utils.StoreUnavailable(err)
	}
	return services, nil
}

// ForDate returns every service with the slots still open on date. The date is
// an exact-match key; an empty date matches no booking, so all slots are open.
func (s *AvailabilityService) ForDate(ctx context.Context, date string) ([]models.Service, error) {
	services, err := s.Services.List(ctx)
	if err != nil {
		return nil, utils.StoreUnavailable(err)
	}
	bookings, err := s.Bookings.ListByDate(ctx, date)
	if err != nil {
		return nil, utils.StoreUnavailable(err)
	}
	return FilterAvailable(services, bookings), nil
}

// FilterAvailable returns copies of services whose slot lists exclude the slots
// booked for that service's name. Remaining slots keep their original order and
// the input values are not modified. Bookings are assumed to share one date.
func FilterAvailable(services []models.Service, bookings []models.Booking) []models.Service {
	booked := make(map[string]map[string]struct{})
	for _, b := range bookings {
		slots, ok := booked[b.Treatment]
		if !ok {
			slots = make(map[string]struct{})
			booked[b.Treatment] = slots
		}
		slots[b.Slot] = struct{}{}
	}

	out := make([]models.Service, 0, len(services))
	for _, svc := range services {
		taken := booked[svc.Name]
		open := make([]string, 0, len(svc.Slots))
		for _, slot := range svc.Slots {
			if _, isBooked := taken[slot]; !isBooked {
				open = append(open, slot)
			}
		}
		svc.Slots = open
		out = append(out, svc)
	}
	return out
}
