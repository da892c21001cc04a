package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/harentsoaR/doctors-portal/internal/models"
	"github.com/harentsoaR/doctors-portal/internal/store"
	"github.com/harentsoaR/doctors-portal/internal/utils"
)

// BookingNotifier is told about every booking that was actually created.
type BookingNotifier interface {
	SendBookingConfirmation(booking models.Booking)
}

// BookingOutcome mirrors the response of POST /booking: either the insert
// result, or the booking that already holds the (treatment, date, patient) key.
type BookingOutcome struct {
	Success bool                `json:"success"`
	Result  *store.InsertResult `json:"result,omitempty"`
	Booking *models.Booking     `json:"booking,omitempty"`
}

type BookingService struct {
	Bookings store.BookingRepository
	Notifier BookingNotifier
	Logger   *zap.Logger
}

func NewBookingService(bookings store.BookingRepository, notifier BookingNotifier, logger *zap.Logger) *BookingService {
	return &BookingService{Bookings: bookings, Notifier: notifier, Logger: logger}
}

// Create inserts the booking unless the patient already holds one for the same
// treatment and date. The lookup handles the sequential case; the unique index
// behind Insert catches a concurrent request that slipped past the lookup.
func (s *BookingService) Create(ctx context.Context, booking models.Booking) (*BookingOutcome, error) {
	if err := validateBooking(booking); err != nil {
		return nil, err
	}

	existing, err := s.Bookings.FindByKey(ctx, booking.Key())
	if err != nil {
		return nil, utils.StoreUnavailable(err)
	}
	if existing != nil {
		return &BookingOutcome{Success: false, Booking: existing}, nil
	}

	result, err := s.Bookings.Insert(ctx, &booking)
	if errors.Is(err, store.ErrDuplicate) {
		existing, err = s.Bookings.FindByKey(ctx, booking.Key())
		if err != nil {
			return nil, utils.StoreUnavailable(err)
		}
		s.Logger.Info("concurrent duplicate booking rejected",
			zap.String("treatment", booking.Treatment),
			zap.String("date", booking.Date),
			zap.String("patient", booking.Patient))
		return &BookingOutcome{Success: false, Booking: existing}, nil
	}
	if err != nil {
		return nil, utils.StoreUnavailable(err)
	}

	s.Logger.Info("booking created",
		zap.String("treatment", booking.Treatment),
		zap.String("date", booking.Date),
		zap.String("slot", booking.Slot))
	if s.Notifier != nil {
		s.Notifier.SendBookingConfirmation(booking)
	}
	return &BookingOutcome{Success: true, Result: result}, nil
}

func (s *BookingService) ListForPatient(ctx context.Context, patient string) ([]models.Booking, error) {
	bookings, err := s.Bookings.ListByPatient(ctx, patient)
	if err != nil {
		return nil, utils.StoreUnavailable(err)
	}
	return bookings, nil
}

func validateBooking(b models.Booking) error {
	var missing []string
	if b.Treatment == "" {
		missing = append(missing, "treatment")
	}
	if b.Date == "" {
		missing = append(missing, "date")
	}
	if b.Slot == "" {
		missing = append(missing, "slot")
	}
	if b.Patient == "" {
		missing = append(missing, "patient")
	}
	if len(missing) > 0 {
		return utils.BadRequest("Missing booking fields: " + strings.Join(missing, ", "))
	}
	return nil
}
