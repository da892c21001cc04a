// Package store holds the persistence layer: one repository per collection,
// backed by MongoDB.
package store

import (
	"context"
	"errors"

	"github.com/harentsoaR/doctors-portal/internal/models"
)

var (
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
	// ErrBookingIndex marks a failure to build the unique booking key. Without it
	// concurrent duplicate bookings are not rejected by the store.
	ErrBookingIndex = errors.New("booking uniqueness index not created")
)

const (
	ServicesCollection = "services"
	BookingsCollection = "bookings"
	UsersCollection    = "users"
	DoctorsCollection  = "doctors"
)

type ServiceRepository interface {
	List(ctx context.Context) ([]models.Service, error)
	UpsertByName(ctx context.Context, svc models.Service) (*UpdateResult, error)
}

type BookingRepository interface {
	ListByDate(ctx context.Context, date string) ([]models.Booking, error)
	ListByPatient(ctx context.Context, patient string) ([]models.Booking, error)
	// FindByKey returns nil, nil when no booking matches.
	FindByKey(ctx context.Context, key models.BookingKey) (*models.Booking, error)
	Insert(ctx context.Context, booking *models.Booking) (*InsertResult, error)
}

type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	// GetByEmail returns nil, nil when no user matches.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertByEmail(ctx context.Context, user models.User) (*UpdateResult, error)
	SetRole(ctx context.Context, email, role string) (*UpdateResult, error)
	DeleteByEmail(ctx context.Context, email string) (*DeleteResult, error)
}

type DoctorRepository interface {
	List(ctx context.Context) ([]models.Doctor, error)
	Insert(ctx context.Context, doctor *models.Doctor) (*InsertResult, error)
	DeleteByEmail(ctx context.Context, email string) (*DeleteResult, error)
}

type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
