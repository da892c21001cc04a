// Package storetest provides in-memory repositories for tests. They honour the
// same uniqueness rules as the Mongo indexes.
package storetest

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/doctors-portal/internal/models"
	"github.com/harentsoaR/doctors-portal/internal/store"
)

// Store is an in-memory stand-in for every collection. Setting Err makes each
// call fail with it, which simulates an unreachable database.
type Store struct {
	mu       sync.Mutex
	Err      error
	services []models.Service
	bookings []models.Booking
	users    []models.User
	doctors  []models.Doctor
}

func New() *Store {
	return &Store{}
}

func (s *Store) Services() *ServiceRepo { return &ServiceRepo{s} }
func (s *Store) Bookings() *BookingRepo { return &BookingRepo{s} }
func (s *Store) Users() *UserRepo       { return &UserRepo{s} }
func (s *Store) Doctors() *DoctorRepo   { return &DoctorRepo{s} }

// SetErr swaps the injected failure under the lock.
func (s *Store) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

func (s *Store) AddService(svc models.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID.IsZero() {
		svc.ID = primitive.NewObjectID()
	}
	svc.Slots = append([]string(nil), svc.Slots...)
	s.services = append(s.services, svc)
}

func (s *Store) AddBooking(b models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	s.bookings = append(s.bookings, b)
}

func (s *Store) AddUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users = append(s.users, u)
}

// ServiceSlots returns a copy of the stored slot list for name.
func (s *Store) ServiceSlots(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, svc := range s.services {
		if svc.Name == name {
			return append([]string(nil), svc.Slots...)
		}
	}
	return nil
}

func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

type ServiceRepo struct{ s *Store }

func (r *ServiceRepo) List(ctx context.Context) ([]models.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]models.Service, 0, len(r.s.services))
	for _, svc := range r.s.services {
		svc.Slots = append([]string(nil), svc.Slots...)
		out = append(out, svc)
	}
	return out, nil
}

func (r *ServiceRepo) UpsertByName(ctx context.Context, svc models.Service) (*store.UpdateResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for i := range r.s.services {
		if r.s.services[i].Name == svc.Name {
			r.s.services[i].Slots = append([]string(nil), svc.Slots...)
			r.s.services[i].Price = svc.Price
			return &store.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	svc.ID = primitive.NewObjectID()
	r.s.services = append(r.s.services, svc)
	return &store.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: svc.ID}, nil
}

type BookingRepo struct{ s *Store }

func (r *BookingRepo) ListByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return r.filter(func(b models.Booking) bool { return b.Date == date })
}

func (r *BookingRepo) ListByPatient(ctx context.Context, patient string) ([]models.Booking, error) {
	return r.filter(func(b models.Booking) bool { return b.Patient == patient })
}

func (r *BookingRepo) filter(match func(models.Booking) bool) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]models.Booking, 0)
	for _, b := range r.s.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *BookingRepo) FindByKey(ctx context.Context, key models.BookingKey) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, b := range r.s.bookings {
		if b.Key() == key {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (r *BookingRepo) Insert(ctx context.Context, booking *models.Booking) (*store.InsertResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, b := range r.s.bookings {
		if b.Key() == booking.Key() {
			return nil, fmt.Errorf("insert booking: %w", store.ErrDuplicate)
		}
	}
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	r.s.bookings = append(r.s.bookings, *booking)
	return &store.InsertResult{Acknowledged: true, InsertedID: booking.ID}, nil
}

type UserRepo struct{ s *Store }

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return append(make([]models.User, 0, len(r.s.users)), r.s.users...), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) UpsertByEmail(ctx context.Context, user models.User) (*store.UpdateResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for i := range r.s.users {
		u := &r.s.users[i]
		if u.Email != user.Email {
			continue
		}
		modified := int64(0)
		if user.Name != "" && u.Name != user.Name {
			u.Name = user.Name
			modified = 1
		}
		for k, v := range user.Extra {
			if cur, ok := u.Extra[k]; ok && reflect.DeepEqual(cur, v) {
				continue
			}
			if u.Extra == nil {
				u.Extra = make(map[string]any)
			}
			u.Extra[k] = v
			modified = 1
		}
		return &store.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
	}
	created := models.User{ID: primitive.NewObjectID(), Email: user.Email, Name: user.Name, Extra: maps.Clone(user.Extra)}
	r.s.users = append(r.s.users, created)
	return &store.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: created.ID}, nil
}

func (r *UserRepo) SetRole(ctx context.Context, email, role string) (*store.UpdateResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for i := range r.s.users {
		if r.s.users[i].Email == email {
			modified := int64(0)
			if r.s.users[i].Role != role {
				r.s.users[i].Role = role
				modified = 1
			}
			return &store.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
		}
	}
	return &store.UpdateResult{Acknowledged: true}, nil
}

func (r *UserRepo) DeleteByEmail(ctx context.Context, email string) (*store.DeleteResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for i := range r.s.users {
		if r.s.users[i].Email == email {
			r.s.users = append(r.s.users[:i], r.s.users[i+1:]...)
			return &store.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return &store.DeleteResult{Acknowledged: true}, nil
}

type DoctorRepo struct{ s *Store }

func (r *DoctorRepo) List(ctx context.Context) ([]models.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return append(make([]models.Doctor, 0, len(r.s.doctors)), r.s.doctors...), nil
}

func (r *DoctorRepo) Insert(ctx context.Context, doctor *models.Doctor) (*store.InsertResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, d := range r.s.doctors {
		if d.Email == doctor.Email {
			return nil, fmt.Errorf("insert doctor: %w", store.ErrDuplicate)
		}
	}
	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}
	r.s.doctors = append(r.s.doctors, *doctor)
	return &store.InsertResult{Acknowledged: true, InsertedID: doctor.ID}, nil
}

func (r *DoctorRepo) DeleteByEmail(ctx context.Context, email string) (*store.DeleteResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for i := range r.s.doctors {
		if r.s.doctors[i].Email == email {
			r.s.doctors = append(r.s.doctors[:i], r.s.doctors[i+1:]...)
			return &store.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return &store.DeleteResult{Acknowledged: true}, nil
}

var (
	_ store.ServiceRepository = (*ServiceRepo)(nil)
	_ store.BookingRepository = (*BookingRepo)(nil)
	_ store.UserRepository    = (*UserRepo)(nil)
	_ store.DoctorRepository  = (*DoctorRepo)(nil)
)
