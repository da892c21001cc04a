package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/doctors-portal/internal/models"
)

type MongoBookingRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoBookingRepo(coll *mongo.Collection, timeout time.Duration) *MongoBookingRepo {
	return &MongoBookingRepo{coll: coll, timeout: timeout}
}

func (r *MongoBookingRepo) ListByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"date": date})
}

func (r *MongoBookingRepo) ListByPatient(ctx context.Context, patient string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"patient": patient})
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]models.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) FindByKey(ctx context.Context, key models.BookingKey) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"treatment": key.Treatment, "date": key.Date, "patient": key.Patient}
	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up booking: %w", err)
	}
	return &booking, nil
}

// Insert stores a new booking and fills in its ID. It returns ErrDuplicate when
// the (treatment, date, patient) index rejects the write.
func (r *MongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) (*InsertResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	res, err := r.coll.InsertOne(ctx, booking)
	if err != nil {
		return nil, wrapWriteErr("failed to insert booking", err)
	}
	return &InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}
