package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	_ ServiceRepository = (*MongoServiceRepo)(nil)
	_ BookingRepository = (*MongoBookingRepo)(nil)
	_ UserRepository    = (*MongoUserRepo)(nil)
	_ DoctorRepository  = (*MongoDoctorRepo)(nil)
)

// Mongo owns the client connection and hands out the collection repositories.
type Mongo struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// Connect opens the client and pings the primary before returning.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &Mongo{client: client, db: client.Database(database), timeout: timeout}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Services() *MongoServiceRepo {
	return NewMongoServiceRepo(m.db.Collection(ServicesCollection), m.timeout)
}

func (m *Mongo) Bookings() *MongoBookingRepo {
	return NewMongoBookingRepo(m.db.Collection(BookingsCollection), m.timeout)
}

func (m *Mongo) Users() *MongoUserRepo {
	return NewMongoUserRepo(m.db.Collection(UsersCollection), m.timeout)
}

func (m *Mongo) Doctors() *MongoDoctorRepo {
	return NewMongoDoctorRepo(m.db.Collection(DoctorsCollection), m.timeout)
}

type collectionIndexes struct {
	collection string
	indexes    []mongo.IndexModel
}

// indexPlan lists the indexes per collection, bookings first.
func indexPlan() []collectionIndexes {
	return []collectionIndexes{
		{BookingsCollection, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "treatment", Value: 1},
					{Key: "date", Value: 1},
					{Key: "patient", Value: 1},
				},
				Options: options.Index().SetUnique(true).SetName("treatment_date_patient_unique"),
			},
			{Keys: bson.D{{Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "patient", Value: 1}}},
		}},
		{ServicesCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{UsersCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{DoctorsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
	}
}

// EnsureIndexes creates the unique keys the repositories rely on. Every
// collection is attempted; failures are joined. A bookings failure matches
// ErrBookingIndex.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	var errs []error
	for _, plan := range indexPlan() {
		idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		_, err := m.db.Collection(plan.collection).Indexes().CreateMany(idxCtx, plan.indexes)
		cancel()
		if err == nil {
			continue
		}
		if plan.collection == BookingsCollection {
			err = fmt.Errorf("failed to create indexes on %s: %w: %w", plan.collection, ErrBookingIndex, err)
		} else {
			err = fmt.Errorf("failed to create indexes on %s: %w", plan.collection, err)
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// wrapWriteErr turns unique index violations into ErrDuplicate.
func wrapWriteErr(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func updateResult(res *mongo.UpdateResult) *UpdateResult {
	return &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
}
