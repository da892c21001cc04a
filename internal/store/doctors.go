package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/doctors-portal/internal/models"
)

type MongoDoctorRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoDoctorRepo(coll *mongo.Collection, timeout time.Duration) *MongoDoctorRepo {
	return &MongoDoctorRepo{coll: coll, timeout: timeout}
}

func (r *MongoDoctorRepo) List(ctx context.Context) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve doctors: %w", err)
	}
	defer cursor.Close(ctx)

	doctors := make([]models.Doctor, 0)
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}
	return doctors, nil
}

func (r *MongoDoctorRepo) Insert(ctx context.Context, doctor *models.Doctor) (*InsertResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}
	res, err := r.coll.InsertOne(ctx, doctor)
	if err != nil {
		return nil, wrapWriteErr("failed to insert doctor", err)
	}
	return &InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

func (r *MongoDoctorRepo) DeleteByEmail(ctx context.Context, email string) (*DeleteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to delete doctor with email %s: %w", email, err)
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
