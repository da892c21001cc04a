package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/doctors-portal/internal/models"
)

type MongoServiceRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoServiceRepo(coll *mongo.Collection, timeout time.Duration) *MongoServiceRepo {
	return &MongoServiceRepo{coll: coll, timeout: timeout}
}

func (r *MongoServiceRepo) List(ctx context.Context) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve services: %w", err)
	}
	defer cursor.Close(ctx)

	services := make([]models.Service, 0)
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

// UpsertByName replaces the slot list and price of the named service, creating it if needed.
func (r *MongoServiceRepo) UpsertByName(ctx context.Context, svc models.Service) (*UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"name": svc.Name, "slots": svc.Slots, "price": svc.Price}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"name": svc.Name}, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, wrapWriteErr(fmt.Sprintf("failed to upsert service %s", svc.Name), err)
	}
	return updateResult(res), nil
}
