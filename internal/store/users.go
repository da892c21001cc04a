package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/doctors-portal/internal/models"
)

type MongoUserRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoUserRepo(coll *mongo.Collection, timeout time.Duration) *MongoUserRepo {
	return &MongoUserRepo{coll: coll, timeout: timeout}
}

func (r *MongoUserRepo) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user with email %s: %w", email, err)
	}
	return &user, nil
}

// UpsertByEmail sets the name and extra profile fields of the user, creating the
// record if needed. The role is never written here.
func (r *MongoUserRepo) UpsertByEmail(ctx context.Context, user models.User) (*UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"email": user.Email}, bson.M{"$set": profileSet(user)}, options.Update().SetUpsert(true))
	if err != nil {
		return nil, wrapWriteErr(fmt.Sprintf("failed to upsert user with email %s", user.Email), err)
	}
	return updateResult(res), nil
}

// profileSet builds the $set document for an upsert: email, a non-empty name and
// every extra field except role and _id.
func profileSet(user models.User) bson.M {
	set := bson.M{"email": user.Email}
	if user.Name != "" {
		set["name"] = user.Name
	}
	for k, v := range user.Extra {
		if _, taken := set[k]; taken || k == "role" || k == "_id" {
			continue
		}
		set[k] = v
	}
	return set
}

// SetRole updates an existing user only; an unknown email matches nothing.
func (r *MongoUserRepo) SetRole(ctx context.Context, email, role string) (*UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return nil, fmt.Errorf("failed to set role for %s: %w", email, err)
	}
	return updateResult(res), nil
}

func (r *MongoUserRepo) DeleteByEmail(ctx context.Context, email string) (*DeleteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to delete user with email %s: %w", email, err)
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
