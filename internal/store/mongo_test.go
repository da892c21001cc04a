package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/harentsoaR/doctors-portal/internal/models"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func bookingDoc(treatment, date, slot, patient string) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "treatment", Value: treatment},
		{Key: "date", Value: date},
		{Key: "slot", Value: slot},
		{Key: "patient", Value: patient},
	}
}

func TestMongoBookingRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list by date decodes every batch", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.Coll, time.Second)
		ns := namespace(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
				bookingDoc("Cleaning", "June 1, 2024", "10am", "ann@example.com")),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch,
				bookingDoc("Whitening", "June 1, 2024", "9am", "bob@example.com")),
		)

		got, err := repo.ListByDate(context.Background(), "June 1, 2024")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			mt.Fatalf("expected 2 bookings, got %d", len(got))
		}
		if got[0].Slot != "10am" || got[1].Patient != "bob@example.com" {
			mt.Errorf("unexpected bookings: %+v", got)
		}
	})

	mt.Run("list by patient returns empty slice when nothing matches", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		got, err := repo.ListByPatient(context.Background(), "nobody@example.com")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if got == nil || len(got) != 0 {
			mt.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})

	mt.Run("find by key miss", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		got, err := repo.FindByKey(context.Background(), models.BookingKey{Treatment: "Cleaning", Date: "d", Patient: "p"})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			mt.Errorf("expected nil booking, got %+v", got)
		}
	})

	mt.Run("find by key hit", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bookingDoc("Cleaning", "June 1, 2024", "10am", "ann@example.com")))

		got, err := repo.FindByKey(context.Background(), models.BookingKey{Treatment: "Cleaning", Date: "June 1, 2024", Patient: "ann@example.com"})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.Slot != "10am" {
			mt.Errorf("expected the 10am booking, got %+v", got)
		}
	})

	mt.Run("insert assigns an id", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		b := &models.Booking{Treatment: "Cleaning", Date: "June 1, 2024", Slot: "9am", Patient: "ann@example.com"}
		res, err := repo.Insert(context.Background(), b)
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if b.ID.IsZero() {
			mt.Error("expected booking id to be assigned")
		}
		if res.InsertedID != b.ID {
			mt.Errorf("expected inserted id %v, got %v", b.ID, res.InsertedID)
		}
	})

	mt.Run("insert duplicate maps to ErrDuplicate", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: bookings index: treatment_date_patient_unique",
		}))

		_, err := repo.Insert(context.Background(), &models.Booking{Treatment: "Cleaning", Date: "d", Patient: "p"})
		if !errors.Is(err, ErrDuplicate) {
			mt.Errorf("expected ErrDuplicate, got %v", err)
		}
	})
}

func TestMongoUserRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get by email miss returns nil", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		u, err := repo.GetByEmail(context.Background(), "ghost@example.com")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if u != nil {
			mt.Errorf("expected nil user, got %+v", u)
		}
	})

	mt.Run("get by email decodes role", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "root@example.com"},
			{Key: "role", Value: "admin"},
		}))

		u, err := repo.GetByEmail(context.Background(), "root@example.com")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if !u.IsAdmin() {
			mt.Errorf("expected admin user, got %+v", u)
		}
	})

	mt.Run("set role reports match counts", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		res, err := repo.SetRole(context.Background(), "ann@example.com", models.RoleAdmin)
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if res.MatchedCount != 1 || res.ModifiedCount != 1 {
			mt.Errorf("unexpected update result: %+v", res)
		}
	})

	mt.Run("upsert reports an inserted user", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.Coll, time.Second)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: id}}}},
		))

		res, err := repo.UpsertByEmail(context.Background(), models.User{
			Email: "ann@example.com",
			Extra: map[string]any{"phone": "555"},
		})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if res.UpsertedCount != 1 || res.UpsertedID != id {
			mt.Errorf("unexpected upsert result: %+v", res)
		}
	})

	mt.Run("get by email keeps extra fields", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "ann@example.com"},
			{Key: "phone", Value: "555"},
		}))

		u, err := repo.GetByEmail(context.Background(), "ann@example.com")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if u == nil || u.Extra["phone"] != "555" {
			mt.Errorf("extra field lost: %+v", u)
		}
	})

	mt.Run("delete reports deleted count", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		res, err := repo.DeleteByEmail(context.Background(), "ann@example.com")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if res.DeletedCount != 1 {
			mt.Errorf("expected 1 deleted, got %d", res.DeletedCount)
		}
	})
}

func TestMongoDoctorRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email maps to ErrDuplicate", func(mt *mtest.T) {
		repo := NewMongoDoctorRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := repo.Insert(context.Background(), &models.Doctor{Email: "doc@example.com"})
		if !errors.Is(err, ErrDuplicate) {
			mt.Errorf("expected ErrDuplicate, got %v", err)
		}
	})

	mt.Run("list decodes profile", func(mt *mtest.T) {
		repo := NewMongoDoctorRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "doc@example.com"},
			{Key: "name", Value: "Dr. Who"},
			{Key: "specialty", Value: "Orthodontics"},
			{Key: "phone", Value: "555"},
		}))

		docs, err := repo.List(context.Background())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(docs) != 1 || docs[0].Specialty != "Orthodontics" {
			mt.Fatalf("unexpected doctors: %+v", docs)
		}
		if docs[0].Extra["phone"] != "555" {
			mt.Errorf("extra field lost: %+v", docs[0].Extra)
		}
	})
}

func TestMongoServiceRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list keeps slot order", func(mt *mtest.T) {
		repo := NewMongoServiceRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "name", Value: "Cleaning"},
			{Key: "slots", Value: bson.A{"9am", "10am", "11am"}},
		}))

		svcs, err := repo.List(context.Background())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(svcs) != 1 {
			mt.Fatalf("expected 1 service, got %d", len(svcs))
		}
		want := []string{"9am", "10am", "11am"}
		for i, s := range want {
			if svcs[0].Slots[i] != s {
				mt.Errorf("slot %d: want %s, got %s", i, s, svcs[0].Slots[i])
			}
		}
	})

	mt.Run("upsert by name", func(mt *mtest.T) {
		repo := NewMongoServiceRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		res, err := repo.UpsertByName(context.Background(), models.Service{Name: "Cleaning", Slots: []string{"9am"}})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if res.ModifiedCount != 1 {
			mt.Errorf("unexpected update result: %+v", res)
		}
	})
}

func TestProfileSet(t *testing.T) {
	set := profileSet(models.User{
		Email: "ann@example.com",
		Name:  "Ann",
		Role:  models.RoleAdmin,
		Extra: map[string]any{"phone": "555", "role": "admin", "_id": "forged", "email": "root@example.com"},
	})

	want := bson.M{"email": "ann@example.com", "name": "Ann", "phone": "555"}
	if !reflect.DeepEqual(set, want) {
		t.Errorf("want %v, got %v", want, set)
	}

	if set := profileSet(models.User{Email: "ann@example.com"}); len(set) != 1 {
		t.Errorf("empty name must not be written, got %v", set)
	}
}

func createdIndexCollections(mt *mtest.T) []string {
	var colls []string
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName == "createIndexes" {
			colls = append(colls, evt.Command.Lookup("createIndexes").StringValue())
		}
	}
	return colls
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	wantOrder := []string{BookingsCollection, ServicesCollection, UsersCollection, DoctorsCollection}
	duplicate := mtest.CommandError{Code: 11000, Name: "DuplicateKey", Message: "E11000 duplicate key"}

	mt.Run("creates every collection's indexes bookings first", func(mt *mtest.T) {
		m := &Mongo{client: mt.Client, db: mt.DB, timeout: time.Second}
		for range wantOrder {
			mt.AddMockResponses(mtest.CreateSuccessResponse())
		}
		mt.ClearEvents()

		if err := m.EnsureIndexes(context.Background()); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if got := createdIndexCollections(mt); !reflect.DeepEqual(got, wantOrder) {
			mt.Errorf("want %v, got %v", wantOrder, got)
		}
	})

	mt.Run("a failing collection does not stop the rest", func(mt *mtest.T) {
		m := &Mongo{client: mt.Client, db: mt.DB, timeout: time.Second}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCommandErrorResponse(duplicate),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)
		mt.ClearEvents()

		err := m.EnsureIndexes(context.Background())
		if err == nil {
			mt.Fatal("expected the services failure to be reported")
		}
		if errors.Is(err, ErrBookingIndex) {
			mt.Errorf("booking index was created, got %v", err)
		}
		if got := createdIndexCollections(mt); !reflect.DeepEqual(got, wantOrder) {
			mt.Errorf("want every collection attempted %v, got %v", wantOrder, got)
		}
	})

	mt.Run("booking failure is flagged", func(mt *mtest.T) {
		m := &Mongo{client: mt.Client, db: mt.DB, timeout: time.Second}
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(duplicate),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)
		mt.ClearEvents()

		err := m.EnsureIndexes(context.Background())
		if !errors.Is(err, ErrBookingIndex) {
			mt.Fatalf("expected ErrBookingIndex, got %v", err)
		}
		if got := createdIndexCollections(mt); len(got) != len(wantOrder) {
			mt.Errorf("want %d collections attempted, got %v", len(wantOrder), got)
		}
	})
}
