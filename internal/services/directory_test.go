package services

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/harentsoaR/doctors-portal/internal/models"
	"github.com/harentsoaR/doctors-portal/internal/store/storetest"
	"github.com/harentsoaR/doctors-portal/internal/utils"
)

func newDirectory(st *storetest.Store) *DirectoryService {
	issuer := utils.NewTokenIssuer("test-secret", time.Hour)
	return NewDirectoryService(st.Users(), st.Doctors(), issuer, zap.NewNop())
}

func TestDirectoryService_UpsertUserIssuesToken(t *testing.T) {
	st := storetest.New()
	dir := newDirectory(st)

	out, err := dir.UpsertUser(context.Background(), "ann@example.com", map[string]any{"name": "Ann"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Result.UpsertedCount != 1 {
		t.Errorf("expected an upsert, got %+v", out.Result)
	}

	claims, err := dir.Issuer.ValidateJWT(out.Token)
	if err != nil {
		t.Fatalf("token did not validate: %v", err)
	}
	if claims.Email != "ann@example.com" {
		t.Errorf("expected email claim ann@example.com, got %s", claims.Email)
	}

	again, err := dir.UpsertUser(context.Background(), "ann@example.com", map[string]any{"name": "Ann B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Result.MatchedCount != 1 || again.Result.UpsertedCount != 0 {
		t.Errorf("expected an update of the existing user, got %+v", again.Result)
	}
}

func TestDirectoryService_UpsertNeverGrantsRole(t *testing.T) {
	st := storetest.New()
	dir := newDirectory(st)

	fields := map[string]any{"name": "Ann", "role": "admin", "email": "root@example.com"}
	if _, err := dir.UpsertUser(context.Background(), "ann@example.com", fields); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, _ := st.Users().GetByEmail(context.Background(), "ann@example.com")
	if u == nil || u.IsAdmin() {
		t.Fatalf("upsert must not create admins, got %+v", u)
	}
	if _, ok := u.Extra["role"]; ok {
		t.Error("role leaked into extra fields")
	}
	if other, _ := st.Users().GetByEmail(context.Background(), "root@example.com"); other != nil {
		t.Error("email in the body must not redirect the upsert")
	}
}

func TestDirectoryService_UpsertKeepsExtraFields(t *testing.T) {
	st := storetest.New()
	dir := newDirectory(st)

	fields := map[string]any{
		"name":      "Ann",
		"phone":     "555",
		"_id":       "forged",
		"$where":    "1",
		"a.b":       true,
		"insurance": map[string]any{"provider": "Acme"},
	}
	if _, err := dir.UpsertUser(context.Background(), "ann@example.com", fields); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, _ := st.Users().GetByEmail(context.Background(), "ann@example.com")
	if u.Name != "Ann" || u.Extra["phone"] != "555" {
		t.Fatalf("profile fields not stored: %+v", u)
	}
	if _, ok := u.Extra["insurance"]; !ok {
		t.Error("nested field was dropped")
	}
	for _, k := range []string{"_id", "$where", "a.b"} {
		if _, ok := u.Extra[k]; ok {
			t.Errorf("unsafe key %q was stored", k)
		}
	}

	res, err := dir.UpsertUser(context.Background(), "ann@example.com", map[string]any{"phone": "556"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Result.ModifiedCount != 1 {
		t.Errorf("expected the phone update to modify the user, got %+v", res.Result)
	}
	u, _ = st.Users().GetByEmail(context.Background(), "ann@example.com")
	if u.Name != "Ann" || u.Extra["phone"] != "556" {
		t.Errorf("partial update lost fields: %+v", u)
	}
}

func TestDirectoryService_UpsertRejectsNonStringName(t *testing.T) {
	dir := newDirectory(storetest.New())

	_, err := dir.UpsertUser(context.Background(), "ann@example.com", map[string]any{"name": 42})
	if err == nil || utils.AsAppError(err).Kind != utils.KindBadRequest {
		t.Fatalf("expected a bad request, got %v", err)
	}
}

func TestDirectoryService_SetAdminIsUpdateOnly(t *testing.T) {
	st := storetest.New()
	st.AddUser(models.User{Email: "ann@example.com"})
	dir := newDirectory(st)

	res, err := dir.SetAdmin(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MatchedCount != 0 {
		t.Errorf("expected no match for unknown email, got %+v", res)
	}
	if u, _ := st.Users().GetByEmail(context.Background(), "ghost@example.com"); u != nil {
		t.Error("SetAdmin must not create users")
	}

	res, err = dir.SetAdmin(context.Background(), "ann@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ModifiedCount != 1 {
		t.Errorf("expected ann to be modified, got %+v", res)
	}
}

func TestDirectoryService_Doctors(t *testing.T) {
	st := storetest.New()
	dir := newDirectory(st)
	ctx := context.Background()

	if _, err := dir.CreateDoctor(ctx, models.Doctor{Email: "doc@example.com", Name: "Dr. Who"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := dir.CreateDoctor(ctx, models.Doctor{Email: "doc@example.com"})
	if utils.AsAppError(err).Kind != utils.KindConflict {
		t.Errorf("expected conflict for duplicate doctor, got %v", err)
	}
	_, err = dir.CreateDoctor(ctx, models.Doctor{Name: "No Email"})
	if utils.AsAppError(err).Kind != utils.KindBadRequest {
		t.Errorf("expected bad request for missing email, got %v", err)
	}

	docs, err := dir.ListDoctors(ctx)
	if err != nil || len(docs) != 1 {
		t.Fatalf("expected one doctor, got %v (err %v)", docs, err)
	}

	res, err := dir.DeleteDoctor(ctx, "doc@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DeletedCount != 1 {
		t.Errorf("expected 1 deleted, got %d", res.DeletedCount)
	}
}

func TestDirectoryService_DeleteUser(t *testing.T) {
	st := storetest.New()
	st.AddUser(models.User{Email: "ann@example.com"})
	dir := newDirectory(st)

	res, err := dir.DeleteUser(context.Background(), "ann@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DeletedCount != 1 {
		t.Errorf("expected 1 deleted, got %d", res.DeletedCount)
	}
	users, _ := dir.ListUsers(context.Background())
	if len(users) != 0 {
		t.Errorf("expected no users left, got %v", users)
	}
}
