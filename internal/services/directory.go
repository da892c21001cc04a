package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/harentsoaR/doctors-portal/internal/models"
	"github.com/harentsoaR/doctors-portal/internal/store"
	"github.com/harentsoaR/doctors-portal/internal/utils"
)

// UpsertOutcome is the body of PUT /user/:email.
type UpsertOutcome struct {
	Result *store.UpdateResult `json:"result"`
	Token  string              `json:"token"`
}

// DirectoryService manages user and doctor records.
type DirectoryService struct {
	Users   store.UserRepository
	Doctors store.DoctorRepository
	Issuer  *utils.TokenIssuer
	Logger  *zap.Logger
}

func NewDirectoryService(users store.UserRepository, doctors store.DoctorRepository, issuer *utils.TokenIssuer, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{Users: users, Doctors: doctors, Issuer: issuer, Logger: logger}
}

// UpsertUser creates or updates the user keyed by email with the given profile
// fields and issues a fresh token for it. Email and role are never taken from fields.
func (s *DirectoryService) UpsertUser(ctx context.Context, email string, fields map[string]any) (*UpsertOutcome, error) {
	if email == "" {
		return nil, utils.BadRequest("Email is required")
	}
	user, err := userFromFields(email, fields)
	if err != nil {
		return nil, err
	}
	result, err := s.Users.UpsertByEmail(ctx, user)
	if err != nil {
		return nil, utils.StoreUnavailable(err)
	}
	token, err := s.Issuer.GenerateJWT(email)
	if err != nil {
		return nil, utils.Internal(err)
	}
	return &UpsertOutcome{Result: result, Token: token}, nil
}

func userFromFields(email string, fields map[string]any) (models.User, error) {
	user := models.User{Email: email}
	for k, v := range fields {
		switch k {
		case "email", "role":
			continue
		case "name":
			name, ok := v.(string)
			if !ok {
				return user, utils.BadRequest("Name must be a string")
			}
			user.Name = name
		default:
			if !models.IsStorableField(k) {
				continue
			}
			if user.Extra == nil {
				user.Extra = make(map[string]any)
			}
			user.Extra[k] = v
		}
	}
	return user, nil
}

// SetAdmin promotes an existing user. Unknown emails are left alone and show up
// as a zero match count.
func (s *DirectoryService) SetAdmin(ctx context.Context, email string) (*store.UpdateResult, error) {
	result, err := s.Users.SetRole(ctx, email, models.RoleAdmin)
	if err != nil {
		return nil, utils.StoreUnavailable(err)
	}
	s.Logger.Info("user promoted to admin", zap.String("email", email), zap.Int64("matched", result.MatchedCount))
	return result, nil
}

func (s *DirectoryService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, utils.StoreUnavailable(err)
	}
	return users, nil
}

func (s *DirectoryService) DeleteUser(ctx context.Context, email string) (*store.DeleteResult, error) {
	result, err := s.Users.DeleteByEmail(ctx, email)
	if err != nil {
		return nil, utils.StoreUnavailable(err)
	}
	return result, nil
}

func (s *DirectoryService) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.Doctors.List(ctx)
	if err != nil {
		return nil, utils.StoreUnavailable(err)
	}
	return doctors, nil
}

func (s *DirectoryService) CreateDoctor(ctx context.Context, doctor models.Doctor) (*store.InsertResult, error) {
	if doctor.Email == "" {
		return nil, utils.BadRequest("Doctor email is required")
	}
	result, err := s.Doctors.Insert(ctx, &doctor)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, utils.Conflict("A doctor with this email already exists")
	}
	if err != nil {
		return nil, utils.StoreUnavailable(err)
	}
	return result, nil
}

func (s *DirectoryService) DeleteDoctor(ctx context.Context, email string) (*store.DeleteResult, error) {
	result, err := s.Doctors.DeleteByEmail(ctx, email)
	if err != nil {
		return nil, utils.StoreUnavailable(err)
	}
	return result, nil
}
