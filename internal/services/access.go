package services

import (
	"context"

	"github.com/harentsoaR/doctors-portal/internal/store"
	"github.com/harentsoaR/doctors-portal/internal/utils"
)

// AccessService answers role questions from the user collection. Nothing is
// cached: a promotion or demotion takes effect on the very next request.
type AccessService struct {
	Users store.UserRepository
}

func NewAccessService(users store.UserRepository) *AccessService {
	return &AccessService{Users: users}
}

// IsAdmin reports whether email belongs to an admin. An unknown email is not an admin.
func (s *AccessService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return false, utils.StoreUnavailable(err)
	}
	return user.IsAdmin(), nil
}
