package users

import (
	"context"
	"errors"
	"strconv"

	"github.com/Domenick1991/airlines/internal/domain"
	"github.com/Domenick1991/airlines/internal/logger"
	"github.com/Domenick1991/airlines/internal/repository"
	"github.com/Domenick1991/airlines/internal/validation"
)

type UserUseCase interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, req UpdateRequest, partial bool) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// UpdateRequest carries the editable account fields. Nil means absent.
type UpdateRequest struct {
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

type UserService struct {
	repo repository.UserRepository
	log  logger.Logger
}

func NewUserService(repo repository.UserRepository, log logger.Logger) *UserService {
	if log == nil {
		log = logger.Nop()
	}
	return &UserService{repo: repo, log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	uid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, validation.InvalidUser(id)
	}
	u, err := s.repo.User(ctx, uid)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, validation.InvalidUser(id)
	}
	return u, err
}

// Update replaces the account fields (PUT) or only the supplied ones
// (partial, PATCH). A full update requires a username.
func (s *UserService) Update(ctx context.Context, id string, req UpdateRequest, partial bool) (*domain.User, error) {
	if !partial && (req.Username == nil || *req.Username == "") {
		return nil, validation.MissingParams([]string{"username"})
	}
	if req.Username != nil && *req.Username == "" {
		return nil, validation.MissingParams([]string{"username"})
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if partial {
		apply(&u.Username, req.Username)
		apply(&u.FirstName, req.FirstName)
		apply(&u.LastName, req.LastName)
		apply(&u.Email, req.Email)
	} else {
		u.Username = *req.Username
		u.FirstName = deref(req.FirstName)
		u.LastName = deref(req.LastName)
		u.Email = deref(req.Email)
	}

	switch err := s.repo.UpdateUser(ctx, *u); {
	case errors.Is(err, domain.ErrDuplicate):
		return nil, validation.UsernameTaken()
	case errors.Is(err, domain.ErrNotFound):
		return nil, validation.InvalidUser(id)
	case err != nil:
		return nil, err
	}
	return u, nil
}

// Delete removes the account; seats held by its bookings are released.
func (s *UserService) Delete(ctx context.Context, id string) error {
	uid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return validation.InvalidUser(id)
	}
	if err := s.repo.DeleteUser(ctx, uid); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return validation.InvalidUser(id)
		}
		return err
	}
	s.log.Info("user deleted", logger.F("user_id", uid))
	return nil
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

var _ UserUseCase = (*UserService)(nil)
