package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/repository"
)

type UserService interface {
	List(ctx context.Context, actor policy.Actor, search string, page repository.Page) (*dto.Paginated[dto.UserResponse], error)
	Get(ctx context.Context, actor policy.Actor, username string) (*dto.UserResponse, error)
	Create(ctx context.Context, actor policy.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, actor policy.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, actor policy.Actor, username string) error

	Me(ctx context.Context, actor policy.Actor) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, actor policy.Actor, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteMe(ctx context.Context, actor policy.Actor) error

	// EnsureSuperuser creates the bootstrap superuser when it does not exist yet.
	EnsureSuperuser(ctx context.Context, username, email string) error
}

type userService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{userRepo: userRepo, logger: logger}
}

var userCollection = policy.Resource{Kind: policy.KindUser}

func userResource(u *models.User) policy.Resource {
	return policy.Resource{Kind: policy.KindUser, OwnerID: u.ID}
}

func (s *userService) List(ctx context.Context, actor policy.Actor, search string, page repository.Page) (*dto.Paginated[dto.UserResponse], error) {
	if err := authorize(actor, policy.ActionList, userCollection); err != nil {
		return nil, err
	}
	users, total, err := s.userRepo.List(ctx, search, page)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginated(users, total, dto.FromModelToUserResponse), nil
}

// load resolves username and authorizes action on it. A missing user is
// reported as such only to actors allowed to act on arbitrary users.
func (s *userService) load(ctx context.Context, actor policy.Actor, action policy.Action, username string) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, policy.ErrUnauthenticated
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		if err := authorize(actor, action, userCollection); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, action, userResource(user)); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, actor policy.Actor, username string) (*dto.UserResponse, error) {
	user, err := s.load(ctx, actor, policy.ActionRetrieve, username)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

func (s *userService) Create(ctx context.Context, actor policy.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := authorize(actor, policy.ActionCreate, userCollection); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      models.RoleUser,
	}

	v := &ValidationError{}
	if req.Role != nil {
		applyRole(v, user, *req.Role)
	}
	if err := s.validate(ctx, v, user); err != nil {
		return nil, err
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, duplicateUser(err)
	}
	s.logger.Info("User created", "user_id", user.ID, "username", user.Username, "by", actor.ID)

	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, actor policy.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.load(ctx, actor, policy.ActionUpdate, username)
	if err != nil {
		return nil, err
	}
	return s.patch(ctx, actor, user, req)
}

func (s *userService) Delete(ctx context.Context, actor policy.Actor, username string) error {
	user, err := s.load(ctx, actor, policy.ActionDelete, username)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return notFound(err)
	}
	s.logger.Info("User deleted", "user_id", user.ID, "by", actor.ID)
	return nil
}

func (s *userService) self(ctx context.Context, actor policy.Actor, action policy.Action) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, policy.ErrUnauthenticated
	}
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := authorize(actor, action, userResource(user)); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Me(ctx context.Context, actor policy.Actor) (*dto.UserResponse, error) {
	user, err := s.self(ctx, actor, policy.ActionRetrieve)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

func (s *userService) UpdateMe(ctx context.Context, actor policy.Actor, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.self(ctx, actor, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	return s.patch(ctx, actor, user, req)
}

func (s *userService) DeleteMe(ctx context.Context, actor policy.Actor) error {
	user, err := s.self(ctx, actor, policy.ActionDelete)
	if err != nil {
		return err
	}
	return notFound(s.userRepo.Delete(ctx, user.ID))
}

func (s *userService) patch(ctx context.Context, actor policy.Actor, user *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	v := &ValidationError{}
	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	// role changes by non-admins are dropped, not rejected
	if req.Role != nil && policy.CanAssignRole(actor) {
		applyRole(v, user, *req.Role)
	}

	if err := s.validate(ctx, v, user); err != nil {
		return nil, err
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, duplicateUser(err)
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

// validate checks field rules and uniqueness against every other user.
// Rule violations land in v; the returned error is a failed lookup.
func (s *userService) validate(ctx context.Context, v *ValidationError, user *models.User) error {
	validateUsername(v, user.Username)
	validateEmail(v, user.Email)
	validateProfileField(v, "first_name", user.FirstName)
	validateProfileField(v, "last_name", user.LastName)
	if len(v.Fields) > 0 {
		return nil
	}

	other, err := s.userRepo.FindByUsername(ctx, user.Username)
	switch {
	case err == nil && other.ID != user.ID:
		v.AddErr("username", ErrNameInUse)
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return err
	}

	other, err = s.userRepo.FindByEmail(ctx, user.Email)
	switch {
	case err == nil && other.ID != user.ID:
		v.AddErr("email", ErrEmailInUse)
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return err
	}
	return nil
}

func applyRole(v *ValidationError, user *models.User, role string) {
	r := models.Role(role)
	if !r.Valid() {
		v.Add("role", fmt.Sprintf("%q is not a valid choice.", role))
		return
	}
	user.Role = r
}

func duplicateUser(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fieldError(nonFieldErrors, errors.New("username or email already in use"))
	}
	return notFound(err)
}

func (s *userService) EnsureSuperuser(ctx context.Context, username, email string) error {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		if existing.Email != email {
			return fmt.Errorf("superuser %q exists with a different email", username)
		}
		s.logger.Debug("Superuser already present", "username", username)
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	v := &ValidationError{}
	validateUsername(v, username)
	validateEmail(v, email)
	if err := v.OrNil(); err != nil {
		return err
	}

	user := &models.User{
		Username:    username,
		Email:       email,
		Role:        models.RoleAdmin,
		IsSuperuser: true,
		IsActive:    true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("create superuser: %w", err)
	}
	s.logger.Info("Superuser created", "user_id", user.ID, "username", username)
	return nil
}
