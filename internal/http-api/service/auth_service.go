package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/middleware/auth"
)

// Notifier delivers a confirmation code to the user's email out of band.
type Notifier interface {
	Send(ctx context.Context, email, code string) error
}

// TokenIssuer mints access tokens.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	ObtainToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
}

type AuthOptions struct {
	CodeLength    int
	SingleUseCode bool
	// NotifyTimeout bounds one background delivery attempt.
	NotifyTimeout time.Duration
}

type authService struct {
	userRepo repository.UserRepository
	issuer   TokenIssuer
	notifier Notifier
	opts     AuthOptions
	logger   *slog.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	issuer TokenIssuer,
	notifier Notifier,
	opts AuthOptions,
	logger *slog.Logger,
) AuthService {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 10 * time.Second
	}
	return &authService{
		userRepo: userRepo,
		issuer:   issuer,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
	}
}

// Signup registers a pending user and dispatches a confirmation code.
// Repeating it with the same username and email re-sends the current code.
func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	v := &ValidationError{}
	validateUsername(v, username)
	validateEmail(v, email)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	byName, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if byName != nil && byName.Email == email {
		if err := s.resend(ctx, byName); err != nil {
			return nil, err
		}
		return &dto.SignupResponse{Username: username, Email: email}, nil
	}

	if byName != nil {
		v.AddErr("username", ErrNameInUse)
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		v.AddErr("email", ErrEmailInUse)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	code, err := auth.GenerateCode(s.opts.CodeLength)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:         username,
		Email:            email,
		Role:             models.RoleUser,
		ConfirmationCode: &code,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent signup
			return nil, fieldError(nonFieldErrors, errors.New("username or email already in use"))
		}
		return nil, err
	}

	s.logger.Info("User signed up", "user_id", user.ID, "username", username)
	s.dispatch(user.Email, code)
	return &dto.SignupResponse{Username: username, Email: email}, nil
}

// resend re-dispatches the stored code, issuing one if the user holds none.
func (s *authService) resend(ctx context.Context, user *models.User) error {
	if user.ConfirmationCode != nil {
		s.dispatch(user.Email, *user.ConfirmationCode)
		return nil
	}

	code, err := auth.GenerateCode(s.opts.CodeLength)
	if err != nil {
		return err
	}
	if err := s.userRepo.SetConfirmationCode(ctx, user.ID, code); err != nil {
		return err
	}
	s.dispatch(user.Email, code)
	return nil
}

// dispatch hands the code to the notifier without blocking the request.
func (s *authService) dispatch(email, code string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.NotifyTimeout)
		defer cancel()
		if err := s.notifier.Send(ctx, email, code); err != nil {
			s.logger.Warn("Failed to deliver confirmation code", "email", email, "error", err)
		}
	}()
}

// ObtainToken exchanges a confirmation code for an access token.
func (s *authService) ObtainToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	v := &ValidationError{}
	if req.Username == "" {
		v.Add("username", "This field is required.")
	}
	if req.ConfirmationCode == "" {
		v.Add("confirmation_code", "This field is required.")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, notFound(err)
	}
	if user.ConfirmationCode == nil || !auth.CodesEqual(*user.ConfirmationCode, req.ConfirmationCode) {
		return nil, fieldError("confirmation_code", ErrInvalidCode)
	}

	if s.opts.SingleUseCode {
		ok, err := s.userRepo.ConsumeConfirmationCode(ctx, user.ID, req.ConfirmationCode)
		if err != nil {
			return nil, err
		}
		if !ok {
			// consumed by a concurrent request
			return nil, fieldError("confirmation_code", ErrInvalidCode)
		}
	} else if !user.IsActive {
		if err := s.userRepo.Activate(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	token, err := s.issuer.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.logger.Info("Access token issued", "user_id", user.ID)
	return &dto.TokenResponse{Token: token}, nil
}
