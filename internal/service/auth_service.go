package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clubhub/internal/auth"
	apperrors "clubhub/internal/errors"
	"clubhub/internal/metrics"
	"clubhub/internal/model"
	"clubhub/internal/repository"
	"clubhub/internal/validation"
)

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the login payload. Only presence is checked; anything else
// is reported as invalid credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	WhoAmI(ctx context.Context, token string) (*model.User, error)
	Logout(ctx context.Context, id *auth.Identity) error
}

type authService struct {
	userRepo      repository.UserRepository
	hasher        *auth.PasswordHasher
	jwtService    *auth.JWTService
	authenticator *auth.Authenticator
	tokenStore    auth.Denylist
	validate      *validator.Validate
	metrics       metrics.Recorder
	log           *zap.Logger
}

// AuthServiceDeps groups the collaborators of the auth service.
type AuthServiceDeps struct {
	Users         repository.UserRepository
	Hasher        *auth.PasswordHasher
	JWT           *auth.JWTService
	Authenticator *auth.Authenticator
	// TokenStore is nil when revocation is disabled.
	TokenStore auth.Denylist
	Metrics    metrics.Recorder
	Logger     *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(deps AuthServiceDeps) AuthService {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Authenticator == nil {
		deps.Authenticator = auth.NewAuthenticator(deps.JWT, deps.TokenStore, deps.Logger)
	}
	return &authService{
		userRepo:      deps.Users,
		hasher:        deps.Hasher,
		jwtService:    deps.JWT,
		authenticator: deps.Authenticator,
		tokenStore:    deps.TokenStore,
		validate:      validation.New(),
		metrics:       deps.Metrics,
		log:           deps.Logger,
	}
}

// Register creates a USER account and issues its first token.
func (s *authService) Register(ctx context.Context, in RegisterInput) (res *AuthResult, err error) {
	defer func() { s.record("register", err) }()

	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, expiresAt, err := s.jwtService.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Login verifies credentials. Unknown email and wrong password are the same error.
func (s *authService) Login(ctx context.Context, in LoginInput) (res *AuthResult, err error) {
	defer func() { s.record("login", err) }()

	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.VerifyDummy(in.Password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.log.Debug("login rejected", zap.Uint("user_id", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("user logged in", zap.Uint("user_id", user.ID))
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// WhoAmI decodes token and returns the account as currently stored.
func (s *authService) WhoAmI(ctx context.Context, token string) (user *model.User, err error) {
	defer func() { s.record("whoami", err) }()

	id, err := s.authenticator.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, id.UserID)
}

func (s *authService) profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Logout denylists the caller's token until it expires. Without a token
// store it does nothing and the client simply discards the token.
func (s *authService) Logout(ctx context.Context, id *auth.Identity) (err error) {
	defer func() { s.record("logout", err) }()

	if id == nil {
		return apperrors.ErrUnauthenticated
	}
	if s.tokenStore == nil {
		return nil
	}
	if err := s.tokenStore.RevokeToken(ctx, id.TokenID, time.Until(id.ExpiresAt)); err != nil {
		return err
	}
	s.log.Info("token revoked", zap.Uint("user_id", id.UserID))
	return nil
}

func (s *authService) record(operation string, err error) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = apperrors.Code(err)
	}
	s.metrics.RecordAuth(operation, outcome)
}
