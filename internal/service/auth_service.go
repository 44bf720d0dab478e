package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/carventory/internal/auth"
	"github.com/spec-kit/carventory/internal/config"
	"github.com/spec-kit/carventory/internal/domain"
	"github.com/spec-kit/carventory/internal/repository"
	apperrors "github.com/spec-kit/carventory/pkg/util"
)

// LoginResult is the outcome of a successful login through any resolver.
type LoginResult struct {
	User      *domain.User
	Admin     *domain.AdminUser
	Token     string
	ExpiresAt time.Time
}

// identityResolver attempts to authenticate an email/password pair against one
// account store. Returning errNoAccount hands over to the next resolver;
// any other error is final.
type identityResolver func(ctx context.Context, email, password string) (*LoginResult, error)

// errNoAccount signals that the resolver has no account for the email.
var errNoAccount = pgx.ErrNoRows

// AuthService coordinates user registration and the login fallback chain.
type AuthService struct {
	users      repository.UserRepository
	admins     repository.AdminUserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resolvers  []identityResolver
}

// NewAuthService builds the service. The login chain tries the user store
// first, then the admin store; first success wins.
func NewAuthService(cfg config.Config, users repository.UserRepository, admins repository.AdminUserRepository) *AuthService {
	s := &AuthService{
		users:      users,
		admins:     admins,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
	s.resolvers = []identityResolver{s.resolveUser, s.resolveAdmin}
	return s
}

// RegisterUser creates a new buyer/seller account.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("user already exists", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login authenticates against each identity store in order. The aggregate
// failure when no resolver matched is a generic unauthorized error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	for _, resolve := range s.resolvers {
		result, err := resolve(ctx, email, password)
		if err == errNoAccount {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, apperrors.NewUnauthorized("invalid credentials")
}

func (s *AuthService) resolveUser(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err == pgx.ErrNoRows {
		return nil, errNoAccount
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, false, false)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) resolveAdmin(ctx context.Context, email, password string) (*LoginResult, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err == pgx.ErrNoRows {
		return nil, errNoAccount
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !admin.IsVerified {
		return nil, apperrors.NewUnauthorized("please verify your email first")
	}
	if !admin.IsApproved {
		return nil, apperrors.NewUnauthorized("your account is pending approval")
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(admin.ID, admin.IsAdmin, admin.IsSuperAdmin)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &LoginResult{Admin: admin, Token: token, ExpiresAt: exp}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
