package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/carventory/internal/auth"
	"github.com/spec-kit/carventory/internal/config"
	"github.com/spec-kit/carventory/internal/domain"
	"github.com/spec-kit/carventory/internal/events"
	"github.com/spec-kit/carventory/internal/mailer"
	"github.com/spec-kit/carventory/internal/repository"
	apperrors "github.com/spec-kit/carventory/pkg/util"
)

// AdminService runs the showroom onboarding workflow: signup, token-gated
// email verification, and super-admin approval before login is permitted.
type AdminService struct {
	admins      repository.AdminUserRepository
	tokens      repository.VerificationTokenStore
	mail        mailer.Sender
	dispatcher  events.Dispatcher
	tokenMgr    *auth.TokenManager
	logger      *zap.Logger
	bcryptCost  int
	frontendURL string
}

// AdminDependencies bundles collaborators for the admin service.
type AdminDependencies struct {
	AdminRepo  repository.AdminUserRepository
	TokenStore repository.VerificationTokenStore
	Mailer     mailer.Sender
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// AdminSignupInput is the validated signup payload.
type AdminSignupInput struct {
	Name         string
	Email        string
	Password     string
	PhoneNumber  string
	NationalID   string
	ShowroomName string
	TaxID        *string
}

// NewAdminService builds the service.
func NewAdminService(cfg config.Config, deps AdminDependencies) *AdminService {
	return &AdminService{
		admins:      deps.AdminRepo,
		tokens:      deps.TokenStore,
		mail:        deps.Mailer,
		dispatcher:  deps.Dispatcher,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		logger:      deps.Logger,
		bcryptCost:  cfg.Auth.BcryptCost,
		frontendURL: cfg.App.FrontendURL,
	}
}

// Signup registers an unverified, unapproved admin account and dispatches a
// verification email. A failed send does not roll back the account; the
// returned flag tells the caller whether the email went out.
func (s *AdminService) Signup(ctx context.Context, input AdminSignupInput) (*domain.AdminUser, bool, error) {
	if existing, err := s.admins.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, false, apperrors.NewConflict("an admin account already exists with this email address", nil)
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, false, apperrors.MapError(err)
	}
	if existing, err := s.admins.GetByNationalID(ctx, input.NationalID); err == nil && existing != nil {
		return nil, false, apperrors.NewConflict("an admin account already exists with this national ID number", nil)
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, false, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, false, apperrors.MapError(err)
	}

	admin := &domain.AdminUser{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		PhoneNumber:  input.PhoneNumber,
		NationalID:   input.NationalID,
		ShowroomName: input.ShowroomName,
		TaxID:        input.TaxID,
		IsAdmin:      true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, false, apperrors.MapError(err)
	}

	token, err := s.tokens.Issue(ctx, admin.ID)
	if err != nil {
		return nil, false, apperrors.MapError(err)
	}

	verificationURL := fmt.Sprintf("%s/verify-admin?token=%s", s.frontendURL, token)
	body := fmt.Sprintf(`<h1>Welcome to CarVentory!</h1>
<p>Thank you for registering as a showroom admin. Please click the link below to verify your email address:</p>
<a href="%s">Verify Email</a>
<p>This link will expire in 24 hours. If you did not create this account, please ignore this email.</p>`, verificationURL)

	if err := s.mail.Send(ctx, admin.Email, "Verify your CarVentory Admin Account", body); err != nil {
		// Account stands; the caller is told the email may not have arrived.
		s.logger.Warn("verification email failed", zap.String("email", admin.Email), zap.Error(err))
		return admin, false, nil
	}
	return admin, true, nil
}

// Verify consumes a verification token and marks the bound account verified.
// Approval remains with the super admin.
func (s *AdminService) Verify(ctx context.Context, token string) error {
	adminID, err := s.tokens.Consume(ctx, token)
	if err == repository.ErrTokenNotFound {
		return apperrors.NewInvalidToken("invalid or expired verification token")
	}
	if err != nil {
		return apperrors.MapError(err)
	}

	admin, err := s.admins.GetByID(ctx, adminID)
	if err == pgx.ErrNoRows {
		return apperrors.NewInvalidToken("invalid or expired verification token")
	}
	if err != nil {
		return apperrors.MapError(err)
	}

	admin.IsVerified = true
	if err := s.admins.Update(ctx, admin); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListPending returns verified accounts awaiting a super-admin decision.
func (s *AdminService) ListPending(ctx context.Context) ([]domain.AdminUser, error) {
	pending, err := s.admins.ListPendingApproval(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return pending, nil
}

// Decide resolves a pending account: approval flips the flag, rejection
// deletes the account entirely. Either way the applicant is notified.
func (s *AdminService) Decide(ctx context.Context, adminID string, approve bool) error {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err == pgx.ErrNoRows {
		return apperrors.NewNotFound("admin", nil)
	}
	if err != nil {
		return apperrors.MapError(err)
	}

	if approve {
		admin.IsApproved = true
		if err := s.admins.Update(ctx, admin); err != nil {
			return apperrors.MapError(err)
		}
	} else {
		if err := s.admins.Delete(ctx, adminID); err != nil {
			return apperrors.MapError(err)
		}
	}

	s.publish(ctx, events.Event{
		Type:    events.EventAdminDecided,
		ActorID: adminID,
		Payload: events.AdminDecidedPayload{
			AdminID:    admin.ID,
			AdminEmail: admin.Email,
			Approved:   approve,
		},
	})
	return nil
}

// Login authenticates a showroom admin directly (admin dashboard entry point).
func (s *AdminService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewUnauthorized("invalid credentials")
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

func (s *AdminService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
