package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/carventory/internal/domain"
	"github.com/spec-kit/carventory/internal/repository"
	apperrors "github.com/spec-kit/carventory/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectType domain.SubjectType
	User        *domain.User
	Admin       *domain.AdminUser
}

// ID returns the caller's identity regardless of subject type.
func (p *Principal) ID() string {
	switch {
	case p.User != nil:
		return p.User.ID
	case p.Admin != nil:
		return p.Admin.ID
	}
	return ""
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	admins repository.AdminUserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, admins repository.AdminUserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, admins: admins}
}

func (m *AuthMiddleware) bearerClaims(c *fiber.Ctx) (*Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid or expired token")
	}
	return claims, nil
}

// RequireUser resolves the bearer token against the users table and attaches
// the principal to the request context.
func (m *AuthMiddleware) RequireUser(c *fiber.Ctx) error {
	claims, err := m.bearerClaims(c)
	if err != nil {
		return err
	}

	user, err := m.users.GetByID(c.Context(), claims.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{SubjectType: domain.SubjectTypeUser, User: user})
	return c.Next()
}

// RequireAdmin resolves the bearer token against the admin_users table and
// additionally requires a verified, approved admin account.
func (m *AuthMiddleware) RequireAdmin(c *fiber.Ctx) error {
	claims, err := m.bearerClaims(c)
	if err != nil {
		return err
	}

	admin, err := m.admins.GetByID(c.Context(), claims.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("admin not found")
		}
		return apperrors.MapError(err)
	}
	if !admin.CanLogin() || !admin.IsAdmin {
		return apperrors.NewForbidden("admin access required")
	}

	c.Locals(principalKey, &Principal{SubjectType: domain.SubjectTypeAdmin, Admin: admin})
	return c.Next()
}

// RequireSuperAdmin gates approval-workflow endpoints.
func (m *AuthMiddleware) RequireSuperAdmin(c *fiber.Ctx) error {
	claims, err := m.bearerClaims(c)
	if err != nil {
		return err
	}

	admin, err := m.admins.GetByID(c.Context(), claims.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("admin not found")
		}
		return apperrors.MapError(err)
	}
	if !admin.IsSuperAdmin {
		return apperrors.NewForbidden("super admin access required")
	}

	c.Locals(principalKey, &Principal{SubjectType: domain.SubjectTypeAdmin, Admin: admin})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
