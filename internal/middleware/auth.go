package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/auth"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/httpx"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/repository"
)

const (
	localIdentity = "identity"
	localRoleSlug = "roleSlug"
)

// Protect verifies the bearer token and confirms the account still exists.
// On success the request carries the caller's identity and role slug.
func Protect(issuer *auth.TokenIssuer, users *repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := auth.ParseBearer(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return httpx.FromErr(c, err)
		}
		who, err := issuer.VerifyAccess(token)
		if err != nil {
			return httpx.FromErr(c, err)
		}

		var roleSlug string
		switch who.Kind {
		case models.KindAdmin:
			a, err := users.FindAdminByID(c.Context(), who.ID)
			if err != nil {
				if errors.Is(err, apperr.ErrNotFound) {
					return httpx.FromErr(c, apperr.ErrUnauthorized)
				}
				return httpx.FromErr(c, err)
			}
			roleSlug = a.Role
		default:
			e, err := users.FindEmployeeByID(c.Context(), who.ID)
			if err != nil {
				if errors.Is(err, apperr.ErrNotFound) {
					return httpx.FromErr(c, apperr.ErrUnauthorized)
				}
				return httpx.FromErr(c, err)
			}
			roleSlug = e.Role
		}

		c.Locals(localIdentity, who)
		c.Locals(localRoleSlug, roleSlug)
		return c.Next()
	}
}

// IdentityFromCtx returns the identity Protect stored on the request.
func IdentityFromCtx(c *fiber.Ctx) (models.Identity, bool) {
	who, ok := c.Locals(localIdentity).(models.Identity)
	return who, ok
}

// HasPermission gates a route on a role permission key. Admin-kind callers
// pass unconditionally; everyone else needs a role whose permission list
// carries the key or the wildcard.
func HasPermission(roles *repository.RoleRepository, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, ok := IdentityFromCtx(c)
		if !ok {
			return httpx.FromErr(c, apperr.ErrUnauthorized)
		}
		if who.Kind == models.KindAdmin {
			return c.Next()
		}
		slug, _ := c.Locals(localRoleSlug).(string)
		if slug == "" {
			return httpx.FromErr(c, apperr.ErrForbidden)
		}
		role, err := roles.FindBySlug(c.Context(), slug)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return httpx.FromErr(c, apperr.ErrForbidden)
			}
			return httpx.FromErr(c, err)
		}
		if !role.Allows(permission) {
			return httpx.FromErr(c, apperr.ErrForbidden)
		}
		return c.Next()
	}
}
