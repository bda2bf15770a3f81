// Package identity carries the per-request authenticated caller.
//
// An Identity is an immutable value bound to a single request by the
// authentication middleware. Handlers read it through FromContext; nothing
// is shared between concurrent requests and nothing survives the request.
package identity

import (
	"github.com/gofiber/fiber/v2"

	"github.com/s-puig/ecommerce-demo/internal/core/domain"
)

// localsKey is the fiber.Ctx locals slot the identity lives in.
const localsKey = "auth.identity"

// Identity represents who is making the current request
type Identity struct {
	UserID uint
	Role   domain.Role
}

// IsAdministrator reports whether the caller carries the administrator role.
func (i Identity) IsAdministrator() bool {
	return i.Role == domain.RoleAdministrator
}

// Install binds an identity to the request scope
func Install(c *fiber.Ctx, id Identity) {
	c.Locals(localsKey, id)
}

// FromContext returns the identity bound to the request, if any
func FromContext(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(localsKey).(Identity)
	return id, ok
}
