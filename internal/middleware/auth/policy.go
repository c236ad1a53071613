package auth

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bug_tracker/internal/logging"
	"github.com/Skotchmaster/bug_tracker/internal/models"
)

const MsgForbidden = "Access denied."

type RoleSet []models.Role

func (s RoleSet) Allows(role string) bool {
	return slices.Contains(s, models.Role(role))
}

// Policy maps "METHOD path" (echo route path, e.g. "GET /api/bugs/:id") to the
// roles allowed on it. It is filled while routes are registered and only read
// afterwards.
type Policy struct {
	routes map[string]RoleSet
}

func NewPolicy() *Policy {
	return &Policy{routes: map[string]RoleSet{}}
}

func routeKey(method, path string) string {
	return method + " " + path
}

func (p *Policy) Require(method, path string, roles ...models.Role) {
	p.routes[routeKey(method, path)] = RoleSet(roles)
}

func (p *Policy) RolesFor(method, path string) (RoleSet, bool) {
	s, ok := p.routes[routeKey(method, path)]
	return s, ok
}

// Guard rejects requests to gated routes with 403 unless the attached identity
// holds one of the route's roles. Routes missing from the table are open.
func (p *Policy) Guard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, gated := p.RolesFor(c.Request().Method, c.Path())
			if !gated {
				return next(c)
			}

			id, ok := IdentityFrom(c)
			if !ok || !roles.Allows(id.Role) {
				logging.FromContext(c.Request().Context()).Warn("access_denied",
					"status", 403, "route", c.Path(), "role", id.Role)
				return echo.NewHTTPError(http.StatusForbidden, MsgForbidden)
			}
			return next(c)
		}
	}
}
