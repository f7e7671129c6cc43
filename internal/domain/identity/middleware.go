package identity

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caretriage/caretriage/internal/platform/auth"
)

const currentUserKey = "current_user"

// LoadUser returns middleware that resolves the authenticated principal to a
// stored user (creating it on first sign-in) and attaches it to the echo
// context for downstream handlers.
func LoadUser(svc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := auth.PrincipalFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			u, err := svc.EnsureUser(c.Request().Context(), p)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "resolve user")
			}
			c.Set(currentUserKey, u)
			return next(c)
		}
	}
}

// CurrentUser returns the user attached by LoadUser, or nil.
func CurrentUser(c echo.Context) *User {
	u, _ := c.Get(currentUserKey).(*User)
	return u
}

// RequireRole returns middleware that rejects callers whose role is not in
// the given set. Admins always pass.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			if u.IsAdmin() {
				return next(c)
			}
			for _, r := range roles {
				if u.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}
