package identity

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caretriage/caretriage/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/users/me", h.Me)
	api.GET("/specialists", h.ListSpecialists)
}

// Me returns the caller's own account, creating it on first sign-in.
func (h *Handler) Me(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return c.JSON(http.StatusOK, u)
}

// ListSpecialists returns the specialist directory, used by the reassignment
// picker.
func (h *Handler) ListSpecialists(c echo.Context) error {
	pg := pagination.FromContext(c)
	users, total, err := h.svc.ListSpecialists(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, total, pg.Limit, pg.Offset))
}
