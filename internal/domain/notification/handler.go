package notification

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caretriage/caretriage/internal/domain/identity"
	"github.com/caretriage/caretriage/internal/platform/apperror"
	"github.com/caretriage/caretriage/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/notifications", h.List)
	api.PUT("/notifications/:id/read", h.MarkRead)
}

// List returns the caller's notifications, newest first.
func (h *Handler) List(c echo.Context) error {
	u := identity.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), u.ID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) MarkRead(c echo.Context) error {
	u := identity.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid notification id")
	}

	if err := h.svc.MarkRead(c.Request().Context(), u, id); err != nil {
		return echo.NewHTTPError(apperror.Status(err), err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
