package triage

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
	api.POST("/queries", h.Submit)
	api.GET("/queries", h.List)
	api.GET("/queries/:id", h.Get)
	api.PUT("/queries/:id/verify", h.Verify,
		identity.RequireRole(identity.RoleSpecialist))
}

type submitRequest struct {
	Content string `json:"content"`
}

type verifyRequest struct {
	Approve          bool       `json:"approve"`
	ModifiedResponse *string    `json:"modified_response,omitempty"`
	ReassignTo       *uuid.UUID `json:"reassign_to,omitempty"`
}

func (h *Handler) Submit(c echo.Context) error {
	u := identity.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	q, err := h.svc.Submit(c.Request().Context(), u, req.Content)
	if err != nil {
		return echo.NewHTTPError(apperror.Status(err), err.Error())
	}
	return c.JSON(http.StatusCreated, q)
}

func (h *Handler) List(c echo.Context) error {
	u := identity.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), u, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	u := identity.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query id")
	}

	q, err := h.svc.Get(c.Request().Context(), u, id)
	if err != nil {
		return echo.NewHTTPError(apperror.Status(err), err.Error())
	}
	return c.JSON(http.StatusOK, q)
}

func (h *Handler) Verify(c echo.Context) error {
	u := identity.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query id")
	}

	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	q, err := h.svc.Verify(c.Request().Context(), u, id, VerifyRequest{
		Approve:          req.Approve,
		ModifiedResponse: req.ModifiedResponse,
		ReassignTo:       req.ReassignTo,
	})
	if err != nil {
		return echo.NewHTTPError(apperror.Status(err), err.Error())
	}
	return c.JSON(http.StatusOK, q)
}
