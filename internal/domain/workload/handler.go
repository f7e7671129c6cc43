package workload

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caretriage/caretriage/internal/domain/identity"
	"github.com/caretriage/caretriage/internal/platform/apperror"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	guard := identity.RequireRole(identity.RoleSpecialist)
	api.GET("/specialists/:id/workload", h.GetWorkload, guard)
	api.POST("/specialists/:id/workload", h.SetWorkload, guard)
}

type setWorkloadRequest struct {
	MaxQueries int `json:"max_queries"`
}

type workloadResponse struct {
	SpecialistID uuid.UUID `json:"specialist_id"`
	MaxQueries   int       `json:"max_queries"`
}

func (h *Handler) GetWorkload(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid specialist id")
	}

	max, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, workloadResponse{SpecialistID: id, MaxQueries: max})
}

func (h *Handler) SetWorkload(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid specialist id")
	}

	var req setWorkloadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	caller := identity.CurrentUser(c)
	if caller == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	if err := h.svc.Set(c.Request().Context(), caller, id, req.MaxQueries); err != nil {
		return echo.NewHTTPError(apperror.Status(err), err.Error())
	}
	return c.JSON(http.StatusOK, workloadResponse{SpecialistID: id, MaxQueries: req.MaxQueries})
}
