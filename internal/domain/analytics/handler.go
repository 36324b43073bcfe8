package analytics

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/hms/internal/platform/auth"
	"github.com/clinicore/hms/internal/platform/ml"
)

type Handler struct {
	svc   *Service
	model *ml.Model
}

func NewHandler(svc *Service, model *ml.Model) *Handler {
	return &Handler{svc: svc, model: model}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("doctor", "receptionist"))
	g.GET("/analytics/dashboard", h.Dashboard)

	api.GET("/analytics/high-risk", h.HighRisk, auth.RequireRole("doctor"))
	api.GET("/model/stats", h.ModelStats, auth.RequireRole("doctor"))
}

func (h *Handler) Dashboard(c echo.Context) error {
	stats, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) HighRisk(c echo.Context) error {
	threshold := DefaultHighRiskThreshold
	if raw := c.QueryParam("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid threshold")
		}
		threshold = v
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = v
	}

	items, err := h.svc.HighRisk(c.Request().Context(), threshold, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ModelStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.model.Stats())
}
