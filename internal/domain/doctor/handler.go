package doctor

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr/internal/platform/db"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/doctors", h.List)
	g.POST("/doctors", h.Create)
	g.PUT("/doctors/:id", h.Update)
}

func (h *Handler) List(c echo.Context) error {
	doctors, err := h.svc.List(c.Request().Context())
	if err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, doctors)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	d, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		if db.IsDataLayer(err) {
			return db.HTTPError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "doctor created",
		"doctorId": d.ID,
	})
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := h.svc.Update(c.Request().Context(), id, payload); err != nil {
		if db.IsDataLayer(err) {
			return db.HTTPError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "doctor updated"})
}
