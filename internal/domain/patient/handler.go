package patient

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr/internal/platform/db"
	"github.com/clinicore/emr/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/patients", h.List)
	g.POST("/patients", h.Create)
	g.GET("/patients/:id", h.Get)
	g.PUT("/patients/:id", h.Update)
	g.DELETE("/patients/:id", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	patients, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	p, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		if db.IsDataLayer(err) {
			return db.HTTPError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "patient created",
		"patientId": p.ID,
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
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
	return c.JSON(http.StatusOK, map[string]string{"message": "patient updated"})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "patient deleted"})
}
