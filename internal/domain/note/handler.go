package note

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
	g.GET("/soapnotes", h.List)
	g.POST("/soapnotes", h.Create)
	g.GET("/soapnotes/:id", h.Get)
	g.PUT("/soapnotes/:id", h.Update)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	n, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		if db.IsDataLayer(err) {
			return db.HTTPError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "note created",
		"note": map[string]interface{}{
			"note_id":       n.ID,
			"created_at":    n.CreatedAt,
			"updated_at":    n.UpdatedAt,
			"signed_status": n.SignedStatus,
		},
	})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if pid := c.QueryParam("patient_id"); pid != "" {
		patientID, err := uuid.Parse(pid)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		notes, err := h.svc.ListByPatient(ctx, patientID, pg.Limit, pg.Offset)
		if err != nil {
			return db.HTTPError(err)
		}
		return c.JSON(http.StatusOK, notes)
	}

	notes, err := h.svc.List(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid note id")
	}
	n, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid note id")
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
	return c.JSON(http.StatusOK, map[string]string{"message": "note updated"})
}
