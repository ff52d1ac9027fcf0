package queue

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
	g.GET("/queue", h.List)
	g.GET("/waiting-queue", h.List) // legacy path used by older frontends
	g.POST("/queue", h.Enqueue)
	g.DELETE("/queue/:id", h.Remove)
	g.PATCH("/queue/:id/status", h.UpdateStatus)
}

func (h *Handler) List(c echo.Context) error {
	entries, err := h.svc.List(c.Request().Context())
	if err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) Enqueue(c echo.Context) error {
	var body struct {
		PatientID string  `json:"patientId"`
		Note      *string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if body.PatientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patientId is required")
	}
	patientID, err := uuid.Parse(body.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patientId")
	}

	e, err := h.svc.Enqueue(c.Request().Context(), patientID, body.Note)
	if err != nil {
		if db.IsDataLayer(err) {
			return db.HTTPError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":      "patient enqueued",
		"queueEntryId": e.ID,
	})
}

func (h *Handler) Remove(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid queue entry id")
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "queue entry removed"})
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid queue entry id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := h.svc.Transition(c.Request().Context(), id, body.Status); err != nil {
		if db.IsDataLayer(err) {
			return db.HTTPError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "queue entry updated", "status": body.Status})
}
