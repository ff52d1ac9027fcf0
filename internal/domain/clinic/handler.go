package clinic

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
	g.GET("/settings", h.GetSettings)
	g.PUT("/settings", h.UpdateSettings)
	g.GET("/form-fields", h.ListFormFields)
	g.POST("/form-fields", h.CreateFormField)
	g.DELETE("/form-fields/:id", h.DeleteFormField)
}

func (h *Handler) GetSettings(c echo.Context) error {
	settings, err := h.svc.GetSettings(c.Request().Context())
	if err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(c echo.Context) error {
	var in SettingsInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	settings, err := h.svc.UpdateSettings(c.Request().Context(), in)
	if err != nil {
		if db.IsDataLayer(err) {
			return db.HTTPError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *Handler) ListFormFields(c echo.Context) error {
	fields, err := h.svc.ListFormFields(c.Request().Context())
	if err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, fields)
}

func (h *Handler) CreateFormField(c echo.Context) error {
	var in FormFieldInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	f, err := h.svc.CreateFormField(c.Request().Context(), in)
	if err != nil {
		if db.IsDataLayer(err) {
			return db.HTTPError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "form field created",
		"fieldId": f.ID,
	})
}

func (h *Handler) DeleteFormField(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid field id")
	}
	if err := h.svc.DeleteFormField(c.Request().Context(), id); err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "form field deleted"})
}
