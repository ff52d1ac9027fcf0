package db

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
)

// SQLSTATE classes the handlers care about.
const (
	codeInvalidSchema  = "3F000"
	codeUndefinedTable = "42P01"
	codeForeignKey     = "23503"
	codeUnique         = "23505"
	codeCheck          = "23514"
	dataExceptionClass = "22" // malformed scalar values (dates, numerics, json)
)

// HTTPError translates a data-layer error into the HTTP error the client
// should see. Schema-not-found means the tenant passed validation but was
// never provisioned; constraint violations name the offending constraint so
// the caller can tell which reference or field was bad. Anything unclassified
// becomes a 500 carrying the underlying message for diagnostics.
func HTTPError(err error) *echo.HTTPError {
	if errors.Is(err, pgx.ErrNoRows) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeInvalidSchema || pgErr.Code == codeUndefinedTable:
			return echo.NewHTTPError(http.StatusNotFound, "tenant schema not provisioned")
		case pgErr.Code == codeForeignKey:
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("invalid reference: %s", pgErr.ConstraintName))
		case pgErr.Code == codeUnique:
			return echo.NewHTTPError(http.StatusConflict,
				fmt.Sprintf("duplicate value: %s", pgErr.ConstraintName))
		case pgErr.Code == codeCheck:
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("constraint violated: %s", pgErr.ConstraintName))
		case strings.HasPrefix(pgErr.Code, dataExceptionClass):
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("malformed value: %s", pgErr.Message))
		}
	}

	// Operator-facing diagnostic; a hardening pass should redact this before
	// exposing the API outside the clinic network.
	return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{
		"message": "internal server error",
		"error":   err.Error(),
	})
}
