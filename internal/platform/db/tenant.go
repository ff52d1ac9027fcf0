package db

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	TenantIDKey contextKey = "tenant_id"
	DBConnKey   contextKey = "db_conn"
)

// Tenant identifiers are interpolated into SET search_path (identifiers
// cannot be bound parameters), so they must satisfy the unquoted-identifier
// grammar: a leading letter or underscore, then letters, digits, underscores.
var tenantIDPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidTenantID reports whether id is safe to use as a schema qualifier.
func ValidTenantID(id string) bool {
	return tenantIDPattern.MatchString(id)
}

// Execer is the slice of a connection the search-path directive needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// SetSearchPath issues the single scoping directive that points all
// unqualified table references on conn at the tenant's schema, with the
// shared schema as fallback for cross-tenant objects. Pooled connections are
// reused across tenants, so this must run once per borrow, never implicitly.
func SetSearchPath(ctx context.Context, conn Execer, tenantID, sharedSchema string) error {
	if !ValidTenantID(tenantID) {
		return fmt.Errorf("invalid tenant identifier: %q", tenantID)
	}
	if !ValidTenantID(sharedSchema) {
		return fmt.Errorf("invalid shared schema name: %q", sharedSchema)
	}
	_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s, %s", tenantID, sharedSchema))
	if err != nil {
		return fmt.Errorf("set search_path: %w", err)
	}
	return nil
}

// TenantMiddleware borrows a pooled connection, scopes it to the tenant named
// by the verified auth claim, and releases it when the handler returns. The
// tenant identifier comes only from the claim set by the auth middleware;
// a request that authenticated but carries no tenant is rejected with 400,
// which is a distinct failure from 401.
func TenantMiddleware(holder *PoolHolder, sharedSchema string, exemptPaths ...string) echo.MiddlewareFunc {
	exempt := make(map[string]bool, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodOptions || exempt[c.Request().URL.Path] {
				return next(c)
			}

			tenantID, _ := c.Get("jwt_tenant_id").(string)
			tenantID = strings.TrimSpace(tenantID)
			if tenantID == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "missing tenant identifier")
			}
			if !ValidTenantID(tenantID) {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid tenant identifier")
			}

			ctx := c.Request().Context()
			pool, err := holder.Get(ctx)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}

			conn, err := pool.Acquire(ctx)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
			defer conn.Release()

			if err := SetSearchPath(ctx, conn, tenantID, sharedSchema); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "tenant resolution failed")
			}

			ctx = context.WithValue(ctx, TenantIDKey, tenantID)
			ctx = context.WithValue(ctx, DBConnKey, conn)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("tenant_id", tenantID)

			return next(c)
		}
	}
}

// ConnFromContext retrieves the tenant-scoped database connection from context.
func ConnFromContext(ctx context.Context) *pgxpool.Conn {
	conn, _ := ctx.Value(DBConnKey).(*pgxpool.Conn)
	return conn
}

// TenantFromContext retrieves the tenant ID from context.
func TenantFromContext(ctx context.Context) string {
	tid, _ := ctx.Value(TenantIDKey).(string)
	return tid
}
