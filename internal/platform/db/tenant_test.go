package db

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type recordingExecer struct {
	stmts []string
}

func (r *recordingExecer) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	r.stmts = append(r.stmts, sql)
	return pgconn.NewCommandTag("SET"), nil
}

func TestValidTenantID(t *testing.T) {
	valid := []string{"abc", "clinic_1", "tenant_abc_123", "A1B2", "_internal"}
	for _, v := range valid {
		if !ValidTenantID(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}

	invalid := []string{"", "1clinic", "clinic-a", "clinic a", "clinic;drop", "clinic.schema", "shared,public"}
	for _, v := range invalid {
		if ValidTenantID(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestSetSearchPath(t *testing.T) {
	rec := &recordingExecer{}
	if err := SetSearchPath(context.Background(), rec, "clinic_a", "shared"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.stmts) != 1 {
		t.Fatalf("expected exactly 1 statement, got %d", len(rec.stmts))
	}
	want := "SET search_path TO clinic_a, shared"
	if rec.stmts[0] != want {
		t.Errorf("expected %q, got %q", want, rec.stmts[0])
	}
}

func TestSetSearchPath_InvalidTenant(t *testing.T) {
	rec := &recordingExecer{}
	if err := SetSearchPath(context.Background(), rec, "clinic;drop", "shared"); err == nil {
		t.Fatal("expected error for invalid tenant identifier")
	}
	if len(rec.stmts) != 0 {
		t.Errorf("no statement should run for an invalid tenant, got %d", len(rec.stmts))
	}
}

func TestSetSearchPath_InvalidSharedSchema(t *testing.T) {
	rec := &recordingExecer{}
	if err := SetSearchPath(context.Background(), rec, "clinic_a", "shared schema"); err == nil {
		t.Fatal("expected error for invalid shared schema name")
	}
	if len(rec.stmts) != 0 {
		t.Errorf("no statement should run for an invalid schema, got %d", len(rec.stmts))
	}
}

func failingHolder() *PoolHolder {
	return NewPoolHolder(func(ctx context.Context) (*pgxpool.Pool, error) {
		return nil, errors.New("dial failed")
	})
}

func invokeTenantMW(t *testing.T, method, path, tenantID string, exempt ...string) (bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if tenantID != "" {
		c.Set("jwt_tenant_id", tenantID)
	}

	called := false
	next := func(c echo.Context) error {
		called = true
		return nil
	}
	mw := TenantMiddleware(failingHolder(), "shared", exempt...)
	err := mw(next)(c)
	return called, err
}

func TestTenantMiddleware_MissingTenant(t *testing.T) {
	called, err := invokeTenantMW(t, http.MethodGet, "/patients", "")
	if called {
		t.Error("handler should not run without a tenant")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestTenantMiddleware_InvalidTenant(t *testing.T) {
	called, err := invokeTenantMW(t, http.MethodGet, "/patients", "bad-tenant;drop")
	if called {
		t.Error("handler should not run with an invalid tenant")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestTenantMiddleware_DatabaseUnavailable(t *testing.T) {
	called, err := invokeTenantMW(t, http.MethodGet, "/patients", "clinic_a")
	if called {
		t.Error("handler should not run when the pool cannot be dialed")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %v", err)
	}
}

func TestTenantMiddleware_ExemptPath(t *testing.T) {
	called, err := invokeTenantMW(t, http.MethodGet, "/healthcheck", "", "/healthcheck")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("exempt path should reach the handler without a tenant")
	}
}

func TestTenantMiddleware_OptionsBypass(t *testing.T) {
	called, err := invokeTenantMW(t, http.MethodOptions, "/patients", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("preflight requests should bypass tenant resolution")
	}
}

func TestTenantFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TenantIDKey, "clinic_a")
	if got := TenantFromContext(ctx); got != "clinic_a" {
		t.Errorf("expected clinic_a, got %q", got)
	}
	if got := TenantFromContext(context.Background()); got != "" {
		t.Errorf("expected empty tenant, got %q", got)
	}
}
