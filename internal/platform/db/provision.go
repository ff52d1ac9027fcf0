package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateTenantSchema onboards a clinic: it creates the tenant's schema and
// runs all tenant migrations inside it. Every tenant identifier accepted by
// the router must correspond to a schema created here; handlers treat a
// missing schema as a user-visible not-found, never a crash.
func CreateTenantSchema(ctx context.Context, pool *pgxpool.Pool, tenantID, migrationsDir, sharedSchema string) error {
	if !ValidTenantID(tenantID) {
		return fmt.Errorf("invalid tenant identifier: %q", tenantID)
	}

	if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", tenantID)); err != nil {
		return fmt.Errorf("create schema %s: %w", tenantID, err)
	}

	if migrationsDir != "" {
		migrator := NewMigrator(pool, migrationsDir, sharedSchema)
		if _, err := migrator.Up(ctx, tenantID); err != nil {
			return fmt.Errorf("run migrations for %s: %w", tenantID, err)
		}
	}

	return nil
}

// EnsureSharedSchema creates the cross-tenant schema and runs its migrations
// (trigger functions and extensions that every tenant schema references).
func EnsureSharedSchema(ctx context.Context, pool *pgxpool.Pool, sharedSchema, migrationsDir string) error {
	if !ValidTenantID(sharedSchema) {
		return fmt.Errorf("invalid shared schema name: %q", sharedSchema)
	}

	if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", sharedSchema)); err != nil {
		return fmt.Errorf("create schema %s: %w", sharedSchema, err)
	}

	if migrationsDir != "" {
		migrator := NewMigrator(pool, migrationsDir, sharedSchema)
		if _, err := migrator.Up(ctx, sharedSchema); err != nil {
			return fmt.Errorf("run shared migrations: %w", err)
		}
	}

	return nil
}
