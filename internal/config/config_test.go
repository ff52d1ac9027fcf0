package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.SharedSchema != "shared" {
		t.Errorf("expected shared schema default, got %s", cfg.SharedSchema)
	}
	if cfg.TenantClaim != "custom:tenant_id" {
		t.Errorf("expected default tenant claim, got %s", cfg.TenantClaim)
	}
	if cfg.DBMaxConns != 10 {
		t.Errorf("expected default max conns 10, got %d", cfg.DBMaxConns)
	}
	if cfg.DBConnectTimeout != 10*time.Second {
		t.Errorf("expected default connect timeout 10s, got %s", cfg.DBConnectTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DB_CLUSTER_ID", "emr-cluster")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("expected production mode")
	}
	if cfg.DBClusterID != "emr-cluster" {
		t.Errorf("expected cluster id, got %s", cfg.DBClusterID)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected 2 CORS origins, got %v", cfg.CORSOrigins)
	}
}

func TestResolvedAuthMode(t *testing.T) {
	cases := []struct {
		env, mode, want string
	}{
		{"development", "", "development"},
		{"production", "", "external"},
		{"staging", "", "external"},
		{"production", "development", "development"},
		{"development", "external", "external"},
	}
	for _, tc := range cases {
		cfg := &Config{Env: tc.env, AuthMode: tc.mode}
		if got := cfg.ResolvedAuthMode(); got != tc.want {
			t.Errorf("env=%s mode=%s: expected %s, got %s", tc.env, tc.mode, tc.want, got)
		}
	}
}

func TestValidate_RequiresDatabaseSource(t *testing.T) {
	cfg := &Config{Env: "development", TenantClaim: "custom:tenant_id", SharedSchema: "shared"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without DATABASE_URL or DB_CLUSTER_ID")
	}

	cfg.DBClusterID = "emr-cluster"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ExternalModeRequiresIssuer(t *testing.T) {
	cfg := &Config{
		Env:          "production",
		DatabaseURL:  "postgres://u:p@localhost:5432/emr",
		TenantClaim:  "custom:tenant_id",
		SharedSchema: "shared",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("production without AUTH_ISSUER must be rejected")
	}

	cfg.AuthIssuer = "https://auth.example.com"
	if err := cfg.Validate(); err == nil {
		t.Fatal("production without AUTH_JWKS_URL must be rejected")
	}

	cfg.AuthJWKSURL = "https://auth.example.com/.well-known/jwks.json"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownAuthMode(t *testing.T) {
	cfg := &Config{
		Env:          "production",
		AuthMode:     "magic",
		DatabaseURL:  "postgres://u:p@localhost:5432/emr",
		TenantClaim:  "custom:tenant_id",
		SharedSchema: "shared",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown AUTH_MODE must be rejected")
	}
}
