package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinicore/emr/internal/config"
	"github.com/clinicore/emr/internal/domain/clinic"
	"github.com/clinicore/emr/internal/domain/doctor"
	"github.com/clinicore/emr/internal/domain/note"
	"github.com/clinicore/emr/internal/domain/patient"
	"github.com/clinicore/emr/internal/domain/queue"
	"github.com/clinicore/emr/internal/platform/auth"
	"github.com/clinicore/emr/internal/platform/db"
	"github.com/clinicore/emr/internal/platform/middleware"
	"github.com/clinicore/emr/internal/platform/secrets"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "emr-server",
		Short: "Multi-tenant EMR API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tenantCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the EMR API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// connectFunc builds the dialer the pool holder calls on first use and after
// invalidation. With DATABASE_URL set the credential store is bypassed;
// otherwise every dial re-resolves credentials so a rotated password never
// sticks to the process.
func connectFunc(cfg *config.Config) (db.ConnectFunc, error) {
	pc := db.PoolConfig{
		MaxConns:       cfg.DBMaxConns,
		MinConns:       cfg.DBMinConns,
		ConnectTimeout: cfg.DBConnectTimeout,
		IdleTimeout:    cfg.DBIdleTimeout,
	}

	if cfg.DatabaseURL != "" {
		return func(ctx context.Context) (*pgxpool.Pool, error) {
			return db.NewPool(ctx, cfg.DatabaseURL, pc)
		}, nil
	}

	client, err := secrets.NewClient(context.Background())
	if err != nil {
		return nil, err
	}
	resolver := secrets.NewResolver(client, cfg.DBClusterID, cfg.DBName)

	return func(ctx context.Context) (*pgxpool.Pool, error) {
		creds, err := resolver.Resolve(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve database credentials: %w", err)
		}
		pool, err := db.NewPool(ctx, creds.DSN(), pc)
		if err != nil {
			// A ping failure right after resolution usually means the
			// secret rotated mid-flight; drop the cached location so
			// the next attempt starts from discovery.
			resolver.Invalidate()
			return nil, err
		}
		return pool, nil
	}, nil
}

// dialPool connects once for CLI commands that need a live pool immediately.
func dialPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	connect, err := connectFunc(cfg)
	if err != nil {
		return nil, err
	}
	return connect(ctx)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations to a tenant schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := dialPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if dir == "" {
				dir = cfg.MigrationsDir
			}
			migrator := db.NewMigrator(pool, dir, cfg.SharedSchema)
			fmt.Printf("Running migrations on schema: %s\n", schema)

			count, err := migrator.Up(ctx, schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "", "Target tenant schema (required)")
	upCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	upCmd.MarkFlagRequired("schema")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status for a tenant schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := dialPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if dir == "" {
				dir = cfg.MigrationsDir
			}
			migrator := db.NewMigrator(pool, dir, cfg.SharedSchema)
			statuses, err := migrator.Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for schema: %s\n", schema)
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("schema", "", "Target tenant schema (required)")
	statusCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	statusCmd.MarkFlagRequired("schema")
	cmd.AddCommand(statusCmd)

	return cmd
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant schema and run its migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if !db.ValidTenantID(name) {
				return fmt.Errorf("invalid tenant name %q: must start with a letter or underscore and contain only letters, digits, and underscores", name)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := dialPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			sharedDir, _ := cmd.Flags().GetString("shared-dir")
			if err := db.EnsureSharedSchema(ctx, pool, cfg.SharedSchema, sharedDir); err != nil {
				return err
			}

			fmt.Printf("Creating tenant schema: %s\n", name)
			if err := db.CreateTenantSchema(ctx, pool, name, cfg.MigrationsDir, cfg.SharedSchema); err != nil {
				return err
			}
			fmt.Println("Tenant created successfully.")
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Tenant identifier (becomes the schema name)")
	createCmd.Flags().String("shared-dir", "migrations/shared", "Path to shared-schema migrations")

	cmd.AddCommand(createCmd)
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database pool holder. The pool is dialed lazily on the first request
	// that needs it, so a transient credential-store outage at boot does not
	// keep the server from starting.
	connect, err := connectFunc(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure database connector")
	}
	holder := db.NewPoolHolder(connect)
	defer holder.Close()

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Tenant-ID"},
	}))

	// Auth middleware
	switch cfg.ResolvedAuthMode() {
	case "development":
		e.Use(auth.DevAuthMiddleware())
	default:
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:      cfg.AuthIssuer,
			Audience:    cfg.AuthAudience,
			JWKSURL:     cfg.AuthJWKSURL,
			TenantClaim: cfg.TenantClaim,
			ExemptPaths: []string{"/healthcheck"},
		}))
	}

	// Rate limiting keys on the verified tenant claim, so it must run after
	// auth has populated the request context.
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	e.Use(middleware.RateLimit(rateLimitCfg))

	// Tenant middleware: scopes a pooled connection to the caller's schema
	e.Use(db.TenantMiddleware(holder, cfg.SharedSchema, "/healthcheck"))

	// Health check (tenant- and auth-exempt)
	e.GET("/healthcheck", db.HealthHandler(holder))

	// Domain handlers
	root := e.Group("")

	patientHandler := patient.NewHandler(patient.NewService(patient.NewRepo()))
	patientHandler.RegisterRoutes(root)

	noteHandler := note.NewHandler(note.NewService(note.NewRepo()))
	noteHandler.RegisterRoutes(root)

	queueHandler := queue.NewHandler(queue.NewService(queue.NewRepo()))
	queueHandler.RegisterRoutes(root)

	doctorHandler := doctor.NewHandler(doctor.NewService(doctor.NewRepo()))
	doctorHandler.RegisterRoutes(root)

	clinicHandler := clinic.NewHandler(clinic.NewService(clinic.NewRepo()))
	clinicHandler.RegisterRoutes(root)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("auth_mode", cfg.ResolvedAuthMode()).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
