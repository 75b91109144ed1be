package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/opp/planner/internal/config"
	"github.com/opp/planner/internal/domain/account"
	"github.com/opp/planner/internal/domain/intake"
	"github.com/opp/planner/internal/platform/auth"
	"github.com/opp/planner/internal/platform/careplan"
	"github.com/opp/planner/internal/platform/db"
	"github.com/opp/planner/internal/platform/exportstore"
	"github.com/opp/planner/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "opp-server",
		Short:        "Optimal Protocol Planner API server",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(extractCmd())
	root.AddCommand(careplanCmd())
	return root
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*db.Store, error) {
	return db.Open(ctx, db.Options{
		Driver:   cfg.DatabaseDriver,
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the OPP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := db.NewMigrator(store, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) to %s.\n", count, store.Driver)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (default: embedded)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			statuses, err := db.NewMigrator(store, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printMigrationStatus(cmd.OutOrStdout(), statuses)
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory (default: embedded)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func printMigrationStatus(w io.Writer, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(w, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

// analyzeFile runs a lab report from disk through the same path as an
// upload.
func analyzeFile(ctx context.Context, path string, logger zerolog.Logger) (*intake.Analysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return intake.NewService(nil, nil, logger).Analyze(ctx, f, info.Size())
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <report.pdf>",
		Short: "Print the labs and advisories found in a PDF lab report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
			a, err := analyzeFile(cmd.Context(), args[0], logger)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"labs":       a.Labs,
				"advisories": a.Advisories,
			})
		},
	}
}

func careplanCmd() *cobra.Command {
	var form intake.IntakeForm
	var out string

	cmd := &cobra.Command{
		Use:   "careplan <report.pdf>",
		Short: "Render a care plan PDF from a lab report without starting the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
			a, err := analyzeFile(cmd.Context(), args[0], logger)
			if err != nil {
				return err
			}
			form.Labs = a.Labs

			plan, err := intake.NewService(nil, nil, logger).CarePlan(form)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := careplan.Render(f, plan); err != nil {
				f.Close()
				return fmt.Errorf("render care plan: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d labs, %d alerts).\n", out, len(plan.Labs), len(plan.Advisories))
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "Patient name")
	cmd.Flags().StringVar(&form.DOB, "dob", "", "Date of birth")
	cmd.Flags().StringVar(&form.Gender, "gender", "Female", "Female, Male or Other")
	cmd.Flags().StringVar(&form.Height, "height", "", "Height")
	cmd.Flags().StringVar(&form.Weight, "weight", "", "Weight")
	cmd.Flags().StringVar(&form.Notes, "notes", "", "Provider notes")
	cmd.Flags().StringVar(&out, "out", intake.CarePlanFilename, "Output file")
	return cmd
}

// app holds the wired server and the background work that outlives a
// request.
type app struct {
	echo    *echo.Echo
	sweeper *exportstore.Sweeper
}

func newApp(cfg *config.Config, store *db.Store, logger zerolog.Logger) (*app, error) {
	signingKey, generated, err := auth.ResolveSigningKey(cfg.AuthSigningKey)
	if err != nil {
		return nil, err
	}
	if generated {
		logger.Warn().Msg("AUTH_SIGNING_KEY not set; using a random key, tokens will not survive a restart")
	}
	tokens := auth.NewTokens(auth.JWTConfig{SigningKey: signingKey})

	exports, err := exportstore.New(cfg.ExportDir)
	if err != nil {
		return nil, err
	}
	sweeper, err := exportstore.NewSweeper(exports, cfg.ExportSweepSchedule, cfg.ExportRetention, logger)
	if err != nil {
		return nil, err
	}

	var creds account.CredentialRepository
	var patients intake.PatientRepository
	switch store.Driver {
	case db.DriverPostgres:
		creds = account.NewCredentialRepoPG(store.Pool)
		patients = intake.NewPatientRepoPG(store.Pool)
	default:
		creds = account.NewCredentialRepoSQLite(store.SQL)
		patients = intake.NewPatientRepoSQLite(store.SQL)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.UploadLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(store))

	apiV1 := e.Group("/api/v1")
	account.NewHandler(account.NewService(creds, tokens, logger)).RegisterRoutes(apiV1)

	protected := apiV1.Group("", auth.JWTMiddleware(tokens), middleware.Audit(logger))
	intake.NewHandler(intake.NewService(patients, exports, logger)).RegisterRoutes(protected)

	return &app{echo: e, sweeper: sweeper}, nil
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Env)

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer store.Close()
	logger.Info().Str("driver", store.Driver).Msg("connected to database")

	applied, err := db.NewMigrator(store, "").Up(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to apply migrations")
	}
	if applied > 0 {
		logger.Info().Int("count", applied).Msg("migrations applied")
	}

	a, err := newApp(cfg, store, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}
	a.sweeper.Start()

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := a.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.echo.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	if err := a.sweeper.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("export sweeper did not stop in time")
	}
	logger.Info().Msg("server stopped")
	return nil
}
