package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinicbase/clinicbase/internal/config"
	"github.com/clinicbase/clinicbase/internal/domain/analytics"
	"github.com/clinicbase/clinicbase/internal/domain/files"
	"github.com/clinicbase/clinicbase/internal/domain/identity"
	"github.com/clinicbase/clinicbase/internal/domain/lab"
	"github.com/clinicbase/clinicbase/internal/domain/patient"
	"github.com/clinicbase/clinicbase/internal/domain/pharmacy"
	"github.com/clinicbase/clinicbase/internal/domain/record"
	"github.com/clinicbase/clinicbase/internal/domain/scheduling"
	"github.com/clinicbase/clinicbase/internal/platform/apperr"
	"github.com/clinicbase/clinicbase/internal/platform/auth"
	"github.com/clinicbase/clinicbase/internal/platform/blobstore"
	"github.com/clinicbase/clinicbase/internal/platform/middleware"
)

const version = "2.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinical records API server",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// All clinical data is volatile and lost on restart. The object store
	// backing is in-process too until a bucket-backed implementation is
	// configured.
	objects := blobstore.NewMemoryObjectStore(cfg.StorageBucketURL)
	e := newServer(cfg, logger, objects)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
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

// newServer wires the full application: record graph, services, middleware
// chain and every route group.
func newServer(cfg *config.Config, logger zerolog.Logger, objects blobstore.ObjectStore) *echo.Echo {
	graph := record.NewGraph()
	issuer := auth.NewIssuer([]byte(cfg.JWTSecret), time.Duration(cfg.TokenTTLHours)*time.Hour)
	identitySvc := identity.NewService(graph, issuer, auth.NewBcryptHasher())

	if cfg.SeedAdmin {
		if created, err := identitySvc.SeedAdmin("admin", "admin123"); err != nil {
			logger.Error().Err(err).Msg("failed to seed admin user")
		} else if created {
			logger.Info().Msg("seeded bootstrap admin user")
		}
	}

	gateway := blobstore.NewGateway(objects, time.Duration(cfg.StorageTimeoutSecs)*time.Second)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))

	api := e.Group("/api")
	api.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
	api.Use(middleware.BodyLimit(cfg.UploadMaxBytes))
	api.Use(middleware.RequestTimeout(time.Duration(cfg.StorageTimeoutSecs+5) * time.Second))

	api.GET("/health", healthHandler)

	identity.NewHandler(identitySvc).RegisterRoutes(api)

	protected := api.Group("", auth.Middleware(issuer), middleware.Audit(logger))
	patient.NewHandler(patient.NewService(graph)).RegisterRoutes(protected)
	scheduling.NewHandler(scheduling.NewService(graph, cfg.EnforcePatientRefs)).RegisterRoutes(protected)
	pharmacy.NewHandler(pharmacy.NewService(graph, cfg.EnforcePatientRefs)).RegisterRoutes(protected)
	lab.NewHandler(lab.NewService(graph, cfg.EnforcePatientRefs)).RegisterRoutes(protected)
	files.NewHandler(files.NewService(graph, gateway, cfg.UploadMaxBytes,
		time.Duration(cfg.SignedURLTTLSeconds)*time.Second)).RegisterRoutes(protected)
	analytics.NewHandler(graph).RegisterRoutes(protected)

	return e
}

func healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "Clinical records API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version,
		"features": []string{
			"Authentication & Authorization",
			"Patient Management",
			"Appointment Scheduling",
			"Prescription Management",
			"Lab Results",
			"File Upload",
			"Analytics",
		},
	})
}
