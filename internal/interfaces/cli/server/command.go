package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"noryx/internal/infrastructure/config"
	"noryx/internal/infrastructure/database"
	"noryx/internal/infrastructure/panel"
	"noryx/internal/infrastructure/scheduler"
	httpRouter "noryx/internal/interfaces/http"
	"noryx/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Noryx HTTP server together with the background schedulers.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run schema migration on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ginMode := mapEnvToGinMode(env)
	cfg.Server.Mode = ginMode

	if err := logger.Init(&cfg.Logger, ginMode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server", "environment", env, "auto_migrate", autoMigrate)

	gin.SetMode(ginMode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			logger.Warn("auto-migration is enabled in production environment")
		}
		if err := database.Migrate(database.Get()); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		logger.Info("auto-migration completed")
	}

	panelClient := panel.NewClient(&cfg.Panel, logger.NewLogger())
	panelClient.StartSessionRefresh(context.Background())
	defer panelClient.Stop()

	router := httpRouter.NewRouter(database.Get(), panelClient, cfg, logger.NewLogger())
	router.SetupRoutes()

	jobs, err := scheduler.NewManager(logger.NewLogger())
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := jobs.RegisterExpiryScan(router.ExpiryScan, cfg.Scheduler.ExpiryScanInterval()); err != nil {
		return fmt.Errorf("failed to register expiry scan: %w", err)
	}
	if err := jobs.RegisterMailingDrain(router.MailingDrain, cfg.Scheduler.MailingDrainInterval()); err != nil {
		return fmt.Errorf("failed to register mailing drain: %w", err)
	}
	if err := jobs.RegisterCleanupSweep(scheduler.JobFunc(func(ctx context.Context) error {
		_, err := router.Cleanup.Execute(ctx)
		return err
	}), cfg.Scheduler.ExpiryScanInterval()); err != nil {
		return fmt.Errorf("failed to register cleanup sweep: %w", err)
	}
	jobs.Start()
	defer func() {
		if err := jobs.Stop(); err != nil {
			logger.Error("failed to stop scheduler", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "address", cfg.Server.GetAddr(), "mode", ginMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
