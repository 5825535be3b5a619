package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shortlink.backend/internal/config"
	"shortlink.backend/internal/infrastructure/datasources/postgres"
	"shortlink.backend/internal/infrastructure/mail"
	"shortlink.backend/internal/infrastructure/models"
	"shortlink.backend/pkg/logger"
	"shortlink.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openPool   = postgres.NewConnection
	openGorm   = postgres.OpenGorm
	migrateDB  = models.AutoMigrate
	listen     = func(srv *http.Server) error { return srv.ListenAndServe() }
	newMailer  = func(cfg config.MailConfig) mail.Sender { return mail.NewSender(cfg.Host, mail.NewSMTPSender(cfg)) }
	closeRedis = redis.Close
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Sync()
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var autoMigrate bool

	serve := func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context(), autoMigrate)
	}

	root := &cobra.Command{
		Use:          "shortlink",
		Short:        "URL shortener backend",
		SilenceUsage: true,
		RunE:         serve,
	}
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP server and background jobs",
		RunE:  serve,
	}
	serveCmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "migrate the schema before serving")
	root.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "migrate the schema before serving")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate()
		},
	}

	root.AddCommand(serveCmd, migrateCmd)
	return root
}

// openDatabase returns a GORM handle over a pinged postgres pool
func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, *sql.DB, error) {
	pool, err := openPool(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := openGorm(pool)
	if err != nil {
		_ = pool.Close()
		return nil, nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return db, pool, nil
}

func runMigrate() error {
	cfg := loadCfg()
	initLog(cfg.Server.Env)
	defer logger.Sync()

	db, pool, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrateDB(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info(context.Background(), "Database migrated")
	return nil
}

func runServe(ctx context.Context, autoMigrate bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := loadCfg()
	initLog(cfg.Server.Env)
	defer logger.Sync()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer func() { _ = closeRedis() }()
	logger.Info(ctx, "Redis initialized")

	db, pool, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info(ctx, "Connected to PostgreSQL")

	if autoMigrate {
		if err := migrateDB(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := buildApp(cfg, db, newMailer(cfg.Mail))
	if err != nil {
		return err
	}

	jobsCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()
	app.scheduler.Start(jobsCtx)
	defer app.scheduler.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- listen(srv) }()
	logger.Info(ctx, "Server starting",
		zap.String("port", cfg.Server.Port),
		zap.String("public_host", cfg.Server.PublicHost))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
