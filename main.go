package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"groupchat/internal/config"
	"groupchat/internal/db"
	"groupchat/internal/handlers"
	"groupchat/internal/logging"
	"groupchat/internal/observability"
	"groupchat/internal/rabbitmq"
	"groupchat/internal/repositories"
	"groupchat/internal/services"
	"groupchat/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "groupchat",
		Short:         "Group messaging backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}
	cmd.AddCommand(
		migrateSubcommand("up", "Apply all pending migrations", func(conn *sqlx.DB, log logrus.FieldLogger) error {
			return db.RunMigrations(conn, log)
		}),
		migrateSubcommand("status", "Print migration status", func(conn *sqlx.DB, _ logrus.FieldLogger) error {
			return db.MigrationStatus(conn)
		}),
		migrateSubcommand("down", "Roll back the latest migration", func(conn *sqlx.DB, _ logrus.FieldLogger) error {
			return db.RollbackMigration(conn)
		}),
	)
	return cmd
}

func migrateSubcommand(use, short string, run func(conn *sqlx.DB, log logrus.FieldLogger) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			conn, err := db.Open(cfg.DBDriver, cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer conn.Close()
			return run(conn, log)
		},
	}
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	shutdownTracing, err := observability.InitTracing(ctx, cfg.ServiceName, cfg.OTLPAddr)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.WithError(err).Warn("tracing shutdown failed")
		}
	}()

	database, err := db.Connect(cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.Exchange, log)
	defer publisher.Close()
	log.WithFields(logrus.Fields{
		"mode":   rabbitmq.PublisherMode(publisher),
		"reason": rabbitmq.PublisherNoopReason(publisher),
	}).Info("event publisher ready")

	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditKey, cfg.ServiceName, cfg.Environment, log)
	deps := services.Deps{Events: publisher}

	identity := services.NewIdentityService(repositories.NewUserRepo(database), deps)
	groups := services.NewGroupService(repositories.NewGroupRepo(database), identity, deps)
	messages := services.NewMessageService(repositories.NewMessageRepo(database), identity, groups, deps)

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.RouterConfig{
		Options: handlers.Options{
			Audit:           audit,
			Log:             log,
			MaxMessageLimit: cfg.MaxLimit,
		},
		Identity:    identity,
		Groups:      groups,
		Messages:    messages,
		ServiceName: cfg.ServiceName,
		DebugRoutes: cfg.DebugRoutes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("group chat service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func bootstrap() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}
