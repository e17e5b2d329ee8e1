package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gatherly/config"
	"gatherly/internal/adapters/auth"
	"gatherly/internal/adapters/email"
	httpdelivery "gatherly/internal/delivery/http"
	"gatherly/internal/delivery/http/controllers"
	"gatherly/internal/metrics"
	"gatherly/internal/repository/postgres"
	"gatherly/internal/services"
)

const (
	shutdownTimeout = 10 * time.Second
	connectTimeout  = 10 * time.Second
)

func newServeCommand() *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

The server applies pending migrations, then listens on PORT until SIGINT or SIGTERM,
draining in-flight requests before exiting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")
	return cmd
}

func runServer(ctx context.Context, skipMigrations bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger := config.NewLogger()

	if !skipMigrations {
		if err := postgres.MigrateUp(cfg.DBUrl, cfg.MigrationsPath); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	db, err := postgres.Open(connectCtx, cfg.DBUrl)
	cancel()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := metrics.New()
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	if err := m.RegisterDB(db, "gatherly"); err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	handler, err := buildHandler(cfg, logger, db, m)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	case <-sigCtx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildHandler wires adapters, services and controllers into the router.
func buildHandler(cfg *config.Config, logger *slog.Logger, db *sql.DB, m *metrics.Metrics) (http.Handler, error) {
	store := postgres.NewStore(db)
	hasher := auth.NewBcryptHasher(cfg.PasswordCost)
	tokens := auth.NewJWTManager(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:          cfg.Mail.AWSRegion,
			AccessKeyID:     cfg.Mail.AWSAccessKeyID,
			SecretAccessKey: cfg.Mail.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init mailer: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	timeout := cfg.RequestTimeout
	authService := services.NewAuthService(store, hasher, tokens, tokens, services.AuthConfig{
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		Timeout:         timeout,
	})

	return httpdelivery.NewRouter(httpdelivery.RouterConfig{
		Logger:         logger,
		Verifier:       tokens,
		Metrics:        m,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, httpdelivery.Controllers{
		Auth:        controllers.NewAuthController(logger, authService, cfg.CookieSecure),
		Users:       controllers.NewUserController(logger, services.NewUserService(store, timeout), cfg.CookieSecure),
		Events:      controllers.NewEventController(logger, services.NewEventService(store, timeout)),
		Groups:      controllers.NewGroupController(logger, services.NewGroupService(store, timeout)),
		Invitations: controllers.NewInvitationController(logger, services.NewInvitationService(store, emailService, logger, timeout)),
		RSVPs:       controllers.NewRSVPController(logger, services.NewRSVPService(store, timeout)),
		Comments:    controllers.NewCommentController(logger, services.NewCommentService(store, timeout)),
	}), nil
}
