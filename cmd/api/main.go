package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventplanner/config"
	"eventplanner/internal/adapters/auth"
	"eventplanner/internal/adapters/email"
	delivery "eventplanner/internal/delivery/http"
	"eventplanner/internal/delivery/http/middleware"

	"eventplanner/internal/delivery/http/controllers"
	"eventplanner/internal/domain"
	"eventplanner/internal/repository/postgres"
	"eventplanner/internal/services"
)

const serviceTimeout = 10 * time.Second

// roleLookup adapts the user service to middleware.RoleLookup.
type roleLookup struct {
	users domain.UserService
}

func (l *roleLookup) RoleOf(ctx context.Context, userID string) (string, error) {
	user, err := l.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// @title Event Planner API
// @version 1.0
// @description Backend for planning events: accounts, events, rosters, invitations, and tasks.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	taskRepo := postgres.NewTaskRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(12)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, emailService, logger, cfg.JWTExpiry, serviceTimeout)
	userService := services.NewUserService(userRepo, participantRepo, serviceTimeout)
	eventService := services.NewEventService(eventRepo, participantRepo, userRepo, serviceTimeout)
	invitationService := services.NewInvitationService(invitationRepo, eventRepo, participantRepo, userRepo, emailService, logger, serviceTimeout)
	taskService := services.NewTaskService(taskRepo, eventRepo, participantRepo, cfg.TasksRequireParticipant, serviceTimeout)

	// Controllers
	authController := controllers.NewAuthController(logger, authService)
	userController := controllers.NewUserController(logger, userService)
	eventController := controllers.NewEventController(logger, eventService)
	invitationController := controllers.NewInvitationController(logger, invitationService)
	taskController := controllers.NewTaskController(logger, taskService)

	requireAuth := middleware.RequireAuth(tokenVerifier, logger)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin, &roleLookup{users: userService}, logger)

	mux := delivery.NewRouter(
		authController,
		userController,
		eventController,
		invitationController,
		taskController,
		requireAuth,
		requireAdmin,
	)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.InvitationSweepInterval > 0 {
		go sweepInvitations(ctx, invitationService, cfg.InvitationSweepInterval, logger)
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}

// sweepInvitations periodically expires pending invitations past their TTL.
func sweepInvitations(ctx context.Context, svc domain.InvitationService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.SweepExpired(ctx); err != nil {
				logger.Error("invitation sweep failed", "err", err)
			}
		}
	}
}
