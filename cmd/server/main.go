package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryllupspakken/backend/internal/automation"
	"github.com/bryllupspakken/backend/internal/config"
	"github.com/bryllupspakken/backend/internal/contactform"
	"github.com/bryllupspakken/backend/internal/handler"
	"github.com/bryllupspakken/backend/internal/logging"
	"github.com/bryllupspakken/backend/internal/metrics"
	"github.com/bryllupspakken/backend/internal/notify"
	"github.com/bryllupspakken/backend/internal/repository"
	"github.com/bryllupspakken/backend/internal/service"
	"github.com/bryllupspakken/backend/pkg/auth"
	"github.com/bryllupspakken/backend/pkg/sanity"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	_ = godotenv.Load()
	logger := logging.Setup("bryllupspakken-api")

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("failed to load config", "error", err)
	}

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	requestRepo := repository.NewPgContactRequestRepository(pool)
	eventRepo := repository.NewPgContactRequestEventRepository(pool)
	adminRepo := repository.NewPgAdminUserRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)

	// Without SMTP the summary is only logged.
	var sender notify.Sender
	if cfg.SMTP.Enabled() {
		sender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
		})
	} else {
		logger.Warn("SMTP not configured, contact notifications will only be logged")
		sender = notify.NewLogSender(logger, uuid.NewString)
	}
	notifier := notify.NewNotifier(sender, notify.Addressing{
		To:      cfg.Contact.Notification.To,
		From:    cfg.Contact.Notification.From,
		Subject: cfg.Contact.Notification.Subject,
	}, logger)
	forwarder := automation.NewForwarder(automation.Config{
		URL:    cfg.Webhook.URL,
		Secret: cfg.Webhook.Secret,
	}, nil, logger)

	cms := sanity.NewClient(sanity.Config{
		ProjectID:  cfg.Sanity.ProjectID,
		Dataset:    cfg.Sanity.Dataset,
		Token:      cfg.Sanity.Token,
		APIVersion: cfg.Sanity.APIVersion,
		UseCDN:     cfg.Sanity.UseCDN,
	})
	if !cms.Configured() {
		logger.Warn("Sanity not configured, content endpoints will fail")
	}

	contactService := service.NewContactService(requestRepo, eventRepo, notifier, forwarder, logger)
	contentService := service.NewContentService(cms, logger)
	authService := service.NewAuthService(adminRepo)
	sessionService := service.NewSessionService(sessionRepo)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	if _, err := sessionService.PurgeExpired(bgCtx); err != nil {
		logger.Warn("initial session purge failed", "error", err)
	}
	go sessionService.RunPurge(bgCtx, time.Hour)

	h := handler.New(pool, cfg.FrontendURL, handler.HealthCheck{
		Name: "cms",
		Check: func(context.Context) error {
			if !cms.Configured() {
				return sanity.ErrNotConfigured
			}
			return nil
		},
	})
	contactHandler := handler.NewContactHandler(contactService, contactform.ServiceOptions(cfg.Contact.ServiceOptions))
	contentHandler := handler.NewContentHandler(contentService)
	authHandler := handler.NewAuthHandler(authService, sessionService, handler.AuthConfig{
		GoogleClientID:     cfg.Google.ClientID,
		GoogleClientSecret: cfg.Google.ClientSecret,
		BackendURL:         cfg.BackendURL,
		FrontendURL:        cfg.FrontendURL,
		SecureCookies:      cfg.IsProduction(),
	})
	meHandler := handler.NewMeHandler(authService)
	providersHandler := handler.NewProvidersHandler(handler.ProvidersConfig{GoogleEnabled: cfg.Google.Enabled()})

	submitLimiter := handler.NewRateLimiter("contact", cfg.RateLimitPerMinute)
	defer submitLimiter.Stop()
	loginLimiter := handler.NewRateLimiter("login", cfg.RateLimitPerMinute)
	defer loginLimiter.Stop()
	requireSession := auth.RequireSession(sessionService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	// Contact form
	mux.Handle("POST /api/contact", submitLimiter.Middleware(http.HandlerFunc(contactHandler.Submit)))
	mux.HandleFunc("GET /api/contact/options", contactHandler.Options)

	// Auth
	mux.HandleFunc("GET /api/auth/providers", providersHandler.Providers)
	mux.Handle("POST /api/auth/login", loginLimiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/google/login", authHandler.GoogleLoginURL)
	mux.HandleFunc("GET /api/auth/google/callback", authHandler.GoogleCallback)
	mux.Handle("POST /api/auth/password", requireSession(http.HandlerFunc(authHandler.Password)))
	mux.Handle("GET /api/me", requireSession(http.HandlerFunc(meHandler.Me)))

	// Admin
	mux.Handle("GET /api/admin/contact-requests", requireSession(http.HandlerFunc(contactHandler.AdminList)))
	mux.Handle("PATCH /api/admin/contact-requests/{id}/stage", requireSession(http.HandlerFunc(contactHandler.UpdateStage)))

	// CMS content
	mux.HandleFunc("GET /api/home", contentHandler.Home)
	mux.HandleFunc("GET /api/destinations", contentHandler.Destinations)
	mux.HandleFunc("GET /api/destinations/{slug}", contentHandler.Destination)
	mux.HandleFunc("GET /api/countries", contentHandler.Countries)
	mux.HandleFunc("GET /api/cities", contentHandler.Cities)
	mux.HandleFunc("GET /api/cities/{slug}", contentHandler.City)
	mux.HandleFunc("GET /api/blog", contentHandler.BlogPosts)
	mux.HandleFunc("GET /api/blog/{slug}", contentHandler.BlogPost)

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer, "bryllupspakken-api")
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler.SecurityHeaders(h.CORS(handler.RequestLogger(handler.Metrics(httpMetrics)(mux)))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	stopBackground()
	forwarder.Wait()
	logger.Info("server stopped")
}
