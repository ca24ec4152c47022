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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/bizdev-chatbot/internal/config"
	"github.com/xavierca1/bizdev-chatbot/internal/entity"
	"github.com/xavierca1/bizdev-chatbot/internal/infra/database"
	"github.com/xavierca1/bizdev-chatbot/internal/infra/http/handlers"
	"github.com/xavierca1/bizdev-chatbot/internal/infra/http/middleware"
	"github.com/xavierca1/bizdev-chatbot/internal/infra/integration/ipapi"
	"github.com/xavierca1/bizdev-chatbot/internal/infra/integration/openweather"
	"github.com/xavierca1/bizdev-chatbot/internal/infra/logger"
	"github.com/xavierca1/bizdev-chatbot/internal/infra/mail"
	"github.com/xavierca1/bizdev-chatbot/internal/infra/queue"
	"github.com/xavierca1/bizdev-chatbot/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	// 1. Database
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	recordRepo := database.NewRecordRepository(db)
	if cfg.AutoProvision {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := recordRepo.Provision(ctx)
		cancel()
		if err != nil {
			return err
		}
		log.Info("tables provisioned")
	}

	// 2. Optional broker
	var events usecase.EventPublisher
	var broker handlers.Broker
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		events = queue.NewProducer(rabbitMQ.Ch)
		broker = rabbitMQ.Conn
		log.Info("conversation events enabled", zap.String("exchange", queue.ExchangeName))
	}

	// 3. Adapters
	routes := make(map[entity.Category]mail.Route, len(cfg.Receivers))
	for category, to := range cfg.Receivers {
		routes[category] = mail.Route{To: to, CC: cfg.CCEmails, Subject: cfg.Subjects[category]}
	}
	mailSender, err := mail.NewEmailSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		Sender:   cfg.MailSender,
		FromName: cfg.MailFromName,
	}, routes, log.Named("mail"))
	if err != nil {
		return err
	}

	locator := ipapi.NewClient(cfg.IPLookupURL, cfg.GeoLookupURL)
	weather := openweather.NewClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL)

	// 4. UseCases
	conversationUC := usecase.NewConversationUseCase(recordRepo, mailSender, events, log.Named("conversation"))
	greetingUC := usecase.NewGreetingUseCase(locator, weather, log.Named("greeting"))

	// 5. Handlers
	chatbotHandler := handlers.NewChatbotHandler(conversationUC, greetingUC, log)
	adminHandler := handlers.NewAdminHandler(recordRepo, log)
	healthHandler := handlers.NewHealthHandler(db, broker, cfg.SMTPHost)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	go limiter.Cleanup(10*time.Minute, stopCleanup)

	// 6. Router
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
		r.Use(limiter.Middleware)
		chatbotHandler.Routes(r)
		r.Post("/create_database", adminHandler.HandleCreateDatabase)
		r.Post("/create_tables", adminHandler.HandleCreateTables)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
