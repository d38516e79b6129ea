// Package main is the entry point for the travel booking aggregation service.
//
//	@title						Travel Booking Aggregation API
//	@version					1.0.0
//	@description				Searches hotels and buses across Indian booking providers from a free-text prompt, initiates bookings with payment links and watches fares.
//
//	@contact.name				API Support
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"

	// Import generated docs for swagger
	_ "github.com/tripsmith/travel-booking-aggregator/docs"

	// Application layers
	bookinghttp "github.com/tripsmith/travel-booking-aggregator/internal/adapter/http"
	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/http/middleware"
	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/provider/abhibus"
	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/provider/bookingcom"
	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/provider/makemytrip"
	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/provider/redbus"
	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/provider/webauto"
	"github.com/tripsmith/travel-booking-aggregator/internal/automation"
	"github.com/tripsmith/travel-booking-aggregator/internal/config"
	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/extractor"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/browser"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/notify"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/payment"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/storage"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
	"github.com/tripsmith/travel-booking-aggregator/internal/monitor"
	"github.com/tripsmith/travel-booking-aggregator/internal/usecase"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	log := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "travel-aggregator",
	})

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Bool("env_file", cfg.EnvFileLoaded).
		Msg("Configuration loaded")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// run wires every component, serves until a signal arrives and shuts down.
func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := timeutil.NewRealClock()

	registry, err := buildRegistry(cfg, clock, log)
	if err != nil {
		return err
	}
	log.Info().Strs("providers", registry.Names()).Msg("Providers registered")

	store, closeStore, err := buildStore(ctx, cfg, clock, log)
	if err != nil {
		return err
	}
	defer closeStore()

	payments, err := buildPayments(cfg, log)
	if err != nil {
		return err
	}

	sink, err := buildAlertSink(cfg, log)
	if err != nil {
		return err
	}

	ucConfig := &usecase.Config{
		GlobalTimeout:   cfg.Timeouts.GlobalSearch,
		ProviderTimeout: cfg.Timeouts.PerProvider,
	}
	queryExtractor := extractor.New(extractor.WithClock(clock), extractor.WithLogger(log))
	search := usecase.NewSearchUseCase(queryExtractor, registry, ucConfig, clock, log)
	fares := usecase.NewFareComparison(registry, ucConfig, log)
	bookings := usecase.NewBookingService(registry, store, payments, cfg.Payment.Currency, log)
	automated := usecase.NewAutomatedBooking(registry, store, log)

	// Monitors reuse the smart search so alerts see the same ranked results.
	searcher := monitor.SearchFunc(func(ctx context.Context, query domain.StructuredQuery) ([]domain.ListingItem, error) {
		result, err := search.SearchQuery(ctx, query)
		if err != nil {
			return nil, err
		}
		return result.Items, nil
	})
	supervisor, err := monitor.NewSupervisor(searcher, sink, monitor.Config{
		Schedule:     cfg.Monitor.Schedule,
		AlertTimeout: cfg.Monitor.AlertTimeout,
	}, clock, log)
	if err != nil {
		return fmt.Errorf("create monitor supervisor: %w", err)
	}
	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		supervisor.Run(ctx)
	}()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Configure server timeouts from config
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.Setup(e, log)

	handler := bookinghttp.NewHandler(bookinghttp.Services{
		Extractor: queryExtractor,
		Search:    search,
		Fares:     fares,
		Bookings:  bookings,
		Automated: automated,
		Monitors:  supervisor,
		Registry:  registry,
		Logger:    log,
	})
	bookinghttp.RegisterRoutes(e, handler)

	// Start server with graceful shutdown
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}
	stop()
	<-supervisorDone

	if err := automated.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Int("in_flight", automated.InFlight()).Msg("Payment waits did not finish before shutdown")
	}

	log.Info().Msg("Server stopped")
	return nil
}

// buildRegistry registers the partner APIs that have credentials, the
// scraped site when enabled, and the browser-driven sites.
func buildRegistry(cfg *config.Config, clock timeutil.Clock, log *logger.Logger) (*domain.ProviderRegistry, error) {
	registry := domain.NewProviderRegistry()
	p := cfg.Providers

	if p.BookingCom.Enabled() {
		registry.Register(bookingcom.NewAdapter(bookingcom.Config{
			BaseURL:   p.BookingCom.BaseURL,
			APIKey:    p.BookingCom.APIKey,
			Timeout:   p.BookingCom.Timeout,
			RateLimit: p.BookingCom.RateLimit,
		}, nil, log))
	}
	if p.MakeMyTrip.Enabled() {
		registry.Register(makemytrip.NewAdapter(makemytrip.Config{
			BaseURL:   p.MakeMyTrip.BaseURL,
			APIKey:    p.MakeMyTrip.APIKey,
			Timeout:   p.MakeMyTrip.Timeout,
			RateLimit: p.MakeMyTrip.RateLimit,
		}, nil, log))
	}
	if p.RedBus.Enabled() {
		registry.Register(redbus.NewAdapter(redbus.Config{
			BaseURL:   p.RedBus.BaseURL,
			APIKey:    p.RedBus.APIKey,
			Timeout:   p.RedBus.Timeout,
			RateLimit: p.RedBus.RateLimit,
		}, nil, clock, log))
	}
	if p.AbhiBus.Enabled {
		registry.Register(abhibus.NewAdapter(abhibus.Config{
			BaseURL: p.AbhiBus.BaseURL,
			Timeout: p.AbhiBus.Timeout,
			Delay:   p.AbhiBus.Delay,
		}, nil, clock, log))
	}

	if len(cfg.Automation.Sites) == 0 {
		return registry, nil
	}

	profiles, err := automation.LoadProfiles(cfg.Automation.ProfilesPath)
	if err != nil {
		return nil, err
	}
	launcher := browser.NewLauncher(browser.Config{
		Headless:    cfg.Automation.Headless,
		Bin:         cfg.Automation.BrowserBin,
		UserDataDir: cfg.Automation.UserDataDir,
	}, log)
	factory := automation.NewFactory(profiles, launcher, clock, automation.Config{
		ElementTimeout:      cfg.Automation.ElementTimeout,
		PaymentTimeout:      cfg.Automation.PaymentTimeout,
		PaymentPollInterval: cfg.Automation.PaymentPollInterval,
		MaxResults:          cfg.Automation.MaxResults,
	}, log)

	for _, site := range cfg.Automation.Sites {
		adapter, err := webauto.NewAdapter(factory, site, clock, log)
		if err != nil {
			return nil, fmt.Errorf("automation site %q: %w", site, err)
		}
		registry.Register(adapter)
	}
	return registry, nil
}

// buildStore opens Postgres when DATABASE_URL is set and falls back to the
// in-memory store otherwise.
func buildStore(ctx context.Context, cfg *config.Config, clock timeutil.Clock, log *logger.Logger) (domain.BookingStore, func(), error) {
	if cfg.Database.URL == "" {
		log.Warn().Msg("DATABASE_URL not set, bookings are kept in memory")
		return storage.NewMemoryStore(clock), func() {}, nil
	}

	store, err := storage.OpenPostgres(ctx, cfg.Database.URL, log)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Close database")
		}
	}, nil
}

// buildPayments returns the Razorpay gateway, or nil when it is not
// configured and only provider-hosted payment pages can be used.
func buildPayments(cfg *config.Config, log *logger.Logger) (domain.PaymentGateway, error) {
	if !cfg.Payment.Enabled() {
		log.Warn().Msg("Razorpay not configured, only provider payment pages are available")
		return nil, nil
	}
	gateway, err := payment.NewGateway(payment.Config{
		BaseURL:   cfg.Payment.BaseURL,
		KeyID:     cfg.Payment.RazorpayKeyID,
		KeySecret: cfg.Payment.RazorpayKeySecret,
		Timeout:   cfg.Payment.Timeout,
	}, nil, log)
	if err != nil {
		return nil, fmt.Errorf("create payment gateway: %w", err)
	}
	return gateway, nil
}

// buildAlertSink always logs alerts and also sends them to Telegram when a
// bot token is configured.
func buildAlertSink(cfg *config.Config, log *logger.Logger) (domain.AlertSink, error) {
	sinks := monitor.MultiSink{monitor.NewLogSink(log)}
	if cfg.Telegram.Enabled() {
		bot, err := notify.NewTelegramBot(cfg.Telegram.BotToken, cfg.Telegram.APIEndpoint, cfg.Telegram.Timeout)
		if err != nil {
			return nil, fmt.Errorf("create telegram bot: %w", err)
		}
		sinks = append(sinks, notify.NewTelegramSink(bot, cfg.Telegram.ChatID, log))
	}
	return sinks, nil
}
