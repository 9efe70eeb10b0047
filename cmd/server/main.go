package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/config"
	"github.com/umehtaji1981-tech/samaj-setu/internal/database"
	"github.com/umehtaji1981-tech/samaj-setu/internal/extract"
	"github.com/umehtaji1981-tech/samaj-setu/internal/gstorage"
	"github.com/umehtaji1981-tech/samaj-setu/internal/handlers"
	"github.com/umehtaji1981-tech/samaj-setu/internal/logger"
	"github.com/umehtaji1981-tech/samaj-setu/internal/repository"
	"github.com/umehtaji1981-tech/samaj-setu/internal/retry"
	"github.com/umehtaji1981-tech/samaj-setu/internal/security"
	"github.com/umehtaji1981-tech/samaj-setu/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Debug)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalw("Failed to initialize database", "error", err)
	}
	defer db.Close()

	log.Infow("Database connection established", "type", cfg.DatabaseType)

	if err := db.RunMigrations(ctx, cfg.MigrationsPath, log); err != nil {
		log.Fatalw("Failed to run migrations", "error", err)
	}

	// Directory state
	directory := service.NewDirectoryService(repository.NewStateRepository(db), cfg.StateKey, log)
	directory.SetBookletCapacity(cfg.BiodataPerPage, cfg.ContactsPerPage)
	if err := directory.Load(ctx); err != nil {
		log.Fatalw("Failed to load directory", "error", err)
	}

	// Notifications
	email, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, log)
	if err != nil {
		log.Warnw("Email notifications disabled", "error", err)
		email = nil
	}
	sms := service.NewSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioMessagingServiceSID, log)
	directory.SetNotifier(service.NewNotifications(email, sms, log))

	authService, err := service.NewAuthService(service.AuthOptions{
		JWTSecret:         cfg.JWTSecret,
		SessionDuration:   cfg.SessionDuration,
		DemoOTP:           cfg.DemoOTP,
		AdminPasscode:     cfg.AdminPasscode,
		AdminPasscodeHash: cfg.AdminPasscodeHash,
	})
	if err != nil {
		log.Fatalw("Failed to initialize auth", "error", err)
	}

	// AI extraction is optional; without it the import and translation
	// routes answer 503
	var translator handlers.Translator
	var imports *service.ImportService
	if extractor, err := newExtractor(ctx, cfg, log); err != nil {
		log.Warnw("AI features disabled", "error", err)
	} else {
		translator = extractor
		imports = service.NewImportService(directory, extractor, log)
	}

	// Snapshots
	var objects service.ObjectStore
	if cfg.GCSBucket != "" {
		gs, err := gstorage.NewGStorage(ctx, cfg.GCSCredentialsFile, cfg.GCSBucket)
		if err != nil {
			log.Warnw("Snapshots disabled", "error", err)
		} else {
			defer gs.Close()
			objects = gs
		}
	}
	backupService := service.NewBackupService(directory, objects, cfg.GCSPrefix, log)

	if objects != nil && cfg.SnapshotCron != "" {
		scheduler, err := service.NewSnapshotScheduler(backupService, cfg.SnapshotCron, cfg.Location(), log)
		if err != nil {
			log.Fatalw("Failed to schedule snapshots", "error", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	limiter := security.NewRateLimiter(ctx, cfg.RateLimitPerMinute, time.Minute)

	// Setup routes
	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, handlers.Handlers{
		Middleware: handlers.NewMiddleware(authService, limiter, log),
		Auth:       handlers.NewAuthHandler(authService, log),
		Directory:  handlers.NewDirectoryHandler(directory, log),
		AI:         handlers.NewAIHandler(translator, log),
		Admin:      handlers.NewAdminHandler(directory, imports, backupService, cfg.UploadMaxSize, log),
	})

	// Wrap with logging middleware
	handler := handlers.Logging(log, mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("Server starting", "addr", "http://localhost"+addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// newExtractor builds the Gemini-backed extractor. Requests are retried
// on rate limiting with exponential backoff.
func newExtractor(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*extract.Extractor, error) {
	policy := retry.DefaultPolicy()
	policy.MaxRetries = cfg.AIMaxRetries
	policy.BaseDelay = cfg.AIBaseDelay
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		log.Warnw("AI request rate limited, retrying", "attempt", attempt, "delay", delay, "error", err)
	}

	client, err := extract.NewClient(ctx, extract.ClientOptions{
		BaseURL: cfg.GeminiBaseURL,
		APIKey:  cfg.GeminiAPIKey,
		Policy:  policy,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}
	return extract.NewExtractor(client, cfg.GeminiExtractModel, cfg.GeminiFastModel, log), nil
}
