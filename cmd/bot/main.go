package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/Organizer/internal/ai"
	"github.com/hray3182/Organizer/internal/assistant"
	"github.com/hray3182/Organizer/internal/bot"
	"github.com/hray3182/Organizer/internal/bot/handlers"
	"github.com/hray3182/Organizer/internal/config"
	"github.com/hray3182/Organizer/internal/database"
	"github.com/hray3182/Organizer/internal/intent"
	"github.com/hray3182/Organizer/internal/logger"
	"github.com/hray3182/Organizer/internal/repository"
	"github.com/hray3182/Organizer/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("organizer", "info")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New("organizer", cfg.LogLevel)

	// Validate required config
	if cfg.DatabaseURI == "" {
		log.Fatal().Msg("DATABASE_URI is required")
	}
	if cfg.TelegramToken == "" {
		log.Fatal().Msg("TELEGRAM_TOKEN is required")
	}

	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.New(ctx, cfg.DatabaseURI, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Local classifier always runs; the remote one is optional
	local := intent.NewKeywordClassifier()
	local.Floor = cfg.ConfidenceFloor
	local.EmergencyThreshold = cfg.EmergencyThreshold
	local.EmergencyNumber = cfg.EmergencyNumber
	local.Now = now

	var remote intent.Classifier
	if cfg.RemoteEnabled() {
		aiClient := ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		remote = intent.NewRemoteClassifier(aiClient,
			intent.WithTimeout(cfg.AITimeout),
			intent.WithClock(now),
			intent.WithEmergencyNumber(cfg.EmergencyNumber),
			intent.WithLogger(log.With().Str("component", "remote_classifier").Logger()),
		)
		log.Info().Str("model", aiClient.Model()).Msg("remote classifier enabled")
	} else {
		log.Info().Msg("remote classifier not configured, using keyword classifier only")
	}

	mode, err := intent.ParseMode(cfg.ClassifierMode)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid classifier mode")
	}
	dispatcher := assistant.NewDispatcher(intent.NewStrategy(mode, local, remote),
		assistant.WithAgendaLead(cfg.AgendaLeadMinutes),
		assistant.WithEmergencyNumber(cfg.EmergencyNumber),
		assistant.WithLogger(log.With().Str("component", "dispatcher").Logger()),
	)

	// Create Telegram API client
	tgAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Telegram API")
	}

	eventRepo := repository.NewEventRepository(db)

	// Create and start scheduler
	sched := scheduler.New(eventRepo, bot.NewNotifier(tgAPI),
		scheduler.WithCalculator(scheduler.TriggerCalculator{ApplyLeadToDaily: cfg.DailyLeadApplies}),
		scheduler.WithInterval(cfg.SchedulerInterval),
		scheduler.WithClock(now),
		scheduler.WithLogger(log.With().Str("component", "scheduler").Logger()),
	)
	go sched.Start(ctx)

	h := handlers.New(tgAPI, dispatcher, eventRepo, sched,
		handlers.WithClock(now),
		handlers.WithDevMode(cfg.DevMode),
		handlers.WithLogger(log.With().Str("component", "handlers").Logger()),
	)
	b := bot.New(tgAPI, h, log)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("shutting down")
		cancel()
	}()

	log.Info().Str("mode", string(mode)).Str("timezone", loc.String()).Msg("starting bot")
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("bot stopped")
	}
}
