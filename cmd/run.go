package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"riobot/application"
	"riobot/bot"
	"riobot/config"
	"riobot/domain/services"
	"riobot/events"
	"riobot/infrastructure"
	"riobot/infrastructure/observability"
	"riobot/repository"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg := config.Get()
	ConfigureLogging(cfg)
	log.Info("Starting riobot...")

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.WithError(err).Warn("Failed to initialize metrics, continuing without them")
	}

	// Initialize event bus, mirrored to NATS when configured
	log.Info("Initializing event bus...")
	eventBus := events.NewBus()
	mapper := infrastructure.NewEventSubjectMapper()
	var natsClient *infrastructure.NATSClient
	var wire infrastructure.MessagePublisher
	if cfg.NATSServers != "" {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := natsClient.Connect(connectCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		if err := infrastructure.EnsureEventStream(natsClient, mapper); err != nil {
			log.WithError(err).Warn("Failed to ensure event stream")
		}
		wire = natsClient
		log.Info("NATS event publishing enabled")
	}
	publisher := infrastructure.NewNATSEventPublisher(eventBus, wire, mapper)

	// Open the state store
	persister, err := repository.OpenPersister(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open state backend: %w", err)
	}
	store, err := repository.NewStateStore(ctx, persister, publisher)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	log.Info("State store loaded successfully")

	// Initialize Discord session and platform adapter
	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}
	platform := bot.NewPlatform(session)
	scheduler := application.NewScheduler(ctx)

	// Initialize services
	log.Info("Initializing services...")
	claims := services.NewClaimRegistry(cfg, store)
	tickets := services.NewTicketLifecycle(cfg, store, platform, scheduler)
	voice := services.NewVoiceLifecycle(cfg, store, platform)
	moderation := services.NewModerationService(cfg, store, platform, publisher)
	svc := bot.Services{
		Economy:    services.NewEconomyService(cfg, store),
		Claims:     claims,
		Voice:      voice,
		Tickets:    tickets,
		Moderation: moderation,
		AntiSpam:   services.NewAntiSpamDetector(cfg, platform, moderation, publisher),
	}
	reconciler := services.NewPanelReconciler(store, platform)

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(cfg, session, platform, svc, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	memberStats := application.NewMemberStatsWorker(cfg, platform, discordBot)
	discordBot.SetMemberStats(memberStats)
	drops := application.NewDropWorker(cfg, platform, claims, store, scheduler, discordBot.DropPresenter(), discordBot)

	// Recover timers and channels left behind by a restart
	if err := tickets.ResumePending(ctx); err != nil {
		log.WithError(err).Warn("Failed to resume closing tickets")
	}
	if err := drops.ResumePending(ctx); err != nil {
		log.WithError(err).Warn("Failed to resume pending drops")
	}
	if err := voice.Sweep(ctx); err != nil {
		log.WithError(err).Warn("Failed to sweep empty voice channels")
	}

	// Start background workers
	stops := []func(){
		application.NewPanelWorker(cfg, reconciler, discordBot.PanelBuilder(), discordBot).Start(ctx),
		drops.Start(ctx),
		application.NewBumpReminderWorker(cfg, platform, discordBot.PanelBuilder()).Start(ctx),
		memberStats.Start(ctx),
	}
	discordBot.StartHealthAPI(ctx, cfg.Port)

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")
	for _, stop := range stops {
		stop()
	}
	scheduler.Stop()

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}
	eventBus.Wait()

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Flushing state...")
	if err := store.Close(shutdownCtx); err != nil {
		log.WithError(err).Error("Error closing state store")
	}
	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Warn("Error closing NATS connection")
		}
	}
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error shutting down metrics")
	}

	log.Info("Shutdown completed")
	return nil
}
