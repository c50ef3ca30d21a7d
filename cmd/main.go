package main

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobs-alert/internal/bot"
	"github.com/maxaizer/jobs-alert/internal/clients/feed"
	"github.com/maxaizer/jobs-alert/internal/config"
	"github.com/maxaizer/jobs-alert/internal/logger"
	"github.com/maxaizer/jobs-alert/internal/metrics"
	"github.com/maxaizer/jobs-alert/internal/repositories"
	"github.com/maxaizer/jobs-alert/internal/services"
	log "github.com/sirupsen/logrus"
	"os/signal"
	"syscall"
	"time"
)

func runPoller(ctx context.Context, cfg *config.Config, bus EventBus.Bus, feedClient *feed.Client,
	listings *repositories.Listings, recipients *repositories.Recipients, sender services.Sender) *services.Poller {

	notifier := services.NewNotifier(sender)
	notifier.SetRateLimit(cfg.Bot.SendRatePerSecond)

	alerts, err := services.NewJobAlerts(bus, feedClient, listings, recipients, notifier)
	if err != nil {
		log.Fatalf("can't create job alerts: %v", err)
	}

	poller, err := services.NewPoller(ctx, alerts, cfg.Feed.PollPeriod())
	if err != nil {
		log.Fatalf("can't create poller: %v", err)
	}
	poller.Start()
	return poller
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metricsServer := metrics.StartMetricsServer(cfg.Metrics.Address)

	dbContext, err := repositories.NewDbContext(cfg.Storage.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	err = dbContext.SeedSubscribers(cfg.Bot.Subscribers)
	if err != nil {
		log.Fatalf("can't seed subscribers: %v", err)
	}

	listings, err := repositories.NewListingsRepository(cfg.Storage.ListingsFile)
	if err != nil {
		log.Fatalf("can't create listings repository: %v", err)
	}
	recipients := repositories.NewRecipientsRepository(dbContext.DB, cfg.Bot.Admins)
	visitors := repositories.NewVisitorsRepository(dbContext.DB)

	bus := EventBus.New()

	feedClient := feed.NewClient(cfg.Feed.URL, cfg.Feed.LinkBase, cfg.Feed.Timeout)
	feedClient.SetRateLimit(cfg.Feed.MaxRequestsPerSecond)

	cachedFeed, err := services.NewCachedFeed(bus, feedClient, listings, cfg.Feed.CacheTTL)
	if err != nil {
		log.Fatalf("can't create cached feed: %v", err)
	}

	if _, err = services.NewVisitorLogger(bus, visitors); err != nil {
		log.Fatalf("can't create visitor logger: %v", err)
	}

	cleaner, err := services.NewVisitorsCleaner(visitors, cfg.Storage.VisitorExpirationDays)
	if err != nil {
		log.Fatalf("can't create visitors cleaner: %v", err)
	}
	defer cleaner.Stop()

	tgbot, err := bot.NewBot(cfg.Bot.Token, bus, bot.Dependencies{
		Listings:   cachedFeed,
		Recipients: recipients,
		Visitors:   visitors,
	})
	if err != nil {
		log.Fatalf("can't create bot: %v", err)
	}
	go tgbot.Run(ctx)

	poller := runPoller(ctx, cfg, bus, feedClient, listings, recipients, tgbot.Messenger())

	<-ctx.Done()

	log.Info("Shutting down services...")
	poller.Stop()
	tgbot.Stop()
	bus.WaitAsync()
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	log.Info("Services stopped.")
}
