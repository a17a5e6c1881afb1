package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	redis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/0xRichardL/whale-tracker/internal/config"
	"github.com/0xRichardL/whale-tracker/internal/hyperliquid"
	"github.com/0xRichardL/whale-tracker/internal/kafka"
	"github.com/0xRichardL/whale-tracker/internal/rest"
	"github.com/0xRichardL/whale-tracker/internal/services"
	"github.com/0xRichardL/whale-tracker/internal/store"
	"github.com/0xRichardL/whale-tracker/internal/telegram"
)

// App centralizes dependency wiring for the tracker service.
type App struct {
	cfg    config.Config
	logger *log.Logger

	redis     *redis.Client
	store     *store.WhaleStore
	publisher *kafka.AlertPublisher
	bot       *telegram.Bot
	tracker   *services.TrackerService
	watch     *services.WatchService

	httpServer *http.Server
}

// NewApp builds an App with all required dependencies. Optional
// collaborators (Redis store, Kafka publisher, watch mode) are left nil
// when their configuration is absent.
func NewApp(cfg config.Config, logger *log.Logger) (*App, error) {
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID, logger)
	if err != nil {
		return nil, fmt.Errorf("authorize telegram bot: %w", err)
	}
	logger.Printf("telegram bot authorized as %s", bot.Username())

	var redisClient *redis.Client
	var whaleStore *store.WhaleStore
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		whaleStore = store.NewWhaleStore(redisClient, cfg.WhaleSetKey)
	}

	var publisher *kafka.AlertPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewAlertPublisher(cfg.KafkaBrokers, cfg.KafkaFillTopic)
	}

	client := hyperliquid.NewClient(cfg.HyperAPIURL, logger)
	tracker := services.NewTrackerService(cfg, client, bot, whaleStore, logger)

	var watch *services.WatchService
	if cfg.WatchFills {
		watch = services.NewWatchService(cfg.HyperWSURL, bot, publisher, logger)
	}

	return &App{
		cfg:       cfg,
		logger:    logger,
		redis:     redisClient,
		store:     whaleStore,
		publisher: publisher,
		bot:       bot,
		tracker:   tracker,
		watch:     watch,
	}, nil
}

// Run starts background services and blocks until ctx cancellation or
// fatal error.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.cleanup()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.tracker.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("start tracker service: %w", err)
		}
		return nil
	})

	if a.watch != nil {
		g.Go(func() error {
			if err := a.watch.Start(gctx, a.tracker.Whales(gctx)); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("start watch service: %w", err)
			}
			return nil
		})
	}

	if a.cfg.HTTPAddr != "" {
		g.Go(func() error {
			return a.runHTTPServer(gctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ctx.Err()
}

func (a *App) runHTTPServer(ctx context.Context) error {
	r, srv := rest.NewServer(a.cfg.HTTPAddr)
	a.httpServer = srv
	if a.store != nil {
		whaleController := rest.NewWhaleController(a.store)
		whaleController.RegisterWhaleRoutes(r.Group(""))
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Printf("HTTP server started at: %s", srv.Addr)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	// App context shutdown:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		err := <-serverErr
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	// HTTP server error:
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (a *App) cleanup() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Printf("error closing Kafka publisher: %v", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Printf("error closing Redis client: %v", err)
		}
	}
}
