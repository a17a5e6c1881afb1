package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	hl "github.com/sonirico/go-hyperliquid"

	"github.com/0xRichardL/whale-tracker/internal/domain"
	"github.com/0xRichardL/whale-tracker/internal/kafka"
	"github.com/0xRichardL/whale-tracker/internal/routine"
	"github.com/0xRichardL/whale-tracker/internal/telegram"
)

const defaultRetryDelay = 5 * time.Second

// WatchService streams order fills for every tracked whale over the
// Hyperliquid WebSocket and pushes alerts to the chat and, when enabled,
// onto the Kafka alert bus.
type WatchService struct {
	wsURL     string
	bot       *telegram.Bot
	publisher *kafka.AlertPublisher // nil when Kafka is not configured
	logger    *log.Logger

	once       sync.Once
	manager    *routine.Manager
	retryDelay time.Duration
}

func NewWatchService(wsURL string, bot *telegram.Bot, publisher *kafka.AlertPublisher, logger *log.Logger) *WatchService {
	return &WatchService{
		wsURL:      wsURL,
		bot:        bot,
		publisher:  publisher,
		logger:     logger,
		retryDelay: defaultRetryDelay,
	}
}

// Start runs one watch task per whale and blocks until ctx cancellation.
func (s *WatchService) Start(ctx context.Context, whales []domain.Whale) error {
	s.once.Do(func() {
		s.manager = routine.NewManager(ctx)
	})

	for _, whale := range whales {
		err := s.manager.RunTask(&routine.Task{
			ID: whale.Address,
			Handler: func(taskCtx context.Context) error {
				return s.watchWhale(taskCtx, whale)
			},
			OnError: func(id string, err error) {
				if !errors.Is(err, context.Canceled) {
					s.logger.Printf("watch task %s exited: %v", id, err)
				}
			},
		})
		if err != nil {
			return fmt.Errorf("run watch task for %s: %w", whale.Address, err)
		}
	}

	<-ctx.Done()
	return s.manager.ShutdownAll()
}

// watchWhale keeps one whale's subscription alive, reconnecting after a
// pause on any failure. One whale's connection trouble never touches the
// others.
func (s *WatchService) watchWhale(ctx context.Context, whale domain.Whale) error {
	for {
		err := s.subscribe(ctx, whale)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			s.logger.Printf("subscription for %s dropped: %v", whale.Address, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}
}

func (s *WatchService) subscribe(ctx context.Context, whale domain.Whale) error {
	ws := hl.NewWebsocketClient(s.wsURL)
	if err := ws.Connect(ctx); err != nil {
		return fmt.Errorf("connect websocket: %w", err)
	}
	defer func() {
		if err := ws.Close(); err != nil {
			s.logger.Printf("error closing websocket for %s: %v", whale.Address, err)
		}
	}()

	s.logger.Printf("subscribing %s (%s) to Hyperliquid user fills", whale.Name, whale.Address)
	sub, err := ws.OrderFills(
		hl.OrderFillsSubscriptionParams{User: whale.Address},
		func(fills hl.WsOrderFills, err error) {
			if err != nil {
				s.logger.Printf("order fills callback error for %s: %v", whale.Address, err)
				return
			}
			if len(fills.Fills) == 0 {
				return
			}

			received := time.Now().UTC()
			for _, f := range fills.Fills {
				alert := NormalizeFill(whale, f, received)
				if alert == nil {
					continue
				}
				s.dispatch(ctx, alert)
			}
		},
	)
	if err != nil {
		return fmt.Errorf("subscribe to order fills: %w", err)
	}
	defer sub.Close()

	<-ctx.Done()
	return ctx.Err()
}

func (s *WatchService) dispatch(ctx context.Context, alert *domain.FillAlert) {
	if err := s.bot.SendHTML(FormatFillAlert(alert)); err != nil {
		s.logger.Printf("send fill alert for %s: %v", alert.Whale.Address, err)
	}

	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, alert); err != nil {
		s.logger.Printf("publish fill alert for %s: %v", alert.Whale.Address, err)
	}
}
