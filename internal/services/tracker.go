package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/0xRichardL/whale-tracker/internal/config"
	"github.com/0xRichardL/whale-tracker/internal/domain"
	"github.com/0xRichardL/whale-tracker/internal/hyperliquid"
	"github.com/0xRichardL/whale-tracker/internal/report"
	"github.com/0xRichardL/whale-tracker/internal/store"
	"github.com/0xRichardL/whale-tracker/internal/telegram"
)

const commandGo = "go"

// TrackerService answers the chat command with a positions report.
type TrackerService struct {
	cfg    config.Config
	client *hyperliquid.Client
	bot    *telegram.Bot
	store  *store.WhaleStore // nil when Redis is not configured
	logger *log.Logger
}

func NewTrackerService(cfg config.Config, client *hyperliquid.Client, bot *telegram.Bot, whaleStore *store.WhaleStore, logger *log.Logger) *TrackerService {
	return &TrackerService{
		cfg:    cfg,
		client: client,
		bot:    bot,
		store:  whaleStore,
		logger: logger,
	}
}

// Whales returns the env-configured list followed by any dynamically
// registered whales, deduplicated by address.
func (s *TrackerService) Whales(ctx context.Context) []domain.Whale {
	whales := make([]domain.Whale, 0, len(s.cfg.Whales))
	seen := make(map[string]struct{}, len(s.cfg.Whales))
	for _, w := range s.cfg.Whales {
		whales = append(whales, w)
		seen[w.Address] = struct{}{}
	}

	if s.store != nil {
		dynamic, err := s.store.List(ctx)
		if err != nil {
			s.logger.Printf("list whales from store: %v", err)
			return whales
		}
		for _, w := range dynamic {
			if _, ok := seen[w.Address]; ok {
				continue
			}
			whales = append(whales, w)
			seen[w.Address] = struct{}{}
		}
	}
	return whales
}

// Start announces the bot and serves the "go" command until ctx ends.
func (s *TrackerService) Start(ctx context.Context) error {
	if err := s.bot.SendHTML(s.startupMessage()); err != nil {
		s.logger.Printf("send startup message: %v", err)
	}

	return s.bot.Poll(ctx, commandGo, s.HandleGo)
}

// startupMessage counts only the env-configured whales; the dynamic
// store is consulted per report, not at startup.
func (s *TrackerService) startupMessage() string {
	return fmt.Sprintf(
		"🤖 <b>Whale Position Info Bot Started!</b>\n\n"+
			"Tracking <b>%d</b> whale(s)\n"+
			"Tokens: <b>BTC, ETH, SOL only</b>\n\n"+
			"Type <b>go</b> to get current positions",
		len(s.cfg.Whales))
}

// HandleGo builds the report and sends every payload to the chat. Send
// failures are logged and never abort the remaining payloads.
func (s *TrackerService) HandleGo(ctx context.Context) {
	s.bot.SendTyping()

	for _, payload := range s.BuildReport(ctx) {
		if err := s.bot.SendHTML(payload); err != nil {
			s.logger.Printf("send report payload: %v", err)
		}
	}
}

// BuildReport runs the full fetch-aggregate-format pipeline.
func (s *TrackerService) BuildReport(ctx context.Context) []string {
	whales := s.Whales(ctx)

	// Best-effort quote snapshot; positions fall back to entry price when
	// both markPx and the mid are unavailable.
	mids, err := s.client.AllMids(ctx)
	if err != nil {
		s.logger.Printf("fetch mids: %v", err)
		mids = nil
	}

	fetch := func(ctx context.Context, w domain.Whale) []domain.Position {
		state, err := s.client.FetchClearinghouseState(ctx, w.Address)
		if err != nil {
			s.logger.Printf("fetch positions for %s (%s): %v", w.Name, report.ShortenAddress(w.Address), err)
			return nil
		}
		return report.Normalize(state, mids)
	}

	reports, summary := report.Aggregate(ctx, whales, fetch)
	return report.Format(reports, summary, time.Now().UTC())
}
