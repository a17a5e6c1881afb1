package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/0xRichardL/whale-tracker/internal/domain"
)

// Config holds runtime configuration for the whale tracker.
type Config struct {
	TelegramToken  string
	TelegramChatID int64

	// Whales in configuration order; report output preserves this order.
	Whales []domain.Whale

	HyperAPIURL string
	HyperWSURL  string

	HTTPAddr string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	WhaleSetKey   string

	KafkaBrokers   []string
	KafkaFillTopic string

	WatchFills bool
}

// envOrDefault returns the value of an env var or a default.
func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) (int, error) {
	if raw := os.Getenv(key); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return val, nil
	}

	return def, nil
}

func envBoolOrDefault(key string, def bool) (bool, error) {
	if raw := os.Getenv(key); raw != "" {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %w", key, err)
		}
		return val, nil
	}

	return def, nil
}

func envCSV(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// loadWhales reads WHALE_1_ADDRESS/WHALE_1_NAME, WHALE_2_..., stopping at
// the first index without an address. Names default to "Whale N".
func loadWhales() []domain.Whale {
	var whales []domain.Whale
	for i := 1; ; i++ {
		address := os.Getenv(fmt.Sprintf("WHALE_%d_ADDRESS", i))
		if address == "" {
			break
		}
		name := envOrDefault(fmt.Sprintf("WHALE_%d_NAME", i), fmt.Sprintf("Whale %d", i))
		whales = append(whales, domain.Whale{Address: address, Name: name})
	}
	return whales
}

// LoadConfig loads configuration from environment variables. A missing bot
// token, chat id, or whale source is the only fatal failure class.
func LoadConfig() (Config, error) {
	redisDB, err := envIntOrDefault("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	watchFills, err := envBoolOrDefault("WATCH_FILLS", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),

		Whales: loadWhales(),

		HyperAPIURL: envOrDefault("HYPERLIQUID_API_URL", "https://api.hyperliquid.xyz/info"),
		HyperWSURL:  envOrDefault("HYPERLIQUID_WS_URL", "wss://api.hyperliquid.xyz/ws"),

		HTTPAddr: envOrDefault("HTTP_ADDR", ""),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		WhaleSetKey:   envOrDefault("WHALE_SET_KEY", "tracker:whales:primary"),

		KafkaBrokers:   envCSV("KAFKA_BROKERS"),
		KafkaFillTopic: envOrDefault("KAFKA_TOPIC_FILL_ALERTS", "whale_fill_alerts"),

		WatchFills: watchFills,
	}

	if cfg.TelegramToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	rawChatID := os.Getenv("TELEGRAM_CHAT_ID")
	if rawChatID == "" {
		return Config{}, fmt.Errorf("TELEGRAM_CHAT_ID is not set")
	}
	chatID, err := strconv.ParseInt(rawChatID, 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}
	cfg.TelegramChatID = chatID

	if len(cfg.Whales) == 0 && cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("no whale configurations found: set WHALE_1_ADDRESS and WHALE_1_NAME")
	}

	return cfg, nil
}
