package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	service "github.com/0xRichardL/whale-tracker/internal"
	"github.com/0xRichardL/whale-tracker/internal/config"
)

func main() {
	logger := log.New(os.Stdout, "whale-tracker ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// Best-effort; all configuration also works from the plain process env.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	app, err := service.NewApp(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to build app: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		logger.Fatalf("service exited with error: %v", err)
	}
}
