package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"NewsVerifier/internal/app"
	"NewsVerifier/internal/config"
	"NewsVerifier/internal/logging"
)

func main() {
	watchOnce := flag.Bool("watch-once", false, "run the watch digest once and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := application.Run
	if *watchOnce {
		run = application.RunWatchOnce
	}

	if err := run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		stop()
		_ = application.Close()
		os.Exit(1)
	}
}
