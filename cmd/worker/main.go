package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Domenick1991/airlines/config"
	"github.com/Domenick1991/airlines/internal/email"
	"github.com/Domenick1991/airlines/internal/kafka"
	"github.com/Domenick1991/airlines/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog := logger.NewZeroLog(cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, zlog)
	defer consumer.Close()

	sender := email.NewSender(zlog)

	zlog.Info("worker started", logger.F("topic", cfg.Kafka.NotificationsTopic))
	err = consumer.Consume(ctx, sender.Send)
	if err != nil && !errors.Is(err, context.Canceled) {
		zlog.Error("consumer stopped", logger.F("error", err))
		os.Exit(1)
	}
	zlog.Info("worker stopped")
}
