package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"FinScore/internal/di"
	"FinScore/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Printf("finscore: %v", err)
		os.Exit(1)
	}
}

// run blocks until SIGINT/SIGTERM or a fatal component error.
func run(configPath string) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}
	log.Printf("env=%s universes=%d strategy=%s clickhouse=%t kafka=%t scheduler=%t",
		cfg.Environment, len(cfg.Universes), cfg.Scan.Strategy,
		cfg.ClickHouse.Enabled, cfg.Kafka.Enabled, cfg.Scheduler.Enabled)

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization: %w", err)
	}
	defer cleanup()

	return app.Run(context.Background())
}
