package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"keypoint-extractor/config"
	"keypoint-extractor/internal/container"
	"keypoint-extractor/internal/domain/entity"
	"keypoint-extractor/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appContainer, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}

	// Ctrl+C дорабатывает текущий файл и останавливает пакет
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Extracting keypoints from %s (%s backend)", cfg.InputDir, vision.Backend)

	_, err = appContainer.KeypointService.Run(ctx, cfg.InputDir, cfg.OutputDir)
	if errors.Is(err, entity.ErrDirectoryNotFound) {
		log.Printf("Error: directory %s not found", cfg.InputDir)
		stop()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Batch failed: %v", err)
	}
}
