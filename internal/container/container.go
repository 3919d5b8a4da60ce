package container

import (
	"log"

	"keypoint-extractor/config"
	telegram "keypoint-extractor/internal/api"
	app "keypoint-extractor/internal/application"
	"keypoint-extractor/internal/domain/port"
	"keypoint-extractor/internal/infrastructure/storage"
	"keypoint-extractor/internal/infrastructure/vision"
)

type Container struct {
	KeypointService *app.KeypointService
}

// New собирает сервисы из конфигурации. Если Telegram не настроен
// или авторизация не удалась, результаты только пишутся на диск.
func New(cfg *config.Config) (*Container, error) {
	marker, err := cfg.MarkerColor()
	if err != nil {
		return nil, err
	}

	extractor := vision.NewExtractor(vision.Options{
		Threshold:    cfg.BinaryThreshold,
		EpsilonRatio: cfg.EpsilonRatio,
		NumPoints:    cfg.NumPoints,
		PointSize:    cfg.PointSize,
		PointColor:   marker,
	})

	writer := storage.NewFileResultWriter(storage.PreviewOptions{
		DPI:          cfg.PreviewDPI,
		FigureWidth:  cfg.FigureWidth,
		FigureHeight: cfg.FigureHeight,
	})

	var notifier port.ResultNotifier
	if cfg.TelegramToken != "" {
		n, err := telegram.Connect(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("Telegram delivery disabled: %v", err)
		} else {
			notifier = n
		}
	}

	return &Container{
		KeypointService: app.NewKeypointService(storage.NewDirectoryScanner(), extractor, writer, notifier),
	}, nil
}
