package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
)

// Значения по умолчанию совпадают с исходной пакетной обработкой.
const (
	DefaultInputDir        = "imgs"
	DefaultOutputDir       = "keypoints_results"
	DefaultNumPoints       = 6
	DefaultPointSize       = 30
	DefaultBinaryThreshold = 200
	DefaultEpsilonRatio    = 0.01
	DefaultPointColor      = "#ff0000"
	DefaultPreviewDPI      = 300
	DefaultFigureWidth     = 10.0
	DefaultFigureHeight    = 8.0
)

type Config struct {
	InputDir  string
	OutputDir string

	// Извлечение точек
	NumPoints       int     // сколько точек оставить на контуре
	PointSize       int     // радиус отметки на превью
	BinaryThreshold int     // порог бинаризации (тёмное ниже порога считается объектом)
	EpsilonRatio    float64 // допуск Douglas-Peucker как доля периметра
	PointColor      string  // цвет отметки в hex

	// Превью
	PreviewDPI   int
	FigureWidth  float64 // дюймы
	FigureHeight float64 // дюймы

	// Telegram (необязательно)
	TelegramToken  string
	TelegramChatID int64
}

// Default возвращает конфигурацию без учёта окружения.
func Default() *Config {
	return &Config{
		InputDir:        DefaultInputDir,
		OutputDir:       DefaultOutputDir,
		NumPoints:       DefaultNumPoints,
		PointSize:       DefaultPointSize,
		BinaryThreshold: DefaultBinaryThreshold,
		EpsilonRatio:    DefaultEpsilonRatio,
		PointColor:      DefaultPointColor,
		PreviewDPI:      DefaultPreviewDPI,
		FigureWidth:     DefaultFigureWidth,
		FigureHeight:    DefaultFigureHeight,
	}
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()
	cfg.InputDir = envString("KEYPOINTS_INPUT_DIR", cfg.InputDir)
	cfg.OutputDir = envString("KEYPOINTS_OUTPUT_DIR", cfg.OutputDir)
	cfg.PointColor = envString("KEYPOINTS_POINT_COLOR", cfg.PointColor)
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	var err error
	if cfg.NumPoints, err = envInt("KEYPOINTS_NUM_POINTS", cfg.NumPoints); err != nil {
		return nil, err
	}
	if cfg.PointSize, err = envInt("KEYPOINTS_POINT_SIZE", cfg.PointSize); err != nil {
		return nil, err
	}
	if cfg.BinaryThreshold, err = envInt("KEYPOINTS_THRESHOLD", cfg.BinaryThreshold); err != nil {
		return nil, err
	}
	if cfg.PreviewDPI, err = envInt("KEYPOINTS_PREVIEW_DPI", cfg.PreviewDPI); err != nil {
		return nil, err
	}
	if v := os.Getenv("KEYPOINTS_EPSILON_RATIO"); v != "" {
		cfg.EpsilonRatio, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("KEYPOINTS_EPSILON_RATIO: %w", err)
		}
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность параметров.
func (c *Config) Validate() error {
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("input and output directories must be set")
	}
	if c.NumPoints < 1 {
		return fmt.Errorf("num points must be positive, got %d", c.NumPoints)
	}
	if c.PointSize < 1 {
		return fmt.Errorf("point size must be positive, got %d", c.PointSize)
	}
	if c.BinaryThreshold < 1 || c.BinaryThreshold > 255 {
		return fmt.Errorf("binary threshold must be between 1 and 255, got %d", c.BinaryThreshold)
	}
	if c.EpsilonRatio <= 0 {
		return fmt.Errorf("epsilon ratio must be positive, got %g", c.EpsilonRatio)
	}
	if c.PreviewDPI < 1 {
		return fmt.Errorf("preview dpi must be positive, got %d", c.PreviewDPI)
	}
	if c.FigureWidth <= 0 || c.FigureHeight <= 0 {
		return errors.New("figure size must be positive")
	}
	if _, err := c.MarkerColor(); err != nil {
		return err
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return errors.New("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	return nil
}

// MarkerColor разбирает PointColor в непрозрачный RGBA.
func (c *Config) MarkerColor() (color.RGBA, error) {
	parsed, err := colorful.Hex(c.PointColor)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("point color %q: %w", c.PointColor, err)
	}
	r, g, b := parsed.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
