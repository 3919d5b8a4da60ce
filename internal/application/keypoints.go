package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"keypoint-extractor/internal/domain/entity"
	"keypoint-extractor/internal/domain/port"
)

// KeypointService проводит пакет изображений через извлечение и запись результатов.
type KeypointService struct {
	scanner   port.ImageScanner
	extractor port.KeypointExtractor
	writer    port.ResultWriter
	notifier  port.ResultNotifier
}

// NewKeypointService создаёт сервис пакетной обработки. notifier может быть nil.
func NewKeypointService(scanner port.ImageScanner, extractor port.KeypointExtractor, writer port.ResultWriter, notifier port.ResultNotifier) *KeypointService {
	return &KeypointService{
		scanner:   scanner,
		extractor: extractor,
		writer:    writer,
		notifier:  notifier,
	}
}

// Run обрабатывает все изображения inputDir по очереди и складывает результаты в outputDir.
// Ошибка возвращается только если входного каталога нет; сбой отдельного файла
// попадает в сводку и не прерывает пакет.
func (s *KeypointService) Run(ctx context.Context, inputDir, outputDir string) (*entity.BatchSummary, error) {
	if s.extractor == nil || s.writer == nil || s.scanner == nil {
		return nil, errors.New("keypoint service is not configured")
	}

	if err := ensureDir(outputDir); err != nil {
		// запись каждого файла всё равно упадёт и попадёт в сводку
		log.Printf("Error creating output directory %s: %v", outputDir, err)
	}

	files, err := s.scanner.Scan(inputDir)
	if err != nil {
		return nil, err
	}

	summary := &entity.BatchSummary{InputDir: inputDir, OutputDir: outputDir}
	for path := range files {
		if ctx.Err() != nil {
			log.Println("Interrupted, skipping remaining files")
			break
		}

		result := s.ProcessFile(ctx, path, outputDir)
		summary.Add(result)
		if !result.Succeeded() {
			log.Printf("Error processing %s: %v", filepath.Base(path), result.Err)
			continue
		}

		log.Printf("Processed %s (%d keypoints)", filepath.Base(path), len(result.Keypoints))
		log.Printf("  preview: %s", result.Artifacts.PreviewPath)
		log.Printf("  keypoints: %s", result.Artifacts.CSVPath)
		s.notify(ctx, result)
	}

	logSummary(summary)
	return summary, nil
}

// ProcessFile извлекает точки одного файла и записывает артефакты.
// Паника в библиотеке обработки превращается в ошибку файла.
func (s *KeypointService) ProcessFile(ctx context.Context, path, outputDir string) (result entity.FileResult) {
	result.Path = path
	defer func() {
		if r := recover(); r != nil {
			result.Artifacts = nil
			result.Err = fmt.Errorf("panic: %v", r)
		}
	}()

	extraction, err := s.extractor.Extract(ctx, path)
	if err != nil {
		result.Err = err
		return result
	}
	result.Keypoints = extraction.Keypoints

	artifacts, err := s.writer.Write(ctx, outputDir, path, extraction)
	if err != nil {
		result.Err = err
		return result
	}
	result.Artifacts = artifacts
	return result
}

func (s *KeypointService) notify(ctx context.Context, result entity.FileResult) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, result); err != nil {
		log.Printf("Error sending results for %s: %v", filepath.Base(result.Path), err)
	}
}

func ensureDir(dir string) error {
	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	log.Printf("Created output directory: %s", dir)
	return nil
}

func logSummary(s *entity.BatchSummary) {
	log.Printf("Done: %d file(s) processed, %d failed", s.Succeeded, s.Failed)
	if s.Succeeded == 0 {
		log.Printf("No images were processed. Check that %s contains image files", s.InputDir)
		return
	}
	log.Printf("All results are saved in %s", s.OutputDir)
}
