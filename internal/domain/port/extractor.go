package port

import (
	"context"

	"keypoint-extractor/internal/domain/entity"
)

// KeypointExtractor интерфейс извлечения ключевых точек силуэта
type KeypointExtractor interface {
	// Extract читает изображение, находит крупнейший контур и возвращает точки с разметкой
	Extract(ctx context.Context, path string) (*entity.Extraction, error)
}
