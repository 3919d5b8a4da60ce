package port

import (
	"context"

	"keypoint-extractor/internal/domain/entity"
)

// ResultNotifier интерфейс доставки готовых результатов
type ResultNotifier interface {
	// Notify отправляет артефакты успешно обработанного файла
	Notify(ctx context.Context, result entity.FileResult) error
}
