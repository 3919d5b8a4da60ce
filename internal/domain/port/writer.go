package port

import (
	"context"

	"keypoint-extractor/internal/domain/entity"
)

// ResultWriter интерфейс сохранения результатов
type ResultWriter interface {
	// Write сохраняет превью и CSV с координатами в outputDir
	Write(ctx context.Context, outputDir, sourcePath string, extraction *entity.Extraction) (*entity.Artifacts, error)
}
