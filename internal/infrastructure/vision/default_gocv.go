//go:build gocv
// +build gocv

package vision

import "keypoint-extractor/internal/domain/port"

// Backend: имя бэкенда, попавшего в сборку.
const Backend = "gocv"

// NewExtractor возвращает экстрактор на OpenCV.
func NewExtractor(opts Options) port.KeypointExtractor {
	return NewGoCVExtractor(opts)
}
