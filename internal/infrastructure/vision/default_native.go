//go:build !gocv
// +build !gocv

package vision

import "keypoint-extractor/internal/domain/port"

// Backend: имя бэкенда, попавшего в сборку.
const Backend = "native"

// NewExtractor возвращает экстрактор на чистом Go (сборка без тега gocv).
func NewExtractor(opts Options) port.KeypointExtractor {
	return NewNativeExtractor(opts)
}
