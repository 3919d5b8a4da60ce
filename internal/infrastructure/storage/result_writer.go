package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"keypoint-extractor/internal/domain/entity"
)

// TimestampLayout: метка времени в именах файлов, точность до секунды.
const TimestampLayout = "20060102_150405"

var csvHeader = []string{"x", "y"}

// FileResultWriter сохраняет превью и координаты точек на диск.
// Файлы, записанные в одну и ту же секунду для одного имени, перезаписываются.
type FileResultWriter struct {
	preview PreviewOptions
	now     func() time.Time
}

// NewFileResultWriter создаёт писатель результатов
func NewFileResultWriter(preview PreviewOptions) *FileResultWriter {
	return &FileResultWriter{preview: preview, now: time.Now}
}

// WithClock подменяет источник времени.
func (w *FileResultWriter) WithClock(now func() time.Time) *FileResultWriter {
	w.now = now
	return w
}

// Write реализует port.ResultWriter. Если CSV не записался, уже сохранённое превью остаётся.
func (w *FileResultWriter) Write(ctx context.Context, outputDir, sourcePath string, extraction *entity.Extraction) (*entity.Artifacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if extraction == nil || extraction.Annotated == nil {
		return nil, errors.New("nothing to write")
	}

	base := BaseName(sourcePath)
	stem := ArtifactStem(base, w.now())

	previewPath := filepath.Join(outputDir, stem+".png")
	preview := RenderPreview(extraction.Annotated, base, w.preview)
	if err := imaging.Save(preview, previewPath); err != nil {
		return nil, fmt.Errorf("save preview: %w", err)
	}

	csvPath := filepath.Join(outputDir, stem+".csv")
	if err := WriteKeypointsCSV(csvPath, extraction.Keypoints); err != nil {
		return nil, fmt.Errorf("save keypoints: %w", err)
	}

	return &entity.Artifacts{PreviewPath: previewPath, CSVPath: csvPath}, nil
}

// BaseName возвращает имя файла без каталога и последнего расширения.
func BaseName(path string) string {
	name := filepath.Base(path)
	if stem := strings.TrimSuffix(name, filepath.Ext(name)); stem != "" {
		return stem
	}
	return name
}

// ArtifactStem строит общую основу имён: {base}_keypoints_{YYYYMMDD_HHMMSS}.
func ArtifactStem(base string, at time.Time) string {
	return fmt.Sprintf("%s_keypoints_%s", base, at.Format(TimestampLayout))
}

// WriteKeypointsCSV пишет заголовок x,y и по строке на точку.
func WriteKeypointsCSV(path string, points []image.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		f.Close()
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{strconv.Itoa(p.X), strconv.Itoa(p.Y)}); err != nil {
			f.Close()
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadKeypointsCSV читает файл, записанный WriteKeypointsCSV.
func ReadKeypointsCSV(path string) ([]image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = 2
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 || rows[0][0] != csvHeader[0] || rows[0][1] != csvHeader[1] {
		return nil, fmt.Errorf("parse %s: missing x,y header", path)
	}

	points := make([]image.Point, 0, len(rows)-1)
	for i, row := range rows[1:] {
		x, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("parse %s row %d: %w", path, i+2, err)
		}
		y, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("parse %s row %d: %w", path, i+2, err)
		}
		points = append(points, image.Pt(x, y))
	}
	return points, nil
}
