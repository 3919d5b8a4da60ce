package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log"
	"os"
	"path/filepath"
	"strings"

	"keypoint-extractor/internal/domain/entity"
)

// Расширения, которые считаются изображениями (в нижнем регистре, с точкой).
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
}

const readDirBatch = 64

// DirectoryScanner перечисляет изображения в одном каталоге без рекурсии.
type DirectoryScanner struct{}

// NewDirectoryScanner создаёт сканер каталога
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{}
}

// IsImageFile проверяет расширение файла без учёта регистра.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Scan возвращает ленивую последовательность путей к изображениям в порядке,
// в котором их отдаёт файловая система. Каталог читается порциями по мере обхода.
func (s *DirectoryScanner) Scan(dir string) (iter.Seq[string], error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entity.ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", entity.ErrDirectoryNotFound, dir)
	}

	return func(yield func(string) bool) {
		f, err := os.Open(dir)
		if err != nil {
			log.Printf("Error opening %s: %v", dir, err)
			return
		}
		defer f.Close()

		for {
			entries, err := f.ReadDir(readDirBatch)
			for _, e := range entries {
				if e.IsDir() || !IsImageFile(e.Name()) {
					continue
				}
				if !yield(filepath.Join(dir, e.Name())) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					log.Printf("Error reading %s: %v", dir, err)
				}
				return
			}
		}
	}, nil
}
