package port

import "iter"

// ImageScanner перечисляет файлы изображений во входном каталоге
type ImageScanner interface {
	// Scan возвращает ленивую последовательность путей или entity.ErrDirectoryNotFound
	Scan(dir string) (iter.Seq[string], error)
}
