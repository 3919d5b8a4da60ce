package entity

import "errors"

var (
	// ErrDirectoryNotFound: входной каталог отсутствует, пакет не запускается.
	ErrDirectoryNotFound = errors.New("input directory not found")

	// ErrDecode: файл не читается или не является изображением.
	ErrDecode = errors.New("failed to decode image")

	// ErrNoContour: на маске не найдено ни одного контура.
	ErrNoContour = errors.New("no contour found")
)
