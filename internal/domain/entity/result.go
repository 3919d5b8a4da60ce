package entity

import "image"

// Extraction: результат обработки одного изображения экстрактором.
type Extraction struct {
	Keypoints     []image.Point // выбранные точки контура
	Annotated     image.Image   // копия исходника с отмеченными точками
	ContourArea   float64       // площадь выбранного контура
	PolygonSize   int           // число вершин после упрощения
	ContoursFound int           // сколько внешних контуров нашёл детектор
}

// Artifacts: пути к файлам, записанным для одного изображения.
type Artifacts struct {
	PreviewPath string
	CSVPath     string
}

// FileResult: итог обработки одного файла пакета.
type FileResult struct {
	Path      string
	Keypoints []image.Point
	Artifacts *Artifacts
	Err       error
}

// Succeeded сообщает, были ли записаны оба артефакта.
func (r FileResult) Succeeded() bool {
	return r.Err == nil && r.Artifacts != nil
}

// BatchSummary хранит итог всего прогона.
type BatchSummary struct {
	InputDir  string
	OutputDir string
	Succeeded int
	Failed    int
	Results   []FileResult
}

// Add учитывает результат очередного файла.
func (s *BatchSummary) Add(r FileResult) {
	s.Results = append(s.Results, r)
	if r.Succeeded() {
		s.Succeeded++
		return
	}
	s.Failed++
}
