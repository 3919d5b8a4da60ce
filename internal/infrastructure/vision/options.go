package vision

import "image/color"

// Options: параметры извлечения, общие для обоих бэкендов.
type Options struct {
	Threshold    int        // порог бинаризации
	EpsilonRatio float64    // допуск упрощения как доля периметра
	NumPoints    int        // сколько точек оставить
	PointSize    int        // радиус отметки
	PointColor   color.RGBA // цвет отметки
}

// DefaultOptions возвращает параметры исходной обработки: порог 200,
// допуск 1% периметра, 6 точек радиусом 30, чистый красный RGB(255,0,0).
func DefaultOptions() Options {
	return Options{
		Threshold:    200,
		EpsilonRatio: 0.01,
		NumPoints:    6,
		PointSize:    30,
		PointColor:   color.RGBA{R: 255, A: 255},
	}
}
