package entity

import (
	"image"
	"math"
)

// SelectKeypoints прореживает упрощённый полигон до numPoints вершин.
// Индексы берутся равномерно от 0 до len(approx)-1 включительно с округлением
// до ближайшего целого. Если вершин не больше numPoints, полигон возвращается целиком.
func SelectKeypoints(approx []image.Point, numPoints int) []image.Point {
	if len(approx) <= numPoints {
		out := make([]image.Point, len(approx))
		copy(out, approx)
		return out
	}
	if numPoints <= 0 {
		return []image.Point{}
	}
	if numPoints == 1 {
		return []image.Point{approx[0]}
	}

	last := float64(len(approx) - 1)
	step := last / float64(numPoints-1)
	out := make([]image.Point, 0, numPoints)
	for i := 0; i < numPoints; i++ {
		idx := int(math.Round(float64(i) * step))
		if idx > len(approx)-1 {
			idx = len(approx) - 1
		}
		out = append(out, approx[idx])
	}
	return out
}
