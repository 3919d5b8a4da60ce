package vision

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Соседи по 8-связности против часовой стрелки на экране (ось Y вниз), начиная с востока.
var neighbours = [8]image.Point{
	{X: 1, Y: 0},   // E
	{X: 1, Y: -1},  // NE
	{X: 0, Y: -1},  // N
	{X: -1, Y: -1}, // NW
	{X: -1, Y: 0},  // W
	{X: -1, Y: 1},  // SW
	{X: 0, Y: 1},   // S
	{X: 1, Y: 1},   // SE
}

const dirWest = 4

// mask: бинарная маска, где true означает пиксель объекта.
type mask struct {
	w, h int
	pix  []bool
}

func newMask(bin *image.Gray) *mask {
	b := bin.Bounds()
	m := &mask{w: b.Dx(), h: b.Dy(), pix: make([]bool, b.Dx()*b.Dy())}
	for y := 0; y < m.h; y++ {
		row := bin.Pix[y*bin.Stride : y*bin.Stride+m.w]
		for x, v := range row {
			m.pix[y*m.w+x] = v == 255
		}
	}
	return m
}

func (m *mask) at(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	return m.pix[y*m.w+x]
}

// findExternalContours возвращает внешние границы всех 8-связных компонент
// в порядке растрового обхода, сжатые до вершин смены направления.
// Контуры объектов внутри дыр тоже попадают в список, но площадь их
// границы всегда меньше площади охватывающего контура.
func findExternalContours(m *mask) [][]image.Point {
	labelled := make([]bool, len(m.pix))
	var contours [][]image.Point

	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			i := y*m.w + x
			if !m.pix[i] || labelled[i] {
				continue
			}
			// первый пиксель компоненты при растровом обходе верхний левый,
			// слева от него всегда фон
			markComponent(m, labelled, x, y)
			contours = append(contours, compressChain(traceBorder(m, x, y)))
		}
	}
	return contours
}

// markComponent помечает 8-связную компоненту итеративной заливкой.
func markComponent(m *mask, labelled []bool, sx, sy int) {
	stack := []image.Point{{X: sx, Y: sy}}
	labelled[sy*m.w+sx] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range neighbours {
			nx, ny := p.X+d.X, p.Y+d.Y
			if !m.at(nx, ny) || labelled[ny*m.w+nx] {
				continue
			}
			labelled[ny*m.w+nx] = true
			stack = append(stack, image.Point{X: nx, Y: ny})
		}
	}
}

// traceBorder обходит внешнюю границу компоненты от пикселя (sx, sy),
// у которого западный сосед является фоном.
func traceBorder(m *mask, sx, sy int) []image.Point {
	start := image.Point{X: sx, Y: sy}

	// по часовой стрелке от запада ищем первого соседа
	first := -1
	for k := 0; k < 8; k++ {
		d := (dirWest - k + 8) % 8
		if m.at(sx+neighbours[d].X, sy+neighbours[d].Y) {
			first = d
			break
		}
	}
	if first < 0 {
		return []image.Point{start}
	}

	second := start.Add(neighbours[first])
	prev, cur := second, start
	contour := []image.Point{}
	for {
		back := direction(prev.Sub(cur))
		next := cur
		for k := 1; k <= 8; k++ {
			d := (back + k) % 8
			cand := cur.Add(neighbours[d])
			if m.at(cand.X, cand.Y) {
				next = cand
				break
			}
		}
		contour = append(contour, cur)
		if next == start && cur == second {
			return contour
		}
		prev, cur = cur, next
	}
}

func direction(d image.Point) int {
	for i, n := range neighbours {
		if n == d {
			return i
		}
	}
	return 0
}

// compressChain оставляет только вершины, где меняется направление обхода.
func compressChain(chain []image.Point) []image.Point {
	n := len(chain)
	if n <= 2 {
		return chain
	}
	out := make([]image.Point, 0, n)
	for i, p := range chain {
		in := p.Sub(chain[(i-1+n)%n])
		next := chain[(i+1)%n].Sub(p)
		if in != next {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return chain[:1]
	}
	return out
}

func vec(p image.Point) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

// contourArea: площадь замкнутого многоугольника по формуле шнурков.
func contourArea(contour []image.Point) float64 {
	n := len(contour)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := range contour {
		sum += r2.Cross(vec(contour[i]), vec(contour[(i+1)%n]))
	}
	return math.Abs(sum) / 2
}

// arcLength: периметр контура как замкнутой ломаной.
func arcLength(contour []image.Point) float64 {
	n := len(contour)
	if n < 2 {
		return 0
	}
	length := 0.0
	for i := range contour {
		length += r2.Norm(r2.Sub(vec(contour[(i+1)%n]), vec(contour[i])))
	}
	return length
}

// largestContour возвращает индекс контура с наибольшей площадью;
// при равенстве побеждает первый.
func largestContour(contours [][]image.Point) (int, float64) {
	best, bestArea := -1, -1.0
	for i, c := range contours {
		if area := contourArea(c); area > bestArea {
			best, bestArea = i, area
		}
	}
	return best, bestArea
}

// approxPolyDP упрощает замкнутый контур алгоритмом Douglas-Peucker.
// Контур делится на две цепочки: от первой точки до самой удалённой от неё
// и обратно; порядок вершин сохраняется, первая точка всегда остаётся.
func approxPolyDP(contour []image.Point, epsilon float64) []image.Point {
	n := len(contour)
	if n < 3 {
		out := make([]image.Point, n)
		copy(out, contour)
		return out
	}

	far, farDist := 0, -1.0
	origin := vec(contour[0])
	for i := 1; i < n; i++ {
		if d := r2.Norm2(r2.Sub(vec(contour[i]), origin)); d > farDist {
			far, farDist = i, d
		}
	}

	// кольцо из n+1 точек: последняя совпадает с первой
	ring := make([]image.Point, n+1)
	copy(ring, contour)
	ring[n] = contour[0]

	keep := make([]bool, n+1)
	keep[0], keep[far] = true, true

	type segment struct{ lo, hi int }
	stack := []segment{{0, far}, {far, n}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.hi-s.lo < 2 {
			continue
		}
		idx, dist := farthestFromSegment(ring, s.lo, s.hi)
		if dist > epsilon {
			keep[idx] = true
			stack = append(stack, segment{s.lo, idx}, segment{idx, s.hi})
		}
	}

	out := make([]image.Point, 0, n)
	for i := 0; i < n; i++ {
		if keep[i] {
			out = append(out, contour[i])
		}
	}
	return out
}

// farthestFromSegment ищет точку между lo и hi, наиболее удалённую от прямой через концы.
func farthestFromSegment(pts []image.Point, lo, hi int) (int, float64) {
	a, b := vec(pts[lo]), vec(pts[hi])
	ab := r2.Sub(b, a)
	norm := r2.Norm(ab)

	best, bestDist := lo, -1.0
	for i := lo + 1; i < hi; i++ {
		ap := r2.Sub(vec(pts[i]), a)
		var d float64
		if norm == 0 {
			d = r2.Norm(ap)
		} else {
			d = math.Abs(r2.Cross(ab, ap)) / norm
		}
		if d > bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}
