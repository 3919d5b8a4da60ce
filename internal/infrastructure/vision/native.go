package vision

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"keypoint-extractor/internal/domain/entity"
)

// Веса яркости ITU-R BT.601, как у cv::cvtColor.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// NativeExtractor извлекает ключевые точки без OpenCV.
type NativeExtractor struct {
	Options
}

// NewNativeExtractor создаёт экстрактор на чистом Go.
func NewNativeExtractor(opts Options) *NativeExtractor {
	return &NativeExtractor{Options: opts}
}

// Extract реализует port.KeypointExtractor.
func (e *NativeExtractor) Extract(ctx context.Context, path string) (*entity.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrDecode, path, err)
	}
	annotated := opaqueCopy(src)

	binary := binarize(annotated, uint8(e.Threshold))
	contours := findExternalContours(newMask(binary))
	if len(contours) == 0 {
		return nil, entity.ErrNoContour
	}

	idx, area := largestContour(contours)
	contour := contours[idx]
	approx := approxPolyDP(contour, e.EpsilonRatio*arcLength(contour))
	keypoints := entity.SelectKeypoints(approx, e.NumPoints)

	for _, p := range keypoints {
		fillCircle(annotated, p, e.PointSize, e.PointColor)
	}

	return &entity.Extraction{
		Keypoints:     keypoints,
		Annotated:     annotated,
		ContourArea:   area,
		PolygonSize:   len(approx),
		ContoursFound: len(contours),
	}, nil
}

// opaqueCopy копирует изображение в NRGBA с началом в (0, 0) и отбрасывает
// альфа-канал, оставляя записанный цвет, как при чтении в BGR без альфы.
func opaqueCopy(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255
	}
	return out
}

// binarize переводит изображение в оттенки серого и инвертирует порог:
// всё темнее level становится объектом (255), остальное фоном (0).
// Яркость bild возвращает в RGBA, поэтому читается каждый четвёртый байт.
func binarize(img image.Image, level uint8) *image.Gray {
	luma := effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)
	w, h := luma.Bounds().Dx(), luma.Bounds().Dy()
	bin := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := luma.Pix[y*luma.Stride : y*luma.Stride+w*4]
		for x := 0; x < w; x++ {
			if row[x*4] < level {
				bin.Pix[y*bin.Stride+x] = 255
			}
		}
	}
	return bin
}

// fillCircle рисует залитый круг радиуса r с центром c, обрезая по границам.
func fillCircle(img *image.NRGBA, c image.Point, r int, col color.RGBA) {
	b := img.Bounds()
	area := image.Rect(c.X-r, c.Y-r, c.X+r+1, c.Y+r+1).Intersect(b)
	rr := r * r
	for y := area.Min.Y; y < area.Max.Y; y++ {
		dy := y - c.Y
		for x := area.Min.X; x < area.Max.X; x++ {
			dx := x - c.X
			if dx*dx+dy*dy > rr {
				continue
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = col.R
			img.Pix[i+1] = col.G
			img.Pix[i+2] = col.B
			img.Pix[i+3] = 255
		}
	}
}
