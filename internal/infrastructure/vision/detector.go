//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	"keypoint-extractor/internal/domain/entity"
)

// GoCVExtractor извлекает ключевые точки через OpenCV.
type GoCVExtractor struct {
	Options
}

// NewGoCVExtractor создаёт экстрактор на OpenCV.
func NewGoCVExtractor(opts Options) *GoCVExtractor {
	return &GoCVExtractor{Options: opts}
}

// Extract реализует port.KeypointExtractor.
func (e *GoCVExtractor) Extract(ctx context.Context, path string) (*entity.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := readMat(path)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	// Тёмный объект на светлом фоне: всё ниже порога становится 255.
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, float32(e.Threshold), 255, gocv.ThresholdBinaryInv)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	if contours.Size() == 0 {
		return nil, entity.ErrNoContour
	}

	largest, maxArea := 0, -1.0
	for i := 0; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > maxArea {
			largest, maxArea = i, area
		}
	}
	contour := contours.At(largest)

	epsilon := e.EpsilonRatio * gocv.ArcLength(contour, true)
	approx := gocv.ApproxPolyDP(contour, epsilon, true)
	defer approx.Close()

	polygon := approx.ToPoints()
	keypoints := entity.SelectKeypoints(polygon, e.NumPoints)

	annotated := mat.Clone()
	defer annotated.Close()
	for _, p := range keypoints {
		gocv.Circle(&annotated, p, e.PointSize, e.PointColor, -1)
	}

	// Переводим в image.Image до закрытия Mat, чтобы писатель не держал память OpenCV.
	img, err := annotated.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert annotated image: %w", err)
	}

	return &entity.Extraction{
		Keypoints:     keypoints,
		Annotated:     img,
		ContourArea:   maxArea,
		PolygonSize:   len(polygon),
		ContoursFound: contours.Size(),
	}, nil
}

// readMat читает файл в BGR Mat. OpenCV не декодирует GIF, поэтому при
// пустом результате пробуем декодер Go.
func readMat(path string) (gocv.Mat, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if !mat.Empty() {
		return mat, nil
	}
	mat.Close()

	img, err := imaging.Open(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %s: %v", entity.ErrDecode, path, err)
	}
	mat, err = gocv.ImageToMatRGB(opaqueCopy(img))
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %s: %v", entity.ErrDecode, path, err)
	}
	return mat, nil
}
