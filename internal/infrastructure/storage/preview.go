package storage

import (
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Доли фигуры, которые занимает область осей по умолчанию.
const (
	axesWidthFraction  = 0.775
	axesHeightFraction = 0.77

	titlePoints   = 12.0 // кегль заголовка
	titleGapPoint = 6.0  // отступ заголовка от изображения
	paddingInches = 0.1  // поля обрезанной рамки
)

// PreviewOptions описывает геометрию превью.
type PreviewOptions struct {
	DPI          int
	FigureWidth  float64 // дюймы
	FigureHeight float64 // дюймы
}

// DefaultPreviewOptions: фигура 10x8 дюймов при 300 DPI.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{DPI: 300, FigureWidth: 10, FigureHeight: 8}
}

// RenderPreview вписывает изображение в область осей фигуры, ставит заголовок
// над ним и обрезает холст по содержимому с небольшими полями. Осей и делений нет.
func RenderPreview(img image.Image, title string, opts PreviewOptions) *image.NRGBA {
	dpi := float64(opts.DPI)
	body := fitToAxes(img, opts)
	heading := renderTitle(title, opts.DPI)

	pad := int(math.Round(paddingInches * dpi))
	gap := 0
	if heading != nil {
		gap = int(math.Round(titleGapPoint * dpi / 72))
	}

	bodyW, bodyH := body.Bounds().Dx(), body.Bounds().Dy()
	titleW, titleH := 0, 0
	if heading != nil {
		titleW, titleH = heading.Bounds().Dx(), heading.Bounds().Dy()
	}

	width := max(bodyW, titleW) + 2*pad
	height := pad + titleH + gap + bodyH + pad

	out := imaging.New(width, height, color.White)
	if heading != nil {
		out = imaging.Paste(out, heading, image.Pt((width-titleW)/2, pad))
	}
	return imaging.Paste(out, body, image.Pt((width-bodyW)/2, pad+titleH+gap))
}

// fitToAxes масштабирует изображение под область осей с сохранением пропорций.
func fitToAxes(img image.Image, opts PreviewOptions) *image.NRGBA {
	dpi := float64(opts.DPI)
	axesW := opts.FigureWidth * dpi * axesWidthFraction
	axesH := opts.FigureHeight * dpi * axesHeightFraction

	b := img.Bounds()
	scale := math.Min(axesW/float64(b.Dx()), axesH/float64(b.Dy()))
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// titleFont разбирается один раз на процесс.
var titleFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// titleFace возвращает Go Regular кеглем titlePoints при данном DPI.
// Шрифт покрывает латиницу, кириллицу и греческий; для остальных
// символов (например, CJK) рисуется пустой глиф.
func titleFace(dpi int) (font.Face, error) {
	f, err := titleFont()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    titlePoints,
		DPI:     float64(dpi),
		Hinting: font.HintingFull,
	})
}

// renderTitle рисует строку заголовка. Для пустой строки возвращает nil.
func renderTitle(title string, dpi int) *image.NRGBA {
	if title == "" {
		return nil
	}
	face, err := titleFace(dpi)
	if err != nil {
		log.Printf("Error loading title font: %v", err)
		return nil
	}
	defer face.Close()

	textW := font.MeasureString(face, title).Ceil()
	m := face.Metrics()
	textH := (m.Ascent + m.Descent).Ceil()
	if textW <= 0 || textH <= 0 {
		return nil
	}

	out := imaging.New(textW, textH, color.White)
	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: m.Ascent},
	}
	d.DrawString(title)
	return out
}
