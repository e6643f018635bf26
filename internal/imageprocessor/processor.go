package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // регистрация декодера
	"image/jpeg"
	_ "image/png" // регистрация декодера
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // регистрация декодера
)

// ContentType результата Normalize
const ContentType = "image/jpeg"

var ErrInvalidImage = errors.New("invalid image")

// Processor приводит загруженные изображения к одному виду
type Processor struct {
	quality int // JPEG quality (1-100)
	maxEdge int
}

func NewProcessor(quality, maxEdge int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if maxEdge <= 0 {
		maxEdge = 1600
	}
	return &Processor{quality: quality, maxEdge: maxEdge}
}

// Normalize декодирует изображение (jpeg, png, gif, webp), уменьшает его так,
// чтобы большая сторона не превышала maxEdge, и перекодирует в JPEG.
// Перекодирование заодно отбрасывает EXIF и прочие метаданные.
func (p *Processor) Normalize(reader io.Reader) ([]byte, error) {
	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	out := p.fit(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// fit вписывает изображение в квадрат maxEdge с сохранением пропорций.
// Прозрачные области заливаются белым: в JPEG нет альфа-канала.
func (p *Processor) fit(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	newWidth, newHeight := width, height
	if width > p.maxEdge || height > p.maxEdge {
		if width >= height {
			newWidth = p.maxEdge
			newHeight = max(1, height*p.maxEdge/width)
		} else {
			newHeight = p.maxEdge
			newWidth = max(1, width*p.maxEdge/height)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// Dimensions возвращает размеры изображения без полного декодирования
func Dimensions(reader io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return cfg.Width, cfg.Height, nil
}
