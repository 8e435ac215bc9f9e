package ascii

import (
	"errors"
	"image"
	"strings"

	"gocv.io/x/gocv"

	"github.com/teslashibe/termcam/internal/log"
	"github.com/teslashibe/termcam/pkg/frame"
)

var errEmptyImage = errors.New("decoded image is empty")

// Converter renders a captured frame as a glyph grid. A conversion
// never fails outward; any decode or resize problem yields a
// placeholder grid so one bad frame cannot stop the render loop.
type Converter struct{}

// NewConverter returns a Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert produces a targetWidth x targetHeight glyph grid, rows joined
// with newlines.
//
// Raw grayscale frames that already match the target dimensions map
// straight to glyphs; the hardware path scales in ffmpeg so this is its
// steady state. Everything else goes through OpenCV: decode to gray,
// nearest-neighbor resize, then map.
func (c *Converter) Convert(f frame.Frame, targetWidth, targetHeight int, ramp Ramp) string {
	if targetWidth <= 0 || targetHeight <= 0 || len(ramp) < 2 {
		return ""
	}

	if f.Representation == frame.RawGrayscale && len(f.Bytes) == targetWidth*targetHeight {
		return mapToGlyphs(f.Bytes, targetWidth, targetHeight, ramp)
	}

	pixels, err := decodeAndResize(f.Bytes, targetWidth, targetHeight)
	if err != nil {
		log.Debug("frame conversion failed", "err", err)
		return Placeholder(targetWidth, targetHeight, "frame unavailable")
	}
	return mapToGlyphs(pixels, targetWidth, targetHeight, ramp)
}

// decodeAndResize turns encoded image bytes into exactly w*h gray
// pixels.
func decodeAndResize(data []byte, w, h int) ([]byte, error) {
	img, err := gocv.IMDecode(data, gocv.IMReadGrayScale)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	if img.Empty() {
		return nil, errEmptyImage
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, image.Pt(w, h), 0, 0, gocv.InterpolationNearestNeighbor)

	return resized.ToBytes()
}

// mapToGlyphs builds the row-major glyph grid.
func mapToGlyphs(pixels []byte, w, h int, ramp Ramp) string {
	var sb strings.Builder
	sb.Grow(h * (w*3 + 1)) // ramp glyphs may be multi-byte runes

	for y := 0; y < h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		row := pixels[y*w : (y+1)*w]
		for _, b := range row {
			sb.WriteRune(ramp.Glyph(b))
		}
	}
	return sb.String()
}

// Placeholder returns a grid of the requested dimensions with a message
// centered in the middle row. Used when a frame cannot be converted.
func Placeholder(w, h int, msg string) string {
	text := []rune("[ " + msg + " ]")
	if len(text) > w {
		text = text[:w]
	}
	start := (w - len(text)) / 2
	mid := h / 2

	var sb strings.Builder
	sb.Grow(h * (w + 1))
	for y := 0; y < h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			if y == mid && x >= start && x < start+len(text) {
				sb.WriteRune(text[x-start])
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
