// Package signature converts freehand stroke captures into compact
// embedded PNG images and validates embedded signature strings before
// they are accepted for persistence.
package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"
)

// Canvas dimensions for the rasterized signature. Captures are
// downscaled to this fixed size so stored records stay small even when
// the source drawing surface is high resolution.
const (
	CanvasWidth  = 300
	CanvasHeight = 150
)

// MinEncodedLength is the minimum total length of an accepted embedded
// image string. Anything at or below this is a degenerate payload.
const MinEncodedLength = 100

// Accepted data-URI prefixes. PNG is what the codec itself produces;
// JPEG is accepted on input for captures re-encoded by older clients.
const (
	PrefixPNG  = "data:image/png;base64,"
	PrefixJPEG = "data:image/jpeg;base64,"
)

// ErrEmptySignature is returned by Encode when the capture contains no
// strokes. Callers must treat it as a validation failure, never as an
// empty image.
var ErrEmptySignature = errors.New("signature: empty stroke capture")

// Point is a single sampled pen position in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous pen-down sequence of points.
type Stroke []Point

const penRadius = 1.0 // 2px pen

// Encode rasterizes the strokes onto a 300x150 canvas composited over
// opaque white and returns the result as a PNG data URI. An empty
// capture yields ErrEmptySignature.
func Encode(strokes []Stroke) (string, error) {
	if empty(strokes) {
		return "", ErrEmptySignature
	}

	img := image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	// White background avoids transparency artifacts when the image is
	// re-rendered in list views.
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for _, s := range strokes {
		drawStroke(img, s)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return PrefixPNG + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Validate reports whether s is an acceptable embedded signature
// image: a recognized PNG or JPEG data-URI prefix and a total length
// above MinEncodedLength. This is a string-level integrity check only;
// pixel content is never decoded.
func Validate(s string) bool {
	if len(s) <= MinEncodedLength {
		return false
	}
	return strings.HasPrefix(s, PrefixPNG) || strings.HasPrefix(s, PrefixJPEG)
}

func empty(strokes []Stroke) bool {
	for _, s := range strokes {
		if len(s) > 0 {
			return false
		}
	}
	return true
}

func drawStroke(img *image.RGBA, s Stroke) {
	if len(s) == 1 {
		drawDot(img, s[0].X, s[0].Y)
		return
	}
	for i := 1; i < len(s); i++ {
		drawSegment(img, s[i-1], s[i])
	}
}

// drawSegment rasterizes a line by stamping the pen at sub-pixel steps
// along it. Step size of half the pen radius keeps the line solid.
func drawSegment(img *image.RGBA, a, b Point) {
	dx, dy := b.X-a.X, b.Y-a.Y
	dist := math.Hypot(dx, dy)
	steps := int(dist/(penRadius/2)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		drawDot(img, a.X+dx*t, a.Y+dy*t)
	}
}

func drawDot(img *image.RGBA, cx, cy float64) {
	minX := int(math.Floor(cx - penRadius))
	maxX := int(math.Ceil(cx + penRadius))
	minY := int(math.Floor(cy - penRadius))
	maxY := int(math.Ceil(cy + penRadius))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if x < 0 || y < 0 || x >= CanvasWidth || y >= CanvasHeight {
				continue
			}
			if math.Hypot(float64(x)-cx, float64(y)-cy) <= penRadius {
				img.Set(x, y, color.Black)
			}
		}
	}
}
