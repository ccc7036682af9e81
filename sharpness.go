package burstpick

import (
	"fmt"
	"image"
	"math"
	"slices"

	"golang.org/x/image/draw"
)

// DefaultSmoothing is the median window used by PrettyBlurMap.
const DefaultSmoothing = 5

// ResponseMap is a dense float64 raster in row-major order.
type ResponseMap struct {
	Width  int
	Height int
	Values []float64
}

func newResponseMap(w, h int) *ResponseMap {
	return &ResponseMap{Width: w, Height: h, Values: make([]float64, w*h)}
}

// At returns the value at column x, row y.
func (m *ResponseMap) At(x, y int) float64 {
	return m.Values[y*m.Width+x]
}

// Sharpness is the focus measurement of one image.
type Sharpness struct {
	Map    *ResponseMap // Laplacian response, same size as the image
	Score  float64      // variance of Map
	Blurry bool         // Score < threshold
}

// Estimate converts img to luminance, applies the 4-neighbour Laplacian and
// returns the variance of the response as the sharpness score.
//
// Luminance uses the ITU-R BT.601 weights 0.299 R + 0.587 G + 0.114 B
// quantised to 8 bits (color.GrayModel). Borders are reflected without
// repeating the edge pixel (reflect-101).
func Estimate(img image.Image, threshold float64) (Sharpness, error) {
	gray := toGray(img)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	if w == 0 || h == 0 {
		return Sharpness{}, fmt.Errorf("estimate sharpness: %w", ErrEmptyImage)
	}

	m := laplacian(gray)
	score := variance(m.Values)
	return Sharpness{Map: m, Score: score, Blurry: score < threshold}, nil
}

// toGray returns img as an 8-bit grayscale raster whose origin is (0, 0).
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

func laplacian(g *image.Gray) *ResponseMap {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	m := newResponseMap(w, h)
	px := func(x, y int) float64 {
		return float64(g.Pix[reflect101(y, h)*g.Stride+reflect101(x, w)])
	}
	for y := range h {
		for x := range w {
			m.Values[y*w+x] = px(x-1, y) + px(x+1, y) + px(x, y-1) + px(x, y+1) - 4*px(x, y)
		}
	}
	return m
}

// reflect101 maps an out-of-range index back into [0, n) as gfedcb|abcdefgh|gfedcba.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

// variance is the population variance of values.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}

// PrettyBlurMap turns a response map into a visualisation-ready map:
// log(1+|v|) per pixel followed by a median filter of the given odd window.
// Even windows are rounded up; windows below 3 skip smoothing.
func PrettyBlurMap(m *ResponseMap, smoothing int) *ResponseMap {
	logMap := newResponseMap(m.Width, m.Height)
	for i, v := range m.Values {
		logMap.Values[i] = math.Log1p(math.Abs(v))
	}
	if smoothing < 3 {
		return logMap
	}
	if smoothing%2 == 0 {
		smoothing++
	}
	return medianFilter(logMap, smoothing/2)
}

// medianFilter replicates edge pixels at the borders.
func medianFilter(m *ResponseMap, radius int) *ResponseMap {
	out := newResponseMap(m.Width, m.Height)
	window := make([]float64, 0, (2*radius+1)*(2*radius+1))
	for y := range m.Height {
		for x := range m.Width {
			window = window[:0]
			for dy := -radius; dy <= radius; dy++ {
				yy := min(max(y+dy, 0), m.Height-1)
				for dx := -radius; dx <= radius; dx++ {
					xx := min(max(x+dx, 0), m.Width-1)
					window = append(window, m.At(xx, yy))
				}
			}
			slices.Sort(window)
			out.Values[y*m.Width+x] = window[len(window)/2]
		}
	}
	return out
}

// Gray renders the map as an 8-bit image stretched between its minimum and maximum.
func (m *ResponseMap) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	if len(m.Values) == 0 {
		return img
	}
	lo, hi := slices.Min(m.Values), slices.Max(m.Values)
	span := hi - lo
	for i, v := range m.Values {
		if span > 0 {
			img.Pix[i] = uint8(math.Round((v - lo) / span * 255))
		}
	}
	return img
}
