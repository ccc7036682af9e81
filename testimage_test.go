package burstpick

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// makeChecker returns a w×h checkerboard of square-pixel cells.
func makeChecker(w, h, square int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if (x/square+y/square)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// makeFlat returns a w×h image of a single colour.
func makeFlat(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

// boxBlur averages every pixel with its 3×3 neighbourhood (edges clamped).
func boxBlur(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var sum, n int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					p := image.Pt(x+dx, y+dy)
					if p.In(b) {
						sum += int(src.GrayAt(p.X, p.Y).Y)
						n++
					}
				}
			}
			dst.SetGray(x, y, color.Gray{Y: uint8(sum / n)})
		}
	}
	return dst
}

// encodePNG returns img encoded as PNG.
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// writeFile creates dir/name with data and returns its path.
func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// stubScorer returns fixed scores keyed by file base name and counts calls.
type stubScorer struct {
	mu     sync.Mutex
	scores map[string]float64
	errs   map[string]error
	calls  []string
}

func (s *stubScorer) ScoreFrame(ctx context.Context, path string) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	name := filepath.Base(path)
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()

	if err, ok := s.errs[name]; ok {
		return Frame{}, err
	}
	score, ok := s.scores[name]
	if !ok {
		return Frame{}, fmt.Errorf("%w: no stub score for %s", ErrDecode, name)
	}
	return Frame{Path: path, Score: score, Fingerprint: "stub-" + name}, nil
}

func (s *stubScorer) called() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// recordingReporter stores every progress event.
type recordingReporter struct {
	mu     sync.Mutex
	events [][2]int
}

func (r *recordingReporter) GroupDone(done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, [2]int{done, total})
}

// listNames returns the entry names of dir.
func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
