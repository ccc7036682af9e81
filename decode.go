package burstpick

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadOpts configures how a frame is read before scoring.
type LoadOpts struct {
	// ResizePixels scales the decoded image to roughly this many pixels.
	// Zero keeps the native resolution.
	ResizePixels int
}

// LoadedFrame is a decoded image together with the bytes it came from.
type LoadedFrame struct {
	Data   []byte // raw file contents, used for metadata extraction
	Format string // decoder name: "jpeg", "png", "webp", ...
	Image  image.Image
}

// LoadFrame reads and decodes the image at path.
// Errors wrap ErrDecode for unreadable or undecodable files and ErrEmptyImage
// for images without pixels.
func LoadFrame(path string, opts LoadOpts) (*LoadedFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrDecode, path, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyImage)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	if opts.ResizePixels > 0 {
		img = ResizeToPixels(img, opts.ResizePixels)
	}

	return &LoadedFrame{Data: data, Format: format, Image: img}, nil
}

// FileScorer scores frames read from the local filesystem.
type FileScorer struct {
	Threshold    float64 // blurry threshold (default: DefaultThreshold)
	ResizePixels int     // see LoadOpts.ResizePixels
}

// ScoreFrame implements FrameScorer.
func (s *FileScorer) ScoreFrame(ctx context.Context, path string) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	threshold := s.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	lf, err := LoadFrame(path, LoadOpts{ResizePixels: s.ResizePixels})
	if err != nil {
		return Frame{}, err
	}

	sharp, err := Estimate(lf.Image, threshold)
	if err != nil {
		return Frame{}, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("burstpick: scored", "path", path, "score", sharp.Score, "blurry", sharp.Blurry)

	return Frame{
		Path:        path,
		Scored:      true,
		Score:       sharp.Score,
		Blurry:      sharp.Blurry,
		Fingerprint: Fingerprint(lf.Image),
		Meta:        ExtractCaptureMetadata(lf.Data, lf.Format),
	}, nil
}
