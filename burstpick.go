package burstpick

import (
	"context"
	"time"
)

// DefaultThreshold is the sharpness score below which a frame is reported as blurry.
const DefaultThreshold = 100.0

// DefaultKeyLength is the number of leading filename characters that form a group key.
const DefaultKeyLength = 4

// DefaultScorablePrefix marks burst groups produced by the camera's burst naming.
const DefaultScorablePrefix = "C"

// FrameScorer decodes and scores a single image file.
// Implementations must return an error wrapping ErrDecode or ErrEmptyImage
// when the file cannot be scored.
type FrameScorer interface {
	ScoreFrame(ctx context.Context, path string) (Frame, error)
}

// Mover relocates src into destDir and returns the resulting path.
type Mover interface {
	Move(src, destDir string) (string, error)
}

// Reporter receives progress after each group has been fully processed.
type Reporter interface {
	GroupDone(done, total int)
}

// NopReporter discards progress events.
type NopReporter struct{}

// GroupDone implements Reporter.
func (NopReporter) GroupDone(int, int) {}

// Config holds all dependencies injected by the consumer.
type Config struct {
	Scorer   FrameScorer // default: &FileScorer{Threshold, ResizePixels}
	Mover    Mover       // default: FileMover{}
	Reporter Reporter    // default: NopReporter{}

	KeyLength    int          // default: DefaultKeyLength (4)
	Scorable     KeyPredicate // default: PrefixPredicate(DefaultScorablePrefix)
	Threshold    float64      // default: DefaultThreshold (100.0)
	ResizePixels int          // 0 = score at native resolution
	Workers      int          // groups processed concurrently (default: 1)

	// ManifestPath, when set, receives one JSON line per relocation.
	ManifestPath string

	// Optional callbacks for metrics/logging.
	OnSelection func(Selection)
	OnPanic     func(tag string, r any)

	now func() time.Time
}

// defaults fills zero-value fields with sensible defaults.
func (c *Config) defaults() {
	if c.KeyLength <= 0 {
		c.KeyLength = DefaultKeyLength
	}
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Scorable == nil {
		c.Scorable = PrefixPredicate(DefaultScorablePrefix)
	}
	if c.Scorer == nil {
		c.Scorer = &FileScorer{Threshold: c.Threshold, ResizePixels: c.ResizePixels}
	}
	if c.Mover == nil {
		c.Mover = FileMover{}
	}
	if c.Reporter == nil {
		c.Reporter = NopReporter{}
	}
	if c.now == nil {
		c.now = time.Now
	}
}
