package burstpick

import (
	"context"
	"errors"
	"log/slog"
)

// Frame is one group member after selection. Unscored frames only carry Path.
type Frame struct {
	Path        string
	Scored      bool
	Score       float64
	Blurry      bool
	Fingerprint string           // dHash hex, "" when unavailable
	Meta        *CaptureMetadata // nil when the file has no EXIF capture fields
}

// Selection is the outcome for one burst group.
//
// Winner is nil when the group is not scorable, is empty, or no member scored
// above zero. Losers holds every other member, including frames that failed to
// decode; those are also listed in Failures.
type Selection struct {
	Key      string
	Scorable bool
	Winner   *Frame
	Losers   []Frame
	Failures []Failure
}

// Selector picks the sharpest frame of a burst group.
type Selector struct {
	Scorer   FrameScorer
	Scorable KeyPredicate
}

// Select scores every member of a scorable group and keeps the first frame
// whose score is strictly greater than the running maximum, which starts at 0.
// Ties therefore go to the earliest listed frame, and a group whose frames all
// score 0 has no winner.
//
// Members of groups that fail the Scorable predicate are never decoded; they
// are all returned as unscored losers. A context error stops scoring and is
// returned alongside the partial selection.
func (s *Selector) Select(ctx context.Context, g BurstGroup) (Selection, error) {
	sel := Selection{Key: g.Key}
	if len(g.Paths) == 0 {
		return sel, nil
	}

	if s.Scorable == nil || !s.Scorable(g.Key) {
		for _, p := range g.Paths {
			sel.Losers = append(sel.Losers, Frame{Path: p})
		}
		return sel, nil
	}
	sel.Scorable = true

	var (
		frames   []Frame
		scored   int
		winner   = -1
		maxScore = 0.0
	)
	for _, p := range g.Paths {
		f, err := s.Scorer.ScoreFrame(ctx, p)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return sel, err
			}
			slog.Warn("burstpick: frame not scored", "group", g.Key, "path", p, "error", err.Error())
			sel.Failures = append(sel.Failures, Failure{Path: p, Stage: StageDecode, Err: err})
			frames = append(frames, Frame{Path: p})
			continue
		}
		f.Path = p
		f.Scored = true
		scored++
		if f.Score > maxScore {
			maxScore = f.Score
			winner = len(frames)
		}
		frames = append(frames, f)
	}

	for i, f := range frames {
		if i == winner {
			w := f
			sel.Winner = &w
			continue
		}
		sel.Losers = append(sel.Losers, f)
	}

	if sel.Winner == nil && scored > 0 {
		slog.Info("burstpick: no frame scored above zero", "group", g.Key, "frames", scored)
	}
	return sel, nil
}
