package burstpick

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// LockFileName is created in the destination directory for the duration of a run.
const LockFileName = ".burstpick.lock"

// ErrLocked reports that another run holds the destination directory.
var ErrLocked = errors.New("destination is locked by another run")

// Selector returns the group selector configured by cfg.
func (cfg *Config) Selector() *Selector {
	cfg.defaults()
	return &Selector{Scorer: cfg.Scorer, Scorable: cfg.Scorable}
}

// Curate keeps the sharpest frame of every scorable burst group in sourceDir
// and relocates every grouped file into destDir: losers first, then the winner.
//
// A missing source directory fails fast with ErrSourceDir. Per-path decode and
// relocation failures never abort the run; they are collected in the summary
// (see RunSummary.Err). Cancelling ctx stops scheduling new groups; a group
// interrupted while scoring is left in place.
func (cfg *Config) Curate(ctx context.Context, sourceDir, destDir string) (*RunSummary, error) {
	cfg.defaults()

	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSourceDir, sourceDir)
	}
	if same, err := samePath(sourceDir, destDir); err != nil {
		return nil, err
	} else if same {
		return nil, fmt.Errorf("destination %s must differ from the source directory", destDir)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination %q: %w", destDir, err)
	}

	lockPath := filepath.Join(destDir, LockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("burstpick: release lock", "path", lockPath, "error", err.Error())
		}
		_ = os.Remove(lockPath)
	}()

	var manifest *manifestWriter
	if cfg.ManifestPath != "" {
		if manifest, err = openManifest(cfg.ManifestPath); err != nil {
			return nil, err
		}
		defer manifest.Close()
	}

	groups, err := ListGroups(sourceDir, cfg.KeyLength, destDir, lockPath, cfg.ManifestPath)
	if err != nil {
		return nil, err
	}

	r := &run{
		cfg:      cfg,
		selector: cfg.Selector(),
		manifest: manifest,
		destDir:  destDir,
		total:    len(groups),
		summary: &RunSummary{
			RunID:       uuid.NewString(),
			Source:      sourceDir,
			Destination: destDir,
			Started:     cfg.now(),
		},
	}

	slog.Info("burstpick: run started",
		"run_id", r.summary.RunID, "source", sourceDir, "destination", destDir,
		"groups", len(groups), "workers", cfg.Workers)

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for _, grp := range groups {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return r.curateGroup(ctx, grp)
		})
	}
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	r.summary.Elapsed = cfg.now().Sub(r.summary.Started)
	slog.Info("burstpick: run finished",
		"run_id", r.summary.RunID, "groups", r.summary.Groups,
		"winners", r.summary.Winners, "losers", r.summary.Losers,
		"failures", len(r.summary.Failures), "elapsed", r.summary.Elapsed)

	return r.summary, err
}

// run is the mutable state of one Curate call.
type run struct {
	cfg      *Config
	selector *Selector
	manifest *manifestWriter
	destDir  string
	total    int

	mu      sync.Mutex
	done    int
	summary *RunSummary
}

// curateGroup selects and relocates one group. A panic is recovered so a
// single bad group cannot take down the pool; the group is still counted and
// every file it left behind is recorded as a StagePanic failure.
func (r *run) curateGroup(ctx context.Context, g BurstGroup) error {
	var (
		sel             = Selection{Key: g.Key}
		failures        []Failure
		moved           = make(map[string]bool, len(g.Paths))
		winners, losers int
		recorded        bool
	)
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if r.cfg.OnPanic != nil {
			r.cfg.OnPanic("curateGroup", rec)
		}
		slog.Error("burstpick: group panicked", "group", g.Key, "panic", rec)
		if recorded {
			return
		}

		failed := make(map[string]bool, len(failures))
		for _, f := range failures {
			failed[f.Path] = true
		}
		cause := fmt.Errorf("panic: %v", rec)
		for _, p := range g.Paths {
			if !moved[p] && !failed[p] {
				failures = append(failures, Failure{Path: p, Stage: StagePanic, Err: cause})
			}
		}
		r.record(sel, winners, losers, failures)
	}()

	picked, err := r.selector.Select(ctx, g)
	if err != nil {
		return err
	}
	sel = picked
	failures = append(failures, sel.Failures...)

	for _, f := range sel.Losers {
		ok, fails := r.move(sel.Key, f, sel.RoleOf(f))
		failures = append(failures, fails...)
		if ok {
			moved[f.Path] = true
			losers++
		}
	}
	if sel.Winner != nil {
		ok, fails := r.move(sel.Key, *sel.Winner, RoleWinner)
		failures = append(failures, fails...)
		if ok {
			moved[sel.Winner.Path] = true
			winners++
		}
	}

	if r.cfg.OnSelection != nil {
		r.cfg.OnSelection(sel)
	}

	recorded = true
	r.record(sel, winners, losers, failures)
	return nil
}

// record adds a finished group to the summary and reports progress.
func (r *run) record(sel Selection, winners, losers int, failures []Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary.add(sel, winners, losers, failures)
	r.done++
	r.cfg.Reporter.GroupDone(r.done, r.total)
}

// move relocates one frame and records it in the manifest.
func (r *run) move(key string, f Frame, role string) (bool, []Failure) {
	dst, err := relocate(r.cfg.Mover, f.Path, r.destDir)

	entry := ManifestEntry{
		RunID:       r.summary.RunID,
		Time:        r.cfg.now(),
		Group:       key,
		Role:        role,
		Source:      f.Path,
		Destination: dst,
		Blurry:      f.Blurry,
		Fingerprint: f.Fingerprint,
		Meta:        f.Meta,
	}
	if f.Scored {
		score := f.Score
		entry.Score = &score
	}

	var fails []Failure
	if err != nil {
		slog.Warn("burstpick: relocation failed", "group", key, "path", f.Path, "error", err.Error())
		entry.Error = err.Error()
		fails = append(fails, Failure{Path: f.Path, Stage: StageRelocate, Err: err})
	} else {
		slog.Debug("burstpick: relocated", "group", key, "role", role, "from", f.Path, "to", dst)
	}

	if werr := r.manifest.write(entry); werr != nil {
		slog.Warn("burstpick: manifest write failed", "path", f.Path, "error", werr.Error())
		fails = append(fails, Failure{Path: f.Path, Stage: StageManifest, Err: werr})
	}
	return err == nil, fails
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("resolve %q: %w", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("resolve %q: %w", b, err)
	}
	return absA == absB, nil
}
