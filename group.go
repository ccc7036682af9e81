package burstpick

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// BurstGroup is the set of paths sharing one group key, in listing order.
type BurstGroup struct {
	Key   string
	Paths []string
}

// GroupKey returns the first keyLength characters of the filename stem.
// The stem ends at the first '.', so "C001a.raw.jpg" has stem "C001a".
// Shorter stems are used whole.
func GroupKey(name string, keyLength int) string {
	stem, _, _ := strings.Cut(filepath.Base(name), ".")
	runes := []rune(stem)
	if keyLength >= 0 && len(runes) > keyLength {
		runes = runes[:keyLength]
	}
	return string(runes)
}

// GroupNames partitions names (entries of dir) by GroupKey. Groups appear in
// first-seen key order and keep the order of names inside each group.
func GroupNames(dir string, names []string, keyLength int) []BurstGroup {
	var groups []BurstGroup
	index := make(map[string]int)
	for _, name := range names {
		key := GroupKey(name, keyLength)
		path := filepath.Join(dir, name)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, BurstGroup{Key: key})
		}
		groups[i].Paths = append(groups[i].Paths, path)
	}
	return groups
}

// ListGroups lists the regular files of dir and groups them with GroupNames.
// Entries whose absolute path is in skip are left out, so a destination
// directory nested in the source is never treated as a candidate.
//
// A missing or unreadable dir yields no groups and an error wrapping
// ErrSourceDir; an empty dir yields no groups and no error.
func ListGroups(dir string, keyLength int, skip ...string) ([]BurstGroup, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrSourceDir, dir)
		}
		return nil, fmt.Errorf("%w: %w", ErrSourceDir, err)
	}

	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		if s == "" {
			continue
		}
		if abs, err := filepath.Abs(s); err == nil {
			skipped[abs] = true
		}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if abs, err := filepath.Abs(path); err == nil && skipped[abs] {
			continue
		}
		if !e.Type().IsRegular() {
			slog.Debug("burstpick: skipping non-regular entry", "path", path, "mode", e.Type().String())
			continue
		}
		names = append(names, e.Name())
	}

	return GroupNames(dir, names, keyLength), nil
}
